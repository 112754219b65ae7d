package forming

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/soypat/sheetmetal"
	"gonum.org/v1/gonum/spatial/r3"
)

// Job describes a forming feature: a tool stamped into a base one or
// more times.
type Job struct {
	Base sheetmetal.Solid
	Tool sheetmetal.Solid
	// BaseFace is the planar face of Base the tool is applied to.
	BaseFace sheetmetal.FaceRef
	// ToolFaces are the faces of Tool left out of the formed wall.
	// The first one is aligned with BaseFace.
	ToolFaces []sheetmetal.FaceRef
	// Thickness of the formed wall. Ignored when DeriveThickness is set.
	Thickness float64
	// DeriveThickness measures the thickness of Base at BaseFace.
	DeriveThickness bool
	// Offset of the tool relative to the BaseFace centroid.
	Offset r3.Vec
	// Angle in degrees the tool is spun by about the base face direction.
	Angle float64
	// Pattern, when not nil, replaces Offset with one placement per
	// circle or arc of the sketch.
	Pattern *Sketch
	// Suppressed jobs return Base unchanged.
	Suppressed bool
}

// Former runs forming jobs. The zero value is not usable, see NewFormer.
type Former struct {
	log zerolog.Logger
}

// Option configures a Former.
type Option func(*Former)

// WithLogger sets the logger diagnostics are written to.
func WithLogger(log zerolog.Logger) Option {
	return func(f *Former) { f.log = log }
}

// NewFormer returns a Former. By default nothing is logged.
func NewFormer(opts ...Option) *Former {
	f := &Former{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Form runs job with a Former that does not log.
func Form(ctx context.Context, job Job) (sheetmetal.Solid, error) {
	return NewFormer().Form(ctx, job)
}

// plan is a validated job.
type plan struct {
	toolFace   sheetmetal.Face
	excluded   []sheetmetal.FaceRef
	thickness  float64
	placements []Placement
}

// Form applies the tool of job at each of its placements in order. Each
// placement is formed on the result of the previous one. ctx is checked
// between placements. The inputs of job are never modified and no partial
// result is returned on failure.
func (fm *Former) Form(ctx context.Context, job Job) (sheetmetal.Solid, error) {
	if job.Suppressed {
		fm.log.Debug().Msg("forming suppressed")
		return job.Base, nil
	}
	p, err := fm.plan(job)
	if err != nil {
		return sheetmetal.Solid{}, err
	}
	base := job.Base
	for i, pl := range p.placements {
		if err := ctx.Err(); err != nil {
			return sheetmetal.Solid{}, err
		}
		start := time.Now()
		formed, err := fm.place(base, job, p, i, pl)
		if err != nil {
			return sheetmetal.Solid{}, err
		}
		base = formed
		fm.log.Debug().Int("placement", i).Dur("elapsed", time.Since(start)).Msg("placement formed")
	}
	return base, nil
}

// plan checks the inputs of job before any geometry is computed.
func (fm *Former) plan(job Job) (plan, error) {
	if len(job.ToolFaces) == 0 {
		return plan{}, ErrNoToolFaces
	}
	baseFace, err := job.Base.Face(job.BaseFace)
	if err != nil {
		return plan{}, fmt.Errorf("base: %w", err)
	}
	if _, _, ok := sheetmetal.PlaneOf(baseFace.Patch); !ok {
		return plan{}, fmt.Errorf("%w: %s", ErrNonPlanarBaseFace, baseFace)
	}
	p := plan{excluded: job.ToolFaces}
	for i, ref := range job.ToolFaces {
		f, err := job.Tool.Face(ref)
		if err != nil {
			return plan{}, fmt.Errorf("tool: %w", err)
		}
		if i == 0 {
			p.toolFace = f
		}
	}
	p.thickness, err = Thickness(job)
	if err != nil {
		return plan{}, err
	}
	p.placements, err = Placements(baseFace.Centroid(), job.Pattern, job.Offset, job.Angle)
	if err != nil {
		return plan{}, err
	}
	fm.log.Debug().Float64("thickness", p.thickness).Int("placements", len(p.placements)).
		Bool("derived", job.DeriveThickness).Msg("forming planned")
	return p, nil
}

// Thickness returns the wall thickness job is formed with: either the given
// one or the thickness of the base measured inward from the centroid of
// the base face.
func Thickness(job Job) (float64, error) {
	t := job.Thickness
	if job.DeriveThickness {
		f, err := job.Base.Face(job.BaseFace)
		if err != nil {
			return 0, err
		}
		_, n, ok := sheetmetal.PlaneOf(f.Patch)
		if !ok {
			return 0, ErrNonPlanarBaseFace
		}
		t, err = sheetmetal.MeasureThickness(job.Base.SDF(), f.Centroid(), r3.Scale(-1, n))
		if err != nil {
			return 0, fmt.Errorf("%w: measuring base: %v", ErrBadThickness, err)
		}
	}
	if !(t > 0) {
		return 0, fmt.Errorf("%w: got %g", ErrBadThickness, t)
	}
	return t, nil
}

// place forms a single placement on base.
func (fm *Former) place(base sheetmetal.Solid, job Job, p plan, i int, pl Placement) (sheetmetal.Solid, error) {
	fail := func(step Step, err error) (sheetmetal.Solid, error) {
		return sheetmetal.Solid{}, &PlacementError{Index: i, Step: step, Err: err}
	}
	baseFace, err := base.Face(job.BaseFace)
	if err != nil {
		return fail(StepAlign, err)
	}
	al := SolveAlignment(p.toolFace, baseFace, pl.Offset, pl.Angle)
	log := fm.log.With().Int("placement", i).Logger()
	switch {
	case al.Degenerate:
		log.Warn().Float64("angle", al.Angle).Msg("no rotation axis for parallel faces, rotation skipped")
	case al.FallbackAxis:
		log.Info().Float64("angle", al.Angle).Interface("axis", al.Axis).Msg("parallel faces, using fallback rotation axis")
	}
	// Copies made for each placement get their own face names.
	rename := renamer("placement/" + strconv.Itoa(i))
	footprint := job.Tool.Transform(al.Transform).MapFaces(rename)

	shell, err := offsetShell(job.Tool, p.excluded, p.thickness, log)
	if err != nil {
		return fail(StepOffset, err)
	}
	shell = shell.Transform(al.Transform).MapFaces(rename)

	formed, err := Combine(base, footprint, shell)
	if err != nil {
		var be *BooleanError
		if errors.As(err, &be) {
			return fail(be.Step, err)
		}
		return fail(StepFuse, err)
	}
	return formed, nil
}

func renamer(tag string) func(sheetmetal.Face) sheetmetal.Face {
	return func(f sheetmetal.Face) sheetmetal.Face {
		f.Ref = f.Ref.Derive(tag)
		return f
	}
}
