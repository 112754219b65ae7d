package forming

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/soypat/sheetmetal"
	"github.com/soypat/sheetmetal/form3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func domeJob(t *testing.T) Job {
	return Job{
		Base:      newPlate(t),
		Tool:      newDome(t),
		BaseFace:  plateTop,
		ToolFaces: []sheetmetal.FaceRef{domeBase},
		Thickness: 1,
	}
}

func pattern(centers ...r3.Vec) *Sketch {
	var s Sketch
	for _, c := range centers {
		s.Edges = append(s.Edges, Circle{Origin: c, Radius: 1})
	}
	return &s
}

func TestFormSuppressed(t *testing.T) {
	job := domeJob(t)
	job.Suppressed = true
	job.ToolFaces = nil // not checked
	got, err := Form(context.Background(), job)
	require.NoError(t, err)
	require.Equal(t, job.Base, got)
}

func TestFormDome(t *testing.T) {
	job := domeJob(t)
	toolFaces := job.Tool.Faces()
	baseFaces := job.Base.Faces()

	var buf bytes.Buffer
	got, err := NewFormer(WithLogger(zerolog.New(&buf))).Form(context.Background(), job)
	require.NoError(t, err)
	require.NoError(t, got.Validate())
	assert.Contains(t, buf.String(), "fallback rotation axis")

	for _, test := range []struct {
		p      r3.Vec
		inside bool
	}{
		{p: r3.Vec{X: 20, Z: -1}, inside: true}, // plate
		{p: r3.Vec{Z: -5.5}, inside: true},      // bump wall
		{p: r3.Vec{X: 5.5, Z: -1}, inside: true},
		{p: r3.Vec{Z: -1}},  // hollow
		{p: r3.Vec{Z: -3}},  // hollow below the plate
		{p: r3.Vec{Z: -7}},  // past the bump
		{p: r3.Vec{Z: 0.5}}, // nothing above the plate
	} {
		d := got.Evaluate(test.p)
		if test.inside {
			assert.Less(t, d, 0.0, "%v", test.p)
		} else {
			assert.Greater(t, d, 0.0, "%v", test.p)
		}
	}

	hit, dist, _ := sheetmetal.Raycast(got.SDF(), r3.Vec{Z: -1}, r3.Vec{Z: -1}, 1e-10, 20, 200)
	require.Greater(t, dist, 0.0)
	assert.InDelta(t, -5, hit.Z, 1e-6)
	wall, err := sheetmetal.MeasureThickness(got.SDF(), hit, r3.Vec{Z: -1})
	require.NoError(t, err)
	assert.InDelta(t, 1, wall, 1e-6)

	// Faces of the formed feature are tracked.
	_, err = got.Face(plateTop)
	assert.NoError(t, err)
	_, err = got.Face(domeCap.Derive("outer").Derive("placement/0"))
	assert.NoError(t, err)
	_, err = got.Face(domeCap.Derive("inner").Derive("placement/0"))
	assert.NoError(t, err)

	// Inputs are unchanged.
	assert.Equal(t, toolFaces, job.Tool.Faces())
	assert.Equal(t, baseFaces, job.Base.Faces())
	assert.Less(t, job.Base.Evaluate(r3.Vec{Z: -1}), 0.0)
}

func TestFormDerivedThickness(t *testing.T) {
	job := domeJob(t)
	job.Thickness = 0
	job.DeriveThickness = true
	th, err := Thickness(job)
	require.NoError(t, err)
	assert.InDelta(t, 2, th, 1e-6)

	got, err := Form(context.Background(), job)
	require.NoError(t, err)
	assert.Less(t, got.Evaluate(r3.Vec{Z: -6.5}), 0.0, "wall as thick as the plate")
	assert.Greater(t, got.Evaluate(r3.Vec{Z: -7.5}), 0.0)
}

func TestFormFallbackOffset(t *testing.T) {
	job := domeJob(t)
	job.Tool = newCup(t)
	job.ToolFaces = []sheetmetal.FaceRef{sheetmetal.NewFaceRef("cup", "base")}
	job.Thickness = 3
	var buf bytes.Buffer
	got, err := NewFormer(WithLogger(zerolog.New(&buf))).Form(context.Background(), job)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "face offset failed")
	assert.Less(t, got.Evaluate(r3.Vec{Z: -5.5}), 0.0)
}

func TestFormPatternCommutes(t *testing.T) {
	a, b := r3.Vec{X: -15}, r3.Vec{X: 15}
	job := domeJob(t)
	job.Pattern = pattern(a, b)
	ab, err := Form(context.Background(), job)
	require.NoError(t, err)
	job.Pattern = pattern(b, a)
	ba, err := Form(context.Background(), job)
	require.NoError(t, err)

	const step = 1.3
	for x := -22.0; x <= 22; x += step {
		for y := -8.0; y <= 8; y += step {
			for z := -8.0; z <= 2; z += step {
				p := r3.Vec{X: x, Y: y, Z: z}
				d1, d2 := ab.Evaluate(p), ba.Evaluate(p)
				if math.Abs(d1) < 1e-9 || math.Abs(d2) < 1e-9 {
					continue
				}
				if math.Signbit(d1) != math.Signbit(d2) {
					t.Fatalf("placement order changes result at %v: %g != %g", p, d1, d2)
				}
			}
		}
	}
	for _, c := range []r3.Vec{a, b} {
		assert.Greater(t, ab.Evaluate(r3.Add(c, r3.Vec{Z: -1})), 0.0, "hollow at %v", c)
		assert.Less(t, ab.Evaluate(r3.Add(c, r3.Vec{Z: -5.5})), 0.0, "bump at %v", c)
	}
	_, err = ab.Face(domeCap.Derive("outer").Derive("placement/1"))
	assert.NoError(t, err)
}

func TestFormPatternOverlap(t *testing.T) {
	job := domeJob(t)
	job.Pattern = pattern(r3.Vec{X: -3}, r3.Vec{X: 3})
	got, err := Form(context.Background(), job)
	require.NoError(t, err)
	require.NoError(t, got.Validate())
	job.Pattern = pattern(r3.Vec{X: 3}, r3.Vec{X: -3})
	got, err = Form(context.Background(), job)
	require.NoError(t, err)
	require.NoError(t, got.Validate())
}

func TestFormInputErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		edit func(*Job)
		want error
	}{
		{"no tool faces", func(j *Job) { j.ToolFaces = nil }, ErrNoToolFaces},
		{"missing base face", func(j *Job) { j.BaseFace = sheetmetal.NewFaceRef("plate", "nope") }, sheetmetal.ErrFaceNotFound},
		{"missing tool face", func(j *Job) { j.ToolFaces = append(j.ToolFaces, plateTop) }, sheetmetal.ErrFaceNotFound},
		{"curved base face", func(j *Job) {
			j.Base = j.Tool
			j.BaseFace = domeCap
		}, ErrNonPlanarBaseFace},
		{"zero thickness", func(j *Job) { j.Thickness = 0 }, ErrBadThickness},
		{"negative thickness", func(j *Job) { j.Thickness = -1 }, ErrBadThickness},
		{"lines only", func(j *Job) {
			j.Pattern = &Sketch{Edges: []Edge{Line{To: r3.Vec{X: 1}}}}
		}, ErrEmptyPattern},
	} {
		t.Run(test.name, func(t *testing.T) {
			job := domeJob(t)
			test.edit(&job)
			got, err := Form(context.Background(), job)
			assert.ErrorIs(t, err, test.want)
			assert.True(t, got.IsZero())
		})
	}
}

func TestFormCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Form(ctx, domeJob(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormPlacementError(t *testing.T) {
	box, err := form3.Box("box", r3.Vec{X: 2, Y: 2, Z: 2})
	require.NoError(t, err)
	job := domeJob(t)
	job.Tool = box
	job.ToolFaces = nil
	for _, f := range box.Faces() {
		job.ToolFaces = append(job.ToolFaces, f.Ref)
	}
	_, err = Form(context.Background(), job)
	var pe *PlacementError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 0, pe.Index)
	assert.Equal(t, StepOffset, pe.Step)
	assert.ErrorIs(t, err, ErrOffsetFailed)
}

func TestCombineClipError(t *testing.T) {
	plate := newPlate(t)
	small, err := form3.Box("small", r3.Vec{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)
	inside := small.Translate(r3.Vec{Z: -1})
	_, err = Combine(plate, inside, inside)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBoolean)
	assert.ErrorIs(t, err, sheetmetal.ErrInvalidSolid)
	var be *BooleanError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, StepClipShell, be.Step)
}

func TestPlacements(t *testing.T) {
	got, err := Placements(r3.Vec{Z: 1}, nil, r3.Vec{X: 2}, 30)
	require.NoError(t, err)
	assert.Equal(t, []Placement{{Offset: r3.Vec{X: 2}, Angle: 30}}, got)

	sk := &Sketch{Edges: []Edge{
		Circle{Origin: r3.Vec{X: 1, Z: 1}, Radius: 2},
		Line{From: r3.Vec{}, To: r3.Vec{Y: 5}},
		Arc{Origin: r3.Vec{Y: 4, Z: 1}, Radius: 1, Start: 0, End: 90},
	}}
	got, err = Placements(r3.Vec{Z: 1}, sk, r3.Vec{X: 100}, 45)
	require.NoError(t, err)
	assert.Equal(t, []Placement{
		{Offset: r3.Vec{X: 1}, Angle: 45},
		{Offset: r3.Vec{Y: 4}, Angle: 45},
	}, got)

	_, err = Placements(r3.Vec{}, &Sketch{}, r3.Vec{}, 0)
	assert.ErrorIs(t, err, ErrEmptyPattern)
}
