// Package config loads forming jobs from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/soypat/sheetmetal"
	"github.com/soypat/sheetmetal/form3"
	"github.com/soypat/sheetmetal/forming"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// Vec is a point or direction written as a [x, y, z] sequence.
type Vec [3]float64

// R3 returns v as an r3.Vec.
func (v Vec) R3() r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

// Shape kinds.
const (
	KindBox      = "box"
	KindPlate    = "plate"
	KindCylinder = "cylinder"
	KindDome     = "dome"
	KindPunch    = "punch"
	KindCone     = "cone"
	KindCup      = "cup"
)

// Shape describes a faced solid. Only the fields used by Kind are read.
type Shape struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`
	// box
	Size Vec `yaml:"size,omitempty"`
	// plate
	Width     float64 `yaml:"width,omitempty"`
	Depth     float64 `yaml:"depth,omitempty"`
	Thickness float64 `yaml:"thickness,omitempty"`
	// revolved tools
	Radius    float64 `yaml:"radius,omitempty"`
	Height    float64 `yaml:"height,omitempty"`
	TopRadius float64 `yaml:"top_radius,omitempty"`
	// cup recess
	RecessRadius float64 `yaml:"recess_radius,omitempty"`
	RecessDepth  float64 `yaml:"recess_depth,omitempty"`
}

// Build returns the solid described by s.
func (s Shape) Build() (sheetmetal.Solid, error) {
	switch s.Kind {
	case KindBox:
		return form3.Box(s.Name, s.Size.R3())
	case KindPlate:
		return form3.Plate(s.Name, s.Width, s.Depth, s.Thickness)
	case KindCylinder:
		return form3.Cylinder(s.Name, s.Radius, s.Height)
	case KindDome:
		return form3.Dome(s.Name, s.Radius)
	case KindPunch:
		return form3.Punch(s.Name, s.Radius, s.Height)
	case KindCone:
		return form3.Cone(s.Name, s.Radius, s.TopRadius, s.Height)
	case KindCup:
		return form3.Cup(s.Name, s.Radius, s.Height, s.RecessRadius, s.RecessDepth)
	}
	return sheetmetal.Solid{}, fmt.Errorf("unknown shape kind %q", s.Kind)
}

// Edge kinds of a pattern sketch.
const (
	EdgeCircle = "circle"
	EdgeArc    = "arc"
	EdgeLine   = "line"
)

// Edge is an edge of a pattern sketch.
type Edge struct {
	Kind   string  `yaml:"kind"`
	Center Vec     `yaml:"center,omitempty"`
	Radius float64 `yaml:"radius,omitempty"`
	// arc angles in degrees
	Start float64 `yaml:"start,omitempty"`
	End   float64 `yaml:"end,omitempty"`
	// line ends
	From Vec `yaml:"from,omitempty"`
	To   Vec `yaml:"to,omitempty"`
}

func (e Edge) edge() (forming.Edge, error) {
	switch e.Kind {
	case EdgeCircle:
		return forming.Circle{Origin: e.Center.R3(), Radius: e.Radius}, nil
	case EdgeArc:
		return forming.Arc{Origin: e.Center.R3(), Radius: e.Radius, Start: e.Start, End: e.End}, nil
	case EdgeLine:
		return forming.Line{From: e.From.R3(), To: e.To.R3()}, nil
	}
	return nil, fmt.Errorf("unknown edge kind %q", e.Kind)
}

// Output configures the files written for a formed part.
type Output struct {
	// STL file path. Required.
	STL string `yaml:"stl"`
	// PNG preview path. No preview is rendered when empty.
	PNG string `yaml:"png,omitempty"`
	// MeshCells is the number of marching cubes cells along the longest side.
	MeshCells int `yaml:"mesh_cells"`
}

// Config is a forming job as stored on disk. Faces are named by label.
type Config struct {
	Base            Shape    `yaml:"base"`
	Tool            Shape    `yaml:"tool"`
	BaseFace        string   `yaml:"base_face"`
	ToolFaces       []string `yaml:"tool_faces"`
	Thickness       float64  `yaml:"thickness,omitempty"`
	DeriveThickness bool     `yaml:"derive_thickness,omitempty"`
	Offset          Vec      `yaml:"offset,omitempty"`
	// Angle in degrees.
	Angle      float64 `yaml:"angle,omitempty"`
	Pattern    []Edge  `yaml:"pattern,omitempty"`
	Suppressed bool    `yaml:"suppressed,omitempty"`
	Output     Output  `yaml:"output"`
}

// DefaultConfig returns the values a loaded file starts from: the tool is
// aligned by its base face onto the top face of the base.
func DefaultConfig() *Config {
	return &Config{
		BaseFace:  "top",
		ToolFaces: []string{"base"},
		Output: Output{
			STL:       "formed.stl",
			MeshCells: 200,
		},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML data over the defaults.
func Parse(data []byte) (*Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return c, nil
}

// Validate checks the fields of c without building any geometry.
func (c *Config) Validate() error {
	if err := c.Base.validate("base"); err != nil {
		return err
	}
	if err := c.Tool.validate("tool"); err != nil {
		return err
	}
	if c.Base.Name == c.Tool.Name {
		return fmt.Errorf("base and tool share the name %q", c.Base.Name)
	}
	if c.BaseFace == "" {
		return errors.New("base_face is required")
	}
	if len(c.ToolFaces) == 0 {
		return errors.New("at least one tool face is required")
	}
	if !c.DeriveThickness && !(c.Thickness > 0) {
		return fmt.Errorf("thickness must be > 0 or derived, got %g", c.Thickness)
	}
	for i, e := range c.Pattern {
		if _, err := e.edge(); err != nil {
			return fmt.Errorf("pattern edge %d: %w", i, err)
		}
	}
	if c.Output.STL == "" {
		return errors.New("output stl path is required")
	}
	if c.Output.MeshCells < 2 {
		return fmt.Errorf("mesh_cells must be 2 or larger, got %d", c.Output.MeshCells)
	}
	return nil
}

func (s Shape) validate(role string) error {
	if s.Name == "" {
		return fmt.Errorf("%s name is required", role)
	}
	switch s.Kind {
	case KindBox, KindPlate, KindCylinder, KindDome, KindPunch, KindCone, KindCup:
		return nil
	case "":
		return fmt.Errorf("%s kind is required", role)
	}
	return fmt.Errorf("%s: unknown shape kind %q", role, s.Kind)
}

// Job builds the solids of c and resolves its face labels.
func (c *Config) Job() (forming.Job, error) {
	if err := c.Validate(); err != nil {
		return forming.Job{}, err
	}
	base, err := c.Base.Build()
	if err != nil {
		return forming.Job{}, fmt.Errorf("building base: %w", err)
	}
	tool, err := c.Tool.Build()
	if err != nil {
		return forming.Job{}, fmt.Errorf("building tool: %w", err)
	}
	baseFace, err := base.FaceByLabel(c.BaseFace)
	if err != nil {
		return forming.Job{}, fmt.Errorf("base: %w", err)
	}
	job := forming.Job{
		Base:            base,
		Tool:            tool,
		BaseFace:        baseFace.Ref,
		Thickness:       c.Thickness,
		DeriveThickness: c.DeriveThickness,
		Offset:          c.Offset.R3(),
		Angle:           c.Angle,
		Suppressed:      c.Suppressed,
	}
	for _, label := range c.ToolFaces {
		f, err := tool.FaceByLabel(label)
		if err != nil {
			return forming.Job{}, fmt.Errorf("tool: %w", err)
		}
		job.ToolFaces = append(job.ToolFaces, f.Ref)
	}
	if c.Pattern != nil {
		job.Pattern = &forming.Sketch{}
		for _, e := range c.Pattern {
			edge, _ := e.edge() // checked by Validate
			job.Pattern.Edges = append(job.Pattern.Edges, edge)
		}
	}
	return job, nil
}
