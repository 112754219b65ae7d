package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/sheetmetal"
	"github.com/soypat/sheetmetal/forming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const domeYAML = `
base:
  kind: plate
  name: plate
  width: 60
  depth: 40
  thickness: 2
tool:
  kind: dome
  name: dome
  radius: 5
thickness: 1
angle: 15
pattern:
  - kind: circle
    center: [-15, 0, 0]
    radius: 5
  - kind: line
    from: [0, 0, 0]
    to: [10, 0, 0]
  - kind: arc
    center: [15, 0, 0]
    radius: 5
    start: 0
    end: 180
output:
  stl: out/dome.stl
  png: out/dome.png
`

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte(domeYAML))
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "top", c.BaseFace)
	assert.Equal(t, []string{"base"}, c.ToolFaces)
	assert.Equal(t, 200, c.Output.MeshCells)
	assert.Equal(t, "out/dome.stl", c.Output.STL)
	assert.Equal(t, KindPlate, c.Base.Kind)
	assert.Equal(t, 5.0, c.Tool.Radius)
	require.Len(t, c.Pattern, 3)
	assert.Equal(t, Vec{15, 0, 0}, c.Pattern[2].Center)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(domeYAML), 0o644))
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 15.0, c.Angle)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	_, err = Parse([]byte("base: [not, a, shape]"))
	assert.Error(t, err)
}

func TestJob(t *testing.T) {
	c, err := Parse([]byte(domeYAML))
	require.NoError(t, err)
	job, err := c.Job()
	require.NoError(t, err)

	assert.Equal(t, sheetmetal.NewFaceRef("plate", "top"), job.BaseFace)
	assert.Equal(t, []sheetmetal.FaceRef{sheetmetal.NewFaceRef("dome", "base")}, job.ToolFaces)
	assert.Equal(t, 1.0, job.Thickness)
	assert.Equal(t, 15.0, job.Angle)
	require.NotNil(t, job.Pattern)
	require.Len(t, job.Pattern.Edges, 3)
	assert.Equal(t, forming.Line{To: r3.Vec{X: 10}}, job.Pattern.Edges[1])

	placements, err := forming.Placements(r3.Vec{}, job.Pattern, job.Offset, job.Angle)
	require.NoError(t, err)
	assert.Len(t, placements, 2)

	formed, err := forming.Form(context.Background(), job)
	require.NoError(t, err)
	assert.Less(t, formed.Evaluate(r3.Vec{X: -15, Z: -5.5}), 0.0)
	assert.Less(t, formed.Evaluate(r3.Vec{X: 15, Z: -5.5}), 0.0)
}

func TestJobFaceLabels(t *testing.T) {
	c, err := Parse([]byte(domeYAML))
	require.NoError(t, err)
	c.ToolFaces = []string{"nope"}
	_, err = c.Job()
	assert.ErrorIs(t, err, sheetmetal.ErrFaceNotFound)

	c.ToolFaces = []string{"base"}
	c.BaseFace = "nope"
	_, err = c.Job()
	assert.ErrorIs(t, err, sheetmetal.ErrFaceNotFound)
}

func TestJobBadShape(t *testing.T) {
	c, err := Parse([]byte(domeYAML))
	require.NoError(t, err)
	c.Tool = Shape{Kind: KindCup, Name: "cup", Radius: 5, Height: 4, RecessRadius: 2, RecessDepth: 5}
	_, err = c.Job()
	assert.ErrorContains(t, err, "building tool")
}

func TestValidate(t *testing.T) {
	for _, test := range []struct {
		name string
		edit func(*Config)
		msg  string
	}{
		{"no base name", func(c *Config) { c.Base.Name = "" }, "base name"},
		{"unknown kind", func(c *Config) { c.Tool.Kind = "torus" }, "unknown shape kind"},
		{"missing kind", func(c *Config) { c.Tool.Kind = "" }, "tool kind"},
		{"shared name", func(c *Config) { c.Tool.Name = "plate" }, "share the name"},
		{"no base face", func(c *Config) { c.BaseFace = "" }, "base_face"},
		{"no tool faces", func(c *Config) { c.ToolFaces = nil }, "tool face"},
		{"no thickness", func(c *Config) { c.Thickness = 0 }, "thickness"},
		{"bad edge", func(c *Config) { c.Pattern[0].Kind = "spline" }, "pattern edge 0"},
		{"no stl", func(c *Config) { c.Output.STL = "" }, "stl"},
		{"coarse mesh", func(c *Config) { c.Output.MeshCells = 1 }, "mesh_cells"},
	} {
		t.Run(test.name, func(t *testing.T) {
			c, err := Parse([]byte(domeYAML))
			require.NoError(t, err)
			test.edit(c)
			assert.ErrorContains(t, c.Validate(), test.msg)
		})
	}

	c, err := Parse([]byte(domeYAML))
	require.NoError(t, err)
	c.Thickness = 0
	c.DeriveThickness = true
	assert.NoError(t, c.Validate())
}
