package render

import (
	"errors"

	sdfxrender "github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/sheetmetal"
	"github.com/soypat/sheetmetal/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// sdfxAdapter exposes a sheetmetal.SDF3 to the sdfx renderers.
type sdfxAdapter struct {
	s sheetmetal.SDF3
	// bb is enlarged so the bounding box faces do not lie on the surface.
	bb sdf.Box3
}

func newSDFXAdapter(s sheetmetal.SDF3) sdfxAdapter {
	bb := d3.Box(s.Bounds()).ScaleAboutCenter(1.01)
	return sdfxAdapter{
		s: s,
		bb: sdf.Box3{
			Min: v3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
			Max: v3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
		},
	}
}

func (a sdfxAdapter) Evaluate(p v3.Vec) float64 {
	return a.s.Evaluate(r3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

func (a sdfxAdapter) BoundingBox() sdf.Box3 { return a.bb }

// Mesh triangulates s with marching cubes over a uniform grid with meshCells
// cells along the longest side of its bounding box. Triangles which would
// collapse to zero area when stored in single precision are dropped.
func Mesh(s sheetmetal.SDF3, meshCells int) ([]Triangle3, error) {
	if meshCells < 2 {
		return nil, errors.New("meshCells must be 2 or larger")
	}
	if !d3.Box(s.Bounds()).IsFinite() {
		return nil, errors.New("cannot mesh unbounded SDF3")
	}
	tris := sdfxrender.ToTriangles(newSDFXAdapter(s), sdfxrender.NewMarchingCubesUniform(meshCells))
	model := make([]Triangle3, 0, len(tris))
	for _, tri := range tris {
		var t Triangle3
		for i := range t.V {
			t.V[i] = r3.Vec{X: tri[i].X, Y: tri[i].Y, Z: tri[i].Z}
		}
		if collapsed(single(t)) {
			continue
		}
		model = append(model, t)
	}
	if len(model) == 0 {
		return nil, errors.New("mesh has no triangles")
	}
	return model, nil
}

// NewMeshRenderer meshes s and returns a Renderer streaming the result.
func NewMeshRenderer(s sheetmetal.SDF3, meshCells int) (Renderer, error) {
	model, err := Mesh(s, meshCells)
	if err != nil {
		return nil, err
	}
	return NewMeshReader(model), nil
}

// collapsed reports whether t has coincident vertices or no defined normal.
func collapsed(t Triangle3) bool {
	if t.Degenerate(stlVertexTol) {
		return true
	}
	n := t.Normal()
	return !d3.IsFinite(n) || r3.Norm(n) == 0
}

// single rounds the vertices of t to float32.
func single(t Triangle3) Triangle3 {
	for i, v := range t.V {
		t.V[i] = r3.Vec{X: float64(float32(v.X)), Y: float64(float32(v.Y)), Z: float64(float32(v.Z))}
	}
	return t
}
