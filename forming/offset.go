package forming

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/soypat/sheetmetal"
	"gonum.org/v1/gonum/spatial/r3"
)

// thickenTolerance is the clearance the thickened shell keeps from the
// planes of the excluded faces.
const thickenTolerance = 1e-4

// OffsetShell builds the sheet metal wall draped over tool: the material
// within thickness of every tool face not in excluded, lying outside the tool.
// The shell is open at the planar excluded faces. If offsetting the faces
// fails the whole tool is thickened instead. An *OffsetError is returned
// when both approaches fail.
func OffsetShell(tool sheetmetal.Solid, excluded []sheetmetal.FaceRef, thickness float64) (sheetmetal.Solid, error) {
	return offsetShell(tool, excluded, thickness, zerolog.Nop())
}

func offsetShell(tool sheetmetal.Solid, excluded []sheetmetal.FaceRef, thickness float64, log zerolog.Logger) (sheetmetal.Solid, error) {
	if !(thickness > 0) {
		return sheetmetal.Solid{}, fmt.Errorf("%w: got %g", ErrBadThickness, thickness)
	}
	excl := make(map[sheetmetal.FaceRef]bool, len(excluded))
	for _, ref := range excluded {
		if _, err := tool.Face(ref); err != nil {
			return sheetmetal.Solid{}, err
		}
		excl[ref] = true
	}
	shell, primary := offsetFaces(tool, excl, thickness)
	if primary == nil {
		return shell, nil
	}
	log.Warn().Err(primary).Float64("thickness", thickness).Msg("face offset failed, thickening tool")
	shell, fallback := thicken(tool, excl, thickness)
	if fallback == nil {
		return shell, nil
	}
	return sheetmetal.Solid{}, &OffsetError{Primary: primary, Fallback: fallback}
}

// offsetFaces grows the open shell made of the faces of tool not in excl.
func offsetFaces(tool sheetmetal.Solid, excl map[sheetmetal.FaceRef]bool, thickness float64) (sheetmetal.Solid, error) {
	var kept []sheetmetal.Face
	for _, f := range tool.Faces() {
		if excl[f.Ref] {
			continue
		}
		if r := f.Patch.ConcaveRadius(); r <= thickness {
			return sheetmetal.Solid{}, fmt.Errorf("%w: face %s has curvature radius %g", ErrSelfIntersecting, f, r)
		}
		kept = append(kept, f)
	}
	if len(kept) == 0 {
		return sheetmetal.Solid{}, ErrEmptyShell
	}
	patches := make([]sheetmetal.Patch, len(kept))
	for i, f := range kept {
		patches[i] = f.Patch
	}
	sdf := sheetmetal.Difference3D(sheetmetal.Band3D(thickness, patches...), tool.SDF())
	sdf = capOpenings(sdf, tool, excl, 0)
	shell := sheetmetal.NewSolid(sdf, wallFaces(kept, thickness)...)
	if err := shell.Validate(); err != nil {
		return sheetmetal.Solid{}, err
	}
	return shell, nil
}

// thicken grows the whole tool by thickness, hollows it and opens it
// at the planar faces in excl.
func thicken(tool sheetmetal.Solid, excl map[sheetmetal.FaceRef]bool, thickness float64) (sheetmetal.Solid, error) {
	sdf := sheetmetal.Difference3D(sheetmetal.Offset3D(tool.SDF(), thickness), tool.SDF())
	sdf = capOpenings(sdf, tool, excl, thickenTolerance)
	var kept []sheetmetal.Face
	for _, f := range tool.Faces() {
		if !excl[f.Ref] {
			kept = append(kept, f)
		}
	}
	shell := sheetmetal.NewSolid(sdf, wallFaces(kept, thickness)...)
	if err := shell.Validate(); err != nil {
		return sheetmetal.Solid{}, err
	}
	return shell, nil
}

// capOpenings removes the material in front of the planar excluded faces,
// keeping clearance behind their planes.
func capOpenings(sdf sheetmetal.SDF3, tool sheetmetal.Solid, excl map[sheetmetal.FaceRef]bool, clearance float64) sheetmetal.SDF3 {
	for _, f := range tool.Faces() {
		if !excl[f.Ref] {
			continue
		}
		origin, n, ok := sheetmetal.PlaneOf(f.Patch)
		if !ok {
			continue
		}
		sdf = sheetmetal.Cut3D(sdf, r3.Sub(origin, r3.Scale(clearance, n)), n)
	}
	return sdf
}

// wallFaces returns the inner and outer walls of a shell offset from faces.
func wallFaces(faces []sheetmetal.Face, thickness float64) []sheetmetal.Face {
	walls := make([]sheetmetal.Face, 0, 2*len(faces))
	for _, f := range faces {
		walls = append(walls, sheetmetal.Face{
			Ref:   f.Ref.Derive("inner"),
			Label: f.Label + ".inner",
			Patch: f.Patch.Reverse(),
		})
		if outer, ok := f.Patch.Offset(thickness); ok {
			walls = append(walls, sheetmetal.Face{
				Ref:   f.Ref.Derive("outer"),
				Label: f.Label + ".outer",
				Patch: outer,
			})
		}
	}
	return walls
}
