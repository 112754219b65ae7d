package forming

import (
	"math"

	"github.com/soypat/sheetmetal"
	"gonum.org/v1/gonum/spatial/r3"
)

// axisTolerance is the length below which a rotation axis is considered
// degenerate.
const axisTolerance = 0.001

// fallbackAxis is crossed with the tool direction when the directions of the
// tool and base faces are parallel. The resulting axis is not guaranteed to
// orient the tool correctly for every face orientation.
var fallbackAxis = r3.Vec{Y: 1}

// FaceDirection returns the centroid of f and the direction from the
// point one unit along the normal at the centroid back to the centroid.
// It points from the face into its solid.
func FaceDirection(f sheetmetal.Face) (direction, centroid r3.Vec) {
	centroid = f.Centroid()
	normal := f.Normal(f.Parameter(centroid))
	return r3.Sub(centroid, r3.Add(normal, centroid)), centroid
}

// AngleBetween returns the angle between a and b in degrees.
// It is zero if either vector is zero.
func AngleBetween(a, b r3.Vec) float64 {
	na, nb := r3.Norm(a), r3.Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	cos := sheetmetal.Clamp(r3.Dot(a, b)/(na*nb), -1, 1)
	return sheetmetal.RtoD(math.Acos(cos))
}

// Alignment is the rigid motion that plants a tool face on a base face.
type Alignment struct {
	// Angle in degrees the tool is rotated by to face the base.
	Angle float64
	// Axis of the rotation.
	Axis r3.Vec
	// FallbackAxis is set when the face directions were parallel
	// and the axis was derived from a fixed direction instead.
	FallbackAxis bool
	// Degenerate is set when no rotation axis could be found
	// and the rotation step was skipped.
	Degenerate bool
	// Transform maps the tool onto the base.
	Transform sheetmetal.Transform
}

// SolveAlignment computes the motion that rotates toolFace to face baseFace,
// moves its centroid onto the centroid of baseFace, spins the tool angle
// degrees about the base face direction and finally shifts it by offset.
func SolveAlignment(toolFace, baseFace sheetmetal.Face, offset r3.Vec, angle float64) Alignment {
	baseDir, baseCenter := FaceDirection(baseFace)
	toolDir, toolCenter := FaceDirection(toolFace)
	al := Alignment{
		Angle: AngleBetween(baseDir, toolDir),
		Axis:  r3.Cross(baseDir, toolDir),
	}
	if r3.Norm(al.Axis) <= axisTolerance {
		al.Axis = r3.Cross(fallbackAxis, toolDir)
		al.FallbackAxis = true
	}
	var t sheetmetal.Transform
	if r3.Norm(al.Axis) > axisTolerance {
		t = sheetmetal.RotationAbout(toolCenter, al.Axis, -sheetmetal.DtoR(al.Angle))
	} else {
		al.Degenerate = true
	}
	t = t.Then(sheetmetal.Translation(r3.Sub(baseCenter, toolCenter)))
	t = t.Then(sheetmetal.RotationAbout(baseCenter, baseDir, sheetmetal.DtoR(angle)))
	al.Transform = t.Then(sheetmetal.Translation(offset))
	return al
}

// Align returns a copy of tool positioned so that toolFace lies on baseFace,
// spun by angle degrees and shifted by offset. See SolveAlignment.
func Align(tool sheetmetal.Solid, toolFace, baseFace sheetmetal.Face, offset r3.Vec, angle float64) sheetmetal.Solid {
	return tool.Transform(SolveAlignment(toolFace, baseFace, offset, angle).Transform)
}
