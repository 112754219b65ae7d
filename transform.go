package sheetmetal

import (
	"github.com/soypat/sheetmetal/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a rigid body transformation: a rotation followed by a
// translation. The zero value is the identity transform.
type Transform struct {
	m d3.Transform
}

// Translation returns the transform that moves points by v.
func Translation(v r3.Vec) Transform {
	return Transform{m: d3.Transform{}.Translate(v)}
}

// RotationAbout returns the rotation by angle radians around the line
// through center with direction axis. A zero axis yields the identity.
func RotationAbout(center, axis r3.Vec, angle float64) Transform {
	if d3.IsZero(axis, 0) || angle == 0 {
		return Transform{}
	}
	return Transform{m: d3.RotateAbout(center, r3.NewRotation(angle, axis))}
}

// Mul returns the transform that applies b first and then t.
func (t Transform) Mul(b Transform) Transform {
	return Transform{m: t.m.Mul(b.m)}
}

// Then returns the transform that applies t first and then next.
func (t Transform) Then(next Transform) Transform {
	return next.Mul(t)
}

// Apply transforms the point p.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	return t.m.Transform(p)
}

// ApplyDir transforms the direction v, ignoring translation.
func (t Transform) ApplyDir(v r3.Vec) r3.Vec {
	return t.m.Direction(v)
}

// Inv returns the inverse transform.
func (t Transform) Inv() Transform {
	return Transform{m: t.m.Inv()}
}

// Box returns the axis aligned box enclosing the transformed box b.
func (t Transform) Box(b r3.Box) r3.Box {
	return r3.Box(t.m.Box(d3.Box(b)))
}

// IsIdentity reports whether t leaves every point in place.
func (t Transform) IsIdentity() bool {
	return t.m == d3.Transform{}
}

// Equals tests the equality of the transforms to within a tolerance.
func (t Transform) Equals(b Transform, tol float64) bool {
	return t.m.Equals(b.m, tol)
}
