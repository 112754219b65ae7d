package form3

import (
	"fmt"
	"runtime/debug"

	"github.com/soypat/sheetmetal"
	"github.com/soypat/sheetmetal/form3/must3"
	"gonum.org/v1/gonum/spatial/r3"
)

type shapeErr struct {
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

func recoverShape(err *error) {
	if a := recover(); a != nil {
		*err = &shapeErr{
			panicObj: a,
			stack:    string(debug.Stack()),
		}
	}
}

// Box returns a box solid centered at the origin. Its faces are labeled
// top, bottom, right, left, back and front.
func Box(name string, size r3.Vec) (s sheetmetal.Solid, err error) {
	defer recoverShape(&err)
	return must3.Box(name, size), err
}

// Plate returns a flat sheet of the given thickness lying on the XY plane
// with its top face at z=0.
func Plate(name string, width, depth, thickness float64) (s sheetmetal.Solid, err error) {
	defer recoverShape(&err)
	b := must3.Box(name, r3.Vec{X: width, Y: depth, Z: thickness})
	return b.Translate(r3.Vec{Z: -thickness / 2}), err
}

// Cylinder returns a cylinder standing on the XY plane.
// Its faces are labeled base, side and top.
func Cylinder(name string, radius, height float64) (s sheetmetal.Solid, err error) {
	defer recoverShape(&err)
	return must3.Cylinder(name, radius, height), err
}

// Dome returns a hemispherical bump tool. Its faces are labeled base and dome.
func Dome(name string, radius float64) (s sheetmetal.Solid, err error) {
	defer recoverShape(&err)
	return must3.Dome(name, radius), err
}

// Punch returns a cylindrical punch with a hemispherical tip.
// Its faces are labeled base, side and tip.
func Punch(name string, radius, height float64) (s sheetmetal.Solid, err error) {
	defer recoverShape(&err)
	return must3.Punch(name, radius, height), err
}

// Cone returns a truncated cone tool, used for countersinks and
// conical embosses. Its faces are labeled base, side and top.
func Cone(name string, r0, r1, height float64) (s sheetmetal.Solid, err error) {
	defer recoverShape(&err)
	return must3.Cone(name, r0, r1, height), err
}

// Cup returns a cylinder with a concave spherical recess in its top.
// Its faces are labeled base, side, rim and recess.
func Cup(name string, radius, height, recessRadius, depth float64) (s sheetmetal.Solid, err error) {
	defer recoverShape(&err)
	return must3.Cup(name, radius, height, recessRadius, depth), err
}
