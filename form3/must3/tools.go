package must3

import (
	"math"

	"github.com/soypat/sheetmetal"
	"gonum.org/v1/gonum/spatial/r3"
)

// Faced solids. Revolved tools stand on the XY plane with their axis along +Z:
// the face labeled "base" lies at z=0 facing -Z, which makes it the natural
// alignment face of a forming tool.

var (
	xAxis = r3.Vec{X: 1}
	yAxis = r3.Vec{Y: 1}
	zAxis = r3.Vec{Z: 1}
)

type faces struct {
	name string
	list []sheetmetal.Face
}

func (f *faces) add(label string, p sheetmetal.Patch) {
	f.list = append(f.list, sheetmetal.Face{
		Ref:   sheetmetal.NewFaceRef(f.name, label),
		Label: label,
		Patch: p,
	})
}

func lift(s sheetmetal.SDF3, z float64) sheetmetal.SDF3 {
	return sheetmetal.Transform3D(s, sheetmetal.Translation(r3.Vec{Z: z}))
}

// Box returns a box centered at the origin with faces labeled
// top, bottom, right, left, back and front.
func Box(name string, size r3.Vec) sheetmetal.Solid {
	sdf := newBox(size)
	h := sdf.size
	f := faces{name: name}
	f.add("top", sheetmetal.NewRect(r3.Vec{Z: h.Z}, zAxis, xAxis, size.X, size.Y))
	f.add("bottom", sheetmetal.NewRect(r3.Vec{Z: -h.Z}, r3.Scale(-1, zAxis), xAxis, size.X, size.Y))
	f.add("right", sheetmetal.NewRect(r3.Vec{X: h.X}, xAxis, yAxis, size.Y, size.Z))
	f.add("left", sheetmetal.NewRect(r3.Vec{X: -h.X}, r3.Scale(-1, xAxis), yAxis, size.Y, size.Z))
	f.add("back", sheetmetal.NewRect(r3.Vec{Y: h.Y}, yAxis, xAxis, size.X, size.Z))
	f.add("front", sheetmetal.NewRect(r3.Vec{Y: -h.Y}, r3.Scale(-1, yAxis), xAxis, size.X, size.Z))
	return sheetmetal.NewSolid(sdf, f.list...)
}

// Cylinder returns a cylinder standing on the XY plane with faces
// labeled base, side and top.
func Cylinder(name string, radius, height float64) sheetmetal.Solid {
	sdf := lift(newCylinder(height, radius), height/2)
	f := faces{name: name}
	f.add("base", sheetmetal.NewDisk(r3.Vec{}, r3.Scale(-1, zAxis), radius))
	f.add("side", sheetmetal.NewCylinder(r3.Vec{}, zAxis, radius, height, false))
	f.add("top", sheetmetal.NewDisk(r3.Vec{Z: height}, zAxis, radius))
	return sheetmetal.NewSolid(sdf, f.list...)
}

// Dome returns a hemisphere resting on the XY plane with faces labeled
// base and dome.
func Dome(name string, radius float64) sheetmetal.Solid {
	sdf := sheetmetal.Cut3D(newSphere(radius), r3.Vec{}, r3.Scale(-1, zAxis))
	f := faces{name: name}
	f.add("base", sheetmetal.NewDisk(r3.Vec{}, r3.Scale(-1, zAxis), radius))
	f.add("dome", sheetmetal.NewSphereCap(r3.Vec{}, zAxis, radius, math.Pi/2, false))
	return sheetmetal.NewSolid(sdf, f.list...)
}

// Punch returns a cylinder of the given height capped by a hemispherical
// tip. Faces are labeled base, side and tip.
func Punch(name string, radius, height float64) sheetmetal.Solid {
	if height < radius {
		panic("punch height < radius")
	}
	tip := r3.Vec{Z: height}
	sdf := sheetmetal.Union3D(
		lift(newCylinder(height, radius), height/2),
		lift(newSphere(radius), height),
	)
	f := faces{name: name}
	f.add("base", sheetmetal.NewDisk(r3.Vec{}, r3.Scale(-1, zAxis), radius))
	f.add("side", sheetmetal.NewCylinder(r3.Vec{}, zAxis, radius, height, false))
	f.add("tip", sheetmetal.NewSphereCap(tip, zAxis, radius, math.Pi/2, false))
	return sheetmetal.NewSolid(sdf, f.list...)
}

// Cone returns a truncated cone standing on the XY plane, radius r0 at the
// base and r1 at the top. Faces are labeled base, side and top, the last one
// only when r1 > 0.
func Cone(name string, r0, r1, height float64) sheetmetal.Solid {
	if r0 <= 0 {
		panic("cone base radius <= 0")
	}
	sdf := lift(newCone(height, r0, r1), height/2)
	f := faces{name: name}
	f.add("base", sheetmetal.NewDisk(r3.Vec{}, r3.Scale(-1, zAxis), r0))
	f.add("side", sheetmetal.NewConeBand(r3.Vec{}, zAxis, r0, r1, height, false))
	if r1 > 0 {
		f.add("top", sheetmetal.NewDisk(r3.Vec{Z: height}, zAxis, r1))
	}
	return sheetmetal.NewSolid(sdf, f.list...)
}

// Cup returns a cylinder whose top has a spherical recess of radius
// recessRadius sunk depth below the top. Faces are labeled base, side,
// rim and recess. The recess is concave: offsetting it outward by
// recessRadius or more folds it over itself.
func Cup(name string, radius, height, recessRadius, depth float64) sheetmetal.Solid {
	if depth <= 0 || depth >= height {
		panic("recess depth must be within (0, height)")
	}
	if depth > recessRadius {
		panic("recess deeper than its radius")
	}
	h := recessRadius - depth // recess center height above the top
	opening := math.Sqrt(recessRadius*recessRadius - h*h)
	if opening >= radius {
		panic("recess wider than cup")
	}
	center := r3.Vec{Z: height + h}
	sdf := sheetmetal.Difference3D(
		lift(newCylinder(height, radius), height/2),
		sheetmetal.Transform3D(newSphere(recessRadius), sheetmetal.Translation(center)),
	)
	f := faces{name: name}
	f.add("base", sheetmetal.NewDisk(r3.Vec{}, r3.Scale(-1, zAxis), radius))
	f.add("side", sheetmetal.NewCylinder(r3.Vec{}, zAxis, radius, height, false))
	f.add("rim", sheetmetal.NewAnnulus(r3.Vec{Z: height}, zAxis, opening, radius))
	f.add("recess", sheetmetal.NewSphereCap(center, r3.Scale(-1, zAxis), recessRadius, math.Acos(h/recessRadius), true))
	return sheetmetal.NewSolid(sdf, f.list...)
}
