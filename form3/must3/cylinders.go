package must3

import (
	"math"

	"github.com/soypat/sheetmetal/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Exact distance fields of the primitives tools are made of. All are
// centered at the origin; revolved ones have their axis along Z.

// box is a 3d box.
type box struct {
	size r3.Vec // half size
	bb   r3.Box
}

func newBox(size r3.Vec) *box {
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		panic("size <= 0")
	}
	size = r3.Scale(0.5, size)
	return &box{
		size: size,
		bb:   r3.Box{Min: r3.Scale(-1, size), Max: size},
	}
}

// Evaluate returns the minimum distance to a 3d box.
func (s *box) Evaluate(p r3.Vec) float64 {
	return sdfBox3d(p, s.size)
}

// Bounds returns the bounding box for a 3d box.
func (s *box) Bounds() r3.Box {
	return s.bb
}

// sphere is a sphere.
type sphere struct {
	radius float64
	bb     r3.Box
}

func newSphere(radius float64) *sphere {
	if radius <= 0 {
		panic("radius <= 0")
	}
	d := d3.Elem(radius)
	return &sphere{
		radius: radius,
		bb:     r3.Box{Min: r3.Scale(-1, d), Max: d},
	}
}

// Evaluate returns the minimum distance to a sphere.
func (s *sphere) Evaluate(p r3.Vec) float64 {
	return r3.Norm(p) - s.radius
}

// Bounds returns the bounding box for a sphere.
func (s *sphere) Bounds() r3.Box {
	return s.bb
}

// cylinder is a cylinder.
type cylinder struct {
	height float64 // half height
	radius float64
	bb     r3.Box
}

func newCylinder(height, radius float64) *cylinder {
	if radius <= 0 {
		panic("radius <= 0")
	}
	if height <= 0 {
		panic("height <= 0")
	}
	d := r3.Vec{X: radius, Y: radius, Z: height / 2}
	return &cylinder{
		height: height / 2,
		radius: radius,
		bb:     r3.Box{Min: r3.Scale(-1, d), Max: d},
	}
}

// Evaluate returns the minimum distance to a cylinder.
func (s *cylinder) Evaluate(p r3.Vec) float64 {
	return sdfBox2d(r2.Vec{X: math.Hypot(p.X, p.Y), Y: p.Z}, r2.Vec{X: s.radius, Y: s.height})
}

// Bounds returns the bounding box for a cylinder.
func (s *cylinder) Bounds() r3.Box {
	return s.bb
}

// cone is a truncated cone.
type cone struct {
	r0     float64 // base radius
	r1     float64 // top radius
	height float64 // half height
	u      r2.Vec  // normalized cone slope vector
	n      r2.Vec  // normal to cone slope (points outward)
	l      float64 // length of cone slope
	bb     r3.Box
}

func newCone(height, r0, r1 float64) *cone {
	if height <= 0 {
		panic("height <= 0")
	}
	if r0 < 0 || r1 < 0 || r0+r1 == 0 {
		panic("bad cone radii")
	}
	s := cone{r0: r0, r1: r1, height: height / 2}
	// cone slope vector and normal
	slope := r2.Sub(r2.Vec{X: r1, Y: s.height}, r2.Vec{X: r0, Y: -s.height})
	s.u = r2.Unit(slope)
	s.n = r2.Vec{X: s.u.Y, Y: -s.u.X}
	s.l = r2.Norm(slope)
	r := math.Max(r0, r1)
	s.bb = r3.Box{Min: r3.Vec{X: -r, Y: -r, Z: -s.height}, Max: r3.Vec{X: r, Y: r, Z: s.height}}
	return &s
}

// Evaluate returns the minimum distance to a truncated cone.
func (s *cone) Evaluate(p r3.Vec) float64 {
	// convert to SoR 2d coordinates
	p2 := r2.Vec{X: math.Hypot(p.X, p.Y), Y: p.Z}
	// is p2 above the cone?
	if p2.Y >= s.height && p2.X <= s.r1 {
		return p2.Y - s.height
	}
	// is p2 below the cone?
	if p2.Y <= -s.height && p2.X <= s.r0 {
		return -p2.Y - s.height
	}
	// distance to slope line
	v := r2.Sub(p2, r2.Vec{X: s.r0, Y: -s.height})
	dSlope := r2.Dot(v, s.n)
	// is p2 inside the cone?
	if dSlope < 0 && math.Abs(p2.Y) < s.height {
		return -math.Min(-dSlope, s.height-math.Abs(p2.Y))
	}
	// is p2 closest to the slope line?
	t := r2.Dot(v, s.u)
	if t >= 0 && t <= s.l {
		return dSlope
	}
	// is p2 closest to the base radius vertex?
	if t < 0 {
		return r2.Norm(v)
	}
	// p2 is closest to the top radius vertex
	return r2.Norm(r2.Sub(p2, r2.Vec{X: s.r1, Y: s.height}))
}

// Bounds returns the bounding box for the truncated cone.
func (s *cone) Bounds() r3.Box {
	return s.bb
}

func sdfBox3d(p, s r3.Vec) float64 {
	d := r3.Sub(d3.AbsElem(p), s)
	if d.X > 0 && d.Y > 0 && d.Z > 0 {
		return r3.Norm(d)
	}
	if d.X > 0 && d.Y > 0 {
		return math.Hypot(d.X, d.Y)
	}
	if d.X > 0 && d.Z > 0 {
		return math.Hypot(d.X, d.Z)
	}
	if d.Y > 0 && d.Z > 0 {
		return math.Hypot(d.Y, d.Z)
	}
	if d.X > 0 {
		return d.X
	}
	if d.Y > 0 {
		return d.Y
	}
	if d.Z > 0 {
		return d.Z
	}
	return d3.Max(d)
}

func sdfBox2d(p, s r2.Vec) float64 {
	p = r2.Vec{X: math.Abs(p.X), Y: math.Abs(p.Y)}
	d := r2.Sub(p, s)
	k := s.Y - s.X
	if d.X > 0 && d.Y > 0 {
		return r2.Norm(d)
	}
	if p.Y-p.X > k {
		return d.Y
	}
	return d.X
}
