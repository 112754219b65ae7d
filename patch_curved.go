package sheetmetal

import (
	"math"

	"github.com/soypat/sheetmetal/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// radial returns the unit vector at azimuth phi in the plane spanned by u and w.
func radial(u, w r3.Vec, phi float64) r3.Vec {
	return r3.Add(r3.Scale(math.Cos(phi), u), r3.Scale(math.Sin(phi), w))
}

// capPatch is the part of a sphere within a polar angle of an axis.
type capPatch struct {
	center r3.Vec
	axis   r3.Vec // cap pole direction
	u      r3.Vec // azimuth reference, perpendicular to axis
	radius float64
	alpha  float64 // polar half angle of the cap
	flip   bool    // normals point at the sphere center
}

// NewSphereCap returns the spherical cap of a sphere centered at center whose
// pole lies in the direction axis. alpha is the polar half angle of the cap
// in radians, pi being the full sphere. The normal points away from the
// sphere center unless inward is set.
func NewSphereCap(center, axis r3.Vec, radius, alpha float64, inward bool) Patch {
	a := r3.Unit(axis)
	return capPatch{
		center: center,
		axis:   a,
		u:      d3.Perpendicular(a),
		radius: radius,
		alpha:  Clamp(alpha, 0, math.Pi),
		flip:   inward,
	}
}

func (c capPatch) Kind() SurfaceKind { return KindSphere }

func (c capPatch) w() r3.Vec { return r3.Cross(c.axis, c.u) }

// Centroid of a spherical zone lies halfway along its axial extent.
func (c capPatch) Centroid() r3.Vec {
	h := c.radius * (1 + math.Cos(c.alpha)) / 2
	return r3.Add(c.center, r3.Scale(h, c.axis))
}

// Parameter returns the polar and azimuthal angle of p.
func (c capPatch) Parameter(p r3.Vec) r2.Vec {
	q := r3.Sub(p, c.center)
	l := r3.Norm(q)
	if l == 0 {
		return r2.Vec{}
	}
	theta := math.Acos(Clamp(r3.Dot(q, c.axis)/l, -1, 1))
	phi := math.Atan2(r3.Dot(q, c.w()), r3.Dot(q, c.u))
	return r2.Vec{X: theta, Y: phi}
}

func (c capPatch) dir(uv r2.Vec) r3.Vec {
	sin, cos := math.Sincos(uv.X)
	return r3.Add(r3.Scale(sin, radial(c.u, c.w(), uv.Y)), r3.Scale(cos, c.axis))
}

func (c capPatch) Point(uv r2.Vec) r3.Vec {
	return r3.Add(c.center, r3.Scale(c.radius, c.dir(uv)))
}

func (c capPatch) Normal(uv r2.Vec) r3.Vec {
	n := c.dir(uv)
	if c.flip {
		return r3.Scale(-1, n)
	}
	return n
}

func (c capPatch) Distance(p r3.Vec) float64 {
	q := r3.Sub(p, c.center)
	l := r3.Norm(q)
	h := r3.Dot(q, c.axis)
	if l > 0 && h >= l*math.Cos(c.alpha) {
		return math.Abs(l - c.radius)
	}
	if l == 0 {
		return c.radius
	}
	// Closest point is on the rim circle.
	sin, cos := math.Sincos(c.alpha)
	rho := r3.Norm(r3.Sub(q, r3.Scale(h, c.axis)))
	return math.Hypot(rho-c.radius*sin, h-c.radius*cos)
}

func (c capPatch) ConcaveRadius() float64 {
	if c.flip {
		return c.radius
	}
	return math.Inf(1)
}

func (c capPatch) Offset(d float64) (Patch, bool) {
	if c.flip {
		d = -d
	}
	c.radius += d
	return c, c.radius > 0
}

func (c capPatch) Reverse() Patch {
	c.flip = !c.flip
	return c
}

func (c capPatch) Transform(t Transform) Patch {
	c.center = t.Apply(c.center)
	c.axis = t.ApplyDir(c.axis)
	c.u = t.ApplyDir(c.u)
	return c
}

func (c capPatch) Samples() []r3.Vec {
	s := []r3.Vec{c.Point(r2.Vec{})}
	for _, k := range []float64{0.5, 0.9} {
		for i := 0; i < 4; i++ {
			s = append(s, c.Point(r2.Vec{X: k * c.alpha, Y: float64(i) * math.Pi / 2}))
		}
	}
	return s
}

func (c capPatch) Bounds() r3.Box {
	return r3.Box(d3.NewBox(c.center, d3.Elem(2*c.radius)))
}

// bandPatch is the surface swept by revolving a straight segment about an
// axis: a cylinder when both radii are equal, a cone frustum otherwise.
type bandPatch struct {
	origin r3.Vec // point on the axis at height 0
	axis   r3.Vec
	u      r3.Vec // azimuth reference, perpendicular to axis
	height float64
	r0, r1 float64 // radius at heights 0 and height
	flip   bool    // normals point at the axis
}

// NewCylinder returns the lateral surface of a cylinder starting at base and
// extending height along axis.
func NewCylinder(base, axis r3.Vec, radius, height float64, inward bool) Patch {
	return NewConeBand(base, axis, radius, radius, height, inward)
}

// NewConeBand returns the lateral surface of a cone frustum starting at base
// with radius r0 and ending height along axis with radius r1.
func NewConeBand(base, axis r3.Vec, r0, r1, height float64, inward bool) Patch {
	a := r3.Unit(axis)
	return bandPatch{
		origin: base,
		axis:   a,
		u:      d3.Perpendicular(a),
		height: height,
		r0:     r0,
		r1:     r1,
		flip:   inward,
	}
}

func (b bandPatch) Kind() SurfaceKind {
	if math.Abs(b.r0-b.r1) < 1e-12 {
		return KindCylinder
	}
	return KindCone
}

func (b bandPatch) w() r3.Vec { return r3.Cross(b.axis, b.u) }

// slant returns the outward unit normal of the generating segment in
// (radial, axial) coordinates.
func (b bandPatch) slant() (nrho, nh float64) {
	dr := b.r1 - b.r0
	l := math.Hypot(dr, b.height)
	return b.height / l, -dr / l
}

func (b bandPatch) radiusAt(h float64) float64 {
	return b.r0 + (b.r1-b.r0)*h/b.height
}

func (b bandPatch) Centroid() r3.Vec {
	h := b.height / 2
	if s := b.r0 + b.r1; s > 0 {
		h = b.height * (b.r0 + 2*b.r1) / (3 * s)
	}
	return r3.Add(b.origin, r3.Scale(h, b.axis))
}

// Parameter returns the azimuth and axial height of p.
func (b bandPatch) Parameter(p r3.Vec) r2.Vec {
	q := r3.Sub(p, b.origin)
	return r2.Vec{
		X: math.Atan2(r3.Dot(q, b.w()), r3.Dot(q, b.u)),
		Y: r3.Dot(q, b.axis),
	}
}

func (b bandPatch) Point(uv r2.Vec) r3.Vec {
	rad := r3.Scale(b.radiusAt(uv.Y), radial(b.u, b.w(), uv.X))
	return r3.Add(b.origin, r3.Add(rad, r3.Scale(uv.Y, b.axis)))
}

func (b bandPatch) Normal(uv r2.Vec) r3.Vec {
	nrho, nh := b.slant()
	n := r3.Add(r3.Scale(nrho, radial(b.u, b.w(), uv.X)), r3.Scale(nh, b.axis))
	if b.flip {
		return r3.Scale(-1, n)
	}
	return n
}

func (b bandPatch) Distance(p r3.Vec) float64 {
	q := r3.Sub(p, b.origin)
	h := r3.Dot(q, b.axis)
	rho := r3.Norm(r3.Sub(q, r3.Scale(h, b.axis)))
	// Distance in the half plane to the segment (r0,0)-(r1,height).
	pa := r2.Vec{X: rho - b.r0, Y: h}
	ba := r2.Vec{X: b.r1 - b.r0, Y: b.height}
	t := Clamp(r2.Dot(pa, ba)/r2.Norm2(ba), 0, 1)
	return r2.Norm(r2.Sub(pa, r2.Scale(t, ba)))
}

func (b bandPatch) ConcaveRadius() float64 {
	nrho, _ := b.slant()
	if !b.flip || nrho < 1e-12 {
		return math.Inf(1)
	}
	return math.Min(b.r0, b.r1) / nrho
}

func (b bandPatch) Offset(d float64) (Patch, bool) {
	if b.flip {
		d = -d
	}
	nrho, nh := b.slant()
	b.r0 += d * nrho
	b.r1 += d * nrho
	b.origin = r3.Add(b.origin, r3.Scale(d*nh, b.axis))
	return b, b.r0 >= 0 && b.r1 >= 0 && b.r0+b.r1 > 0
}

func (b bandPatch) Reverse() Patch {
	b.flip = !b.flip
	return b
}

func (b bandPatch) Transform(t Transform) Patch {
	b.origin = t.Apply(b.origin)
	b.axis = t.ApplyDir(b.axis)
	b.u = t.ApplyDir(b.u)
	return b
}

func (b bandPatch) Samples() []r3.Vec {
	var s []r3.Vec
	for _, k := range []float64{0.1, 0.5, 0.9} {
		for i := 0; i < 4; i++ {
			s = append(s, b.Point(r2.Vec{X: float64(i)*math.Pi/2 + k, Y: k * b.height}))
		}
	}
	return s
}

func (b bandPatch) Bounds() r3.Box {
	top := r3.Add(b.origin, r3.Scale(b.height, b.axis))
	return r3.Box(d3.Box(circleBox(b.origin, b.axis, b.r0)).Extend(d3.Box(circleBox(top, b.axis, b.r1))))
}
