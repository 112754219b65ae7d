package sheetmetal

import (
	"math"

	"github.com/soypat/sheetmetal/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// SurfaceKind classifies the geometry underlying a Patch.
type SurfaceKind uint8

const (
	_ SurfaceKind = iota
	KindPlane
	KindSphere
	KindCylinder
	KindCone
)

func (k SurfaceKind) String() string {
	switch k {
	case KindPlane:
		return "plane"
	case KindSphere:
		return "sphere"
	case KindCylinder:
		return "cylinder"
	case KindCone:
		return "cone"
	}
	return "unknown"
}

// Patch is a bounded parametric surface. It is the geometry of a Face.
// Patches are immutable; all methods returning a Patch return a new value.
type Patch interface {
	Kind() SurfaceKind
	// Centroid returns the area centroid of the patch.
	Centroid() r3.Vec
	// Parameter returns the surface parameters of the point of the
	// underlying surface closest to p.
	Parameter(p r3.Vec) r2.Vec
	// Point evaluates the surface at uv.
	Point(uv r2.Vec) r3.Vec
	// Normal returns the unit normal at uv. It points away from
	// the material of the owning solid.
	Normal(uv r2.Vec) r3.Vec
	// Distance returns the unsigned distance from p to the bounded patch.
	Distance(p r3.Vec) float64
	// ConcaveRadius is the smallest radius of curvature of the patch
	// measured on the side its normal points to. It is +Inf for flat
	// and convex patches. Offsetting by this distance or more along the
	// normal makes the patch fold over itself.
	ConcaveRadius() float64
	// Offset moves the patch by d along its normal. ok is false
	// if the offset patch degenerates.
	Offset(d float64) (offset Patch, ok bool)
	// Reverse returns the patch with its normal flipped.
	Reverse() Patch
	// Transform applies a rigid transformation to the patch.
	Transform(t Transform) Patch
	// Samples returns points lying on the patch, used to track
	// faces through boolean operations.
	Samples() []r3.Vec
	// Bounds returns a box enclosing the patch.
	Bounds() r3.Box
}

type planar interface {
	plane() (origin, normal r3.Vec)
}

// PlaneOf returns a point and the normal of a planar patch. ok is false
// for non-planar patches.
func PlaneOf(p Patch) (origin, normal r3.Vec, ok bool) {
	pl, ok := p.(planar)
	if !ok {
		return r3.Vec{}, r3.Vec{}, false
	}
	origin, normal = pl.plane()
	return origin, normal, true
}

// rectPatch is a planar rectangle.
type rectPatch struct {
	center r3.Vec
	u, v   r3.Vec // unit in-plane axes
	n      r3.Vec // unit normal
	hu, hv float64
}

// NewRect returns a planar rectangle patch centered at center with the given
// normal. The side of length width runs along u, which is projected onto the plane.
func NewRect(center, normal, u r3.Vec, width, height float64) Patch {
	n := r3.Unit(normal)
	u = r3.Unit(r3.Sub(u, r3.Scale(r3.Dot(u, n), n)))
	return rectPatch{
		center: center,
		u:      u,
		v:      r3.Cross(n, u),
		n:      n,
		hu:     width / 2,
		hv:     height / 2,
	}
}

func (r rectPatch) Kind() SurfaceKind { return KindPlane }

func (r rectPatch) Centroid() r3.Vec { return r.center }

func (r rectPatch) plane() (origin, normal r3.Vec) { return r.center, r.n }

func (r rectPatch) Parameter(p r3.Vec) r2.Vec {
	q := r3.Sub(p, r.center)
	return r2.Vec{X: r3.Dot(q, r.u), Y: r3.Dot(q, r.v)}
}

func (r rectPatch) Point(uv r2.Vec) r3.Vec {
	return r3.Add(r.center, r3.Add(r3.Scale(uv.X, r.u), r3.Scale(uv.Y, r.v)))
}

func (r rectPatch) Normal(r2.Vec) r3.Vec { return r.n }

func (r rectPatch) Distance(p r3.Vec) float64 {
	q := r3.Sub(p, r.center)
	dx := math.Max(math.Abs(r3.Dot(q, r.u))-r.hu, 0)
	dy := math.Max(math.Abs(r3.Dot(q, r.v))-r.hv, 0)
	h := r3.Dot(q, r.n)
	return math.Sqrt(dx*dx + dy*dy + h*h)
}

func (r rectPatch) ConcaveRadius() float64 { return math.Inf(1) }

func (r rectPatch) Offset(d float64) (Patch, bool) {
	r.center = r3.Add(r.center, r3.Scale(d, r.n))
	return r, true
}

func (r rectPatch) Reverse() Patch {
	r.n = r3.Scale(-1, r.n)
	return r
}

func (r rectPatch) Transform(t Transform) Patch {
	r.center = t.Apply(r.center)
	r.u = t.ApplyDir(r.u)
	r.v = t.ApplyDir(r.v)
	r.n = t.ApplyDir(r.n)
	return r
}

func (r rectPatch) Samples() []r3.Vec {
	const k = 0.9
	s := []r3.Vec{r.center}
	for i := -1.0; i <= 1; i++ {
		for j := -1.0; j <= 1; j++ {
			if i == 0 && j == 0 {
				continue
			}
			s = append(s, r.Point(r2.Vec{X: k * i * r.hu, Y: k * j * r.hv}))
		}
	}
	return s
}

func (r rectPatch) Bounds() r3.Box {
	corners := d3.Set{
		r.Point(r2.Vec{X: -r.hu, Y: -r.hv}),
		r.Point(r2.Vec{X: r.hu, Y: -r.hv}),
		r.Point(r2.Vec{X: r.hu, Y: r.hv}),
		r.Point(r2.Vec{X: -r.hu, Y: r.hv}),
	}
	return r3.Box{Min: corners.Min(), Max: corners.Max()}
}

// diskPatch is a planar disk or annulus.
type diskPatch struct {
	center r3.Vec
	n, u   r3.Vec
	r0, r1 float64 // inner and outer radius
}

// NewDisk returns a planar disk patch of the given radius.
func NewDisk(center, normal r3.Vec, radius float64) Patch {
	return NewAnnulus(center, normal, 0, radius)
}

// NewAnnulus returns a planar ring patch between radii inner and outer.
func NewAnnulus(center, normal r3.Vec, inner, outer float64) Patch {
	n := r3.Unit(normal)
	return diskPatch{
		center: center,
		n:      n,
		u:      d3.Perpendicular(n),
		r0:     inner,
		r1:     outer,
	}
}

func (c diskPatch) Kind() SurfaceKind { return KindPlane }

func (c diskPatch) Centroid() r3.Vec { return c.center }

func (c diskPatch) plane() (origin, normal r3.Vec) { return c.center, c.n }

func (c diskPatch) w() r3.Vec { return r3.Cross(c.n, c.u) }

func (c diskPatch) Parameter(p r3.Vec) r2.Vec {
	q := r3.Sub(p, c.center)
	return r2.Vec{X: r3.Dot(q, c.u), Y: r3.Dot(q, c.w())}
}

func (c diskPatch) Point(uv r2.Vec) r3.Vec {
	return r3.Add(c.center, r3.Add(r3.Scale(uv.X, c.u), r3.Scale(uv.Y, c.w())))
}

func (c diskPatch) Normal(r2.Vec) r3.Vec { return c.n }

func (c diskPatch) Distance(p r3.Vec) float64 {
	q := r3.Sub(p, c.center)
	h := r3.Dot(q, c.n)
	rho := r3.Norm(r3.Sub(q, r3.Scale(h, c.n)))
	var dr float64
	switch {
	case rho > c.r1:
		dr = rho - c.r1
	case rho < c.r0:
		dr = c.r0 - rho
	}
	return math.Hypot(dr, h)
}

func (c diskPatch) ConcaveRadius() float64 { return math.Inf(1) }

func (c diskPatch) Offset(d float64) (Patch, bool) {
	c.center = r3.Add(c.center, r3.Scale(d, c.n))
	return c, true
}

func (c diskPatch) Reverse() Patch {
	c.n = r3.Scale(-1, c.n)
	return c
}

func (c diskPatch) Transform(t Transform) Patch {
	c.center = t.Apply(c.center)
	c.n = t.ApplyDir(c.n)
	c.u = t.ApplyDir(c.u)
	return c
}

func (c diskPatch) Samples() []r3.Vec {
	var s []r3.Vec
	if c.r0 == 0 {
		s = append(s, c.center)
	}
	for _, k := range []float64{0.5, 0.9} {
		rho := c.r0 + k*(c.r1-c.r0)
		for i := 0; i < 8; i++ {
			phi := float64(i) * math.Pi / 4
			s = append(s, c.Point(r2.Vec{X: rho * math.Cos(phi), Y: rho * math.Sin(phi)}))
		}
	}
	return s
}

func (c diskPatch) Bounds() r3.Box {
	return circleBox(c.center, c.n, c.r1)
}

// circleBox returns the bounding box of a circle.
func circleBox(center, normal r3.Vec, radius float64) r3.Box {
	e := r3.Vec{
		X: radius * math.Sqrt(math.Max(0, 1-normal.X*normal.X)),
		Y: radius * math.Sqrt(math.Max(0, 1-normal.Y*normal.Y)),
		Z: radius * math.Sqrt(math.Max(0, 1-normal.Z*normal.Z)),
	}
	return r3.Box{Min: r3.Sub(center, e), Max: r3.Add(center, e)}
}
