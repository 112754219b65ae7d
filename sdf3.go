package sheetmetal

import (
	"math"
	"strconv"

	"github.com/soypat/sheetmetal/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// 3D signed distance nodes. Solids are built from these.

// SDF3 is the interface to a 3d signed distance function object.
type SDF3 interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the SDF3 to the point. The distance
	// is negative if the point is contained within the SDF3.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the SDF3.
	Bounds() r3.Box
}

// transform3 is an SDF3 transformed with a rigid transformation.
type transform3 struct {
	sdf     SDF3
	matrix  Transform
	inverse Transform
	bb      r3.Box
}

// Transform3D applies a rigid transformation to an SDF3. Nested
// transforms are collapsed into a single matrix.
func Transform3D(sdf SDF3, t Transform) SDF3 {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	if inner, ok := sdf.(*transform3); ok {
		t = t.Mul(inner.matrix)
		sdf = inner.sdf
	}
	return &transform3{
		sdf:     sdf,
		matrix:  t,
		inverse: t.Inv(),
		bb:      t.Box(sdf.Bounds()),
	}
}

// Evaluate returns the minimum distance to a transformed SDF3.
// Distance is preserved since the transform is rigid.
func (s *transform3) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(s.inverse.Apply(p))
}

// Bounds returns the bounding box of a transformed SDF3.
func (s *transform3) Bounds() r3.Box {
	return s.bb
}

// union3 is a union of SDF3s.
type union3 struct {
	sdf []SDF3
	bb  r3.Box
}

// Union3D returns the union of multiple SDF3 objects.
// Union3D will panic if arguments list is empty or if
// an argument SDF3 is nil.
func Union3D(sdf ...SDF3) SDF3 {
	if len(sdf) == 0 {
		panic("union requires at least one sdf")
	}
	for i, x := range sdf {
		if x == nil {
			panic("nil sdf argument (" + strconv.Itoa(i) + ") to Union3D")
		}
	}
	if len(sdf) == 1 {
		return sdf[0]
	}
	s := union3{
		sdf: sdf,
	}
	bb := d3.Box(s.sdf[0].Bounds())
	for _, x := range s.sdf[1:] {
		bb = bb.Extend(d3.Box(x.Bounds()))
	}
	s.bb = r3.Box(bb)
	return &s
}

// Evaluate returns the minimum distance to an SDF3 union.
func (s *union3) Evaluate(p r3.Vec) float64 {
	d := s.sdf[0].Evaluate(p)
	for _, x := range s.sdf[1:] {
		d = math.Min(d, x.Evaluate(p))
	}
	return d
}

// Bounds returns the bounding box of an SDF3 union.
func (s *union3) Bounds() r3.Box {
	return s.bb
}

// diff3 is the difference of two SDF3s, s0 - s1.
type diff3 struct {
	s0 SDF3
	s1 SDF3
}

// Difference3D returns the difference of two SDF3s, s0 - s1.
// Difference3D will panic if one any of the arguments is nil.
func Difference3D(s0, s1 SDF3) SDF3 {
	if s1 == nil || s0 == nil {
		panic("nil argument to Difference3D")
	}
	return &diff3{s0: s0, s1: s1}
}

// Evaluate returns the minimum distance to the SDF3 difference.
func (s *diff3) Evaluate(p r3.Vec) float64 {
	return math.Max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// Bounds returns the bounding box of the SDF3 difference.
func (s *diff3) Bounds() r3.Box {
	return s.s0.Bounds()
}

// intersection3 is the intersection of two SDF3s.
type intersection3 struct {
	s0 SDF3
	s1 SDF3
	bb r3.Box
}

// Intersect3D returns the intersection of two SDF3s.
// Intersect3D will panic if any of the arguments are nil.
func Intersect3D(s0, s1 SDF3) SDF3 {
	if s0 == nil || s1 == nil {
		panic("nil argument to Intersect3D")
	}
	bb := d3.Box(s0.Bounds()).Intersect(d3.Box(s1.Bounds()))
	if bb.Empty() {
		return empty3From(s0)
	}
	return &intersection3{s0: s0, s1: s1, bb: r3.Box(bb)}
}

// Evaluate returns the minimum distance to the SDF3 intersection.
func (s *intersection3) Evaluate(p r3.Vec) float64 {
	return math.Max(s.s0.Evaluate(p), s.s1.Evaluate(p))
}

// Bounds returns the bounding box of an SDF3 intersection.
func (s *intersection3) Bounds() r3.Box {
	return s.bb
}

// cut3 makes a planar cut through an SDF3.
type cut3 struct {
	sdf SDF3
	a   r3.Vec // point on plane
	n   r3.Vec // unit normal pointing at the removed half space
}

// Cut3D cuts an SDF3 along a plane passing through a with normal n.
// The SDF3 on the opposite side of the normal remains.
func Cut3D(sdf SDF3, a, n r3.Vec) SDF3 {
	if sdf == nil {
		panic("nil argument to Cut3D")
	}
	return &cut3{sdf: sdf, a: a, n: r3.Unit(n)}
}

// Evaluate returns the minimum distance to the cut SDF3.
func (s *cut3) Evaluate(p r3.Vec) float64 {
	return math.Max(r3.Dot(r3.Sub(p, s.a), s.n), s.sdf.Evaluate(p))
}

// Bounds returns the bounding box of the cut SDF3.
func (s *cut3) Bounds() r3.Box {
	return s.sdf.Bounds()
}

// offset3 offsets the distance function of an existing SDF3.
type offset3 struct {
	sdf      SDF3    // the underlying SDF
	distance float64 // the distance the SDF is offset by
	bb       r3.Box  // bounding box
}

// Offset3D returns an SDF3 that offsets the distance function of another SDF3.
// Positive offsets grow the solid.
func Offset3D(sdf SDF3, offset float64) SDF3 {
	s := offset3{
		sdf:      sdf,
		distance: offset,
	}
	bb := d3.Box(sdf.Bounds())
	s.bb = r3.Box(bb.Enlarge(d3.Elem(2 * math.Max(offset, 0))))
	return &s
}

// Evaluate returns the minimum distance to an offset SDF3.
func (s *offset3) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(p) - s.distance
}

// Bounds returns the bounding box of an offset SDF3.
func (s *offset3) Bounds() r3.Box {
	return s.bb
}

// band3 is the set of points within a distance of a group of surface patches.
type band3 struct {
	patches []Patch
	boxes   []d3.Box
	delta   float64
	bb      r3.Box
}

// Band3D returns an SDF3 enclosing every point within distance thickness
// of any of the patches. The patches may form an open shell.
func Band3D(thickness float64, patches ...Patch) SDF3 {
	if len(patches) == 0 {
		panic("Band3D requires at least one patch")
	}
	s := band3{
		patches: patches,
		boxes:   make([]d3.Box, len(patches)),
		delta:   thickness,
	}
	var bb d3.Box
	for i, p := range patches {
		s.boxes[i] = d3.Box(p.Bounds())
		if i == 0 {
			bb = s.boxes[i]
		} else {
			bb = bb.Extend(s.boxes[i])
		}
	}
	s.bb = r3.Box(bb.Enlarge(d3.Elem(2 * thickness)))
	return &s
}

// Evaluate returns the minimum distance to the patch band.
func (s *band3) Evaluate(p r3.Vec) float64 {
	best := math.MaxFloat64
	for i, patch := range s.patches {
		if best != math.MaxFloat64 {
			minDist2, _ := s.boxes[i].MinMaxDist2(p)
			if minDist2 >= best*best {
				continue // patch cannot be closer than the current best
			}
		}
		best = math.Min(best, patch.Distance(p))
	}
	return best - s.delta
}

// Bounds returns the bounding box of the patch band.
func (s *band3) Bounds() r3.Box {
	return s.bb
}

func empty3From(s SDF3) empty3 {
	return empty3{
		center: d3.Box(s.Bounds()).Center(),
	}
}

type empty3 struct {
	center r3.Vec
}

var _ SDF3 = empty3{}

func (e empty3) Evaluate(r3.Vec) float64 {
	return math.MaxFloat64
}

func (e empty3) Bounds() r3.Box {
	return r3.Box{
		Min: e.center,
		Max: e.center,
	}
}
