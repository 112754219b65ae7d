package sheetmetal

import (
	"math"
	"testing"

	"github.com/soypat/sheetmetal/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestPatchSamplesOnSurface(t *testing.T) {
	const tol = 1e-12
	patches := map[string]Patch{
		"rect":    NewRect(r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{Z: 1}, r3.Vec{X: 1}, 4, 2),
		"disk":    NewDisk(r3.Vec{Z: -1}, r3.Vec{X: 1, Z: 1}, 3),
		"annulus": NewAnnulus(r3.Vec{}, r3.Vec{Y: 1}, 1, 2),
		"cap":     NewSphereCap(r3.Vec{Z: 2}, r3.Vec{Z: 1}, 5, math.Pi/3, false),
		"cyl":     NewCylinder(r3.Vec{}, r3.Vec{X: 1}, 2, 6, true),
		"cone":    NewConeBand(r3.Vec{Y: 1}, r3.Vec{Z: 1}, 3, 1, 4, false),
	}
	for name, p := range patches {
		bb := d3.Box(p.Bounds()).Enlarge(d3.Elem(tol))
		for _, s := range p.Samples() {
			if d := p.Distance(s); d > tol {
				t.Errorf("%s: sample %v at distance %g", name, s, d)
			}
			if !bb.Contains(s) {
				t.Errorf("%s: sample %v outside bounds %v", name, s, p.Bounds())
			}
		}
		c := p.Centroid()
		uv := p.Parameter(c)
		if n := r3.Norm(p.Normal(uv)); math.Abs(n-1) > tol {
			t.Errorf("%s: normal not unit: %g", name, n)
		}
	}
}

func TestPatchCentroids(t *testing.T) {
	const tol = 1e-12
	// Hemisphere centroid lies at r/2 along the axis.
	hemi := NewSphereCap(r3.Vec{}, r3.Vec{Z: 1}, 4, math.Pi/2, false)
	if got := hemi.Centroid(); !d3.EqualWithin(got, r3.Vec{Z: 2}, tol) {
		t.Errorf("hemisphere centroid %v", got)
	}
	cyl := NewCylinder(r3.Vec{}, r3.Vec{Z: 1}, 2, 6, false)
	if got := cyl.Centroid(); !d3.EqualWithin(got, r3.Vec{Z: 3}, tol) {
		t.Errorf("cylinder centroid %v", got)
	}
	// Lateral surface of a cone with apex at the top: centroid at h/3.
	cone := NewConeBand(r3.Vec{}, r3.Vec{Z: 1}, 3, 0, 9, false)
	if got := cone.Centroid(); !d3.EqualWithin(got, r3.Vec{Z: 3}, tol) {
		t.Errorf("cone centroid %v", got)
	}
}

func TestPatchDistance(t *testing.T) {
	const tol = 1e-12
	rect := NewRect(r3.Vec{}, r3.Vec{Z: 1}, r3.Vec{X: 1}, 2, 2)
	cap := NewSphereCap(r3.Vec{}, r3.Vec{Z: 1}, 1, math.Pi/2, false)
	band := NewCylinder(r3.Vec{}, r3.Vec{Z: 1}, 1, 2, false)
	annulus := NewAnnulus(r3.Vec{}, r3.Vec{Z: 1}, 1, 2)
	for _, test := range []struct {
		name string
		p    Patch
		at   r3.Vec
		want float64
	}{
		{"rect above", rect, r3.Vec{Z: 3}, 3},
		{"rect beside", rect, r3.Vec{X: 4}, 3},
		{"rect corner", rect, r3.Vec{X: 4, Y: 5}, 5},
		{"cap outside", cap, r3.Vec{Z: 3}, 2},
		{"cap inside", cap, r3.Vec{Z: 0.25}, 0.75},
		{"cap below rim", cap, r3.Vec{X: 1, Z: -2}, 2},
		{"cap center", cap, r3.Vec{}, 1},
		{"band radial", band, r3.Vec{X: 3, Z: 1}, 2},
		{"band above", band, r3.Vec{X: 1, Z: 5}, 3},
		{"band axis", band, r3.Vec{Z: 1}, 1},
		{"annulus hole", annulus, r3.Vec{}, 1},
		{"annulus ring", annulus, r3.Vec{Y: 1.5, Z: -2}, 2},
	} {
		if got := test.p.Distance(test.at); math.Abs(got-test.want) > tol {
			t.Errorf("%s: distance got %g want %g", test.name, got, test.want)
		}
	}
}

func TestPatchOffset(t *testing.T) {
	const tol = 1e-12
	cap := NewSphereCap(r3.Vec{}, r3.Vec{Z: 1}, 2, math.Pi/2, false)
	out, ok := cap.Offset(1)
	if !ok {
		t.Fatal("outward cap offset failed")
	}
	if got := out.Distance(r3.Vec{Z: 3}); got > tol {
		t.Errorf("offset cap misses pole: %g", got)
	}
	if _, ok := cap.Reverse().Offset(2); ok {
		t.Error("inward offset by the radius should degenerate")
	}
	if r := cap.Reverse().ConcaveRadius(); r != 2 {
		t.Errorf("concave radius of recess: %g", r)
	}
	if r := cap.ConcaveRadius(); !math.IsInf(r, 1) {
		t.Errorf("convex cap concave radius: %g", r)
	}

	// Cone narrowing upward: offset moves both the radii and the origin.
	cone := NewConeBand(r3.Vec{}, r3.Vec{Z: 1}, 2, 1, 1, false)
	off, ok := cone.Offset(0.5)
	if !ok {
		t.Fatal("cone offset failed")
	}
	for _, s := range cone.Samples() {
		if got := off.Distance(s); math.Abs(got-0.5) > 1e-9 {
			t.Errorf("cone offset distance at %v: %g", s, got)
		}
	}
	inner := cone.Reverse()
	want := 1 / (1 / math.Sqrt2)
	if got := inner.ConcaveRadius(); math.Abs(got-want) > 1e-9 {
		t.Errorf("inner cone concave radius got %g want %g", got, want)
	}
}

func TestPatchTransform(t *testing.T) {
	const tol = 1e-12
	tr := RotationAbout(r3.Vec{}, r3.Vec{X: 1}, math.Pi/2).Then(Translation(r3.Vec{Z: 10}))
	disk := NewDisk(r3.Vec{}, r3.Vec{Z: 1}, 1)
	moved := disk.Transform(tr)
	if got := moved.Centroid(); !d3.EqualWithin(got, r3.Vec{Z: 10}, tol) {
		t.Errorf("centroid %v", got)
	}
	n := moved.Normal(moved.Parameter(moved.Centroid()))
	if !d3.EqualWithin(n, r3.Vec{Y: -1}, tol) {
		t.Errorf("normal %v", n)
	}
	origin, normal, ok := PlaneOf(moved)
	if !ok || !d3.EqualWithin(origin, r3.Vec{Z: 10}, tol) || !d3.EqualWithin(normal, r3.Vec{Y: -1}, tol) {
		t.Errorf("plane %v %v %v", origin, normal, ok)
	}
	if _, _, ok := PlaneOf(NewCylinder(r3.Vec{}, r3.Vec{Z: 1}, 1, 1, false)); ok {
		t.Error("cylinder reported as planar")
	}
}
