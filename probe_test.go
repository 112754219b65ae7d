package sheetmetal

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/sheetmetal/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMeasureThickness(t *testing.T) {
	for _, thick := range []float64{0.5, 1, 2.25} {
		plate := box3{half: r3.Vec{X: 20, Y: 20, Z: thick / 2}}
		got, err := MeasureThickness(plate, r3.Vec{X: 3, Y: -4, Z: thick / 2}, r3.Vec{Z: -1})
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-thick) > 1e-6 {
			t.Errorf("thickness got %g want %g", got, thick)
		}
	}
	// Ray pointing away from the material never enters a wall.
	plate := box3{half: r3.Vec{X: 20, Y: 20, Z: 1}}
	_, err := MeasureThickness(plate, r3.Vec{Z: 1}, r3.Vec{Z: 1})
	if !errors.Is(err, ErrNoWall) {
		t.Errorf("expected ErrNoWall, got %v", err)
	}
}

func TestRaycastAndNormal(t *testing.T) {
	b := box3{half: r3.Vec{X: 1, Y: 2, Z: 3}}
	hit, dist, _ := Raycast(b, r3.Vec{X: 10}, r3.Vec{X: -1}, 1e-9, 100, 200)
	if dist < 0 {
		t.Fatal("ray missed the box")
	}
	if math.Abs(dist-9) > 1e-6 || math.Abs(hit.X-1) > 1e-6 {
		t.Errorf("hit %v at %g", hit, dist)
	}
	n := Normal(b, hit, 1e-6)
	if !d3.EqualWithin(n, r3.Vec{X: 1}, 1e-6) {
		t.Errorf("normal at hit %v", n)
	}
	if _, dist, _ := Raycast(b, r3.Vec{X: 10}, r3.Vec{X: 1}, 1e-9, 100, 200); dist >= 0 {
		t.Error("ray pointing away should miss")
	}
}

func TestFindInterior(t *testing.T) {
	// Thin wall far from the center of its bounding box.
	thin := box3{half: r3.Vec{X: 50, Y: 50, Z: 0.05}}
	shifted := Transform3D(thin, Translation(r3.Vec{Z: 30}))
	far := Union3D(shifted, Transform3D(box3{half: d3.Elem(1)}, Translation(r3.Vec{X: -40, Y: -40, Z: -40})))
	p, ok := FindInterior(far, 0.01)
	if !ok {
		t.Fatal("no interior found")
	}
	if d := far.Evaluate(p); d >= 0 {
		t.Errorf("found point %v not interior: %g", p, d)
	}
	empty := Difference3D(thin, box3{half: d3.Elem(100)})
	if p, ok := FindInterior(empty, 0.01); ok {
		t.Errorf("found interior %v in empty solid", p)
	}
}

func TestVolume(t *testing.T) {
	b := box3{half: r3.Vec{X: 2, Y: 1.5, Z: 0.5}}
	want := 4 * 3 * 1.0
	got := Volume(b, 0.02)
	if math.Abs(got-want) > 0.02*want {
		t.Errorf("box volume got %g want %g", got, want)
	}
	hollow := Difference3D(b, box3{half: r3.Vec{X: 1, Y: 0.5, Z: 1}})
	want -= 2 * 1 * 1
	got = Volume(hollow, 0.02)
	if math.Abs(got-want) > 0.02*want {
		t.Errorf("hollow volume got %g want %g", got, want)
	}
}

func TestBand3D(t *testing.T) {
	cap := NewSphereCap(r3.Vec{}, r3.Vec{Z: 1}, 5, math.Pi/2, false)
	band := Band3D(1, cap)
	for _, test := range []struct {
		p    r3.Vec
		want float64
	}{
		{r3.Vec{Z: 5}, -1},
		{r3.Vec{Z: 7}, 1},
		{r3.Vec{}, 4},
		{r3.Vec{X: 5, Z: -3}, 2},
	} {
		if got := band.Evaluate(test.p); math.Abs(got-test.want) > 1e-12 {
			t.Errorf("band at %v got %g want %g", test.p, got, test.want)
		}
	}
	bb := d3.Box(band.Bounds())
	if !bb.Contains(r3.Vec{Z: 6}) || !bb.Contains(r3.Vec{X: -6}) {
		t.Errorf("band bounds too small: %v", band.Bounds())
	}
}
