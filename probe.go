package sheetmetal

import (
	"errors"
	"math"
	"sort"

	"github.com/soypat/sheetmetal/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Probing of distance fields: ray marching, normals, wall thickness and
// octree searches over the bounding box.

const sqrt3 = 1.7320508075688772

// ErrNoWall is returned by MeasureThickness when no wall is found along the ray.
var ErrNoWall = errors.New("no wall along ray")

// Raycast collides a ray (with an origin point from and a direction dir) with an SDF3.
// It returns the collision point, the distance travelled to reach it (t) and
// the number of steps performed. If no surface is found within maxDist and
// maxSteps t is negative.
func Raycast(s SDF3, from, dir r3.Vec, epsilon, maxDist float64, maxSteps int) (collision r3.Vec, t float64, steps int) {
	dirN := r3.Unit(dir)
	pos := from
	for {
		val := math.Abs(s.Evaluate(pos))
		if val < epsilon {
			return pos, t, steps
		}
		steps++
		if steps == maxSteps {
			return collision, -1, steps
		}
		t += val
		pos = r3.Add(from, r3.Scale(t, dirN))
		if t > maxDist {
			return collision, -1, steps
		}
	}
}

// Normal returns the normal of an SDF3 at a point (doesn't need to be on the surface).
// Computed by sampling it several times inside a box of side 2*eps centered on p.
func Normal(s SDF3, p r3.Vec, eps float64) r3.Vec {
	return r3.Unit(r3.Vec{
		X: s.Evaluate(r3.Add(p, r3.Vec{X: eps})) - s.Evaluate(r3.Add(p, r3.Vec{X: -eps})),
		Y: s.Evaluate(r3.Add(p, r3.Vec{Y: eps})) - s.Evaluate(r3.Add(p, r3.Vec{Y: -eps})),
		Z: s.Evaluate(r3.Add(p, r3.Vec{Z: eps})) - s.Evaluate(r3.Add(p, r3.Vec{Z: -eps})),
	})
}

// MeasureThickness returns the wall thickness of s measured from the surface
// point at along the direction inward. The ray is marched through the material
// until it exits and the exit point is refined by bisection.
func MeasureThickness(s SDF3, at, inward r3.Vec) (float64, error) {
	const (
		minStep   = 1e-4
		precision = 1e-9
	)
	dir := r3.Unit(inward)
	maxDist := d3.Box(s.Bounds()).Diagonal()
	pos := func(t float64) r3.Vec { return r3.Add(at, r3.Scale(t, dir)) }
	var lo, hi float64
	entered := false
	for t := 0.0; t <= maxDist; {
		d := s.Evaluate(pos(t))
		if d < 0 {
			entered = true
		} else if entered && d > 0 {
			hi = t
			break
		}
		lo = t
		t += math.Max(math.Abs(d), minStep)
	}
	if hi == 0 {
		return 0, ErrNoWall
	}
	for hi-lo > precision {
		mid := (lo + hi) / 2
		if s.Evaluate(pos(mid)) > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return (lo + hi) / 2, nil
}

// FindInterior searches the bounding box of s for a point inside the solid,
// refining octree cells down to size minCell.
func FindInterior(s SDF3, minCell float64) (r3.Vec, bool) {
	bb := d3.Box(s.Bounds()).Cube()
	c := bb.Center()
	return findInterior(s, c, bb.Size().X/2, s.Evaluate(c), minCell)
}

func findInterior(s SDF3, c r3.Vec, h, d, minCell float64) (r3.Vec, bool) {
	if d < 0 {
		return c, true
	}
	if d >= h*sqrt3 || 2*h <= minCell {
		// cell is outside the solid or too small to split
		return r3.Vec{}, false
	}
	type child struct {
		c r3.Vec
		d float64
	}
	var children [8]child
	h /= 2
	for i := range children {
		cc := octant(c, h, i)
		children[i] = child{c: cc, d: s.Evaluate(cc)}
	}
	sort.Slice(children[:], func(i, j int) bool { return children[i].d < children[j].d })
	for _, ch := range children {
		if p, ok := findInterior(s, ch.c, h, ch.d, minCell); ok {
			return p, true
		}
	}
	return r3.Vec{}, false
}

// Volume estimates the enclosed volume of s. Cells of size minCell
// crossing the boundary contribute the fraction of their volume estimated
// from the distance at their center.
func Volume(s SDF3, minCell float64) float64 {
	bb := d3.Box(s.Bounds()).Cube()
	return volume(s, bb.Center(), bb.Size().X/2, minCell)
}

func volume(s SDF3, c r3.Vec, h, minCell float64) float64 {
	d := s.Evaluate(c)
	side := 2 * h
	switch {
	case d >= h*sqrt3:
		return 0
	case d <= -h*sqrt3:
		return side * side * side
	case side <= minCell:
		return side * side * side * Clamp(0.5-d/side, 0, 1)
	}
	var v float64
	for i := 0; i < 8; i++ {
		v += volume(s, octant(c, h/2, i), h/2, minCell)
	}
	return v
}

// octant returns the center of child i of the cell centered at c
// whose children have half size h.
func octant(c r3.Vec, h float64, i int) r3.Vec {
	off := r3.Vec{X: -h, Y: -h, Z: -h}
	if i&1 != 0 {
		off.X = h
	}
	if i&2 != 0 {
		off.Y = h
	}
	if i&4 != 0 {
		off.Z = h
	}
	return r3.Add(c, off)
}
