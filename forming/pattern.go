package forming

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrEmptyPattern is returned when a pattern sketch has no circular edges.
var ErrEmptyPattern = errors.New("forming: pattern has no circles or arcs")

// Edge is an edge of a pattern sketch.
type Edge interface {
	// Center returns the center of circular edges. ok is false for
	// edges which do not mark a placement.
	Center() (center r3.Vec, ok bool)
}

// Circle is a full circle of a pattern sketch.
type Circle struct {
	Origin r3.Vec
	Radius float64
}

func (c Circle) Center() (r3.Vec, bool) { return c.Origin, true }

// Arc is a circular arc of a pattern sketch. Angles are in degrees.
type Arc struct {
	Origin     r3.Vec
	Radius     float64
	Start, End float64
}

func (a Arc) Center() (r3.Vec, bool) { return a.Origin, true }

// Line is a straight edge. Lines do not mark placements.
type Line struct {
	From, To r3.Vec
}

func (l Line) Center() (r3.Vec, bool) { return r3.Vec{}, false }

// Sketch is a set of edges marking where a tool is to be applied,
// one placement per circle or arc center.
type Sketch struct {
	Edges []Edge
}

// Placement positions one application of a tool relative to the base
// face centroid.
type Placement struct {
	Offset r3.Vec
	// Angle in degrees the tool is spun by about the base face direction.
	Angle float64
}

// Placements returns the placements marked by the circular edges of
// pattern, relative to baseCentroid. Without a pattern the single placement
// given by offset is returned. All placements share angle.
func Placements(baseCentroid r3.Vec, pattern *Sketch, offset r3.Vec, angle float64) ([]Placement, error) {
	if pattern == nil {
		return []Placement{{Offset: offset, Angle: angle}}, nil
	}
	var placements []Placement
	for _, e := range pattern.Edges {
		if c, ok := e.Center(); ok {
			placements = append(placements, Placement{Offset: r3.Sub(c, baseCentroid), Angle: angle})
		}
	}
	if len(placements) == 0 {
		return nil, ErrEmptyPattern
	}
	return placements, nil
}
