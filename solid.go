package sheetmetal

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/sheetmetal/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrFaceNotFound is returned when a face reference does not resolve on a solid.
	ErrFaceNotFound = errors.New("face not found")
	// ErrInvalidSolid is returned by Validate for solids enclosing no material.
	ErrInvalidSolid = errors.New("invalid solid")
)

// Solid is a closed volume described by a signed distance function together
// with its tracked boundary faces. Solids are values: every operation returns
// a new Solid and never modifies the receiver or its arguments.
type Solid struct {
	sdf   SDF3
	faces []Face
}

// NewSolid returns a solid with volume sdf and the given faces.
func NewSolid(sdf SDF3, faces ...Face) Solid {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	return Solid{sdf: sdf, faces: append([]Face(nil), faces...)}
}

// SDF returns the distance function of the solid.
func (s Solid) SDF() SDF3 { return s.sdf }

// IsZero reports whether s is the zero Solid.
func (s Solid) IsZero() bool { return s.sdf == nil }

// Evaluate returns the signed distance from p to the solid boundary.
func (s Solid) Evaluate(p r3.Vec) float64 { return s.sdf.Evaluate(p) }

// Bounds returns a box enclosing the solid.
func (s Solid) Bounds() r3.Box { return s.sdf.Bounds() }

// Faces returns a copy of the tracked faces of s.
func (s Solid) Faces() []Face {
	return append([]Face(nil), s.faces...)
}

// Face resolves ref against s.
func (s Solid) Face(ref FaceRef) (Face, error) {
	for _, f := range s.faces {
		if f.Ref == ref {
			return f, nil
		}
	}
	return Face{}, fmt.Errorf("%w: %s", ErrFaceNotFound, ref)
}

// FaceByLabel returns the first face of s with the given label.
func (s Solid) FaceByLabel(label string) (Face, error) {
	for _, f := range s.faces {
		if f.Label == label {
			return f, nil
		}
	}
	return Face{}, fmt.Errorf("%w: label %q", ErrFaceNotFound, label)
}

// MapFaces returns a copy of s with fn applied to every face.
// The volume of the solid is unchanged.
func (s Solid) MapFaces(fn func(Face) Face) Solid {
	faces := make([]Face, len(s.faces))
	for i, f := range s.faces {
		faces[i] = fn(f)
	}
	return Solid{sdf: s.sdf, faces: faces}
}

// Transform returns s moved by the rigid transform t.
func (s Solid) Transform(t Transform) Solid {
	if t.IsIdentity() {
		return s
	}
	return Solid{
		sdf:   Transform3D(s.sdf, t),
		faces: s.MapFaces(func(f Face) Face { return f.Transform(t) }).faces,
	}
}

// Translate returns s moved by v.
func (s Solid) Translate(v r3.Vec) Solid {
	return s.Transform(Translation(v))
}

// Cut returns s with the volume of tool removed. Faces of tool bounding
// the cavity are kept with their normals reversed.
func (s Solid) Cut(tool Solid) Solid {
	sdf := Difference3D(s.sdf, tool.sdf)
	faces := append(s.Faces(), tool.MapFaces(func(f Face) Face {
		f.Patch = f.Patch.Reverse()
		return f
	}).faces...)
	return Solid{sdf: sdf, faces: boundaryFaces(sdf, faces)}
}

// Fuse returns the union of s and other.
func (s Solid) Fuse(other Solid) Solid {
	sdf := Union3D(s.sdf, other.sdf)
	return Solid{sdf: sdf, faces: boundaryFaces(sdf, append(s.Faces(), other.faces...))}
}

// Common returns the intersection of s and other.
func (s Solid) Common(other Solid) Solid {
	sdf := Intersect3D(s.sdf, other.sdf)
	return Solid{sdf: sdf, faces: boundaryFaces(sdf, append(s.Faces(), other.faces...))}
}

// boundaryFaces returns the faces with a sample point on the boundary of sdf.
// Only the first face with a given reference is kept.
func boundaryFaces(sdf SDF3, faces []Face) []Face {
	tol := surfaceTolerance(sdf.Bounds())
	seen := make(map[FaceRef]bool, len(faces))
	kept := faces[:0]
	for _, f := range faces {
		if seen[f.Ref] {
			continue
		}
		for _, p := range f.Patch.Samples() {
			if math.Abs(sdf.Evaluate(p)) <= tol {
				seen[f.Ref] = true
				kept = append(kept, f)
				break
			}
		}
	}
	return kept
}

func surfaceTolerance(bb r3.Box) float64 {
	diag := d3.Box(bb).Diagonal()
	if !(diag > 1) {
		diag = 1
	}
	return 1e-6 * diag
}

// Validate checks that s encloses material within finite bounds.
func (s Solid) Validate() error {
	if s.sdf == nil {
		return fmt.Errorf("%w: no geometry", ErrInvalidSolid)
	}
	bb := d3.Box(s.sdf.Bounds())
	if !bb.IsFinite() || bb.Empty() {
		return fmt.Errorf("%w: bad bounds %v", ErrInvalidSolid, s.sdf.Bounds())
	}
	if _, ok := FindInterior(s.sdf, bb.Diagonal()/1024); !ok {
		return fmt.Errorf("%w: encloses no material", ErrInvalidSolid)
	}
	return nil
}
