package sheetmetal

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// faceNamespace seeds the name based UUIDs of faces.
var faceNamespace = uuid.MustParse("5b0d5e3c-8f3a-4d8e-9a51-2c7e0f4b6a19")

// FaceRef identifies a face by its persistent name. References survive
// transforms and boolean operations on the solid that owns the face and
// must be resolved against the current solid with Solid.Face.
type FaceRef uuid.UUID

// NewFaceRef returns the reference named by a solid name and a face label.
// The same arguments always yield the same reference.
func NewFaceRef(solid, label string) FaceRef {
	return FaceRef(uuid.NewSHA1(faceNamespace, []byte(solid+"/"+label)))
}

// ParseFaceRef decodes a reference in its string form.
func ParseFaceRef(s string) (FaceRef, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return FaceRef{}, err
	}
	return FaceRef(id), nil
}

// Derive returns a new reference naming a face generated from r, such as
// its offset or a copy of it made for a placement.
func (r FaceRef) Derive(tag string) FaceRef {
	return FaceRef(uuid.NewSHA1(uuid.UUID(r), []byte(tag)))
}

// IsZero reports whether r is the zero reference.
func (r FaceRef) IsZero() bool { return r == FaceRef{} }

func (r FaceRef) String() string { return uuid.UUID(r).String() }

// Face is a tracked boundary face of a Solid.
type Face struct {
	Ref   FaceRef
	Label string
	Patch Patch
}

// Centroid returns the area centroid of the face.
func (f Face) Centroid() r3.Vec { return f.Patch.Centroid() }

// Parameter returns the surface parameters of the point on the face closest to p.
func (f Face) Parameter(p r3.Vec) r2.Vec { return f.Patch.Parameter(p) }

// Normal returns the outward unit normal of the face at uv.
func (f Face) Normal(uv r2.Vec) r3.Vec { return f.Patch.Normal(uv) }

// Transform returns the face moved by t. The reference is kept.
func (f Face) Transform(t Transform) Face {
	f.Patch = f.Patch.Transform(t)
	return f
}

func (f Face) String() string {
	if f.Label == "" {
		return f.Patch.Kind().String() + " " + f.Ref.String()
	}
	return f.Label + " (" + f.Patch.Kind().String() + ")"
}
