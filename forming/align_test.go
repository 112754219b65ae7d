package forming

import (
	"math"
	"testing"

	"github.com/soypat/sheetmetal"
	"github.com/soypat/sheetmetal/form3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

var (
	plateTop   = sheetmetal.NewFaceRef("plate", "top")
	plateRight = sheetmetal.NewFaceRef("plate", "right")
	domeBase   = sheetmetal.NewFaceRef("dome", "base")
	domeCap    = sheetmetal.NewFaceRef("dome", "dome")
)

func newPlate(t *testing.T) sheetmetal.Solid {
	t.Helper()
	s, err := form3.Plate("plate", 60, 40, 2)
	require.NoError(t, err)
	return s
}

func newDome(t *testing.T) sheetmetal.Solid {
	t.Helper()
	s, err := form3.Dome("dome", 5)
	require.NoError(t, err)
	return s
}

func face(t *testing.T, s sheetmetal.Solid, ref sheetmetal.FaceRef) sheetmetal.Face {
	t.Helper()
	f, err := s.Face(ref)
	require.NoError(t, err)
	return f
}

func assertVec(t *testing.T, want, got r3.Vec, msg string) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, msg)
	assert.InDelta(t, want.Y, got.Y, tol, msg)
	assert.InDelta(t, want.Z, got.Z, tol, msg)
}

func TestFaceDirection(t *testing.T) {
	top := face(t, newPlate(t), plateTop)
	dir, c := FaceDirection(top)
	assertVec(t, r3.Vec{Z: -1}, dir, "direction points into the plate")
	assertVec(t, r3.Vec{}, c, "centroid")
}

func TestAngleBetween(t *testing.T) {
	assert.InDelta(t, 90, AngleBetween(r3.Vec{X: 1}, r3.Vec{Y: 2}), tol)
	assert.InDelta(t, 180, AngleBetween(r3.Vec{Z: 1}, r3.Vec{Z: -3}), tol)
	assert.InDelta(t, 45, AngleBetween(r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1}), tol)
	assert.Zero(t, AngleBetween(r3.Vec{}, r3.Vec{X: 1}))
}

func TestAlignAntiParallel(t *testing.T) {
	plate, dome := newPlate(t), newDome(t)
	top, base := face(t, plate, plateTop), face(t, dome, domeBase)

	al := SolveAlignment(base, top, r3.Vec{}, 0)
	assert.True(t, al.FallbackAxis, "parallel directions use the fallback axis")
	assert.False(t, al.Degenerate)
	assert.InDelta(t, 180, al.Angle, tol)
	assert.False(t, math.IsNaN(al.Axis.X+al.Axis.Y+al.Axis.Z))
	assert.Greater(t, r3.Norm(al.Axis), axisTolerance)
	assert.False(t, al.Transform.IsIdentity())

	aligned := Align(dome, base, top, r3.Vec{}, 0)
	require.NoError(t, aligned.Validate())
	moved := face(t, aligned, domeBase)
	assertVec(t, top.Centroid(), moved.Centroid(), "tool face planted on base face")
	// The dome now points into the plate.
	assert.Less(t, aligned.Evaluate(r3.Vec{Z: -4}), 0.0)
	assert.Greater(t, aligned.Evaluate(r3.Vec{Z: 1}), 0.0)
	assert.InEpsilon(t, sheetmetal.Volume(dome.SDF(), 0.1), sheetmetal.Volume(aligned.SDF(), 0.1), 0.05)

	// Input solid untouched.
	assertVec(t, r3.Vec{Z: 5}, face(t, dome, domeCap).Patch.Samples()[0], "dome pole")
	assert.Less(t, dome.Evaluate(r3.Vec{Z: 4}), 0.0)
}

func TestAlignOrthogonal(t *testing.T) {
	plate, dome := newPlate(t), newDome(t)
	right, base := face(t, plate, plateRight), face(t, dome, domeBase)
	al := SolveAlignment(base, right, r3.Vec{}, 0)
	assert.False(t, al.FallbackAxis)
	assert.InDelta(t, 90, al.Angle, tol)

	aligned := Align(dome, base, right, r3.Vec{}, 0)
	c := right.Centroid()
	assert.Less(t, aligned.Evaluate(r3.Add(c, r3.Vec{X: -4})), 0.0, "dome points into the plate through its right side")
	assert.Greater(t, aligned.Evaluate(r3.Add(c, r3.Vec{X: 1})), 0.0)
	assert.Greater(t, aligned.Evaluate(r3.Add(c, r3.Vec{Z: 6})), 0.0, "beyond the rim of the planted base disk")
	assert.Greater(t, aligned.Evaluate(r3.Add(c, r3.Vec{X: 1, Z: 4})), 0.0)
}

func TestAlignAngleAndOffset(t *testing.T) {
	plate := newPlate(t)
	key, err := form3.Box("key", r3.Vec{X: 4, Y: 2, Z: 2})
	require.NoError(t, err)
	top := face(t, plate, plateTop)
	bottom := face(t, key, sheetmetal.NewFaceRef("key", "bottom"))

	straight := Align(key, bottom, top, r3.Vec{}, 0)
	assert.Less(t, straight.Evaluate(r3.Vec{X: 1.5, Z: -1}), 0.0)
	assert.Greater(t, straight.Evaluate(r3.Vec{Y: 1.5, Z: -1}), 0.0)

	spun := Align(key, bottom, top, r3.Vec{X: 10}, 90)
	assert.Less(t, spun.Evaluate(r3.Vec{X: 10, Y: 1.5, Z: -1}), 0.0, "long side spun onto Y")
	assert.Greater(t, spun.Evaluate(r3.Vec{X: 11.5, Z: -1}), 0.0)
	assertVec(t, r3.Vec{X: 10}, face(t, spun, sheetmetal.NewFaceRef("key", "bottom")).Centroid(), "offset applied")
}

func TestAlignDegenerateFallbackAxis(t *testing.T) {
	// Tool direction along Y makes the fallback axis vanish as well.
	plate := newPlate(t)
	back := face(t, plate, sheetmetal.NewFaceRef("plate", "back"))
	front := face(t, plate, sheetmetal.NewFaceRef("plate", "front"))
	al := SolveAlignment(front, back, r3.Vec{}, 0)
	assert.True(t, al.FallbackAxis)
	assert.True(t, al.Degenerate)
	// Only translated: the front face is moved onto the back face.
	assertVec(t, back.Centroid(), al.Transform.Apply(front.Centroid()), "translation still applied")
}
