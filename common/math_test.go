package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestDepthRangeCorrectionRemapsDepth(t *testing.T) {
	near := DepthRangeCorrection.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	far := DepthRangeCorrection.Mul4x1(mgl32.Vec4{0, 0, 1, 1})

	assert.InDelta(t, 0.0, near.Z(), 1e-6, "GL near plane (-1) should map to 0")
	assert.InDelta(t, 1.0, far.Z(), 1e-6, "GL far plane (1) should map to 1")
}

func TestDepthRangeCorrectionLeavesXYWUnchanged(t *testing.T) {
	v := DepthRangeCorrection.Mul4x1(mgl32.Vec4{3, -7, 0.25, 2})

	assert.InDelta(t, 3.0, v.X(), 1e-6)
	assert.InDelta(t, -7.0, v.Y(), 1e-6)
	assert.InDelta(t, 2.0, v.W(), 1e-6)
}

func TestDirectionFromYawPitch(t *testing.T) {
	// Yaw 0, pitch 0 looks along +X.
	dir := DirectionFromYawPitch(0, 0)
	assert.InDelta(t, 1.0, dir.X(), 1e-6)
	assert.InDelta(t, 0.0, dir.Y(), 1e-6)
	assert.InDelta(t, 0.0, dir.Z(), 1e-6)

	// Yaw π/2 looks along +Z.
	dir = DirectionFromYawPitch(float32(math.Pi/2), 0)
	assert.InDelta(t, 0.0, dir.X(), 1e-5)
	assert.InDelta(t, 1.0, dir.Z(), 1e-5)

	// Positive pitch tilts toward +Y; result stays unit length.
	dir = DirectionFromYawPitch(0.3, 0.7)
	assert.InDelta(t, 1.0, float64(dir.Len()), 1e-5)
	assert.Positive(t, dir.Y())
}

func TestLookToMatchesLookAt(t *testing.T) {
	eye := mgl32.Vec3{1, 2, 3}
	dir := mgl32.Vec3{0, 0, -1}
	up := mgl32.Vec3{0, 1, 0}

	got := LookTo(eye, dir, up)
	want := mgl32.LookAtV(eye, mgl32.Vec3{1, 2, 2}, up)

	for i := range got {
		assert.InDelta(t, want[i], got[i], 1e-6, "element %d", i)
	}
}
