package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func testFrustum() Frustum {
	// Depth remapped to [0, 1] the same way the camera composes its
	// view-projection matrix.
	depthRange := mgl32.Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0.5, 0, 0, 0, 0.5, 1}
	proj := mgl32.Perspective(mgl32.DegToRad(60), 16.0/9.0, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	return ExtractFrustumFromMatrix(depthRange.Mul4(proj).Mul4(view))
}

func TestFrustumContainsSphereAtCenter(t *testing.T) {
	f := testFrustum()
	assert.True(t, f.ContainsSphere(mgl32.Vec3{0, 0, 0}, 1))
}

func TestFrustumRejectsSphereBehindCamera(t *testing.T) {
	f := testFrustum()
	assert.False(t, f.ContainsSphere(mgl32.Vec3{0, 0, 50}, 1))
}

func TestFrustumRejectsSphereInFrontOfNearPlane(t *testing.T) {
	f := testFrustum()
	// Between the camera (z=10) and the near plane (z=9.9).
	assert.False(t, f.ContainsSphere(mgl32.Vec3{0, 0, 9.93}, 0.001))
	// Just past the near plane.
	assert.True(t, f.ContainsSphere(mgl32.Vec3{0, 0, 9.8}, 0.001))
}

func TestFrustumRejectsSphereBeyondFarPlane(t *testing.T) {
	f := testFrustum()
	assert.False(t, f.ContainsSphere(mgl32.Vec3{0, 0, -200}, 1))
}

func TestFrustumKeepsSphereOverlappingPlane(t *testing.T) {
	f := testFrustum()
	// Center just outside the far plane but radius reaches back in.
	assert.True(t, f.ContainsSphere(mgl32.Vec3{0, 0, -95}, 10))
}

func TestFrustumPlaneNormalsAreUnitLength(t *testing.T) {
	f := testFrustum()
	for i, p := range f.Planes {
		assert.InDelta(t, 1.0, float64(p.Normal.Len()), 1e-4, "plane %d", i)
	}
}
