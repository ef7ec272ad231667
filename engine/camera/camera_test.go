package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraPitchClampKeepsForwardOffVertical(t *testing.T) {
	cam := NewCamera()

	// Includes values just past the clamp limit, where a margin too small
	// for float32 would round the forward Y component to exactly ±1.
	for _, pitch := range []float32{10, 1.6, 1.5707, -1.5707, -1.6, -10} {
		cam.SetPitch(pitch)
		assert.Less(t, math.Abs(float64(cam.Forward().Y())), 1.0, "pitch %g", pitch)
	}

	cam.SetPitch(10)
	assert.InDelta(t, float64(pitchLimit), float64(cam.Pitch()), 1e-6)
	cam.SetPitch(-10)
	assert.InDelta(t, float64(-pitchLimit), float64(cam.Pitch()), 1e-6)
}

func TestCameraViewProjectionComposition(t *testing.T) {
	cam := NewCamera(
		WithPosition(1, 2, 3),
		WithYaw(0.5),
		WithPitch(-0.2),
	)

	want := mgl32.Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0.5, 0, 0, 0, 0.5, 1}.
		Mul4(cam.Projection().Matrix()).
		Mul4(cam.ViewMatrix())

	got := cam.ViewProjectionMatrix()
	for i := range got {
		assert.InDelta(t, want[i], got[i], 1e-5, "element %d", i)
	}
}

func TestCameraUniformTracksViewProjection(t *testing.T) {
	cam := NewCamera(WithPosition(0, 0, 5), WithYaw(0), WithPitch(0))

	vp := cam.ViewProjectionMatrix()
	assert.Equal(t, [16]float32(vp), cam.Uniform().ViewProj)

	cam.SetPosition(mgl32.Vec3{3, 1, -2})
	vp = cam.ViewProjectionMatrix()
	assert.Equal(t, [16]float32(vp), cam.Uniform().ViewProj)
}

func TestCameraResizeUpdatesProjectionAspect(t *testing.T) {
	p, err := NewProjection(float32(math.Pi/4), 800.0/600.0, 0.1, 100)
	require.NoError(t, err)
	cam := NewCamera(WithProjection(p))

	before := cam.ViewProjectionMatrix()
	cam.Resize(1600, 900)

	assert.InDelta(t, 1600.0/900.0, cam.Projection().Aspect(), 1e-6)
	assert.NotEqual(t, before, cam.ViewProjectionMatrix())
}

func TestCameraUpdateWithoutControllerIsStable(t *testing.T) {
	cam := NewCamera()
	pos, yaw, pitch := cam.Position(), cam.Yaw(), cam.Pitch()

	cam.Update(1.0 / 60.0)

	assert.Equal(t, pos, cam.Position())
	assert.Equal(t, yaw, cam.Yaw())
	assert.Equal(t, pitch, cam.Pitch())
}
