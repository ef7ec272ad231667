package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kestrelgraphics/terraview/common"
	"github.com/stretchr/testify/assert"
)

// flatCamera builds a camera at the origin looking straight down +X so that
// displacement assertions stay in axis-aligned terms.
func flatCamera(ctrl CameraController) Camera {
	return NewCamera(
		WithPosition(0, 0, 0),
		WithYaw(0),
		WithPitch(0),
		WithController(ctrl),
	)
}

func TestTickWithNoInputLeavesCameraUnchanged(t *testing.T) {
	ctrl := NewCameraController()
	cam := flatCamera(ctrl)

	for range 10 {
		ctrl.Tick(cam, 1.0/60.0)
	}

	assert.Equal(t, mgl32.Vec3{0, 0, 0}, cam.Position())
	assert.Zero(t, cam.Yaw())
	assert.Zero(t, cam.Pitch())
}

func TestKeyPressAndReleaseRoundTrip(t *testing.T) {
	ctrl := NewCameraController()

	assert.True(t, ctrl.OnKey(common.KeyW, true))
	forward, _, _, _, _, _ := ctrl.MoveFlags()
	assert.True(t, forward)

	assert.True(t, ctrl.OnKey(common.KeyW, false))
	forward, _, _, _, _, _ = ctrl.MoveFlags()
	assert.False(t, forward)
}

func TestUnboundKeysAreIgnored(t *testing.T) {
	ctrl := NewCameraController()

	assert.False(t, ctrl.OnKey(common.KeyT, true))
	assert.False(t, ctrl.OnKey(common.KeyEsc, true))

	forward, backward, left, right, up, down := ctrl.MoveFlags()
	assert.False(t, forward || backward || left || right || up || down)
}

func TestArrowKeysAliasWASD(t *testing.T) {
	ctrl := NewCameraController()

	ctrl.OnKey(common.KeyUp, true)
	ctrl.OnKey(common.KeyLeft, true)

	forward, _, left, _, _, _ := ctrl.MoveFlags()
	assert.True(t, forward)
	assert.True(t, left)
}

func TestForwardDisplacementScalesWithSpeedAndDt(t *testing.T) {
	ctrl := NewCameraController(WithMoveSpeed(2))
	cam := flatCamera(ctrl)

	ctrl.OnKey(common.KeyW, true)
	ctrl.Tick(cam, 1)

	pos := cam.Position()
	assert.InDelta(t, 2.0, pos.X(), 1e-5)
	assert.InDelta(t, 0.0, pos.Y(), 1e-5)
	assert.InDelta(t, 0.0, pos.Z(), 1e-5)
}

func TestHeldKeyKeepsMovingAcrossTicks(t *testing.T) {
	ctrl := NewCameraController(WithMoveSpeed(2))
	cam := flatCamera(ctrl)

	ctrl.OnKey(common.KeyW, true)
	ctrl.Tick(cam, 0.5)
	ctrl.Tick(cam, 0.5)

	assert.InDelta(t, 2.0, cam.Position().X(), 1e-5)

	ctrl.OnKey(common.KeyW, false)
	ctrl.Tick(cam, 0.5)
	assert.InDelta(t, 2.0, cam.Position().X(), 1e-5)
}

func TestOpposingKeysCancel(t *testing.T) {
	ctrl := NewCameraController()
	cam := flatCamera(ctrl)

	ctrl.OnKey(common.KeyW, true)
	ctrl.OnKey(common.KeyS, true)
	ctrl.Tick(cam, 1)

	assert.Equal(t, mgl32.Vec3{0, 0, 0}, cam.Position())
}

func TestVerticalMovementIsWorldAligned(t *testing.T) {
	ctrl := NewCameraController(WithMoveSpeed(3))
	cam := flatCamera(ctrl)
	cam.SetPitch(-0.5) // vertical flight must ignore pitch

	ctrl.OnKey(common.KeySpace, true)
	ctrl.Tick(cam, 1)

	pos := cam.Position()
	assert.InDelta(t, 3.0, pos.Y(), 1e-5)
	assert.InDelta(t, 0.0, pos.X(), 1e-5)
	assert.InDelta(t, 0.0, pos.Z(), 1e-5)
}

func TestMouseDeltasAccumulateAndResetOnTick(t *testing.T) {
	ctrl := NewCameraController()
	cam := flatCamera(ctrl)

	ctrl.OnMouseMove(10, 5)
	ctrl.OnMouseMove(10, 5)

	h, v := ctrl.RotationDelta()
	assert.InDelta(t, 20.0, h, 1e-6)
	assert.InDelta(t, 10.0, v, 1e-6)

	ctrl.Tick(cam, 1.0/60.0)

	h, v = ctrl.RotationDelta()
	assert.Zero(t, h)
	assert.Zero(t, v)
}

func TestMouseMotionRotatesCamera(t *testing.T) {
	ctrl := NewCameraController(WithMouseSensitivity(1))
	cam := flatCamera(ctrl)

	ctrl.OnMouseMove(0.5, 0.25)
	ctrl.Tick(cam, 1)

	assert.InDelta(t, 0.5, cam.Yaw(), 1e-5)
	// Positive vertical motion (mouse moved down) pitches the view down.
	assert.InDelta(t, -0.25, cam.Pitch(), 1e-5)
}

func TestScrollDeltaResetsAfterTick(t *testing.T) {
	ctrl := NewCameraController()
	cam := flatCamera(ctrl)

	ctrl.OnScroll(2)
	ctrl.OnScroll(1)
	assert.InDelta(t, 3.0, ctrl.ScrollDelta(), 1e-6)

	ctrl.Tick(cam, 1.0/60.0)
	assert.Zero(t, ctrl.ScrollDelta())
}

func TestScrollDolliesAlongViewDirection(t *testing.T) {
	ctrl := NewCameraController(WithScrollSpeed(2), WithMouseSensitivity(1))
	cam := flatCamera(ctrl)

	ctrl.OnScroll(1)
	ctrl.Tick(cam, 1)

	// yaw 0, pitch 0: view direction is +X, displacement = scroll * scrollSpeed * sensitivity * dt
	pos := cam.Position()
	assert.InDelta(t, 2.0, pos.X(), 1e-5)
	assert.InDelta(t, 0.0, pos.Y(), 1e-5)
	assert.InDelta(t, 0.0, pos.Z(), 1e-5)
}

func TestTickClampsPitch(t *testing.T) {
	ctrl := NewCameraController(WithMouseSensitivity(1))
	cam := flatCamera(ctrl)

	ctrl.OnMouseMove(0, -100) // mouse up, pitch up, far past vertical
	ctrl.Tick(cam, 1)

	assert.InDelta(t, float64(pitchLimit), float64(cam.Pitch()), 1e-6)
	assert.Less(t, float64(cam.Forward().Y()), 1.0)
}

func TestSmoothedScrollEasesTowardInput(t *testing.T) {
	ctrl := NewCameraController(
		WithScrollSpeed(1),
		WithMouseSensitivity(1),
		WithScrollSmoothing(60, 6.0, 1.0),
	)
	cam := flatCamera(ctrl)

	ctrl.OnScroll(10)
	ctrl.Tick(cam, 1)

	// First smoothed tick applies only part of the raw dolly distance.
	assert.Greater(t, cam.Position().X(), float32(0))
	assert.Less(t, cam.Position().X(), float32(10))
}
