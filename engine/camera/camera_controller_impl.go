package camera

import (
	"sync"

	"github.com/charmbracelet/harmonica"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/kestrelgraphics/terraview/common"
)

// cameraControllerImpl is the single implementation of CameraController.
// Window callbacks write flags and deltas under the mutex; Tick reads them
// from the tick goroutine and applies them to the camera.
type cameraControllerImpl struct {
	mu *sync.Mutex

	// Held movement flags, set on key press and cleared on key release.
	moveForward  bool
	moveBackward bool
	moveLeft     bool
	moveRight    bool
	moveUp       bool
	moveDown     bool

	// Accumulated input deltas, consumed and zeroed by Tick.
	rotateHorizontal float32
	rotateVertical   float32
	scroll           float32

	moveSpeed        float32
	mouseSensitivity float32
	scrollSpeed      float32

	// Optional spring smoothing for scroll dolly. Disabled by default so that
	// each scroll delta is applied in full on the next tick.
	smoothScroll bool
	dollySpring  harmonica.Spring
	dollyPos     float64
	dollyVel     float64
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a fly-style camera controller with sensible
// defaults: 4 units/second movement, 0.4 mouse sensitivity, and scroll dolly
// at movement speed.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:               &sync.Mutex{},
		moveSpeed:        4.0,
		mouseSensitivity: 0.4,
		scrollSpeed:      4.0,
		dollySpring:      harmonica.NewSpring(harmonica.FPS(60), 6.0, 1.0),
	}

	for _, option := range options {
		option(cc)
	}

	return cc
}

func (cc *cameraControllerImpl) OnKey(key uint32, down bool) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	switch key {
	case common.KeyW, common.KeyUp:
		cc.moveForward = down
	case common.KeyS, common.KeyDown:
		cc.moveBackward = down
	case common.KeyA, common.KeyLeft:
		cc.moveLeft = down
	case common.KeyD, common.KeyRight:
		cc.moveRight = down
	case common.KeySpace:
		cc.moveUp = down
	case common.KeyLeftShift, common.KeyRightShift:
		cc.moveDown = down
	default:
		return false
	}
	return true
}

func (cc *cameraControllerImpl) OnMouseMove(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.rotateHorizontal += dx
	cc.rotateVertical += dy
}

func (cc *cameraControllerImpl) OnScroll(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.scroll += delta
}

func (cc *cameraControllerImpl) Tick(cam Camera, dt float32) {
	cc.mu.Lock()

	position := cam.Position()
	yaw := cam.Yaw()
	pitch := cam.Pitch()

	sinYaw, cosYaw := math32.Sincos(yaw)

	// Planar movement follows the yaw heading only, so looking up or down
	// does not slow forward travel.
	forward := mgl32.Vec3{cosYaw, 0, sinYaw}
	right := mgl32.Vec3{-sinYaw, 0, cosYaw}
	forwardAmount := boolToAxis(cc.moveForward, cc.moveBackward)
	rightAmount := boolToAxis(cc.moveRight, cc.moveLeft)
	position = position.Add(forward.Mul(forwardAmount * cc.moveSpeed * dt))
	position = position.Add(right.Mul(rightAmount * cc.moveSpeed * dt))

	// Scroll dollies along the full view direction, pitch included.
	dolly := cc.scroll
	if cc.smoothScroll {
		cc.dollyPos, cc.dollyVel = cc.dollySpring.Update(cc.dollyPos, cc.dollyVel, float64(cc.scroll))
		dolly = float32(cc.dollyPos)
	}
	if dolly != 0 {
		scrollward := common.DirectionFromYawPitch(yaw, pitch)
		position = position.Add(scrollward.Mul(dolly * cc.scrollSpeed * cc.mouseSensitivity * dt))
	}
	cc.scroll = 0

	verticalAmount := boolToAxis(cc.moveUp, cc.moveDown)
	position[1] += verticalAmount * cc.moveSpeed * dt

	yaw += cc.rotateHorizontal * cc.mouseSensitivity * dt
	pitch -= cc.rotateVertical * cc.mouseSensitivity * dt

	// Deltas are consumed whether or not they produced movement, so a stale
	// mouse event can never leak into a later tick.
	cc.rotateHorizontal = 0
	cc.rotateVertical = 0

	cc.mu.Unlock()

	cam.SetPosition(position)
	cam.SetYaw(yaw)
	cam.SetPitch(pitch)
}

func (cc *cameraControllerImpl) MoveSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.moveSpeed
}

func (cc *cameraControllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}

func (cc *cameraControllerImpl) ScrollSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.scrollSpeed
}

func (cc *cameraControllerImpl) MoveFlags() (forward, backward, left, right, up, down bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.moveForward, cc.moveBackward, cc.moveLeft, cc.moveRight, cc.moveUp, cc.moveDown
}

func (cc *cameraControllerImpl) RotationDelta() (horizontal, vertical float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.rotateHorizontal, cc.rotateVertical
}

func (cc *cameraControllerImpl) ScrollDelta() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.scroll
}

func (cc *cameraControllerImpl) SetMoveSpeed(speed float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.moveSpeed = speed
}

func (cc *cameraControllerImpl) SetMouseSensitivity(sensitivity float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.mouseSensitivity = sensitivity
}

func (cc *cameraControllerImpl) SetScrollSpeed(speed float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.scrollSpeed = speed
}

// boolToAxis collapses an opposing flag pair into -1, 0, or 1.
func boolToAxis(positive, negative bool) float32 {
	var amount float32
	if positive {
		amount += 1
	}
	if negative {
		amount -= 1
	}
	return amount
}
