package camera

import "github.com/charmbracelet/harmonica"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithMoveSpeed sets the translation speed in world units per second.
//
// Parameters:
//   - speed: the movement speed
//
// Returns:
//   - CameraControllerOption: functional option to set the movement speed
func WithMoveSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.moveSpeed = speed
	}
}

// WithMouseSensitivity sets the rotation sensitivity multiplier applied to
// accumulated mouse deltas.
//
// Parameters:
//   - sensitivity: multiplier for mouse movement
//
// Returns:
//   - CameraControllerOption: functional option to set mouse sensitivity
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}

// WithScrollSpeed sets the dolly speed multiplier for scroll wheel input.
//
// Parameters:
//   - speed: multiplier for scroll input
//
// Returns:
//   - CameraControllerOption: functional option to set scroll speed
func WithScrollSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.scrollSpeed = speed
	}
}

// WithScrollSmoothing enables spring-damped scroll dolly. Instead of applying
// each scroll delta in full on the next tick, the dolly amount eases toward
// the accumulated input with the given angular frequency and damping ratio.
//
// Parameters:
//   - tickRate: simulation ticks per second, used to size the spring step
//   - frequency: spring angular frequency (responsiveness)
//   - damping: spring damping ratio (1.0 = critically damped)
//
// Returns:
//   - CameraControllerOption: functional option to enable scroll smoothing
func WithScrollSmoothing(tickRate int, frequency, damping float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.smoothScroll = true
		cc.dollySpring = harmonica.NewSpring(harmonica.FPS(tickRate), frequency, damping)
	}
}
