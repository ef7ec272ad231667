package camera

// CameraController accumulates user input between simulation ticks and applies
// it to a Camera when Tick is called. Key handlers toggle persistent movement
// flags; mouse and scroll handlers accumulate deltas that are consumed by the
// next Tick. All methods are safe to call from the window's event thread while
// the tick loop runs concurrently.
type CameraController interface {
	// OnKey updates a movement flag from a key transition. Keys that have no
	// movement binding are ignored.
	//
	// Parameters:
	//   - key: the key code (common.Key* constants)
	//   - down: true for press, false for release
	//
	// Returns:
	//   - bool: true if the key mapped to a movement flag
	OnKey(key uint32, down bool) bool

	// OnMouseMove accumulates a relative mouse motion delta. Deltas sum until
	// the next Tick consumes them.
	//
	// Parameters:
	//   - dx: horizontal motion in pixels (positive = right)
	//   - dy: vertical motion in pixels (positive = down)
	OnMouseMove(dx, dy float32)

	// OnScroll accumulates a scroll wheel delta for dolly movement along the
	// view direction.
	//
	// Parameters:
	//   - delta: scroll amount (positive = toward the scene)
	OnScroll(delta float32)

	// Tick applies all held movement flags and pending deltas to the camera,
	// scaled by dt, then clears the deltas. Movement flags persist until the
	// matching key release. Calling Tick with no pending input leaves the
	// camera unchanged.
	//
	// Parameters:
	//   - cam: the camera to steer
	//   - dt: elapsed time in seconds since the previous tick
	Tick(cam Camera, dt float32)

	// MoveSpeed returns the translation speed in world units per second.
	//
	// Returns:
	//   - float32: the movement speed
	MoveSpeed() float32

	// MouseSensitivity returns the rotation sensitivity multiplier.
	//
	// Returns:
	//   - float32: the mouse sensitivity
	MouseSensitivity() float32

	// ScrollSpeed returns the dolly speed multiplier for scroll input.
	//
	// Returns:
	//   - float32: the scroll speed
	ScrollSpeed() float32

	// MoveFlags returns the current state of all six movement flags.
	//
	// Returns:
	//   - forward, backward, left, right, up, down: flag states
	MoveFlags() (forward, backward, left, right, up, down bool)

	// RotationDelta returns the accumulated mouse rotation deltas pending
	// consumption by the next Tick.
	//
	// Returns:
	//   - horizontal, vertical: pending rotation deltas in pixels
	RotationDelta() (horizontal, vertical float32)

	// ScrollDelta returns the accumulated scroll delta pending consumption by
	// the next Tick.
	//
	// Returns:
	//   - float32: the pending scroll delta
	ScrollDelta() float32

	// SetMoveSpeed sets the translation speed in world units per second.
	//
	// Parameters:
	//   - speed: the movement speed
	SetMoveSpeed(speed float32)

	// SetMouseSensitivity sets the rotation sensitivity multiplier.
	//
	// Parameters:
	//   - sensitivity: the mouse sensitivity
	SetMouseSensitivity(sensitivity float32)

	// SetScrollSpeed sets the dolly speed multiplier for scroll input.
	//
	// Parameters:
	//   - speed: the scroll speed
	SetScrollSpeed(speed float32)
}
