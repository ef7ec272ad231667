package camera

import (
	"math"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kestrelgraphics/terraview/common"
	"github.com/kestrelgraphics/terraview/engine/renderer/bind_group_provider"
)

// pitchLimit keeps the view direction off the vertical axis so the view
// matrix basis never degenerates against the up vector. The margin must be
// wide enough that sin(pitchLimit) stays below 1 in float32.
const pitchLimit = float32(math.Pi/2) - 0.001

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

type cameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	yaw      float32
	pitch    float32
	up       mgl32.Vec3

	projection *Projection

	viewMatrix           mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4
	uniform              *GPUCameraUniform

	controller        CameraController
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera defines the interface for the first-person fly camera.
// Orientation is held as yaw/pitch angles rather than a look-at target, so
// the attached CameraController can steer it with relative mouse motion.
// Matrices are recomputed eagerly on every mutation and cached for reads.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Yaw returns the horizontal view angle in radians. Yaw 0 looks along +X,
	// increasing counter-clockwise toward +Z.
	//
	// Returns:
	//   - float32: the yaw angle in radians
	Yaw() float32

	// Pitch returns the vertical view angle in radians, clamped to just inside
	// ±π/2.
	//
	// Returns:
	//   - float32: the pitch angle in radians
	Pitch() float32

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// Forward returns the unit view direction derived from yaw and pitch.
	//
	// Returns:
	//   - mgl32.Vec3: the unit forward vector
	Forward() mgl32.Vec3

	// Projection returns the camera's perspective projection.
	//
	// Returns:
	//   - *Projection: the projection
	Projection() *Projection

	// ViewMatrix returns the current view matrix (column-major).
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns the combined matrix uploaded to the GPU:
	// depth-range correction * projection * view.
	//
	// Returns:
	//   - mgl32.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4

	// Uniform returns the GPU-layout camera uniform, kept in sync with
	// ViewProjectionMatrix. The same pointer is returned on every call.
	//
	// Returns:
	//   - *GPUCameraUniform: the camera uniform
	Uniform() *GPUCameraUniform

	// Controller returns the attached CameraController.
	// Returns nil if no controller is attached.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// BindGroupProvider returns the camera's bind group provider for GPU resources.
	// Returns nil if not set.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider or nil
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Update advances the attached controller by dt seconds and recomputes the
	// matrices. Should be called once per simulation tick. If no controller is
	// attached only the matrices are refreshed.
	//
	// Parameters:
	//   - dt: elapsed time in seconds since the previous tick
	Update(dt float32)

	// SetPosition sets the camera's world-space position.
	//
	// Parameters:
	//   - position: the new position
	SetPosition(position mgl32.Vec3)

	// SetYaw sets the horizontal view angle in radians.
	//
	// Parameters:
	//   - yaw: the yaw angle in radians
	SetYaw(yaw float32)

	// SetPitch sets the vertical view angle in radians. Values outside
	// ±(π/2 - ε) are clamped.
	//
	// Parameters:
	//   - pitch: the pitch angle in radians
	SetPitch(pitch float32)

	// SetUp sets the camera's up vector.
	//
	// Parameters:
	//   - up: the new up vector
	SetUp(up mgl32.Vec3)

	// Resize updates the projection's aspect ratio from new surface dimensions.
	//
	// Parameters:
	//   - width: new surface width in pixels
	//   - height: new surface height in pixels
	Resize(width, height int)

	// SetController attaches a CameraController to the camera.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)

	// SetBindGroupProvider sets the camera's bind group provider.
	//
	// Parameters:
	//   - provider: the bind group provider to set
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default settings: positioned at
// (0, 5, 10) looking down the -Z axis with a slight downward pitch, with a
// 45° perspective projection. A controller must be attached via
// SetController or WithController for input to move the camera.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	projection, err := NewProjection(45.0*(math.Pi/180.0), 1.0, 0.1, 100.0)
	if err != nil {
		panic("camera: default projection invalid: " + err.Error())
	}

	c := &cameraImpl{
		mu:         &sync.Mutex{},
		position:   mgl32.Vec3{0, 5, 10},
		yaw:        float32(-math.Pi / 2),
		pitch:      -0.35,
		up:         mgl32.Vec3{0, 1, 0},
		projection: projection,
		uniform:    NewGPUCameraUniform(),
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"camera_" + strconv.FormatUint(cameraCount.Load(), 10),
		),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	cameraCount.Add(1)
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Yaw() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yaw
}

func (c *cameraImpl) Pitch() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pitch
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Forward() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.DirectionFromYawPitch(c.yaw, c.pitch)
}

func (c *cameraImpl) Projection() *Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Uniform() *GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uniform
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

func (c *cameraImpl) Update(dt float32) {
	c.mu.Lock()
	ctrl := c.controller
	c.mu.Unlock()

	if ctrl != nil {
		ctrl.Tick(c, dt)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) SetPosition(position mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
	c.updateMatrices()
}

func (c *cameraImpl) SetYaw(yaw float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw = yaw
	c.updateMatrices()
}

func (c *cameraImpl) SetPitch(pitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pitch = clampPitch(pitch)
	c.updateMatrices()
}

func (c *cameraImpl) SetUp(up mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
	c.updateMatrices()
}

func (c *cameraImpl) Resize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection.Resize(width, height)
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}

func (c *cameraImpl) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindGroupProvider = provider
}

// updateMatrices recalculates the view and view-projection matrices and
// refreshes the GPU uniform. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	dir := common.DirectionFromYawPitch(c.yaw, c.pitch)
	c.viewMatrix = common.LookTo(c.position, dir, c.up)
	c.viewProjectionMatrix = common.DepthRangeCorrection.
		Mul4(c.projection.Matrix()).
		Mul4(c.viewMatrix)
	c.uniform.ViewProj = [16]float32(c.viewProjectionMatrix)
}

// clampPitch limits pitch to just inside ±π/2.
func clampPitch(pitch float32) float32 {
	if pitch > pitchLimit {
		return pitchLimit
	}
	if pitch < -pitchLimit {
		return -pitchLimit
	}
	return pitch
}
