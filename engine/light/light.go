package light

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kestrelgraphics/terraview/engine/renderer/bind_group_provider"
)

// lightCount is an atomic counter used to generate unique bind group provider names for each light instance.
var lightCount atomic.Uint64

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	color    mgl32.Vec3

	uniform           *GPULight
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Light is a single point light bound into the scene's uniform data. The
// fragment shader declares the light uniform so the buffer must exist and
// stay populated, even while the shading model does not yet sample it.
type Light interface {
	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	Color() mgl32.Vec3

	// Uniform returns the GPU-layout light uniform, kept in sync with the
	// light's position and color. The same pointer is returned on every call.
	//
	// Returns:
	//   - *GPULight: the light uniform
	Uniform() *GPULight

	// BindGroupProvider returns the light's bind group provider for GPU resources.
	// Returns nil if not set.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider or nil
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - position: the new position
	SetPosition(position mgl32.Vec3)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - color: color as (r, g, b)
	SetColor(color mgl32.Vec3)

	// SetBindGroupProvider sets the light's bind group provider.
	//
	// Parameters:
	//   - provider: the bind group provider to set
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Light = &lightImpl{}

// NewLight creates a white point light above and beside the origin, matching
// the GPULight defaults.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:       &sync.Mutex{},
		position: mgl32.Vec3{2, 2, 2},
		color:    mgl32.Vec3{1, 1, 1},
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"light_" + strconv.FormatUint(lightCount.Load(), 10),
		),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.uniform = &GPULight{
		Position: [3]float32(l.position),
		Color:    [3]float32(l.color),
	}
	lightCount.Add(1)
	return l
}

func (l *lightImpl) Position() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) Color() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) Uniform() *GPULight {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.uniform
}

func (l *lightImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bindGroupProvider
}

func (l *lightImpl) SetPosition(position mgl32.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = position
	l.uniform.Position = [3]float32(position)
}

func (l *lightImpl) SetColor(color mgl32.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = color
	l.uniform.Color = [3]float32(color)
}

func (l *lightImpl) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bindGroupProvider = provider
}
