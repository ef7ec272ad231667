package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/kestrelgraphics/terraview/engine/model"
	"github.com/kestrelgraphics/terraview/engine/renderer/bind_group_provider"
)

type gameObject struct {
	mu *sync.RWMutex

	id      uint64
	enabled atomic.Bool
	mdl     model.Model

	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3

	provider bind_group_provider.BindGroupProvider
}

// GameObject defines the interface for a static scene entity: a model placed
// in the world with a position, Euler rotation, and scale. The object's model
// matrix is uploaded to the GPU through its BindGroupProvider.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Model returns the Model associated with this object, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// SetModel assigns a Model to this object.
	//
	// Parameters:
	//   - m: the Model to associate
	SetModel(m model.Model)

	// Position returns the object's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// SetPosition sets the object's world-space position.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// Rotation returns the object's Euler rotation in radians (X, Y, Z order).
	//
	// Returns:
	//   - mgl32.Vec3: the rotation angles
	Rotation() mgl32.Vec3

	// SetRotation sets the object's Euler rotation in radians.
	//
	// Parameters:
	//   - r: the new rotation angles (X, Y, Z order)
	SetRotation(r mgl32.Vec3)

	// Scale returns the object's per-axis scale factors.
	//
	// Returns:
	//   - mgl32.Vec3: the scale factors
	Scale() mgl32.Vec3

	// SetScale sets the object's per-axis scale factors.
	//
	// Parameters:
	//   - s: the new scale factors
	SetScale(s mgl32.Vec3)

	// ModelMatrix computes the object's model-to-world matrix from its current
	// transform: translation, then Z·Y·X Euler rotation, then scale.
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix
	ModelMatrix() mgl32.Mat4

	// GPUData packs the current model matrix into the GPU uniform layout.
	//
	// Returns:
	//   - model.GPUModelData: the 64-byte per-object uniform
	GPUData() model.GPUModelData

	// BoundingSphere returns the object's world-space bounding sphere derived
	// from the model's bounding radius, the object's position, and the largest
	// scale axis. The radius is zero when no model is set.
	//
	// Returns:
	//   - center: the sphere center in world space
	//   - radius: the sphere radius
	BoundingSphere() (center mgl32.Vec3, radius float32)

	// BindGroupProvider returns the provider holding this object's GPU uniform
	// resources, or nil if not set.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider or nil
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider sets the provider holding this object's GPU uniform
	// resources.
	//
	// Parameters:
	//   - p: the provider to assign
	SetBindGroupProvider(p bind_group_provider.BindGroupProvider)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// Objects default to enabled with unit scale at the origin.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:    &sync.RWMutex{},
		scale: mgl32.Vec3{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Model() model.Model {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mdl
}

func (g *gameObject) SetModel(m model.Model) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mdl = m
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = p
}

func (g *gameObject) Rotation() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rotation
}

func (g *gameObject) SetRotation(r mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = r
}

func (g *gameObject) Scale() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scale
}

func (g *gameObject) SetScale(s mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = s
}

func (g *gameObject) ModelMatrix() mgl32.Mat4 {
	g.mu.RLock()
	pos, rot, scale := g.position, g.rotation, g.scale
	g.mu.RUnlock()

	translate := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z())
	rotate := mgl32.HomogRotate3DZ(rot.Z()).
		Mul4(mgl32.HomogRotate3DY(rot.Y())).
		Mul4(mgl32.HomogRotate3DX(rot.X()))
	scaleM := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	return translate.Mul4(rotate).Mul4(scaleM)
}

func (g *gameObject) GPUData() model.GPUModelData {
	m := g.ModelMatrix()
	var data model.GPUModelData
	copy(data.Model[:], m[:])
	return data
}

func (g *gameObject) BoundingSphere() (mgl32.Vec3, float32) {
	g.mu.RLock()
	mdl := g.mdl
	pos, scale := g.position, g.scale
	g.mu.RUnlock()

	if mdl == nil {
		return pos, 0
	}

	maxScale := scale.X()
	if scale.Y() > maxScale {
		maxScale = scale.Y()
	}
	if scale.Z() > maxScale {
		maxScale = scale.Z()
	}
	return pos, mdl.BoundingRadius() * maxScale
}

func (g *gameObject) BindGroupProvider() bind_group_provider.BindGroupProvider {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.provider
}

func (g *gameObject) SetBindGroupProvider(p bind_group_provider.BindGroupProvider) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.provider = p
}
