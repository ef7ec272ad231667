package game_object

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelgraphics/terraview/engine/model"
)

func TestNewGameObjectDefaults(t *testing.T) {
	obj := NewGameObject()

	assert.True(t, obj.Enabled())
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, obj.Position())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, obj.Scale())
	assert.Nil(t, obj.Model())
	assert.Nil(t, obj.BindGroupProvider())
}

func TestNewGameObjectOptions(t *testing.T) {
	mdl := model.NewModel(model.WithName("terrain"))
	obj := NewGameObject(
		WithID(7),
		WithEnabled(false),
		WithModel(mdl),
		WithPosition(1, 2, 3),
		WithRotation(0, float32(math.Pi), 0),
		WithScale(2, 2, 2),
	)

	assert.Equal(t, uint64(7), obj.ID())
	assert.False(t, obj.Enabled())
	assert.Same(t, mdl, obj.Model())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, obj.Position())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, obj.Scale())
}

func TestModelMatrixTranslation(t *testing.T) {
	obj := NewGameObject(WithPosition(3, 4, 5))

	m := obj.ModelMatrix()
	p := mgl32.TransformCoordinate(mgl32.Vec3{0, 0, 0}, m)
	assert.InDelta(t, 3, float64(p.X()), 1e-6)
	assert.InDelta(t, 4, float64(p.Y()), 1e-6)
	assert.InDelta(t, 5, float64(p.Z()), 1e-6)
}

func TestModelMatrixScaleThenRotate(t *testing.T) {
	// Scale applies in model space before the yaw rotation: a unit X vector
	// scaled by 2 then rotated 90° about Y lands on -Z.
	obj := NewGameObject(
		WithRotation(0, float32(math.Pi/2), 0),
		WithScale(2, 1, 1),
	)

	m := obj.ModelMatrix()
	p := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, m)
	assert.InDelta(t, 0, float64(p.X()), 1e-5)
	assert.InDelta(t, 0, float64(p.Y()), 1e-5)
	assert.InDelta(t, -2, float64(p.Z()), 1e-5)
}

func TestGPUDataMatchesModelMatrix(t *testing.T) {
	obj := NewGameObject(WithPosition(1, 2, 3), WithScale(2, 3, 4))

	m := obj.ModelMatrix()
	data := obj.GPUData()
	require.Len(t, data.Model, 16)
	for i := range m {
		assert.Equal(t, m[i], data.Model[i])
	}
}

func TestBoundingSphere(t *testing.T) {
	obj := NewGameObject(WithPosition(10, 0, 0))

	// No model: zero radius at the object position.
	center, radius := obj.BoundingSphere()
	assert.Equal(t, mgl32.Vec3{10, 0, 0}, center)
	assert.Zero(t, radius)

	mdl := model.NewModel(model.WithBoundingRadius(3))
	obj.SetModel(mdl)
	obj.SetScale(mgl32.Vec3{1, 2, 1.5})

	center, radius = obj.BoundingSphere()
	assert.Equal(t, mgl32.Vec3{10, 0, 0}, center)
	assert.InDelta(t, 6, float64(radius), 1e-6)
}

func TestSetters(t *testing.T) {
	obj := NewGameObject()

	obj.SetID(42)
	obj.SetEnabled(false)
	obj.SetPosition(mgl32.Vec3{1, 1, 1})
	obj.SetRotation(mgl32.Vec3{0, 1, 0})
	obj.SetScale(mgl32.Vec3{5, 5, 5})

	assert.Equal(t, uint64(42), obj.ID())
	assert.False(t, obj.Enabled())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, obj.Position())
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, obj.Rotation())
	assert.Equal(t, mgl32.Vec3{5, 5, 5}, obj.Scale())
}
