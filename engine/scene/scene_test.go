package scene

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelgraphics/terraview/engine/game_object"
	"github.com/kestrelgraphics/terraview/engine/model"
	"github.com/kestrelgraphics/terraview/engine/renderer/bind_group_provider"
	"github.com/kestrelgraphics/terraview/engine/renderer/material"
)

// newTestScene builds a scene without GPU resources. Objects added to it must
// carry a pre-set BindGroupProvider so Add skips GPU initialization.
func newTestScene(t *testing.T) *scene {
	t.Helper()
	return &scene{
		mu:            &sync.RWMutex{},
		name:          "test",
		registry:      make(map[uint64]game_object.GameObject),
		nextID:        1,
		overrideIndex: -1,
	}
}

func newTestObject(name string) game_object.GameObject {
	obj := game_object.NewGameObject(
		game_object.WithModel(model.NewModel(model.WithName(name))),
	)
	obj.SetBindGroupProvider(bind_group_provider.NewBindGroupProvider(name + "_object"))
	return obj
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	s := newTestScene(t)

	a := newTestObject("a")
	b := newTestObject("b")

	idA := s.Add(a)
	idB := s.Add(b)

	assert.Equal(t, uint64(1), idA)
	assert.Equal(t, uint64(2), idB)
	assert.Equal(t, idA, a.ID())
	assert.Equal(t, 2, s.Count())
	assert.Same(t, a, s.Get(idA))
	assert.Same(t, b, s.Get(idB))
}

func TestAddPanicsWithoutModel(t *testing.T) {
	s := newTestScene(t)

	assert.Panics(t, func() { s.Add(nil) })
	assert.Panics(t, func() { s.Add(game_object.NewGameObject()) })
}

func TestRemoveAndClear(t *testing.T) {
	s := newTestScene(t)

	idA := s.Add(newTestObject("a"))
	idB := s.Add(newTestObject("b"))

	s.Remove(idA)
	assert.Nil(t, s.Get(idA))
	assert.Equal(t, 1, s.Count())

	// Removing an unknown ID is a no-op.
	s.Remove(999)
	assert.Equal(t, 1, s.Count())

	s.Clear()
	assert.Zero(t, s.Count())
	assert.Nil(t, s.Get(idB))
}

func TestOrderedObjectsPreservesInsertionOrder(t *testing.T) {
	s := newTestScene(t)

	a := newTestObject("a")
	b := newTestObject("b")
	c := newTestObject("c")
	s.Add(a)
	idB := s.Add(b)
	s.Add(c)
	s.Remove(idB)

	s.mu.RLock()
	objects := s.orderedObjects()
	s.mu.RUnlock()

	require.Len(t, objects, 2)
	assert.Same(t, a, objects[0])
	assert.Same(t, c, objects[1])
}

func TestCycleMaterialWrapsToModelMaterial(t *testing.T) {
	s := newTestScene(t)

	// No overrides configured: cycling stays on the model material.
	assert.Equal(t, "", s.CycleMaterial())
	assert.Nil(t, s.ActiveMaterialOverride())

	grass := material.NewMaterial(material.WithName("grass"))
	rock := material.NewMaterial(material.WithName("rock"))
	s.SetMaterialOverrides([]material.Material{grass, rock})

	assert.Equal(t, "grass", s.CycleMaterial())
	assert.Same(t, grass, s.ActiveMaterialOverride())

	assert.Equal(t, "rock", s.CycleMaterial())
	assert.Same(t, rock, s.ActiveMaterialOverride())

	// Past the last override the cycle wraps back to the model material.
	assert.Equal(t, "", s.CycleMaterial())
	assert.Nil(t, s.ActiveMaterialOverride())

	assert.Equal(t, "grass", s.CycleMaterial())
}

func TestSetMaterialOverridesResetsCycle(t *testing.T) {
	s := newTestScene(t)

	grass := material.NewMaterial(material.WithName("grass"))
	s.SetMaterialOverrides([]material.Material{grass})
	assert.Equal(t, "grass", s.CycleMaterial())

	// Replacing the cycle drops back to the model material.
	s.SetMaterialOverrides([]material.Material{grass})
	assert.Nil(t, s.ActiveMaterialOverride())
}

func TestActiveFlag(t *testing.T) {
	s := newTestScene(t)

	assert.False(t, s.Active())
	s.SetActive(true)
	assert.True(t, s.Active())
}

func TestCullingDisabledFlag(t *testing.T) {
	s := newTestScene(t)

	assert.False(t, s.CullingDisabled())
	s.SetCullingDisabled(true)
	assert.True(t, s.CullingDisabled())
}
