package scene

import (
	"github.com/kestrelgraphics/terraview/engine/light"
	"github.com/kestrelgraphics/terraview/engine/renderer/material"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithLight sets the scene's light. The light uniform is uploaded into the
// frame bind group alongside the camera uniform each Update.
//
// Parameters:
//   - l: the light to attach
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLight(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.sceneLight = l
	}
}

// WithCullingDisabled disables frustum culling for the scene. When set to
// true, every enabled object is drawn regardless of camera visibility.
// By default culling is enabled (disabled = false).
//
// Parameters:
//   - disabled: true to disable frustum culling, false to enable it (default)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullingDisabled(disabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.cullingDisabled = disabled
	}
}

// WithMaterialOverrides sets the scene's material override cycle. The cycle
// starts on each model's own material; each CycleMaterial call advances
// through the overrides in order and wraps back to the model material.
//
// Parameters:
//   - mats: the override materials, in cycle order
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMaterialOverrides(mats ...material.Material) SceneBuilderOption {
	return func(s *scene) {
		s.materialOverrides = mats
		s.overrideIndex = -1
	}
}

// WithPrepWorkers sets the number of worker goroutines used for the parallel
// per-object uniform marshal in Update. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of prep workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPrepWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.prepWorkers = n
	}
}
