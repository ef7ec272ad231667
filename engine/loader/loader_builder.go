package loader

import (
	"github.com/kestrelgraphics/terraview/engine/model"
	"github.com/kestrelgraphics/terraview/engine/renderer"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithRenderer is an option builder that sets the Renderer used by the Loader.
//
// Parameters:
//   - r: the renderer instance
//
// Returns:
//   - LoaderBuilderOption: a function that applies the renderer option to a loader
func WithRenderer(r renderer.Renderer) LoaderBuilderOption {
	return func(l *loader) {
		l.renderer = r
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}

// WithPipelineKey is an option builder that sets the render pipeline key
// assigned to materials on loaded models. When unset, materials default to
// their model's name as the pipeline key.
//
// Parameters:
//   - key: the pipeline key
//
// Returns:
//   - LoaderBuilderOption: a function that applies the pipeline key option to a loader
func WithPipelineKey(key string) LoaderBuilderOption {
	return func(l *loader) {
		l.pipelineKey = key
	}
}

// WithTextureWorkers is an option builder that sets the number of workers used
// for parallel texture decoding. Defaults to NumCPU-1 with a floor of 1.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - LoaderBuilderOption: a function that applies the texture workers option to a loader
func WithTextureWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.textureWorkers = n
		}
	}
}
