package loader

import (
	"github.com/kestrelgraphics/terraview/engine/model"
)

// loaderBackend defines the generic interface for loading models from files or buffers.
// Concrete implementations (objLoaderBackend, gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load performs a full model import from the given file path.
	// This extracts meshes and materials.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if loading fails
	Load(path string) (*model.ImportedModel, error)

	// LoadBuf imports a model from an in-memory buffer. Material library and
	// texture references that require disk access relative to a source file
	// are skipped.
	//
	// Parameters:
	//   - name: the model name assigned to the imported model
	//   - data: the raw model file contents
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if loading fails
	LoadBuf(name string, data []byte) (*model.ImportedModel, error)
}
