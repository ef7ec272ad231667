package loader

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/kestrelgraphics/terraview/common"
	"github.com/kestrelgraphics/terraview/engine/model"
	"github.com/kestrelgraphics/terraview/engine/renderer"
	"github.com/kestrelgraphics/terraview/engine/renderer/bind_group_provider"
	"github.com/kestrelgraphics/terraview/engine/renderer/material"
	"github.com/kestrelgraphics/terraview/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	renderer renderer.Renderer

	modelCache map[string]model.Model

	objBackend  loaderBackend
	gltfBackend loaderBackend

	// pipelineKey assigned to loaded materials; defaults to the model name.
	pipelineKey string

	// texturePool fans out texture decode work across reusable workers.
	textureWorkers int
	texturePool    worker.DynamicWorkerPool
}

// Loader defines the public-facing interface for loading and caching 3D models
// and their textures. It abstracts the file format (OBJ, glTF, GLB) behind
// format-specific backends and manages a cache of previously loaded models.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	// The backend is selected based on the file extension (.obj → OBJ backend,
	// .gltf/.glb → glTF backend). The fragment shader's declared bind group
	// layouts drive material GPU initialization (textures, samplers, bind groups).
	//
	// Parameters:
	//   - path: the file path to the model file
	//   - fragmentShader: the fragment shader whose bind group layouts drive material GPU init
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if loading fails
	Load(path string, fragmentShader shader.Shader) (model.Model, error)

	// LoadBuf imports a model from an in-memory buffer and caches it by the given
	// name. Used for embedded fallback assets. The format is selected from the
	// name's extension the same way Load selects from the path.
	//
	// Parameters:
	//   - name: the cache key and model name, with a format extension (e.g. "terrain.obj")
	//   - data: the raw model file contents
	//   - fragmentShader: the fragment shader whose bind group layouts drive material GPU init
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadBuf(name string, data []byte, fragmentShader shader.Shader) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns the full model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model

	// BuildTextureMaterials creates one render-ready Material per standalone
	// texture, decoding the textures in parallel across the loader's worker
	// pool. Textures that fail to decode fall back to the checkerboard
	// placeholder so the returned slice always matches the input length.
	//
	// Parameters:
	//   - pipelineKey: the render pipeline key assigned to each material
	//   - fragmentShader: the fragment shader whose bind group layouts drive material GPU init
	//   - textures: the standalone texture references to build materials from
	//
	// Returns:
	//   - []material.Material: one GPU-initialized material per texture
	//   - error: error if GPU resource creation fails
	BuildTextureMaterials(pipelineKey string, fragmentShader shader.Shader, textures []*common.ImportedTexture) ([]material.Material, error)

	// InitMaterialGPU initializes GPU resources (texture view, sampler, bind group)
	// for a render material from pre-decoded staging data, using the fragment
	// shader's declared material bind group layout. This is required for
	// hand-built materials that bypass the Load pipeline.
	//
	// Parameters:
	//   - mat: the Material to initialize GPU resources on
	//   - fragmentShader: the fragment shader providing bind group layout information
	//   - providerName: a unique name for the material's bind group provider
	//   - staging: the decoded RGBA pixel data for the diffuse texture
	//
	// Returns:
	//   - error: error if GPU resource creation fails
	InitMaterialGPU(mat material.Material, fragmentShader shader.Shader, providerName string, staging common.TextureStagingData) error
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided options
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:             sync.RWMutex{},
		modelCache:     make(map[string]model.Model),
		objBackend:     newOBJLoaderBackend(),
		gltfBackend:    newGLTFLoaderBackend(),
		textureWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(l)
	}

	// Initialize the texture pool after options so WithTextureWorkers can
	// override the default. Queue size of 64 comfortably covers texture
	// counts for a single scene load.
	l.texturePool = worker.NewDynamicWorkerPool(l.textureWorkers, 64, 1*time.Second)

	return l
}

func (l *loader) Load(path string, fragmentShader shader.Shader) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	imported, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	m, err := l.importedToModel(imported, fragmentShader)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) LoadBuf(name string, data []byte, fragmentShader shader.Shader) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(name)
	if err != nil {
		return nil, err
	}

	imported, err := backend.LoadBuf(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)), data)
	if err != nil {
		return nil, fmt.Errorf("failed to load buffer %q: %w", name, err)
	}

	m, err := l.importedToModel(imported, fragmentShader)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.modelCache[name] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

func (l *loader) BuildTextureMaterials(pipelineKey string, fragmentShader shader.Shader, textures []*common.ImportedTexture) ([]material.Material, error) {
	if len(textures) == 0 {
		return nil, nil
	}

	// Phase 1: decode all textures in parallel. Each worker writes its own
	// result slot, so no additional synchronization beyond the WaitGroup is
	// needed.
	stagings := make([]common.TextureStagingData, len(textures))
	var wg sync.WaitGroup
	for i, tex := range textures {
		wg.Add(1)
		idx, texCap := i, tex
		l.texturePool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				stagings[idx] = decodeTextureOrFallback(texCap)
				return nil, nil
			},
		})
	}
	wg.Wait()

	// Phase 2: GPU resource creation is serialized through the renderer.
	mats := make([]material.Material, len(textures))
	for i, tex := range textures {
		mat := material.NewMaterial(
			material.WithName(tex.Name),
			material.WithDiffuseTexture(tex),
			material.WithPipelineKey(pipelineKey),
		)
		if l.renderer != nil && fragmentShader != nil {
			providerName := formatTextureLabel(pipelineKey, tex.Name, i)
			if err := l.InitMaterialGPU(mat, fragmentShader, providerName, stagings[i]); err != nil {
				return nil, fmt.Errorf("failed to init material for texture %q: %w", tex.Name, err)
			}
		}
		mats[i] = mat
	}

	return mats, nil
}

func (l *loader) InitMaterialGPU(mat material.Material, fragmentShader shader.Shader, providerName string, staging common.TextureStagingData) error {
	if l.renderer == nil {
		return fmt.Errorf("loader: cannot InitMaterialGPU without a Renderer")
	}

	group, texBinding, sampBinding, ok := findMaterialBindings(fragmentShader)
	if !ok {
		// No texture bindings declared in this shader; nothing to init.
		return nil
	}

	provider := bind_group_provider.NewBindGroupProvider(providerName)

	if err := l.renderer.InitTextureView(provider, texBinding, staging); err != nil {
		return fmt.Errorf("failed to init texture view: %w", err)
	}

	if sampBinding >= 0 {
		samplerData := common.SamplerStagingData{
			AddressModeU:  wgpu.AddressModeRepeat,
			AddressModeV:  wgpu.AddressModeRepeat,
			AddressModeW:  wgpu.AddressModeRepeat,
			MagFilter:     wgpu.FilterModeLinear,
			MinFilter:     wgpu.FilterModeLinear,
			MipmapFilter:  wgpu.MipmapFilterModeLinear,
			LodMinClamp:   0,
			LodMaxClamp:   32,
			MaxAnisotropy: 1,
		}
		if tex := mat.DiffuseTexture(); tex != nil && tex.SamplerData != nil {
			samplerData = *tex.SamplerData
		}
		if err := l.renderer.InitSampler(provider, sampBinding, samplerData); err != nil {
			return fmt.Errorf("failed to init sampler: %w", err)
		}
	}

	descriptor := fragmentShader.BindGroupLayoutDescriptor(group)
	if err := l.renderer.InitBindGroup(provider, descriptor, nil, nil); err != nil {
		return fmt.Errorf("failed to init material bind group: %w", err)
	}

	mat.SetBindGroupProvider(provider)
	return nil
}

// resolveBackend selects an appropriate loader backend based on the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".obj":
		return l.objBackend, nil
	case ".gltf", ".glb":
		return l.gltfBackend, nil
	default:
		return nil, fmt.Errorf("unsupported model format: %s", ext)
	}
}

// importedToModel converts an ImportedModel (CPU data) into a Model (engine-ready).
// It combines all mesh vertex and index data into a single BindGroupProvider,
// uploads the data to the GPU via InitMeshBuffers when a Renderer is available,
// and initializes material GPU resources using the fragment shader's declared
// bind group layouts. Models with no materials receive a checkerboard default
// so there is always at least one render material to draw with.
//
// Parameters:
//   - imported: the CPU-side ImportedModel containing mesh and material data
//   - fragmentShader: the fragment shader used to discover bind group layouts for material GPU init
//
// Returns:
//   - model.Model: the engine-ready Model with GPU mesh resources
//   - error: error if GPU resource creation fails
func (l *loader) importedToModel(imported *model.ImportedModel, fragmentShader shader.Shader) (model.Model, error) {
	// Combine all meshes into one vertex + index buffer
	var allVertices []model.GPUVertex
	var allIndices []uint32
	indexOffset := uint32(0)

	for _, mesh := range imported.Meshes {
		allVertices = append(allVertices, mesh.Vertices...)

		// Reindex: offset each index by the running vertex count across meshes
		for _, idx := range mesh.Indices {
			allIndices = append(allIndices, idx+indexOffset)
		}
		indexOffset += uint32(len(mesh.Vertices))
	}

	vertexData := common.SliceToBytes(allVertices)
	indexData := common.SliceToBytes(allIndices)

	provider := bind_group_provider.NewBindGroupProvider(
		imported.Name + "_mesh",
	)

	// Upload to GPU if renderer is available
	if l.renderer != nil {
		if err := l.renderer.InitMeshBuffers(provider, vertexData, indexData, len(allIndices)); err != nil {
			return nil, fmt.Errorf("failed to init mesh buffers for %q: %w", imported.Name, err)
		}
	}

	mdl := model.NewModel(
		model.WithName(imported.Name),
		model.WithImportedMaterials(imported.Materials),
		model.WithMeshProvider(provider),
		model.WithVertexData(vertexData),
		model.WithIndexData(indexData),
		model.WithIndexCount(len(allIndices)),
		model.WithBoundingRadius(model.ComputeBoundingRadius(allVertices)),
	)

	// Decode material textures in parallel before the serialized GPU phase.
	stagings := make([]common.TextureStagingData, len(imported.Materials))
	var wg sync.WaitGroup
	for i, imp := range imported.Materials {
		wg.Add(1)
		idx, texCap := i, imp.DiffuseTexture
		l.texturePool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				stagings[idx] = decodeTextureOrFallback(texCap)
				return nil, nil
			},
		})
	}
	wg.Wait()

	// Convert imported materials into render-ready Materials with GPU resources.
	renderMats := make([]material.Material, 0, len(imported.Materials))
	for i, imp := range imported.Materials {
		mat := material.NewMaterial(
			material.WithName(imp.Name),
			material.WithBaseColor(imp.BaseColor),
			material.WithDiffuseTexture(imp.DiffuseTexture),
			material.WithPipelineKey(l.materialPipelineKey(imported.Name)),
		)

		if l.renderer != nil && fragmentShader != nil {
			providerName := fmt.Sprintf("%s_material_%d", imported.Name, i)
			if err := l.InitMaterialGPU(mat, fragmentShader, providerName, stagings[i]); err != nil {
				return nil, fmt.Errorf("failed to init material GPU resources for %q material %d: %w", imported.Name, i, err)
			}
		}

		renderMats = append(renderMats, mat)
	}

	// A model with no material library still needs one material to draw with.
	if len(renderMats) == 0 {
		mat := material.NewMaterial(
			material.WithName(imported.Name+"_default"),
			material.WithPipelineKey(l.materialPipelineKey(imported.Name)),
		)
		if l.renderer != nil && fragmentShader != nil {
			providerName := imported.Name + "_material_default"
			if err := l.InitMaterialGPU(mat, fragmentShader, providerName, CheckerboardTexture(64, 8)); err != nil {
				return nil, fmt.Errorf("failed to init default material for %q: %w", imported.Name, err)
			}
		}
		renderMats = append(renderMats, mat)
	}
	mdl.SetRenderMaterials(renderMats)

	return mdl, nil
}

// materialPipelineKey returns the pipeline key assigned to loaded materials:
// the configured key if set, otherwise the model name.
func (l *loader) materialPipelineKey(modelName string) string {
	if l.pipelineKey != "" {
		return l.pipelineKey
	}
	return modelName
}

// findMaterialBindings locates the fragment shader bind group that declares a
// texture binding. Returns the group index, the texture binding, the sampler
// binding within that group (-1 if none), and whether a texture group exists.
func findMaterialBindings(fragmentShader shader.Shader) (group, texBinding, sampBinding int, ok bool) {
	if fragmentShader == nil {
		return 0, 0, 0, false
	}
	for g, desc := range fragmentShader.BindGroupLayoutDescriptors() {
		texBinding, sampBinding = -1, -1
		for _, entry := range desc.Entries {
			if entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined && texBinding < 0 {
				texBinding = int(entry.Binding)
			}
			if entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined && sampBinding < 0 {
				sampBinding = int(entry.Binding)
			}
		}
		if texBinding >= 0 {
			return g, texBinding, sampBinding, true
		}
	}
	return 0, 0, 0, false
}
