package scene

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/kestrelgraphics/terraview/common"
	"github.com/kestrelgraphics/terraview/engine/camera"
	"github.com/kestrelgraphics/terraview/engine/game_object"
	"github.com/kestrelgraphics/terraview/engine/light"
	"github.com/kestrelgraphics/terraview/engine/renderer"
	"github.com/kestrelgraphics/terraview/engine/renderer/bind_group_provider"
	"github.com/kestrelgraphics/terraview/engine/renderer/material"
	"github.com/kestrelgraphics/terraview/engine/renderer/shader"
)

// Bind group slots shared by all mesh pipelines. Group 0 carries the per-frame
// camera and light uniforms, group 1 the active material's texture and sampler,
// group 2 the per-object model matrix.
const (
	FrameBindGroup    = 0
	MaterialBindGroup = 1
	ObjectBindGroup   = 2

	cameraBinding = 0
	lightBinding  = 1
)

// Scene manages a registry of GameObjects with a Camera, a Light, and a
// Renderer for drawing them. Update stages all per-frame uniform uploads and
// DrawCalls issues one indexed draw per visible object, frustum-culled against
// the camera unless culling is disabled.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Light returns the scene's light, or nil if none is set.
	Light() light.Light

	// SetLight replaces the scene's light.
	//
	// Parameters:
	//   - l: the new light
	SetLight(l light.Light)

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// Count returns the number of GameObjects in the scene's registry.
	//
	// Returns:
	//   - int: count of registered GameObjects
	Count() int

	// Add adds a GameObject to the scene and initializes its per-object GPU
	// uniform resources from the scene's object bind group layout. The object
	// must carry a Model.
	//
	// Panics if the object is nil or has no Model.
	//
	// Parameters:
	//   - obj: the GameObject to add
	//
	// Returns:
	//   - uint64: the assigned object ID
	Add(obj game_object.GameObject) uint64

	// Get retrieves a GameObject by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove removes a GameObject from the registry by ID. The object's GPU
	// resources are not released until its provider is released by the caller.
	//
	// Parameters:
	//   - id: the object's unique ID
	Remove(id uint64)

	// Clear removes all objects from the scene.
	// Does not release GPU resources.
	Clear()

	// CullingDisabled returns whether frustum culling is disabled for this scene.
	//
	// Returns:
	//   - bool: true if culling is disabled
	CullingDisabled() bool

	// SetCullingDisabled enables or disables frustum culling. When disabled,
	// every enabled object is drawn regardless of camera visibility.
	//
	// Parameters:
	//   - disabled: true to disable culling
	SetCullingDisabled(disabled bool)

	// Update advances the camera, refreshes every object's model matrix, and
	// uploads the staged camera, light, and per-object uniform writes in a
	// single batch.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	Update(deltaTime float32)

	// DrawCalls issues one indexed draw call per visible object.
	// Must be called within a BeginFrame/EndFrame block on the renderer.
	//
	// Returns:
	//   - error: error if a draw call fails
	DrawCalls() error

	// SetMaterialOverrides replaces the scene's material override cycle. The
	// cycle starts on each model's own material; each CycleMaterial call
	// advances through the overrides and wraps back to the model material.
	//
	// Parameters:
	//   - mats: the override materials, in cycle order
	SetMaterialOverrides(mats []material.Material)

	// CycleMaterial advances the material override cycle by one step.
	//
	// Returns:
	//   - string: the name of the now-active override, or "" when back on the
	//     model's own material
	CycleMaterial() string

	// ActiveMaterialOverride returns the currently active override material,
	// or nil when objects draw with their model's own material.
	//
	// Returns:
	//   - material.Material: the active override or nil
	ActiveMaterialOverride() material.Material
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	registry map[uint64]game_object.GameObject
	order    []uint64 // insertion order for deterministic draw order
	nextID   uint64

	cam          camera.Camera
	sceneLight   light.Light
	r            renderer.Renderer
	vertexShader shader.Shader

	cullingDisabled bool

	// Material override cycle. overrideIndex of -1 means each object draws
	// with its model's own material.
	materialOverrides []material.Material
	overrideIndex     int

	// Pre-allocated slices reused each frame to avoid per-frame allocations.
	writePool          []bind_group_provider.BufferWrite
	drawBindGroupsPool []bind_group_provider.BindGroupProvider

	// prepPool manages a bounded set of reusable goroutines for the parallel
	// per-object uniform marshal in Update. Workers persist across frames.
	prepPool    worker.DynamicWorkerPool
	prepWorkers int
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene with the given camera, renderer, and a vertex
// shader that declares the frame and object bind group layouts. All three are
// required and NewScene panics if any of them is nil. The camera's
// BindGroupProvider is initialized on the GPU from the shader's frame group
// layout; the light uniform shares the same bind group at its own binding.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - vertexShader: the mesh vertex shader declaring the bind group layouts (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, vertexShader shader.Shader, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}
	if vertexShader == nil {
		panic("scene: NewScene requires a non-nil vertex shader")
	}

	s := &scene{
		mu:                 &sync.RWMutex{},
		name:               name,
		registry:           make(map[uint64]game_object.GameObject),
		nextID:             1,
		cam:                cam,
		r:                  r,
		vertexShader:       vertexShader,
		overrideIndex:      -1,
		prepWorkers:        max(runtime.NumCPU()-1, 1),
		drawBindGroupsPool: make([]bind_group_provider.BindGroupProvider, 0, 3),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the prep pool after options so WithPrepWorkers can override
	// the default. Queue size of 256 accommodates typical object counts.
	s.prepPool = worker.NewDynamicWorkerPool(s.prepWorkers, 256, 1*time.Second)

	// The camera's provider hosts the whole frame bind group, including the
	// light uniform buffer at its own binding.
	bgp := cam.BindGroupProvider()
	if bgp == nil {
		bgp = bind_group_provider.NewBindGroupProvider(name + "_frame")
		cam.SetBindGroupProvider(bgp)
	}
	if err := r.InitBindGroup(bgp, vertexShader.BindGroupLayoutDescriptor(FrameBindGroup), nil, nil); err != nil {
		panic(fmt.Sprintf("scene: failed to init frame bind group: %v", err))
	}

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Light() light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sceneLight
}

func (s *scene) SetLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sceneLight = l
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	if obj == nil {
		panic("scene: Add requires a non-nil GameObject")
	}
	if obj.Model() == nil {
		panic("scene: Add requires a GameObject with a Model")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	obj.SetID(id)

	if obj.BindGroupProvider() == nil {
		bgp := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s_object_%d", s.name, id))
		if err := s.r.InitBindGroup(bgp, s.vertexShader.BindGroupLayoutDescriptor(ObjectBindGroup), nil, nil); err != nil {
			panic(fmt.Sprintf("scene: failed to init object bind group: %v", err))
		}
		obj.SetBindGroupProvider(bgp)
	}

	s.registry[id] = obj
	s.order = append(s.order, id)
	return id
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registry[id]; !ok {
		return
	}
	delete(s.registry, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = make(map[uint64]game_object.GameObject)
	s.order = s.order[:0]
}

func (s *scene) CullingDisabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cullingDisabled
}

func (s *scene) SetCullingDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cullingDisabled = disabled
}

func (s *scene) Update(deltaTime float32) {
	s.mu.RLock()
	cam := s.cam
	l := s.sceneLight
	r := s.r
	objects := s.orderedObjects()
	s.mu.RUnlock()

	if cam == nil || r == nil {
		return
	}

	cam.Update(deltaTime)

	s.mu.Lock()
	writes := s.writePool[:0]

	if bgp := cam.BindGroupProvider(); bgp != nil {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: bgp,
			Binding:  cameraBinding,
			Data:     cam.Uniform().Marshal(),
		})
		if l != nil {
			writes = append(writes, bind_group_provider.BufferWrite{
				Provider: bgp,
				Binding:  lightBinding,
				Data:     l.Uniform().Marshal(),
			})
		}
	}

	// Marshal per-object model matrices in parallel across the prep pool,
	// then append the staged writes in insertion order.
	objectData := make([][]byte, len(objects))
	var wg sync.WaitGroup
	for i, obj := range objects {
		if !obj.Enabled() || obj.BindGroupProvider() == nil {
			continue
		}
		wg.Add(1)
		s.prepPool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				data := obj.GPUData()
				objectData[i] = data.Marshal()
				return nil, nil
			},
		})
	}
	wg.Wait()

	for i, obj := range objects {
		if objectData[i] == nil {
			continue
		}
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: obj.BindGroupProvider(),
			Binding:  0,
			Data:     objectData[i],
		})
	}
	s.writePool = writes
	s.mu.Unlock()

	r.WriteBuffers(writes)
}

func (s *scene) DrawCalls() error {
	s.mu.RLock()
	cam := s.cam
	r := s.r
	objects := s.orderedObjects()
	cullingDisabled := s.cullingDisabled
	override := s.activeOverride()
	s.mu.RUnlock()

	if cam == nil || r == nil {
		return nil
	}

	var frustum common.Frustum
	if !cullingDisabled {
		frustum = common.ExtractFrustumFromMatrix(cam.ViewProjectionMatrix())
	}
	cameraBGP := cam.BindGroupProvider()

	for _, obj := range objects {
		if !obj.Enabled() {
			continue
		}
		mdl := obj.Model()
		if mdl == nil || mdl.MeshProvider() == nil {
			continue
		}

		if !cullingDisabled {
			center, radius := obj.BoundingSphere()
			if !frustum.ContainsSphere(center, radius) {
				continue
			}
		}

		mat := override
		if mat == nil {
			mats := mdl.RenderMaterials()
			if len(mats) == 0 {
				continue
			}
			mat = mats[0]
		}

		s.mu.Lock()
		bindGroups := append(s.drawBindGroupsPool[:0],
			cameraBGP,
			mat.BindGroupProvider(),
			obj.BindGroupProvider(),
		)
		s.drawBindGroupsPool = bindGroups
		s.mu.Unlock()

		if err := r.DrawCall(mat.PipelineKey(), mdl.MeshProvider(), 1, bindGroups); err != nil {
			return fmt.Errorf("scene %q: draw object %d: %w", s.Name(), obj.ID(), err)
		}
	}

	return nil
}

func (s *scene) SetMaterialOverrides(mats []material.Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materialOverrides = mats
	s.overrideIndex = -1
}

func (s *scene) CycleMaterial() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.materialOverrides) == 0 {
		return ""
	}

	s.overrideIndex++
	if s.overrideIndex >= len(s.materialOverrides) {
		s.overrideIndex = -1
		return ""
	}
	return s.materialOverrides[s.overrideIndex].Name()
}

func (s *scene) ActiveMaterialOverride() material.Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeOverride()
}

// activeOverride returns the active override material. Caller must hold the mutex.
func (s *scene) activeOverride() material.Material {
	if s.overrideIndex < 0 || s.overrideIndex >= len(s.materialOverrides) {
		return nil
	}
	return s.materialOverrides[s.overrideIndex]
}

// orderedObjects returns the registered objects in insertion order.
// Caller must hold the mutex.
func (s *scene) orderedObjects() []game_object.GameObject {
	objects := make([]game_object.GameObject, 0, len(s.order))
	for _, id := range s.order {
		if obj, ok := s.registry[id]; ok {
			objects = append(objects, obj)
		}
	}
	return objects
}
