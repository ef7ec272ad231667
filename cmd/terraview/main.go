package main

import (
	_ "embed"
	"flag"
	"log"
	"path/filepath"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/kestrelgraphics/terraview/common"
	"github.com/kestrelgraphics/terraview/config"
	"github.com/kestrelgraphics/terraview/engine"
	"github.com/kestrelgraphics/terraview/engine/camera"
	"github.com/kestrelgraphics/terraview/engine/game_object"
	"github.com/kestrelgraphics/terraview/engine/light"
	"github.com/kestrelgraphics/terraview/engine/loader"
	"github.com/kestrelgraphics/terraview/engine/model"
	"github.com/kestrelgraphics/terraview/engine/renderer"
	"github.com/kestrelgraphics/terraview/engine/renderer/pipeline"
	"github.com/kestrelgraphics/terraview/engine/renderer/shader"
	"github.com/kestrelgraphics/terraview/engine/scene"
	"github.com/kestrelgraphics/terraview/engine/window"
)

// terrainShaderSource holds the mesh shader entry points. The canonical struct
// definitions (camera, light, vertex, model data) are prepended at runtime so
// the WGSL structs always match the Go uniform layouts.
//
//go:embed assets/terrain.wgsl
var terrainShaderSource string

const meshPipelineKey = "terrain_mesh"

func main() {
	configPath := flag.String("config", "terraview.toml", "path to the TOML configuration file")
	profile := flag.Bool("profile", false, "log frame rate and memory statistics")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("terraview: %v", err)
	}

	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	)

	presentMode, _ := cfg.Renderer.PresentModeValue()
	msaa, _ := cfg.Renderer.MSAAValue()

	vertexShader, fragmentShader := buildTerrainShaders()
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPipeline(meshPipelineKey, pipeline.NewPipeline(meshPipelineKey,
			pipeline.WithVertexShader(vertexShader),
			pipeline.WithFragmentShader(fragmentShader),
		)),
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceFallbackAdapter),
	)

	ctrl := buildController(cfg.Camera)
	cam := buildCamera(cfg.Camera, ctrl, win.Width(), win.Height())

	l := loader.NewLoader(
		loader.WithRenderer(r),
		loader.WithPipelineKey(meshPipelineKey),
	)
	terrain := loadTerrain(l, cfg.Assets, fragmentShader)

	sc := scene.NewScene("terrain", cam, r, vertexShader,
		scene.WithActive(true),
		scene.WithLight(light.NewLight(light.WithPosition(30, 40, 20))),
	)
	sc.Add(game_object.NewGameObject(game_object.WithModel(terrain)))

	if len(cfg.Assets.Textures) > 0 {
		overrides, err := l.BuildTextureMaterials(meshPipelineKey, fragmentShader, textureRefs(cfg.Assets.Textures))
		if err != nil {
			log.Fatalf("terraview: failed to build texture materials: %v", err)
		}
		sc.SetMaterialOverrides(overrides)
		log.Printf("terraview: %d cycleable textures loaded (press T to cycle)", len(overrides))
	}

	win.SetKeyDownCallback(func(keyCode uint32) {
		if ctrl.OnKey(keyCode, true) {
			return
		}
		if keyCode == common.KeyT {
			name := sc.CycleMaterial()
			if name == "" {
				name = terrain.RenderMaterials()[0].Name()
			}
			log.Printf("terraview: active material %q", name)
		}
	})
	win.SetKeyUpCallback(func(keyCode uint32) {
		ctrl.OnKey(keyCode, false)
	})
	win.SetScrollCallback(ctrl.OnScroll)
	win.SetMouseDeltaCallback(ctrl.OnMouseMove)

	e := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithScene(0, sc),
		engine.WithProfiling(*profile),
	)

	log.Printf("terraview: %q %dx%d, model %q", cfg.Window.Title, win.Width(), win.Height(), terrain.Name())
	e.Run()
}

// buildTerrainShaders assembles the mesh vertex and fragment shaders from the
// canonical WGSL struct sources plus the embedded entry points, and declares
// the bind group and vertex buffer layouts the pipeline is built from.
func buildTerrainShaders() (shader.Shader, shader.Shader) {
	source := camera.GPUCameraUniformSource +
		light.GPULightSource +
		model.GPUVertexSource +
		model.GPUModelDataSource +
		terrainShaderSource

	frameLayout := wgpu.BindGroupLayoutDescriptor{
		Label: "frame",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 64, // CameraUniform
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 32, // LightUniform
				},
			},
		},
	}

	materialLayout := wgpu.BindGroupLayoutDescriptor{
		Label: "material",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}

	objectLayout := wgpu.BindGroupLayoutDescriptor{
		Label: "object",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 64, // ModelData
				},
			},
		},
	}

	vertexBufferLayout := wgpu.VertexBufferLayout{
		ArrayStride: 32, // GPUVertex
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{ShaderLocation: 0, Offset: 0, Format: wgpu.VertexFormatFloat32x3},
			{ShaderLocation: 1, Offset: 12, Format: wgpu.VertexFormatFloat32x2},
			{ShaderLocation: 2, Offset: 20, Format: wgpu.VertexFormatFloat32x3},
		},
	}

	vertexShader := shader.NewShader("terrain_vertex", shader.ShaderTypeVertex, source,
		shader.WithBindGroupLayout(scene.FrameBindGroup, frameLayout),
		shader.WithBindGroupLayout(scene.ObjectBindGroup, objectLayout),
		shader.WithVertexLayout(0, vertexBufferLayout),
	)
	fragmentShader := shader.NewShader("terrain_fragment", shader.ShaderTypeFragment, source,
		shader.WithBindGroupLayout(scene.MaterialBindGroup, materialLayout),
	)
	return vertexShader, fragmentShader
}

// buildController creates the fly controller from the camera configuration.
func buildController(cfg config.CameraConfig) camera.CameraController {
	opts := []camera.CameraControllerOption{
		camera.WithMoveSpeed(cfg.Speed),
		camera.WithMouseSensitivity(cfg.Sensitivity),
		camera.WithScrollSpeed(cfg.ScrollSpeed),
	}
	if cfg.Smoothing {
		opts = append(opts, camera.WithScrollSmoothing(60, 6.0, 0.8))
	}
	return camera.NewCameraController(opts...)
}

// buildCamera places the camera above and behind the origin, looking down at
// the terrain.
func buildCamera(cfg config.CameraConfig, ctrl camera.CameraController, width, height int) camera.Camera {
	projection, err := camera.NewProjection(
		mgl32.DegToRad(cfg.FovDegrees),
		float32(width)/float32(height),
		cfg.Near,
		cfg.Far,
	)
	if err != nil {
		log.Fatalf("terraview: invalid camera projection: %v", err)
	}

	return camera.NewCamera(
		camera.WithPosition(0, 12, 24),
		camera.WithYaw(-mgl32.DegToRad(90)),
		camera.WithPitch(-0.45),
		camera.WithProjection(projection),
		camera.WithController(ctrl),
	)
}

// loadTerrain loads the configured model, falling back to the built-in
// procedural grid when none is configured.
func loadTerrain(l loader.Loader, assets config.AssetsConfig, fragmentShader shader.Shader) model.Model {
	if assets.Model != "" {
		m, err := l.Load(assets.Model, fragmentShader)
		if err != nil {
			log.Fatalf("terraview: failed to load model %s: %v", assets.Model, err)
		}
		return m
	}

	m, err := l.LoadBuf("terrain_grid.obj", generateTerrainGrid(64, 40, 2.5), fragmentShader)
	if err != nil {
		log.Fatalf("terraview: failed to build terrain grid: %v", err)
	}
	return m
}

// textureRefs converts texture file paths into lazy texture references named
// after their file base names.
func textureRefs(paths []string) []*common.ImportedTexture {
	refs := make([]*common.ImportedTexture, 0, len(paths))
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		refs = append(refs, loader.LoadTextureFile(name, path))
	}
	return refs
}
