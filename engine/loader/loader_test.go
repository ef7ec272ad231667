package loader

import (
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelgraphics/terraview/engine/renderer/shader"
)

// quadOBJ is a flat 1×1 quad on the XZ plane with texture coordinates and an
// upward normal, split into two triangles.
const quadOBJ = `
v 0 0 0
v 1 0 0
v 1 0 1
v 0 0 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 1 0
f 1/1/1 2/2/1 3/3/1
f 1/1/1 3/3/1 4/4/1
`

const testFragmentSource = `
@group(1) @binding(0) var t_diffuse: texture_2d<f32>;
@group(1) @binding(1) var s_diffuse: sampler;

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    return textureSample(t_diffuse, s_diffuse, uv);
}
`

func materialFragmentShader(t *testing.T) shader.Shader {
	t.Helper()
	return shader.NewShader("test_fragment", shader.ShaderTypeFragment, testFragmentSource,
		shader.WithBindGroupLayout(1, wgpu.BindGroupLayoutDescriptor{
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
		}),
	)
}

func TestLoadBufOBJ(t *testing.T) {
	l := NewLoader()

	m, err := l.LoadBuf("quad.obj", []byte(quadOBJ), nil)
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, "quad", m.Name())
	assert.Equal(t, 6, m.IndexCount())
	// 4 unique vertices at 32 bytes each
	assert.Len(t, m.VertexData(), 4*32)
	assert.Len(t, m.IndexData(), 6*4)
	assert.NotNil(t, m.MeshProvider())

	// Farthest vertex from origin is (1, 0, 1)
	assert.InDelta(t, math.Sqrt2, float64(m.BoundingRadius()), 1e-5)

	// No material library in the buffer: the default material is attached so
	// there is always something to draw with.
	require.Len(t, m.RenderMaterials(), 1)
	assert.Equal(t, "quad_default", m.RenderMaterials()[0].Name())
	assert.Equal(t, "quad", m.RenderMaterials()[0].PipelineKey())
}

func TestLoadBufPipelineKeyOption(t *testing.T) {
	l := NewLoader(WithPipelineKey("terrain_mesh"))

	m, err := l.LoadBuf("quad.obj", []byte(quadOBJ), nil)
	require.NoError(t, err)
	require.Len(t, m.RenderMaterials(), 1)
	assert.Equal(t, "terrain_mesh", m.RenderMaterials()[0].PipelineKey())
}

func TestLoadBufFlipsTextureV(t *testing.T) {
	l := NewLoader()

	m, err := l.LoadBuf("quad.obj", []byte(quadOBJ), nil)
	require.NoError(t, err)

	// First vertex carries vt (0, 0), which lands at V=1 after the flip to
	// WebGPU's top-left origin. TexCoord floats sit at byte offset 12.
	data := m.VertexData()
	u := math.Float32frombits(leUint32(data[12:]))
	v := math.Float32frombits(leUint32(data[16:]))
	assert.InDelta(t, 0.0, float64(u), 1e-6)
	assert.InDelta(t, 1.0, float64(v), 1e-6)
}

func TestLoadBufCaches(t *testing.T) {
	l := NewLoader()

	m1, err := l.LoadBuf("quad.obj", []byte(quadOBJ), nil)
	require.NoError(t, err)

	m2, err := l.LoadBuf("quad.obj", []byte("not parsed again"), nil)
	require.NoError(t, err)
	assert.Same(t, m1, m2)

	assert.Same(t, m1, l.Get("quad.obj"))
	assert.Len(t, l.Models(), 1)
}

func TestLoadBufUnsupportedFormat(t *testing.T) {
	l := NewLoader()

	_, err := l.LoadBuf("terrain.fbx", []byte("whatever"), nil)
	assert.ErrorContains(t, err, "unsupported model format")
}

func TestLoadMissingFile(t *testing.T) {
	l := NewLoader()

	_, err := l.Load("does/not/exist.obj", nil)
	assert.Error(t, err)
}

func TestFindMaterialBindings(t *testing.T) {
	group, texBinding, sampBinding, ok := findMaterialBindings(materialFragmentShader(t))
	require.True(t, ok)
	assert.Equal(t, 1, group)
	assert.Equal(t, 0, texBinding)
	assert.Equal(t, 1, sampBinding)
}

func TestFindMaterialBindingsNoTextures(t *testing.T) {
	s := shader.NewShader("flat", shader.ShaderTypeFragment, "fn fs_main() {}")
	_, _, _, ok := findMaterialBindings(s)
	assert.False(t, ok)

	_, _, _, ok = findMaterialBindings(nil)
	assert.False(t, ok)
}

func TestCheckerboardTexture(t *testing.T) {
	staging := CheckerboardTexture(64, 8)

	assert.Equal(t, uint32(64), staging.Width)
	assert.Equal(t, uint32(64), staging.Height)
	assert.Len(t, staging.Pixels, 64*64*4)

	// Top-left square is magenta.
	assert.Equal(t, byte(255), staging.Pixels[0])
	assert.Equal(t, byte(0), staging.Pixels[1])
	assert.Equal(t, byte(255), staging.Pixels[2])
	assert.Equal(t, byte(255), staging.Pixels[3])

	// The square to its right (x=8) is black with full alpha.
	i := 8 * 4
	assert.Equal(t, byte(0), staging.Pixels[i])
	assert.Equal(t, byte(0), staging.Pixels[i+1])
	assert.Equal(t, byte(0), staging.Pixels[i+2])
	assert.Equal(t, byte(255), staging.Pixels[i+3])
}

func TestDecodeTextureOrFallback(t *testing.T) {
	// Nil and undecodable textures both yield the checkerboard placeholder.
	staging := decodeTextureOrFallback(nil)
	assert.Equal(t, uint32(64), staging.Width)

	staging = decodeTextureOrFallback(LoadTextureFile("missing", "does/not/exist.png"))
	assert.Equal(t, uint32(64), staging.Width)
	assert.Equal(t, uint32(64), staging.Height)
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
