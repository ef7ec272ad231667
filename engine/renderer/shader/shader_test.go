package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

const testVertexSource = `
@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(position, 1.0);
}
`

func TestNewShaderDefaults(t *testing.T) {
	s := NewShader("test_vertex", ShaderTypeVertex, testVertexSource)

	assert.Equal(t, "test_vertex", s.Key())
	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	assert.Equal(t, testVertexSource, s.Module().WGSLDescriptor.Code)

	f := NewShader("test_fragment", ShaderTypeFragment, "fn fs_main() {}")
	assert.Equal(t, "fs_main", f.EntryPoint())
}

func TestNewShaderPanicsWithoutSource(t *testing.T) {
	assert.Panics(t, func() {
		NewShader("empty", ShaderTypeVertex, "")
	})
}

func TestShaderDeclaredLayouts(t *testing.T) {
	layout := wgpu.BindGroupLayoutDescriptor{
		Label: "camera",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 64,
				},
			},
		},
	}
	vertexLayout := wgpu.VertexBufferLayout{
		ArrayStride: 32,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		},
	}

	s := NewShader("declared", ShaderTypeVertex, testVertexSource,
		WithBindGroupLayout(0, layout),
		WithVertexLayout(0, vertexLayout),
		WithEntryPoint("vs_custom"),
	)

	assert.Equal(t, "vs_custom", s.EntryPoint())
	assert.Equal(t, "camera", s.BindGroupLayoutDescriptor(0).Label)
	assert.Len(t, s.VertexLayout(0), 1)
	assert.Empty(t, s.BindGroupLayoutDescriptor(1).Entries)
}
