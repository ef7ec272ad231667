package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option for configuring a Shader via NewShader.
type ShaderBuilderOption func(*shader)

// WithEntryPoint overrides the default entry point name for the shader.
//
// Parameters:
//   - entryPoint: the entry point function name in the WGSL source
//
// Returns:
//   - ShaderBuilderOption: a function that sets the entry point
func WithEntryPoint(entryPoint string) ShaderBuilderOption {
	return func(s *shader) {
		s.entryPoint = entryPoint
	}
}

// WithBindGroupLayout declares the bind group layout for a group index used by
// this shader. The declared entries must match the @group/@binding
// declarations in the WGSL source.
//
// Parameters:
//   - group: the bind group index
//   - descriptor: the bind group layout descriptor for the group
//
// Returns:
//   - ShaderBuilderOption: a function that declares the bind group layout
func WithBindGroupLayout(group int, descriptor wgpu.BindGroupLayoutDescriptor) ShaderBuilderOption {
	return func(s *shader) {
		s.bindGroupLayoutDescriptors[group] = descriptor
	}
}

// WithVertexLayout declares the vertex buffer layout for a buffer slot. Only
// meaningful for vertex shaders.
//
// Parameters:
//   - slot: the vertex buffer slot index
//   - layout: the vertex buffer layouts bound at the slot
//
// Returns:
//   - ShaderBuilderOption: a function that declares the vertex layout
func WithVertexLayout(slot int, layout ...wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts[slot] = layout
	}
}
