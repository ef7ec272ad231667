package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPULightSource is the canonical WGSL definition of the LightUniform struct.
// Matches GPULight layout exactly (32 bytes, std140 aligned).
//
//go:embed assets/light_uniform.wgsl
var GPULightSource string

// GPULight is the GPU-aligned representation of the light uniform buffer.
// Matches the WGSL LightUniform struct layout exactly (see GPULightSource).
// vec3 fields carry 4 bytes of trailing padding each under std140 rules.
// Size: 32 bytes.
type GPULight struct {
	Position [3]float32 // offset  0: world-space position (vec3<f32>)
	_pad0    float32    // offset 12: padding to 16-byte alignment
	Color    [3]float32 // offset 16: RGB color (vec3<f32>)
	_pad1    float32    // offset 28: padding to 32 bytes
}

// NewGPULight creates a light uniform with the default white light at (2, 2, 2).
//
// Returns:
//   - *GPULight: the default-initialized uniform
func NewGPULight() *GPULight {
	return &GPULight{
		Position: [3]float32{2, 2, 2},
		Color:    [3]float32{1, 1, 1},
	}
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], 0) // _pad0
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[28:32], 0) // _pad1
	return buf
}
