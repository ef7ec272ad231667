package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUVertexSize(t *testing.T) {
	v := &GPUVertex{}
	assert.Equal(t, 32, v.Size())
}

func TestGPUVertexMarshalLayout(t *testing.T) {
	v := &GPUVertex{
		Position: [3]float32{1, 2, 3},
		TexCoord: [2]float32{0.25, 0.75},
		Normal:   [3]float32{0, 1, 0},
	}

	buf := v.Marshal()
	require.Len(t, buf, 32)

	readF32 := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
	}

	assert.Equal(t, float32(1), readF32(0))
	assert.Equal(t, float32(3), readF32(8))
	assert.Equal(t, float32(0.25), readF32(12))
	assert.Equal(t, float32(0.75), readF32(16))
	assert.Equal(t, float32(0), readF32(20))
	assert.Equal(t, float32(1), readF32(24))
}

func TestComputeBoundingRadius(t *testing.T) {
	vertices := []GPUVertex{
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 3, 4}}, // distance 5
		{Position: [3]float32{-2, 0, 0}},
	}

	assert.InDelta(t, 5.0, ComputeBoundingRadius(vertices), 1e-6)
	assert.Zero(t, ComputeBoundingRadius(nil))
}

func TestGPUModelDataMarshal(t *testing.T) {
	d := &GPUModelData{}
	for i := range d.Model {
		d.Model[i] = float32(i)
	}

	buf := d.Marshal()
	require.Len(t, buf, 64)

	for i := range 16 {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		assert.Equal(t, float32(i), got, "float %d", i)
	}
}
