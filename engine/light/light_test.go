package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight()

	assert.Equal(t, mgl32.Vec3{2, 2, 2}, l.Position())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.Color())
	assert.NotNil(t, l.BindGroupProvider())
}

func TestLightUniformTracksMutations(t *testing.T) {
	l := NewLight(WithPosition(0, 10, 0), WithColor(1, 0.5, 0.25))

	u := l.Uniform()
	assert.Equal(t, [3]float32{0, 10, 0}, u.Position)
	assert.Equal(t, [3]float32{1, 0.5, 0.25}, u.Color)

	l.SetPosition(mgl32.Vec3{-3, 4, 5})
	assert.Equal(t, [3]float32{-3, 4, 5}, l.Uniform().Position)
}

func TestGPULightSize(t *testing.T) {
	assert.Equal(t, 32, NewGPULight().Size())
}

func TestGPULightMarshalLayout(t *testing.T) {
	g := &GPULight{
		Position: [3]float32{1, 2, 3},
		Color:    [3]float32{0.1, 0.2, 0.3},
	}

	buf := g.Marshal()
	require.Len(t, buf, 32)

	readF32 := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
	}

	assert.Equal(t, float32(1), readF32(0))
	assert.Equal(t, float32(2), readF32(4))
	assert.Equal(t, float32(3), readF32(8))
	assert.Equal(t, float32(0.1), readF32(16))
	assert.Equal(t, float32(0.2), readF32(20))
	assert.Equal(t, float32(0.3), readF32(24))
}
