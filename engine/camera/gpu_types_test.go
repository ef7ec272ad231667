package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUCameraUniformSize(t *testing.T) {
	u := NewGPUCameraUniform()
	assert.Equal(t, 64, u.Size())
}

func TestNewGPUCameraUniformIsIdentity(t *testing.T) {
	u := NewGPUCameraUniform()
	for col := range 4 {
		for row := range 4 {
			want := float32(0)
			if row == col {
				want = 1
			}
			assert.Equal(t, want, u.ViewProj[col*4+row], "col %d row %d", col, row)
		}
	}
}

func TestGPUCameraUniformMarshalLayout(t *testing.T) {
	u := NewGPUCameraUniform()
	for i := range u.ViewProj {
		u.ViewProj[i] = float32(i) * 0.5
	}

	buf := u.Marshal()
	require.Len(t, buf, 64)

	for i := range 16 {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		assert.Equal(t, u.ViewProj[i], got, "float %d", i)
	}
}
