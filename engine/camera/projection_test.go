package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProjectionProducesInvertibleMatrix(t *testing.T) {
	p, err := NewProjection(float32(math.Pi/4), 16.0/9.0, 0.1, 100)
	require.NoError(t, err)

	assert.NotZero(t, p.Matrix().Det())
}

func TestNewProjectionRejectsInvalidParameters(t *testing.T) {
	cases := []struct {
		name   string
		fovY   float32
		aspect float32
		near   float32
		far    float32
	}{
		{"zero fov", 0, 1, 0.1, 100},
		{"fov at pi", float32(math.Pi), 1, 0.1, 100},
		{"negative aspect", float32(math.Pi / 4), -1, 0.1, 100},
		{"zero near", float32(math.Pi / 4), 1, 0, 100},
		{"far behind near", float32(math.Pi / 4), 1, 10, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProjection(tc.fovY, tc.aspect, tc.near, tc.far)
			assert.Error(t, err)
		})
	}
}

func TestResizeChangesAspectOnly(t *testing.T) {
	p, err := NewProjection(float32(math.Pi/4), 800.0/600.0, 0.1, 100)
	require.NoError(t, err)

	fov, near, far := p.FovY(), p.Near(), p.Far()

	p.Resize(1600, 900)

	assert.InDelta(t, 1600.0/900.0, p.Aspect(), 1e-6)
	assert.Equal(t, fov, p.FovY())
	assert.Equal(t, near, p.Near())
	assert.Equal(t, far, p.Far())
}

func TestResizeClampsDegenerateHeight(t *testing.T) {
	p, err := NewProjection(float32(math.Pi/4), 1, 0.1, 100)
	require.NoError(t, err)

	p.Resize(640, 0)

	assert.InDelta(t, 640.0, p.Aspect(), 1e-6)
	assert.NotZero(t, p.Matrix().Det())
}
