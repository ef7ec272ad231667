package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelgraphics/terraview/engine/renderer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terraview.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "terraview", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[window]
title = "demo"
width = 1920
height = 1080

[renderer]
present_mode = "uncapped"
msaa = 8
force_fallback_adapter = true

[camera]
fov_degrees = 75.0
speed = 10.0

[assets]
model = "terrain.obj"
textures = ["grass.png", "rock.png"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, 1080, cfg.Window.Height)
	assert.True(t, cfg.Renderer.ForceFallbackAdapter)
	assert.Equal(t, "terrain.obj", cfg.Assets.Model)
	assert.Equal(t, []string{"grass.png", "rock.png"}, cfg.Assets.Textures)

	// Unset fields keep their defaults.
	assert.InDelta(t, 75, float64(cfg.Camera.FovDegrees), 1e-6)
	assert.InDelta(t, 10, float64(cfg.Camera.Speed), 1e-6)
	assert.InDelta(t, 0.1, float64(cfg.Camera.Near), 1e-6)
	assert.InDelta(t, 1000, float64(cfg.Camera.Far), 1e-6)

	mode, err := cfg.Renderer.PresentModeValue()
	require.NoError(t, err)
	assert.Equal(t, renderer.PresentModeUncapped, mode)

	msaa, err := cfg.Renderer.MSAAValue()
	require.NoError(t, err)
	assert.Equal(t, renderer.MSAA8x, msaa)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := writeConfig(t, "[window\ntitle = broken")

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "zero window size",
			content: "[window]\nwidth = 0\nheight = 720",
			want:    "window size must be positive",
		},
		{
			name:    "unknown present mode",
			content: "[renderer]\npresent_mode = \"triple\"",
			want:    "unknown present_mode",
		},
		{
			name:    "unsupported msaa",
			content: "[renderer]\nmsaa = 2",
			want:    "unsupported msaa",
		},
		{
			name:    "fov out of range",
			content: "[camera]\nfov_degrees = 200.0",
			want:    "fov_degrees",
		},
		{
			name:    "inverted clip planes",
			content: "[camera]\nnear = 5.0\nfar = 1.0",
			want:    "near < far",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestPresentModeDefaultsToVSync(t *testing.T) {
	mode, err := RendererConfig{}.PresentModeValue()
	require.NoError(t, err)
	assert.Equal(t, renderer.PresentModeVSync, mode)
}

func TestMSAADefaultsTo4x(t *testing.T) {
	msaa, err := RendererConfig{}.MSAAValue()
	require.NoError(t, err)
	assert.Equal(t, renderer.MSAA4x, msaa)
}
