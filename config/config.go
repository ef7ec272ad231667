package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/kestrelgraphics/terraview/engine/renderer"
)

// Config is the top-level viewer configuration, loaded from a TOML file.
// Missing fields fall back to the defaults from DefaultConfig.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Camera   CameraConfig   `toml:"camera"`
	Assets   AssetsConfig   `toml:"assets"`
}

// WindowConfig controls the application window.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// RendererConfig controls surface presentation and adapter selection.
// PresentMode is "vsync" or "uncapped"; MSAA is 1, 4, 8, or 16 samples.
type RendererConfig struct {
	PresentMode          string `toml:"present_mode"`
	MSAA                 int    `toml:"msaa"`
	ForceFallbackAdapter bool   `toml:"force_fallback_adapter"`
}

// CameraConfig controls the fly camera. FovDegrees is the vertical field of
// view; Speed is in world units per second; Sensitivity is in radians per
// hundred pixels of mouse travel.
type CameraConfig struct {
	FovDegrees  float32 `toml:"fov_degrees"`
	Near        float32 `toml:"near"`
	Far         float32 `toml:"far"`
	Speed       float32 `toml:"speed"`
	Sensitivity float32 `toml:"sensitivity"`
	ScrollSpeed float32 `toml:"scroll_speed"`
	Smoothing   bool    `toml:"smoothing"`
}

// AssetsConfig names the content to load. Model is an OBJ or glTF file path;
// Textures are standalone image files cycleable at runtime. An empty Model
// falls back to the built-in terrain grid.
type AssetsConfig struct {
	Model    string   `toml:"model"`
	Textures []string `toml:"textures"`
}

// DefaultConfig returns the configuration used when no file is present.
//
// Returns:
//   - Config: the default configuration
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:  "terraview",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			PresentMode: "vsync",
			MSAA:        4,
		},
		Camera: CameraConfig{
			FovDegrees:  60,
			Near:        0.1,
			Far:         1000,
			Speed:       4,
			Sensitivity: 0.4,
			ScrollSpeed: 4,
		},
	}
}

// Load reads the configuration from a TOML file, layering it over the
// defaults. A missing file is not an error: the defaults are returned so the
// viewer can start without any configuration on disk.
//
// Parameters:
//   - path: the configuration file path
//
// Returns:
//   - Config: the loaded configuration
//   - error: error if the file exists but cannot be read or parsed
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// validate rejects values the engine cannot honor.
func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, err := c.Renderer.PresentModeValue(); err != nil {
		return err
	}
	if _, err := c.Renderer.MSAAValue(); err != nil {
		return err
	}
	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		return fmt.Errorf("camera fov_degrees must be in (0, 180), got %v", c.Camera.FovDegrees)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera planes must satisfy 0 < near < far, got near=%v far=%v", c.Camera.Near, c.Camera.Far)
	}
	return nil
}

// PresentModeValue maps the configured present mode string to the renderer's
// PresentMode.
//
// Returns:
//   - renderer.PresentMode: the present mode
//   - error: error if the string is not a recognized mode
func (r RendererConfig) PresentModeValue() (renderer.PresentMode, error) {
	switch r.PresentMode {
	case "", "vsync":
		return renderer.PresentModeVSync, nil
	case "uncapped":
		return renderer.PresentModeUncapped, nil
	default:
		return renderer.PresentModeVSync, fmt.Errorf("unknown present_mode %q (want vsync or uncapped)", r.PresentMode)
	}
}

// MSAAValue maps the configured sample count to the renderer's MSAASampleCount.
//
// Returns:
//   - renderer.MSAASampleCount: the sample count
//   - error: error if the count is not supported
func (r RendererConfig) MSAAValue() (renderer.MSAASampleCount, error) {
	switch r.MSAA {
	case 0, 4:
		return renderer.MSAA4x, nil
	case 1:
		return renderer.MSAAOff, nil
	case 8:
		return renderer.MSAA8x, nil
	case 16:
		return renderer.MSAA16x, nil
	default:
		return renderer.MSAA4x, fmt.Errorf("unsupported msaa sample count %d (want 1, 4, 8, or 16)", r.MSAA)
	}
}
