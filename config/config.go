// Package config provides configuration loading and access for the overlay.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Motion modes.
const (
	MotionFixed = "fixed" // constant displacement per frame
	MotionTimed = "timed" // displacement scaled by elapsed wall-clock time
)

// Config holds all overlay configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Overlay   OverlayConfig   `yaml:"overlay"`
	Rain      RainConfig      `yaml:"rain"`
	Motion    MotionConfig    `yaml:"motion"`
	Blur      BlurConfig      `yaml:"blur"`
	Lightning LightningConfig `yaml:"lightning"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds the logical frame bounds and window settings.
// A zero width or height means "use the surface size".
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"` // 0 = uncapped (vsync only)
	Title     string `yaml:"title"`
}

// OverlayConfig holds window styling for the overlay.
type OverlayConfig struct {
	Transparent  bool `yaml:"transparent"`
	Topmost      bool `yaml:"topmost"`
	Undecorated  bool `yaml:"undecorated"`
	ClickThrough bool `yaml:"click_through"`
	Tint         RGBA `yaml:"tint"` // backdrop drawn under the rain each frame
}

// RainConfig holds particle pool and appearance parameters.
type RainConfig struct {
	TargetPopulation int     `yaml:"target_population"`
	StepX            int     `yaml:"step_x"`     // pixels per frame
	StepY            int     `yaml:"step_y"`     // pixels per frame
	SpawnBand        int     `yaml:"spawn_band"` // vertical spawn positions are multiples of this
	Speed            int     `yaml:"speed"`
	Radius           float32 `yaml:"radius"`
	StrokeWidth      float32 `yaml:"stroke_width"`
	Color            RGBA    `yaml:"color"`
}

// MotionConfig selects how drops are advanced each frame.
type MotionConfig struct {
	Mode         string  `yaml:"mode"`
	ReferenceFPS float64 `yaml:"reference_fps"` // frame rate at which timed motion equals fixed motion
}

// BlurConfig holds the optional Gaussian blur post-process.
type BlurConfig struct {
	Enabled bool    `yaml:"enabled"`
	Radius  float64 `yaml:"radius"` // pixels
}

// LightningConfig holds the occasional full-screen flash.
// Frequency and intensity run from 0 to 100.
type LightningConfig struct {
	Enabled   bool `yaml:"enabled"`
	Frequency int  `yaml:"frequency"` // higher strikes more often
	Intensity int  `yaml:"intensity"` // higher flashes brighter
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// RGBA is a YAML-friendly color.
type RGBA struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
	A uint8 `yaml:"a"`
}

// Color converts to image/color.
func (c RGBA) Color() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	BoundsFromSurface bool       // Screen width or height is 0
	DropColor         color.RGBA // Rain.Color
	TintColor         color.RGBA // Overlay.Tint
	FrameStep         float64    // seconds per frame at ReferenceFPS
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Screen.Width < 0 || c.Screen.Height < 0:
		return fmt.Errorf("config: screen size must not be negative (got %dx%d)", c.Screen.Width, c.Screen.Height)
	case c.Rain.TargetPopulation < 0:
		return fmt.Errorf("config: rain.target_population must not be negative (got %d)", c.Rain.TargetPopulation)
	case c.Rain.StepY < 1:
		return fmt.Errorf("config: rain.step_y must be at least 1 (got %d)", c.Rain.StepY)
	case c.Rain.SpawnBand < 1:
		return fmt.Errorf("config: rain.spawn_band must be at least 1 (got %d)", c.Rain.SpawnBand)
	case c.Motion.Mode != MotionFixed && c.Motion.Mode != MotionTimed:
		return fmt.Errorf("config: unknown motion.mode %q", c.Motion.Mode)
	case c.Motion.Mode == MotionTimed && !(c.Motion.ReferenceFPS > 0):
		return fmt.Errorf("config: motion.reference_fps must be positive (got %v)", c.Motion.ReferenceFPS)
	case c.Blur.Radius < 0 || math.IsNaN(c.Blur.Radius):
		return fmt.Errorf("config: blur.radius must not be negative (got %v)", c.Blur.Radius)
	case c.Lightning.Frequency < 0 || c.Lightning.Frequency > 100:
		return fmt.Errorf("config: lightning.frequency must be within 0..100 (got %d)", c.Lightning.Frequency)
	case c.Lightning.Intensity < 0 || c.Lightning.Intensity > 100:
		return fmt.Errorf("config: lightning.intensity must be within 0..100 (got %d)", c.Lightning.Intensity)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.BoundsFromSurface = c.Screen.Width == 0 || c.Screen.Height == 0
	c.Derived.DropColor = c.Rain.Color.Color()
	c.Derived.TintColor = c.Overlay.Tint.Color()
	if c.Motion.ReferenceFPS > 0 {
		c.Derived.FrameStep = 1 / c.Motion.ReferenceFPS
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
