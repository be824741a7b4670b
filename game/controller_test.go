package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/rain/components"
	"github.com/pthm-cable/rain/config"
	"github.com/pthm-cable/rain/raster"
	"github.com/pthm-cable/rain/telemetry"
)

func fixedConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Motion.Mode = config.MotionFixed
	return cfg
}

func newTestController(t *testing.T, cfg *config.Config, opts ...raster.Option) (*Controller, *raster.Surface) {
	t.Helper()
	s := raster.NewSurface(1920, 1080, opts...)
	c, err := New(s, cfg, Options{Seed: 42})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, s
}

func TestControllerFirstFrame(t *testing.T) {
	c, s := newTestController(t, fixedConfig())

	if c.Field().Len() != 0 {
		t.Fatalf("pool should start empty, got %d", c.Field().Len())
	}

	if n := s.Run(1); n != 1 {
		t.Fatalf("ran %d frames, want 1", n)
	}

	if c.Field().Len() != 50 {
		t.Errorf("Len() = %d after first frame, want 50", c.Field().Len())
	}
	last := c.LastFrame()
	if last.Spawned != 50 || last.Culled != 0 || last.Drawn != 0 {
		t.Errorf("first frame = %+v, want 50 spawned and nothing drawn", last)
	}
	if s.Calls() != 0 {
		t.Errorf("surface received %d draw calls, want 0", s.Calls())
	}
	for _, d := range c.Field().Drops() {
		if d.Y >= 0 || d.Y < -1080 || d.Y%10 != 0 || d.X < 0 || d.X >= 1920 {
			t.Errorf("fresh drop %+v out of spawn bounds", d)
		}
	}
}

func TestControllerReinvalidates(t *testing.T) {
	c, s := newTestController(t, fixedConfig())

	if n := s.Run(250); n != 250 {
		t.Fatalf("surface stopped after %d frames; controller must keep invalidating", n)
	}
	if c.Frames() != 250 {
		t.Errorf("Frames() = %d, want 250", c.Frames())
	}
	if c.LastFrame().Frame != 249 {
		t.Errorf("LastFrame().Frame = %d, want 249", c.LastFrame().Frame)
	}
}

func TestControllerPopulationAndDraws(t *testing.T) {
	c, s := newTestController(t, fixedConfig())

	for frame := 0; frame < 600; frame++ {
		if !s.Step() {
			t.Fatalf("frame %d was not requested", frame)
		}
		if c.Field().Len() != 50 {
			t.Fatalf("frame %d: Len() = %d, want 50", frame, c.Field().Len())
		}

		visible := 0
		for _, d := range c.Field().Drops() {
			if d.Y >= 1080 {
				t.Fatalf("frame %d: drop %+v survived the cull", frame, d)
			}
			if d.Y > 0 {
				visible++
			}
		}
		if s.Calls() != visible || c.LastFrame().Drawn != visible {
			t.Fatalf("frame %d: drew %d (reported %d), want %d visible",
				frame, s.Calls(), c.LastFrame().Drawn, visible)
		}
	}
}

func TestControllerTimedMotion(t *testing.T) {
	cfg := config.Defaults()
	cfg.Rain.TargetPopulation = 0
	c, s := newTestController(t, cfg, raster.WithStep(500*time.Millisecond))

	c.Field().Spawn(components.Raindrop{X: 0, Y: 0})

	// First frame reports no elapsed time
	s.Step()
	if d := c.Field().Drops()[0]; d.X != 0 || d.Y != 0 {
		t.Fatalf("drop moved on the first frame: %+v", d)
	}

	s.Step()
	if d := c.Field().Drops()[0]; d.X != 60 || d.Y != 300 {
		t.Errorf("after 500ms got (%d, %d), want (60, 300)", d.X, d.Y)
	}
}

func TestControllerTimedMatchesFixedAtReferenceRate(t *testing.T) {
	fixed, fs := newTestController(t, fixedConfig())
	timed, ts := newTestController(t, config.Defaults())

	fs.Run(300)
	ts.Run(300)

	a, b := fixed.Field().Drops(), timed.Field().Drops()
	if len(a) != len(b) {
		t.Fatalf("pool sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].X != b[i].X || a[i].Y != b[i].Y {
			t.Fatalf("drop %d: fixed %+v, timed %+v", i, a[i], b[i])
		}
	}
}

func lightningConfig() *config.Config {
	cfg := fixedConfig()
	cfg.Lightning.Enabled = true
	cfg.Lightning.Frequency = 100
	return cfg
}

func TestControllerLightningFlashesSurface(t *testing.T) {
	c, s := newTestController(t, lightningConfig())

	lit := 0
	for i := 0; i < 600; i++ {
		s.Step()
		flash := c.LastFrame().Flash
		if s.Flash() != flash {
			t.Fatalf("frame %d: surface flash %v, controller %v", i, s.Flash(), flash)
		}
		if flash < 0 || flash > 1 {
			t.Fatalf("frame %d: flash %v out of range", i, flash)
		}
		if flash > 0 {
			lit++
		}
	}

	if c.Lightning().Strikes() == 0 || lit == 0 {
		t.Fatalf("strikes=%d lit frames=%d over 10s, want both above zero", c.Lightning().Strikes(), lit)
	}
	if lit == 600 {
		t.Error("every frame was lit, want the flash to fade between strikes")
	}
}

func TestControllerLightningDisabled(t *testing.T) {
	c, s := newTestController(t, fixedConfig())
	s.Run(600)

	if c.Lightning() != nil {
		t.Error("Lightning() should be nil when disabled")
	}
	if c.LastFrame().Flash != 0 || s.Flash() != 0 {
		t.Errorf("flash = %v/%v with lightning disabled, want 0", c.LastFrame().Flash, s.Flash())
	}
}

func TestControllerLightningKeepsDropSequence(t *testing.T) {
	plain, ps := newTestController(t, fixedConfig())
	stormy, ss := newTestController(t, lightningConfig())

	ps.Run(300)
	ss.Run(300)

	a, b := plain.Field().Drops(), stormy.Field().Drops()
	if len(a) != len(b) {
		t.Fatalf("pool sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].X != b[i].X || a[i].Y != b[i].Y {
			t.Fatalf("drop %d: without lightning %+v, with %+v", i, a[i], b[i])
		}
	}
}

func TestControllerBoundsFromSurface(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rain.yaml")
	if err := os.WriteFile(path, []byte("screen:\n  width: 0\n  height: 0\nmotion:\n  mode: fixed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := raster.NewSurface(320, 200)
	c, err := New(s, cfg, Options{Seed: 7})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	s.Run(120)

	if got := c.Field().Bounds(); got != (components.Bounds{Width: 320, Height: 200}) {
		t.Fatalf("Bounds() = %+v, want the surface size", got)
	}
	for _, d := range c.Field().Drops() {
		if d.Y >= 200 || d.Y < -200 {
			t.Errorf("drop %+v outside the surface-sized field", d)
		}
	}
}

func TestControllerWritesOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := raster.NewSurface(1920, 1080)
	c, err := New(s, fixedConfig(), Options{Seed: 3, StatsWindowSec: 0.5, OutputDir: dir, LogStats: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var windows []telemetry.WindowStats
	c.SetStatsCallback(func(ws telemetry.WindowStats) {
		windows = append(windows, ws)
	})

	s.Run(100)
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Three full half-second windows plus the partial one flushed on close
	if len(windows) != 4 {
		t.Fatalf("got %d windows, want 4", len(windows))
	}
	for _, w := range windows {
		if w.Population != 50 || w.Target != 50 {
			t.Errorf("window %+v: population/target should be 50", w)
		}
	}
	if c.LastWindow().WindowEnd != 100 {
		t.Errorf("last window ends at %d, want 100", c.LastWindow().WindowEnd)
	}

	data, err := os.ReadFile(filepath.Join(dir, "frames.csv"))
	if err != nil {
		t.Fatalf("reading frames.csv: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 5 {
		t.Errorf("frames.csv has %d lines, want header + 4 rows", len(lines))
	}
	if _, err := os.Stat(filepath.Join(dir, "perf.csv")); err != nil {
		t.Errorf("perf.csv missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml missing: %v", err)
	}
}

func TestControllerSeed(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"explicit", 42},
		{"time-based", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(raster.NewSurface(8, 8), fixedConfig(), Options{Seed: tt.seed})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer c.Close()

			if tt.seed != 0 && c.Seed() != tt.seed {
				t.Errorf("Seed() = %d, want %d", c.Seed(), tt.seed)
			}
			if c.Seed() == 0 {
				t.Error("Seed() = 0, want a chosen seed")
			}
		})
	}
}

func TestControllerOutputDirError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := New(raster.NewSurface(8, 8), fixedConfig(), Options{OutputDir: file})
	if err == nil {
		t.Fatal("expected an error when the output dir is a file")
	}
}

func TestFrameScale(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    float64
	}{
		{0, 0},
		{time.Second / 60, 1},
		{500 * time.Millisecond, 30},
		{time.Second / 120, 0.5},
	}
	for _, tt := range tests {
		if got := frameScale(tt.elapsed, 60); got != tt.want {
			t.Errorf("frameScale(%v, 60) = %v, want %v", tt.elapsed, got, tt.want)
		}
	}
}
