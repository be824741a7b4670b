// Package game drives the rain field from a render surface's draw callback.
package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rain/components"
	"github.com/pthm-cable/rain/config"
	"github.com/pthm-cable/rain/surface"
	"github.com/pthm-cable/rain/systems"
	"github.com/pthm-cable/rain/telemetry"
)

// Options configures a Controller.
type Options struct {
	Seed           int64   // RNG seed (0 = time-based)
	LogStats       bool    // Log window and perf stats via slog
	StatsWindowSec float64 // Stats window in seconds (0 = use config)
	OutputDir      string  // Directory for CSV output (empty = disabled)
}

// FrameResult summarizes the last frame.
type FrameResult struct {
	Frame   uint64
	Spawned int
	Culled  int
	Drawn   int
	Flash   float64 // lightning alpha, 0 when dark
}

// Controller owns the rain field and runs one update and draw pass per frame.
type Controller struct {
	cfg     *config.Config
	surface surface.Surface

	world *ecs.World
	field *systems.RainField
	style systems.DropStyle
	rng   *rand.Rand
	seed  int64

	lightning *systems.Lightning // nil when disabled
	flasher   surface.Flasher    // nil when the surface cannot flash

	timed  bool
	refFPS float64

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool

	frames        uint64
	last          FrameResult
	lastWindow    telemetry.WindowStats
	statsCallback func(telemetry.WindowStats)
}

const lightningSeedOffset = 1

// New creates a controller and subscribes it to the surface. The pool starts empty
// and is filled on the first frame.
func New(s surface.Surface, cfg *config.Config, opts Options) (*Controller, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	rng := rand.New(rand.NewSource(seed))
	world := ecs.NewWorld()

	c := &Controller{
		cfg:     cfg,
		surface: s,
		world:   world,
		field: systems.NewRainField(world, rng, systems.RainFieldConfig{
			Bounds: components.Bounds{Width: cfg.Screen.Width, Height: cfg.Screen.Height},
			Target: cfg.Rain.TargetPopulation,
			Band:   cfg.Rain.SpawnBand,
			Step:   components.Step{X: cfg.Rain.StepX, Y: cfg.Rain.StepY},
			Speed:  cfg.Rain.Speed,
		}),
		style: systems.DropStyle{
			Radius:      cfg.Rain.Radius,
			StrokeWidth: cfg.Rain.StrokeWidth,
			Color:       cfg.Derived.DropColor,
		},
		rng:       rng,
		seed:      seed,
		timed:     cfg.Motion.Mode == config.MotionTimed,
		refFPS:    cfg.Motion.ReferenceFPS,
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector: telemetry.NewCollector(statsWindow),
		output:    output,
		logStats:  opts.LogStats,
	}

	if cfg.Lightning.Enabled {
		// Own stream so toggling lightning leaves the drop sequence unchanged
		c.lightning = systems.NewLightning(rand.New(rand.NewSource(seed+lightningSeedOffset)), systems.LightningConfig{
			Frequency: cfg.Lightning.Frequency,
			Intensity: cfg.Lightning.Intensity,
		})
		c.flasher, _ = s.(surface.Flasher)
	}

	s.OnDraw(c.onDraw)

	slog.Info("controller ready",
		"seed", seed,
		"target_population", cfg.Rain.TargetPopulation,
		"motion", cfg.Motion.Mode,
		"bounds_from_surface", cfg.Derived.BoundsFromSurface,
		"lightning", cfg.Lightning.Enabled,
		"output_dir", output.Dir(),
	)
	return c, nil
}

// onDraw is the per-frame callback: advance, cull, replenish, draw, record,
// then ask the surface for the next frame.
func (c *Controller) onDraw(s surface.DrawingSession, args surface.FrameArgs) {
	c.perf.StartFrame()

	if c.cfg.Derived.BoundsFromSurface && args.Width > 0 && args.Height > 0 {
		c.field.SetBounds(components.Bounds{Width: args.Width, Height: args.Height})
	}

	c.perf.StartPhase(telemetry.PhaseAdvance)
	if c.timed {
		c.field.AdvanceScaled(frameScale(args.Elapsed, c.refFPS))
	} else {
		c.field.Advance()
	}

	c.perf.StartPhase(telemetry.PhaseCull)
	culled := c.field.Cull()

	c.perf.StartPhase(telemetry.PhaseReplenish)
	spawned := c.field.Replenish()

	c.perf.StartPhase(telemetry.PhaseDraw)
	drawn := c.field.Draw(s, c.style)
	flash := c.updateLightning(args)

	c.perf.StartPhase(telemetry.PhaseTelemetry)
	c.frames++
	c.last = FrameResult{Frame: args.Frame, Spawned: spawned, Culled: culled, Drawn: drawn, Flash: flash}
	c.collector.RecordFrame(args.Elapsed, spawned, culled, drawn)
	c.flushTelemetry()

	c.perf.EndFrame()
	c.perf.RecordPresent()

	c.surface.Invalidate()
}

// updateLightning advances the flash and hands its alpha to the surface.
func (c *Controller) updateLightning(args surface.FrameArgs) float64 {
	if c.lightning == nil {
		return 0
	}
	if c.lightning.Update(args.Elapsed) {
		slog.Debug("lightning strike",
			"frame", args.Frame,
			"intensity", c.lightning.Intensity(),
			"next", c.lightning.Next().String(),
		)
	}
	flash := c.lightning.Intensity()
	if c.flasher != nil {
		c.flasher.SetFlash(flash)
	}
	return flash
}

// frameScale converts a frame interval to a step multiplier at fps, quantized to
// a millionth of a step so a whole reference frame scales to exactly 1.
func frameScale(elapsed time.Duration, fps float64) float64 {
	return math.Round(elapsed.Seconds()*fps*1e6) / 1e6
}

// Field returns the rain field.
func (c *Controller) Field() *systems.RainField {
	return c.field
}

// Frames returns the number of frames processed.
func (c *Controller) Frames() uint64 {
	return c.frames
}

// LastFrame returns the counts from the most recent frame.
func (c *Controller) LastFrame() FrameResult {
	return c.last
}

// LastWindow returns the most recently flushed stats window.
func (c *Controller) LastWindow() telemetry.WindowStats {
	return c.lastWindow
}

// Lightning returns the flash state machine, or nil when lightning is disabled.
func (c *Controller) Lightning() *systems.Lightning {
	return c.lightning
}

// Perf returns the frame timing collector.
func (c *Controller) Perf() *telemetry.PerfCollector {
	return c.perf
}

// Seed returns the RNG seed in use.
func (c *Controller) Seed() int64 {
	return c.seed
}

// SetStatsCallback registers a function called with every flushed window.
func (c *Controller) SetStatsCallback(fn func(telemetry.WindowStats)) {
	c.statsCallback = fn
}

// Close flushes any partial window and closes output files.
func (c *Controller) Close() error {
	if c.frames > 0 && c.lastWindow.WindowEnd != c.frames {
		c.writeWindow()
	}
	if err := c.output.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}
