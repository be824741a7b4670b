package main

import (
	"flag"
	"log/slog"
	"os"
	"runtime"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rain/config"
	"github.com/pthm-cable/rain/game"
	"github.com/pthm-cable/rain/overlay"
	"github.com/pthm-cable/rain/raster"
	"github.com/pthm-cable/rain/renderer"
	"github.com/pthm-cable/rain/surface"
	"github.com/pthm-cable/rain/ui"
)

func init() {
	// raylib must run on the main OS thread
	runtime.LockOSThread()
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited, headless defaults to 600)")
	hud := flag.Bool("hud", false, "Show the status HUD")
	snapshot := flag.String("snapshot", "", "Headless only: write the final frame to this PNG")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.Options{
		Seed:           *seed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
	}

	var err error
	if *headless {
		err = runHeadless(cfg, opts, *maxFrames, *snapshot)
	} else {
		err = runWindowed(cfg, opts, *maxFrames, *hud)
	}
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless drives the controller from the raster surface.
func runHeadless(cfg *config.Config, opts game.Options, maxFrames int, snapshot string) error {
	if maxFrames <= 0 {
		maxFrames = 600
	}

	width, height := cfg.Screen.Width, cfg.Screen.Height
	if cfg.Derived.BoundsFromSurface {
		width, height = 1920, 1080
	}

	rOpts := []raster.Option{raster.WithBackground(cfg.Derived.TintColor)}
	if cfg.Blur.Enabled {
		rOpts = append(rOpts, raster.WithBlur(cfg.Blur.Radius))
	}
	if cfg.Motion.ReferenceFPS > 0 {
		rOpts = append(rOpts, raster.WithStep(time.Duration(cfg.Derived.FrameStep*float64(time.Second))))
	}
	s := raster.NewSurface(width, height, rOpts...)

	c, err := game.New(s, cfg, opts)
	if err != nil {
		return err
	}

	slog.Info("starting headless run",
		"seed", c.Seed(),
		"width", width,
		"height", height,
		"max_frames", maxFrames,
	)

	start := time.Now()
	n := s.Run(maxFrames)
	slog.Info("max frames reached", "frames", n, "wall_time", time.Since(start).String())

	if snapshot != "" {
		if err := s.SavePNG(snapshot); err != nil {
			c.Close()
			return err
		}
		slog.Info("snapshot written", "path", snapshot)
	}
	return c.Close()
}

// runWindowed opens the overlay window and runs until it closes.
func runWindowed(cfg *config.Config, opts game.Options, maxFrames int, showHUD bool) error {
	win := renderer.NewWindow(cfg)
	defer win.Close()

	if cfg.Overlay.ClickThrough && overlay.Supported {
		if err := overlay.ApplyStyles(win.Handle(), true); err != nil {
			slog.Warn("failed to apply overlay styles", "error", err)
		}
	}

	c, err := game.New(win, cfg, opts)
	if err != nil {
		return err
	}

	if showHUD {
		hud := ui.NewHUD()
		blurRadius := 0.0
		if cfg.Blur.Enabled {
			blurRadius = cfg.Blur.Radius
		}
		win.SetOverlay(func(args surface.FrameArgs) {
			last := c.LastFrame()
			hud.Draw(ui.HUDData{
				Title:      cfg.Screen.Title,
				Population: c.Field().Len(),
				Target:     c.Field().Target(),
				Drawn:      last.Drawn,
				Frame:      args.Frame,
				FPS:        rl.GetFPS(),
				Motion:     cfg.Motion.Mode,
				BlurRadius: blurRadius,
				Perf:       c.Perf().Stats(),
			}, int32(args.Width), int32(args.Height))
		})
	}

	w, h := win.Size()
	slog.Info("window open", "seed", c.Seed(), "width", w, "height", h, "blur", cfg.Blur.Enabled, "lightning", cfg.Lightning.Enabled)

	win.Run(maxFrames)
	slog.Info("window closed", "frames", c.Frames())
	return c.Close()
}
