// Blur debug tool - renders rain frames through the GPU blur pass to a PNG,
// optionally next to the CPU blur of the same frames.
//
// Usage: go run ./cmd/blurdebug -frames 120 -radius 5 -out gpu.png -cpu cpu.png
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rain/config"
	"github.com/pthm-cable/rain/game"
	"github.com/pthm-cable/rain/raster"
	"github.com/pthm-cable/rain/renderer"
	"github.com/pthm-cable/rain/surface"
)

// textureSurface runs the draw callback into a render texture with a fixed frame step.
type textureSurface struct {
	target  rl.RenderTexture2D
	session renderer.Session
	onDraw  surface.DrawFunc
	invalid bool
	frame   uint64
	width   int
	height  int
}

func (t *textureSurface) OnDraw(fn surface.DrawFunc) { t.onDraw = fn }
func (t *textureSurface) Invalidate()                { t.invalid = true }

func (t *textureSurface) step() {
	if !t.invalid || t.onDraw == nil {
		return
	}
	t.invalid = false

	elapsed := raster.DefaultStep
	if t.frame == 0 {
		elapsed = 0
	}
	rl.BeginTextureMode(t.target)
	rl.ClearBackground(rl.Blank)
	t.onDraw(&t.session, surface.FrameArgs{Frame: t.frame, Elapsed: elapsed, Width: t.width, Height: t.height})
	rl.EndTextureMode()
	t.frame++
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "blur_gpu.png", "Output PNG path for the GPU frame")
	cpuPath := flag.String("cpu", "", "Also write the CPU-blurred frame to this PNG")
	width := flag.Int("width", 640, "Render width")
	height := flag.Int("height", 360, "Render height")
	frames := flag.Int("frames", 120, "Frames to simulate before capturing")
	radius := flag.Float64("radius", 5, "Blur radius in pixels")
	seed := flag.Int64("seed", 1, "RNG seed")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Screen.Width, cfg.Screen.Height = *width, *height
	cfg.Derived.BoundsFromSurface = false
	cfg.Motion.Mode = config.MotionFixed

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(*width), int32(*height), "Blur Debug")
	defer rl.CloseWindow()

	ts := &textureSurface{
		target:  rl.LoadRenderTexture(int32(*width), int32(*height)),
		invalid: true,
		width:   *width,
		height:  *height,
	}
	defer rl.UnloadRenderTexture(ts.target)

	ctrl, err := game.New(ts, cfg, game.Options{Seed: *seed})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create controller: %v\n", err)
		os.Exit(1)
	}
	defer ctrl.Close()

	start := time.Now()
	for i := 0; i < *frames; i++ {
		ts.step()
	}

	pass := renderer.NewBlurPass(int32(*width), int32(*height), *radius)
	defer pass.Unload()

	out := rl.LoadRenderTexture(int32(*width), int32(*height))
	defer rl.UnloadRenderTexture(out)

	rl.BeginTextureMode(out)
	rl.ClearBackground(cfg.Derived.TintColor)
	pass.Draw(ts.target)
	rl.EndTextureMode()
	gpuTime := time.Since(start)

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(out.Texture)
	rl.ImageFlipVertical(img)
	ok := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)
	if !ok {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
	fmt.Printf("GPU frame written to: %s (%dx%d, %d frames, radius %.1f, %s)\n",
		*outPath, *width, *height, *frames, *radius, gpuTime.Round(time.Millisecond))

	if *cpuPath == "" {
		return
	}

	// Same seed and frame count through the raster surface
	start = time.Now()
	rs := raster.NewSurface(*width, *height, raster.WithBlur(*radius), raster.WithBackground(cfg.Derived.TintColor))
	cpuCtrl, err := game.New(rs, cfg, game.Options{Seed: *seed})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create controller: %v\n", err)
		os.Exit(1)
	}
	defer cpuCtrl.Close()
	rs.Run(*frames)
	if err := rs.SavePNG(*cpuPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write CPU frame: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("CPU frame written to: %s (%s)\n", *cpuPath, time.Since(start).Round(time.Millisecond))
}
