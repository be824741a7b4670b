// Rain preview tool - live rain with sliders for population and blur.
//
// Usage: go run ./cmd/rainpreview [-config rain.yaml]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/rain/config"
	"github.com/pthm-cable/rain/game"
	"github.com/pthm-cable/rain/renderer"
	"github.com/pthm-cable/rain/surface"
)

const (
	windowWidth   = 1200
	windowHeight  = 720
	previewWidth  = 800
	previewHeight = 450
	panelWidth    = windowWidth - previewWidth - 40
)

// previewSurface renders the controller into an offscreen target that is
// drawn scaled into the preview rectangle.
type previewSurface struct {
	layer   rl.RenderTexture2D
	blurred rl.RenderTexture2D
	blur    *renderer.BlurPass
	session renderer.Session

	onDraw  surface.DrawFunc
	invalid bool
	frame   uint64
	last    time.Time
}

func (p *previewSurface) OnDraw(fn surface.DrawFunc) { p.onDraw = fn }
func (p *previewSurface) Invalidate()                { p.invalid = true }

func (p *previewSurface) redraw() {
	if !p.invalid || p.onDraw == nil {
		return
	}
	p.invalid = false

	now := time.Now()
	var elapsed time.Duration
	if !p.last.IsZero() {
		elapsed = now.Sub(p.last)
	}
	p.last = now

	rl.BeginTextureMode(p.layer)
	rl.ClearBackground(rl.Blank)
	p.onDraw(&p.session, surface.FrameArgs{
		Frame:   p.frame,
		Elapsed: elapsed,
		Width:   previewWidth,
		Height:  previewHeight,
	})
	rl.EndTextureMode()
	p.frame++
}

// draw composites the layer, blurred when radius > 0, into dst.
func (p *previewSurface) draw(dst rl.Rectangle, tint rl.Color, radius float64) {
	src := p.layer
	if radius > 0 {
		if p.blur.Radius() != radius {
			p.blur.SetRadius(radius)
		}
		rl.BeginTextureMode(p.blurred)
		rl.ClearBackground(rl.Blank)
		p.blur.Draw(p.layer)
		rl.EndTextureMode()
		src = p.blurred
	}

	rl.DrawRectangleRec(dst, tint)
	rl.DrawTexturePro(
		src.Texture,
		rl.Rectangle{X: 0, Y: 0, Width: previewWidth, Height: -previewHeight},
		dst,
		rl.Vector2{},
		0,
		rl.White,
	)
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	base, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Rain Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	ps := &previewSurface{
		layer:   rl.LoadRenderTexture(previewWidth, previewHeight),
		blurred: rl.LoadRenderTexture(previewWidth, previewHeight),
		blur:    renderer.NewBlurPass(previewWidth, previewHeight, base.Blur.Radius),
		invalid: true,
	}
	defer rl.UnloadRenderTexture(ps.layer)
	defer rl.UnloadRenderTexture(ps.blurred)
	defer ps.blur.Unload()

	params := *base
	blurOn := base.Blur.Enabled

	ctrl, err := newController(ps, &params)
	if err != nil {
		slog.Error("failed to create controller", "error", err)
		os.Exit(1)
	}

	for !rl.WindowShouldClose() {
		ps.redraw()

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		preview := rl.Rectangle{X: 10, Y: 10, Width: previewWidth, Height: previewHeight}
		radius := 0.0
		if blurOn {
			radius = params.Blur.Radius
		}
		ps.draw(preview, params.Derived.TintColor, radius)
		rl.DrawRectangleLinesEx(preview, 1, rl.DarkGray)

		last := ctrl.LastFrame()
		statsY := int32(previewHeight + 25)
		rl.DrawText(fmt.Sprintf("Drops: %d/%d  Drawn: %d  Frame: %d",
			ctrl.Field().Len(), ctrl.Field().Target(), last.Drawn, ctrl.Frames()), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Motion: %s  FPS: %d", params.Motion.Mode, rl.GetFPS()), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewWidth + 30)
		panelY := float32(10)

		rl.DrawText("Rain Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Target population", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newPop := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"", "",
			float32(params.Rain.TargetPopulation), 0, 1000,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Rain.TargetPopulation), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newPop) != params.Rain.TargetPopulation {
			params.Rain.TargetPopulation = int(newPop)
			ctrl.Field().SetTarget(params.Rain.TargetPopulation)
		}
		panelY += 35

		rl.DrawText("Blur radius (px)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newRadius := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"", "",
			float32(params.Blur.Radius), 0, 20,
		)
		rl.DrawText(fmt.Sprintf("%.1f", params.Blur.Radius), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		params.Blur.Radius = float64(newRadius)
		panelY += 35

		rl.DrawText("Vertical step (px/frame)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newStepY := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"", "",
			float32(params.Rain.StepY), 1, 40,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Rain.StepY), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		rebuild := int(newStepY) != params.Rain.StepY
		params.Rain.StepY = int(newStepY)
		panelY += 35

		rl.DrawText("Horizontal step (px/frame)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newStepX := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"", "",
			float32(params.Rain.StepX), -10, 10,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Rain.StepX), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newStepX) != params.Rain.StepX {
			params.Rain.StepX = int(newStepX)
			rebuild = true
		}
		panelY += 45

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(blurOn, "Blur Off", "Blur On")) {
			blurOn = !blurOn
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(params.Motion.Mode == config.MotionTimed, "Fixed Motion", "Timed Motion")) {
			if params.Motion.Mode == config.MotionTimed {
				params.Motion.Mode = config.MotionFixed
			} else {
				params.Motion.Mode = config.MotionTimed
			}
			rebuild = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = *base
			blurOn = base.Blur.Enabled
			rebuild = true
		}
		panelY += 55

		if rebuild {
			ctrl.Close()
			if ctrl, err = newController(ps, &params); err != nil {
				slog.Error("failed to rebuild controller", "error", err)
				os.Exit(1)
			}
			ps.Invalidate()
		}

		// Output YAML
		params.Blur.Enabled = blurOn
		snippet := tuningYAML(&params)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range strings.Split(strings.TrimRight(snippet, "\n"), "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 12, rl.Gray)
			panelY += 13
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
	ctrl.Close()
}

// newController builds a controller sized to the preview.
func newController(ps *previewSurface, params *config.Config) (*game.Controller, error) {
	cfg := *params
	cfg.Screen.Width = previewWidth
	cfg.Screen.Height = previewHeight
	cfg.Derived.BoundsFromSurface = false
	return game.New(ps, &cfg, game.Options{})
}

// tuningYAML renders the tunable sections as YAML.
func tuningYAML(cfg *config.Config) string {
	out := struct {
		Rain   config.RainConfig   `yaml:"rain"`
		Motion config.MotionConfig `yaml:"motion"`
		Blur   config.BlurConfig   `yaml:"blur"`
	}{cfg.Rain, cfg.Motion, cfg.Blur}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Sprintf("# %v", err)
	}
	return string(data)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
