// Package renderer hosts the rain in a raylib overlay window.
package renderer

import (
	"time"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rain/config"
	"github.com/pthm-cable/rain/surface"
)

// OverlayFunc draws on top of the composited rain, outside the blur.
type OverlayFunc func(args surface.FrameArgs)

// Window is a raylib render surface. The draw callback renders into an
// offscreen layer that is composited over the backdrop tint every frame;
// the layer is only redrawn while the surface is invalidated.
type Window struct {
	width, height int32
	tint          rl.Color

	layer   rl.RenderTexture2D
	session Session
	blur    *BlurPass

	onDraw  surface.DrawFunc
	overlay OverlayFunc
	invalid bool
	flash   float64

	frames uint64
	last   time.Time
	args   surface.FrameArgs
}

// NewWindow opens the overlay window described by cfg.
// A zero screen size opens the window at the monitor size.
func NewWindow(cfg *config.Config) *Window {
	var flags uint32 = rl.FlagVsyncHint
	if cfg.Overlay.Transparent {
		flags |= rl.FlagWindowTransparent
	}
	if cfg.Overlay.Undecorated {
		flags |= rl.FlagWindowUndecorated
	}
	if cfg.Overlay.Topmost {
		flags |= rl.FlagWindowTopmost
	}
	if cfg.Overlay.ClickThrough {
		flags |= rl.FlagWindowMousePassthrough
	}
	rl.SetConfigFlags(flags)

	w, h := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	rl.InitWindow(w, h, cfg.Screen.Title)
	if w == 0 || h == 0 {
		m := rl.GetCurrentMonitor()
		w, h = int32(rl.GetMonitorWidth(m)), int32(rl.GetMonitorHeight(m))
		rl.SetWindowSize(int(w), int(h))
		rl.SetWindowPosition(0, 0)
	}
	if cfg.Screen.TargetFPS > 0 {
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	}

	win := &Window{
		width:   w,
		height:  h,
		tint:    cfg.Derived.TintColor,
		layer:   rl.LoadRenderTexture(w, h),
		invalid: true,
	}
	if cfg.Blur.Enabled && cfg.Blur.Radius > 0 {
		win.blur = NewBlurPass(w, h, cfg.Blur.Radius)
	}
	return win
}

// OnDraw registers the per-frame callback.
func (w *Window) OnDraw(fn surface.DrawFunc) {
	w.onDraw = fn
}

// Invalidate requests that the layer be redrawn on the next frame.
func (w *Window) Invalidate() {
	w.invalid = true
}

// SetOverlay registers a function drawn after the rain, such as a HUD.
func (w *Window) SetOverlay(fn OverlayFunc) {
	w.overlay = fn
}

// SetFlash sets the alpha of the white fill drawn over the rain. Zero clears it.
func (w *Window) SetFlash(alpha float64) {
	w.flash = max(0, min(1, alpha))
}

// Handle returns the native window handle.
func (w *Window) Handle() unsafe.Pointer {
	return rl.GetWindowHandle()
}

// Size returns the window size in pixels.
func (w *Window) Size() (int, int) {
	return int(w.width), int(w.height)
}

// DrawCalls returns the draw calls issued by the last redraw.
func (w *Window) DrawCalls() int {
	return w.session.Calls()
}

// Frames returns the number of layer redraws.
func (w *Window) Frames() uint64 {
	return w.frames
}

// Run presents frames until the window is closed or maxFrames layer redraws
// have happened. maxFrames <= 0 means no limit.
func (w *Window) Run(maxFrames int) {
	for !rl.WindowShouldClose() {
		if maxFrames > 0 && w.frames >= uint64(maxFrames) {
			return
		}
		w.present()
	}
}

// present redraws the layer if invalidated and composites one frame.
func (w *Window) present() {
	if w.invalid {
		w.invalid = false
		w.redraw()
	}

	rl.BeginDrawing()
	rl.ClearBackground(w.tint)
	if w.blur != nil {
		w.blur.Draw(w.layer)
	} else {
		drawTarget(w.layer, w.width, w.height, rl.White)
	}
	if w.flash > 0 {
		rl.DrawRectangle(0, 0, w.width, w.height, rl.Fade(rl.White, float32(w.flash)))
	}
	if w.overlay != nil {
		w.overlay(w.args)
	}
	rl.EndDrawing()
}

func (w *Window) redraw() {
	now := time.Now()
	var elapsed time.Duration
	if !w.last.IsZero() {
		elapsed = now.Sub(w.last)
	}
	w.last = now

	w.args = surface.FrameArgs{
		Frame:   w.frames,
		Elapsed: elapsed,
		Width:   int(w.width),
		Height:  int(w.height),
	}

	rl.BeginTextureMode(w.layer)
	rl.ClearBackground(rl.Blank)
	w.session.reset()
	if w.onDraw != nil {
		w.onDraw(&w.session, w.args)
	}
	rl.EndTextureMode()

	w.frames++
}

// Close releases GPU resources and closes the window.
func (w *Window) Close() {
	if w.blur != nil {
		w.blur.Unload()
	}
	rl.UnloadRenderTexture(w.layer)
	rl.CloseWindow()
}
