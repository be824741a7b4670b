package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"time"

	"github.com/pthm-cable/rain/blur"
	"github.com/pthm-cable/rain/surface"
)

// DefaultStep is the simulated time between headless frames.
const DefaultStep = time.Second / 60

// Surface is a headless render surface. Each frame is drawn into a cleared
// transparent layer; the layer is blurred and composited over the background
// only when the frame is read.
type Surface struct {
	width, height int

	layer   *image.RGBA
	session *Session
	onDraw  surface.DrawFunc

	invalid bool
	frames  uint64
	step    time.Duration

	background color.RGBA
	blurRadius float64
	flash      float64
}

// Option configures a Surface.
type Option func(*Surface)

// WithStep sets the Elapsed value reported for every frame.
func WithStep(d time.Duration) Option {
	return func(s *Surface) { s.step = d }
}

// WithBackground sets the color the layer is composited over.
func WithBackground(c color.RGBA) Option {
	return func(s *Surface) { s.background = c }
}

// WithBlur blurs the drawn layer with the given radius. Zero disables it.
func WithBlur(radius float64) Option {
	return func(s *Surface) { s.blurRadius = radius }
}

// NewSurface creates a headless surface of the given size.
// The first frame is pending so the loop starts on its own.
func NewSurface(width, height int, opts ...Option) *Surface {
	layer := image.NewRGBA(image.Rect(0, 0, width, height))
	s := &Surface{
		width:   width,
		height:  height,
		layer:   layer,
		session: NewSession(layer),
		invalid: true,
		step:    DefaultStep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnDraw registers the per-frame callback. Only one callback is kept.
func (s *Surface) OnDraw(fn surface.DrawFunc) {
	s.onDraw = fn
}

// Invalidate requests another frame.
func (s *Surface) Invalidate() {
	s.invalid = true
}

// Step draws one frame if one is pending. It reports whether a frame was drawn.
func (s *Surface) Step() bool {
	if !s.invalid {
		return false
	}
	s.invalid = false

	clear(s.layer.Pix)
	s.session.reset()

	elapsed := s.step
	if s.frames == 0 {
		elapsed = 0
	}
	args := surface.FrameArgs{
		Frame:   s.frames,
		Elapsed: elapsed,
		Width:   s.width,
		Height:  s.height,
	}
	if s.onDraw != nil {
		s.onDraw(s.session, args)
	}
	s.frames++
	return true
}

// Run steps until no frame is pending or maxFrames frames have been drawn.
// maxFrames <= 0 means no limit. Returns the number of frames drawn.
func (s *Surface) Run(maxFrames int) uint64 {
	var n uint64
	for maxFrames <= 0 || n < uint64(maxFrames) {
		if !s.Step() {
			break
		}
		n++
	}
	return n
}

// Frames returns the number of frames drawn so far.
func (s *Surface) Frames() uint64 {
	return s.frames
}

// Calls returns the draw calls issued during the last frame.
func (s *Surface) Calls() int {
	return s.session.Calls()
}

// SetFlash sets the alpha of the white fill composited over the next frames.
func (s *Surface) SetFlash(alpha float64) {
	s.flash = max(0, min(1, alpha))
}

// Flash returns the current flash alpha.
func (s *Surface) Flash() float64 {
	return s.flash
}

// Layer returns the unblurred drop layer of the last frame.
func (s *Surface) Layer() *image.RGBA {
	return s.layer
}

// Frame returns the last frame: the layer, blurred when enabled, over the
// background, with any flash on top.
func (s *Surface) Frame() *image.RGBA {
	src := s.layer
	if s.blurRadius > 0 {
		src = blur.Apply(s.layer, s.blurRadius)
	}

	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(s.background), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), src, image.Point{}, draw.Over)
	if s.flash > 0 {
		v := uint8(math.Round(s.flash * 255))
		draw.Draw(out, out.Bounds(), image.NewUniform(color.RGBA{R: v, G: v, B: v, A: v}), image.Point{}, draw.Over)
	}
	return out
}

// SavePNG writes the last frame to path.
func (s *Surface) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := png.Encode(f, s.Frame()); err != nil {
		f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	return nil
}
