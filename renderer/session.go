package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Session draws with raylib into whatever target is active.
type Session struct {
	calls int
}

// DrawFilledEllipse draws a filled ellipse grown by half the stroke width.
func (s *Session) DrawFilledEllipse(cx, cy, rx, ry float32, c color.RGBA, strokeWidth float32) {
	s.calls++
	rl.DrawEllipse(int32(cx), int32(cy), rx+strokeWidth/2, ry+strokeWidth/2, c)
}

// Calls returns the draw calls issued since the last reset.
func (s *Session) Calls() int {
	return s.calls
}

func (s *Session) reset() {
	s.calls = 0
}
