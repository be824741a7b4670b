// Package raster draws frames into an image.RGBA without a window.
package raster

import (
	"image"
	"image/color"
	"math"
)

// Session draws into an RGBA image with source-over blending.
type Session struct {
	img   *image.RGBA
	calls int
}

// NewSession creates a session drawing into img.
func NewSession(img *image.RGBA) *Session {
	return &Session{img: img}
}

// DrawFilledEllipse fills the ellipse, grown by half the stroke width so the
// result covers the same pixels as a stroked outline of that width.
func (s *Session) DrawFilledEllipse(cx, cy, rx, ry float32, c color.RGBA, strokeWidth float32) {
	s.calls++

	ex := float64(rx + strokeWidth/2)
	ey := float64(ry + strokeWidth/2)
	if ex <= 0 || ey <= 0 {
		return
	}

	b := s.img.Bounds()
	x0 := max(b.Min.X, int(math.Floor(float64(cx)-ex)))
	x1 := min(b.Max.X-1, int(math.Ceil(float64(cx)+ex)))
	y0 := max(b.Min.Y, int(math.Floor(float64(cy)-ey)))
	y1 := min(b.Max.Y-1, int(math.Ceil(float64(cy)+ey)))

	for y := y0; y <= y1; y++ {
		ny := (float64(y) + 0.5 - float64(cy)) / ey
		for x := x0; x <= x1; x++ {
			nx := (float64(x) + 0.5 - float64(cx)) / ex
			if nx*nx+ny*ny > 1 {
				continue
			}
			s.blend(x, y, c)
		}
	}
}

// blend composites premultiplied c over the pixel at (x, y).
func (s *Session) blend(x, y int, c color.RGBA) {
	o := s.img.PixOffset(x, y)
	p := s.img.Pix[o : o+4 : o+4]
	inv := 255 - uint32(c.A)
	p[0] = uint8(uint32(c.R) + uint32(p[0])*inv/255)
	p[1] = uint8(uint32(c.G) + uint32(p[1])*inv/255)
	p[2] = uint8(uint32(c.B) + uint32(p[2])*inv/255)
	p[3] = uint8(uint32(c.A) + uint32(p[3])*inv/255)
}

// Calls returns how many draw calls the session has received.
func (s *Session) Calls() int {
	return s.calls
}

func (s *Session) reset() {
	s.calls = 0
}
