// Package components defines ECS components for the rain.
package components

import (
	"math"
	"math/rand"
)

// DefaultSpeed is the speed every new drop carries.
const DefaultSpeed = 10

// DefaultStep is the per-frame displacement of a drop.
var DefaultStep = Step{X: 2, Y: 10}

// Step is a per-frame displacement in pixels.
type Step struct {
	X, Y int
}

// Bounds is the logical frame a drop spawns above and falls through.
type Bounds struct {
	Width, Height int
}

// Raindrop is a single falling particle.
type Raindrop struct {
	X, Y  int
	Speed int // carried with the drop, not used by the update rule
	Angle int // reserved

	// Sub-pixel remainder for time-scaled motion
	SubX, SubY float64
}

// NewRaindrop creates a drop at a fresh spawn position.
func NewRaindrop(rng *rand.Rand, b Bounds, band int) Raindrop {
	d := Raindrop{Speed: DefaultSpeed}
	d.InitializePosition(rng, b, band)
	return d
}

// InitializePosition places the drop at a random column, above the frame, on a band boundary.
func (d *Raindrop) InitializePosition(rng *rand.Rand, b Bounds, band int) {
	if band < 1 {
		band = 1
	}
	d.X = 0
	if b.Width > 0 {
		d.X = rng.Intn(b.Width)
	}
	d.Y = -band
	if b.Height > 0 {
		y := floorTo(rng.Intn(b.Height)-b.Height, band)
		if y < -b.Height {
			y += band
		}
		if y < 0 {
			d.Y = y
		}
	}
	d.SubX, d.SubY = 0, 0
}

// Advance moves the drop by one frame step.
func (d *Raindrop) Advance(s Step) {
	d.X += s.X
	d.Y += s.Y
}

// AdvanceScaled moves the drop by s*scale, carrying the fractional part to the next call.
// A scale of 1 is the same as Advance.
func (d *Raindrop) AdvanceScaled(s Step, scale float64) {
	fx := d.SubX + float64(s.X)*scale
	fy := d.SubY + float64(s.Y)*scale
	wx, wy := math.Floor(fx), math.Floor(fy)
	d.X += int(wx)
	d.Y += int(wy)
	d.SubX = fx - wx
	d.SubY = fy - wy
}

// floorTo rounds v down to a multiple of n, toward negative infinity.
func floorTo(v, n int) int {
	q := v / n
	if v%n != 0 && v < 0 {
		q--
	}
	return q * n
}
