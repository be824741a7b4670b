// Package blur implements the optional Gaussian blur applied to a rendered frame.
package blur

import (
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// MaxTaps bounds the one-sided kernel length, matching the GPU shader's weight array.
const MaxTaps = 32

// Kernel returns one-sided Gaussian weights for the given radius in pixels.
// w[0] is the center tap; w[i] applies at both +i and -i. The two-sided sum is 1.
// Sigma is radius/3 so the kernel covers three standard deviations.
func Kernel(radius float64) []float64 {
	if !(radius > 0) {
		return []float64{1}
	}

	taps := int(math.Ceil(radius)) + 1
	if taps > MaxTaps {
		taps = MaxTaps
	}

	normal := distuv.Normal{Mu: 0, Sigma: radius / 3}
	w := make([]float64, taps)
	for i := range w {
		w[i] = normal.Prob(float64(i))
	}

	total := w[0] + 2*floats.Sum(w[1:])
	floats.Scale(1/total, w)
	return w
}

// Apply returns a blurred copy of src. The source is not modified.
// Pixels outside the frame are clamped to the nearest edge.
func Apply(src *image.RGBA, radius float64) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	if !(radius > 0) || b.Empty() {
		copy(dst.Pix, src.Pix)
		return dst
	}

	w := Kernel(radius)
	tmp := image.NewRGBA(b)
	pass(tmp, src, w, 1, 0)
	pass(dst, tmp, w, 0, 1)
	return dst
}

// pass runs a 1D convolution along (dx, dy).
func pass(dst, src *image.RGBA, w []float64, dx, dy int) {
	b := src.Bounds()
	var acc [4]float64

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			o := src.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				acc[c] = float64(src.Pix[o+c]) * w[0]
			}

			for i := 1; i < len(w); i++ {
				lo := src.PixOffset(clamp(x-i*dx, b.Min.X, b.Max.X-1), clamp(y-i*dy, b.Min.Y, b.Max.Y-1))
				hi := src.PixOffset(clamp(x+i*dx, b.Min.X, b.Max.X-1), clamp(y+i*dy, b.Min.Y, b.Max.Y-1))
				for c := 0; c < 4; c++ {
					acc[c] += (float64(src.Pix[lo+c]) + float64(src.Pix[hi+c])) * w[i]
				}
			}

			d := dst.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				dst.Pix[d+c] = toByte(acc[c])
			}
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Weights32 converts a kernel to the float32 slice a shader uniform expects,
// padded to MaxTaps.
func Weights32(w []float64) []float32 {
	out := make([]float32, MaxTaps)
	for i := 0; i < len(w) && i < MaxTaps; i++ {
		out[i] = float32(w[i])
	}
	return out
}
