// Package surface defines what the simulation needs from a render host.
package surface

import (
	"image/color"
	"time"
)

// FrameArgs describes the frame being drawn.
type FrameArgs struct {
	Frame   uint64
	Elapsed time.Duration // since the previous frame
	Width   int
	Height  int
}

// DrawingSession is handed to the draw callback for the duration of one frame.
type DrawingSession interface {
	DrawFilledEllipse(cx, cy, rx, ry float32, c color.RGBA, strokeWidth float32)
}

// DrawFunc is a per-frame draw callback.
type DrawFunc func(s DrawingSession, args FrameArgs)

// Surface runs draw callbacks. A frame is drawn only after Invalidate.
type Surface interface {
	OnDraw(fn DrawFunc)
	Invalidate()
}

// Flasher is implemented by surfaces that can wash the composited frame in white.
type Flasher interface {
	// SetFlash sets the alpha of the white fill drawn over the frame. Zero clears it.
	SetFlash(alpha float64)
}
