package raster

import (
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/rain/surface"
)

var gray = color.RGBA{R: 128, G: 128, B: 128, A: 255}

func TestSessionFillsEllipse(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	s := NewSession(img)

	s.DrawFilledEllipse(5, 5, 1, 1, gray, 1)

	if s.Calls() != 1 {
		t.Fatalf("Calls() = %d, want 1", s.Calls())
	}
	if got := img.RGBAAt(5, 5); got != gray {
		t.Errorf("center pixel = %v, want %v", got, gray)
	}
	if got := img.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("corner pixel = %v, want transparent", got)
	}
}

func TestSessionClipsAtEdges(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	s := NewSession(img)

	// Must not panic outside the image
	s.DrawFilledEllipse(-3, -3, 1, 1, gray, 1)
	s.DrawFilledEllipse(100, 2, 1, 1, gray, 1)
	s.DrawFilledEllipse(3, 3, 1, 1, gray, 1)

	if got := img.RGBAAt(3, 3); got != gray {
		t.Errorf("edge pixel = %v, want %v", got, gray)
	}
}

func TestSessionBlendsTranslucent(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	s := NewSession(img)

	half := color.RGBA{R: 64, A: 128}
	s.DrawFilledEllipse(1.5, 1.5, 1, 1, half, 0)
	s.DrawFilledEllipse(1.5, 1.5, 1, 1, half, 0)

	got := img.RGBAAt(1, 1)
	if got.A <= half.A || got.A == 255 {
		t.Errorf("alpha after two translucent fills = %d, want between %d and 255", got.A, half.A)
	}
}

func TestSurfaceRunsWhileInvalidated(t *testing.T) {
	s := NewSurface(32, 32)

	var frames []surface.FrameArgs
	s.OnDraw(func(ds surface.DrawingSession, args surface.FrameArgs) {
		frames = append(frames, args)
		if args.Frame < 4 {
			s.Invalidate()
		}
	})

	if n := s.Run(0); n != 5 {
		t.Fatalf("Run(0) drew %d frames, want 5", n)
	}
	if s.Step() {
		t.Error("Step() drew without an invalidation")
	}

	if frames[0].Elapsed != 0 {
		t.Errorf("first frame elapsed = %v, want 0", frames[0].Elapsed)
	}
	for i, f := range frames {
		if f.Frame != uint64(i) {
			t.Errorf("frame %d reported index %d", i, f.Frame)
		}
		if f.Width != 32 || f.Height != 32 {
			t.Errorf("frame %d size %dx%d, want 32x32", i, f.Width, f.Height)
		}
		if i > 0 && f.Elapsed != DefaultStep {
			t.Errorf("frame %d elapsed = %v, want %v", i, f.Elapsed, DefaultStep)
		}
	}
}

func TestSurfaceRunRespectsLimit(t *testing.T) {
	s := NewSurface(8, 8, WithStep(10*time.Millisecond))
	s.OnDraw(func(ds surface.DrawingSession, args surface.FrameArgs) {
		s.Invalidate()
	})

	if n := s.Run(7); n != 7 {
		t.Errorf("Run(7) drew %d frames", n)
	}
	if s.Frames() != 7 {
		t.Errorf("Frames() = %d, want 7", s.Frames())
	}
}

func TestSurfaceClearsBetweenFrames(t *testing.T) {
	s := NewSurface(16, 16)
	s.OnDraw(func(ds surface.DrawingSession, args surface.FrameArgs) {
		if args.Frame == 0 {
			ds.DrawFilledEllipse(8, 8, 1, 1, gray, 1)
			s.Invalidate()
		}
	})

	s.Step()
	if s.Layer().RGBAAt(8, 8).A == 0 {
		t.Fatal("first frame should contain the drop")
	}
	s.Step()
	if s.Layer().RGBAAt(8, 8).A != 0 {
		t.Error("second frame should start from a cleared layer")
	}
	if s.Calls() != 0 {
		t.Errorf("Calls() = %d on an empty frame", s.Calls())
	}
}

func TestSurfaceFrameComposite(t *testing.T) {
	tint := color.RGBA{A: 0xAA}
	s := NewSurface(16, 16, WithBackground(tint), WithBlur(3))
	s.OnDraw(func(ds surface.DrawingSession, args surface.FrameArgs) {
		ds.DrawFilledEllipse(8, 8, 1, 1, gray, 1)
	})
	s.Step()

	frame := s.Frame()
	if got := frame.RGBAAt(0, 0); got != tint {
		t.Errorf("background pixel = %v, want %v", got, tint)
	}
	center := frame.RGBAAt(8, 8)
	if center.R == 0 || center.R >= gray.R {
		t.Errorf("blurred center red = %d, want softened below %d", center.R, gray.R)
	}
	// Blur only touches the composite
	if s.Layer().RGBAAt(8, 8) != gray {
		t.Error("Frame() modified the drawn layer")
	}
}

func TestSurfaceFlash(t *testing.T) {
	tint := color.RGBA{A: 0xAA}
	s := NewSurface(4, 4, WithBackground(tint))
	s.Step()

	tests := []struct {
		name  string
		alpha float64
		want  float64
	}{
		{"half", 0.5, 0.5},
		{"clamped high", 2, 1},
		{"clamped low", -1, 0},
		{"off", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.SetFlash(tt.alpha)
			if s.Flash() != tt.want {
				t.Fatalf("Flash() = %v, want %v", s.Flash(), tt.want)
			}

			got := s.Frame().RGBAAt(1, 1)
			if tt.want == 0 {
				if got != tint {
					t.Errorf("pixel = %v with no flash, want %v", got, tint)
				}
				return
			}
			v := uint8(math.Round(tt.want * 255))
			if got.R != v || got.G != v || got.B != v {
				t.Errorf("pixel = %v, want white channels %d", got, v)
			}
			if got.A <= tint.A {
				t.Errorf("alpha = %d, want above the tint's %d", got.A, tint.A)
			}
		})
	}

	// The flash sits over the composite, never in the drawn layer
	if s.Layer().RGBAAt(1, 1) != (color.RGBA{}) {
		t.Error("flash leaked into the drawn layer")
	}
}

func TestSurfaceSavePNG(t *testing.T) {
	s := NewSurface(8, 8)
	s.Step()

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := s.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat snapshot: %v", err)
	}
	if info.Size() == 0 {
		t.Error("snapshot is empty")
	}

	if err := s.SavePNG(filepath.Join(t.TempDir(), "missing", "frame.png")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
