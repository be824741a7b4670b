package telemetry

import "time"

// Collector accumulates per-frame events and produces WindowStats.
// Windows are measured in frame time, not wall-clock time.
type Collector struct {
	window time.Duration

	windowStart   uint64
	windowElapsed time.Duration
	simTime       time.Duration

	frames    int
	spawned   int
	culled    int
	drawn     int
	intervals []float64
}

// NewCollector creates a collector that flushes every windowSec seconds.
func NewCollector(windowSec float64) *Collector {
	window := time.Duration(windowSec * float64(time.Second))
	if window <= 0 {
		window = 10 * time.Second
	}
	return &Collector{
		window:    window,
		intervals: make([]float64, 0, 1024),
	}
}

// RecordFrame records one frame's counts and its interval since the previous frame.
func (c *Collector) RecordFrame(elapsed time.Duration, spawned, culled, drawn int) {
	c.frames++
	c.spawned += spawned
	c.culled += culled
	c.drawn += drawn

	if elapsed > 0 {
		c.windowElapsed += elapsed
		c.simTime += elapsed
		c.intervals = append(c.intervals, float64(elapsed)/float64(time.Millisecond))
	}
}

// ShouldFlush reports whether the current window has covered its duration.
func (c *Collector) ShouldFlush() bool {
	return c.windowElapsed >= c.window
}

// Flush produces the stats for the window ending at frame and starts a new window.
func (c *Collector) Flush(frame uint64, population, target int) WindowStats {
	mean, std, p10, p50, p90 := ComputeFrameStats(c.intervals)

	var fps float64
	if c.windowElapsed > 0 {
		fps = float64(len(c.intervals)) / c.windowElapsed.Seconds()
	}

	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   frame,
		SimTimeSec:  c.simTime.Seconds(),
		Population:  population,
		Target:      target,
		Frames:      c.frames,
		Spawned:     c.spawned,
		Culled:      c.culled,
		Drawn:       c.drawn,
		FrameMSMean: mean,
		FrameMSStd:  std,
		FrameMSP10:  p10,
		FrameMSP50:  p50,
		FrameMSP90:  p90,
		FPS:         fps,
	}

	c.windowStart = frame
	c.windowElapsed = 0
	c.frames = 0
	c.spawned = 0
	c.culled = 0
	c.drawn = 0
	c.intervals = c.intervals[:0]

	return stats
}

// Window returns the window duration.
func (c *Collector) Window() time.Duration {
	return c.window
}
