package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one stats window.
type WindowStats struct {
	WindowStart uint64  `csv:"-"`
	WindowEnd   uint64  `csv:"window_end"`
	SimTimeSec  float64 `csv:"sim_time"`

	// Pool state at window end
	Population int `csv:"population"`
	Target     int `csv:"target"`

	// Events during window
	Frames  int `csv:"frames"`
	Spawned int `csv:"spawned"`
	Culled  int `csv:"culled"`
	Drawn   int `csv:"drawn"`

	// Frame interval distribution in milliseconds
	FrameMSMean float64 `csv:"frame_ms_mean"`
	FrameMSStd  float64 `csv:"frame_ms_std"`
	FrameMSP10  float64 `csv:"frame_ms_p10"`
	FrameMSP50  float64 `csv:"frame_ms_p50"`
	FrameMSP90  float64 `csv:"frame_ms_p90"`
	FPS         float64 `csv:"fps"`
}

// Quantile returns the empirical p-quantile of sorted. Returns 0 for an empty slice.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	switch {
	case p < 0:
		p = 0
	case p > 1:
		p = 1
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeFrameStats summarizes frame intervals. The input is not modified.
func ComputeFrameStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}
	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, std, Quantile(sorted, 0.10), Quantile(sorted, 0.50), Quantile(sorted, 0.90)
}

// LogValue implements slog.LogValuer.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStart),
		slog.Uint64("window_end", s.WindowEnd),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Int("target", s.Target),
		slog.Int("frames", s.Frames),
		slog.Int("spawned", s.Spawned),
		slog.Int("culled", s.Culled),
		slog.Int("drawn", s.Drawn),
		slog.Float64("frame_ms_mean", s.FrameMSMean),
		slog.Float64("frame_ms_std", s.FrameMSStd),
		slog.Float64("frame_ms_p10", s.FrameMSP10),
		slog.Float64("frame_ms_p50", s.FrameMSP50),
		slog.Float64("frame_ms_p90", s.FrameMSP90),
		slog.Float64("fps", s.FPS),
	)
}
