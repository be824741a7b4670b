package game

import "log/slog"

// flushTelemetry writes a stats window once the collector's window has elapsed.
func (c *Controller) flushTelemetry() {
	if !c.collector.ShouldFlush() {
		return
	}
	c.writeWindow()
}

// writeWindow flushes the collector and reports the window. Write errors are
// logged and never stop the frame loop.
func (c *Controller) writeWindow() {
	stats := c.collector.Flush(c.frames, c.field.Len(), c.field.Target())
	perfStats := c.perf.Stats()
	c.lastWindow = stats

	if c.statsCallback != nil {
		c.statsCallback(stats)
	}

	if c.logStats {
		slog.Info("stats", "window", stats)
		slog.Info("perf", "window_end", stats.WindowEnd, "stats", perfStats)
	}

	if err := c.output.WriteWindow(stats); err != nil {
		slog.Error("failed to write frames", "error", err)
	}
	if err := c.output.WritePerf(perfStats, stats.WindowEnd); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}
