package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/rain/telemetry"
)

func TestStatusText(t *testing.T) {
	tests := []struct {
		name string
		data HUDData
		want []string
	}{
		{
			name: "blur off",
			data: HUDData{Population: 50, Target: 50, Drawn: 31, Frame: 120, FPS: 60, Motion: "timed"},
			want: []string{"Drops: 50/50", "Drawn: 31", "Frame: 120", "FPS: 60", "Motion: timed", "Blur: off"},
		},
		{
			name: "blur on",
			data: HUDData{Population: 49, Target: 50, BlurRadius: 5, Motion: "fixed"},
			want: []string{"Drops: 49/50", "Motion: fixed", "Blur: 5.0px"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StatusText(tt.data)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("StatusText() = %q, missing %q", got, w)
				}
			}
		})
	}
}

func TestPhaseLinesOrder(t *testing.T) {
	s := telemetry.PerfStats{
		AvgFrameDuration: 300 * time.Microsecond,
		PhaseAvg: map[string]time.Duration{
			telemetry.PhaseDraw:    200 * time.Microsecond,
			telemetry.PhaseAdvance: 100 * time.Microsecond,
		},
		PhasePct: map[string]float64{
			telemetry.PhaseDraw:    66.7,
			telemetry.PhaseAdvance: 33.3,
		},
	}

	lines := PhaseLines(s)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "frame") {
		t.Errorf("first line = %q, want the frame total", lines[0])
	}
	if !strings.HasPrefix(lines[1], telemetry.PhaseAdvance) || !strings.HasPrefix(lines[2], telemetry.PhaseDraw) {
		t.Errorf("phases out of order: %q", lines)
	}
}

func TestPhaseLinesEmpty(t *testing.T) {
	if lines := PhaseLines(telemetry.PerfStats{}); len(lines) != 0 {
		t.Errorf("expected no lines for empty stats, got %q", lines)
	}
}
