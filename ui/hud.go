// Package ui draws the optional heads-up display over the rain.
package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rain/telemetry"
)

// HUDData holds everything the HUD shows for one frame.
type HUDData struct {
	Title      string
	Population int
	Target     int
	Drawn      int
	Frame      uint64
	FPS        int32
	Motion     string
	BlurRadius float64 // 0 = off
	Perf       telemetry.PerfStats
}

// HUD renders a status bar and a phase timing panel.
type HUD struct {
	x, y       int32
	statusH    float32
	fontSize   int32
	lineHeight int32
	showPhases bool
}

// NewHUD creates a HUD anchored at the top-left corner.
func NewHUD() *HUD {
	return &HUD{
		x:          10,
		y:          10,
		statusH:    24,
		fontSize:   14,
		lineHeight: 16,
		showPhases: true,
	}
}

// SetShowPhases toggles the phase timing panel.
func (h *HUD) SetShowPhases(on bool) {
	h.showPhases = on
}

// Draw renders the HUD for a screen of the given size.
func (h *HUD) Draw(data HUDData, screenW, screenH int32) {
	rl.DrawText(data.Title, h.x, h.y, 20, rl.White)

	if h.showPhases {
		y := h.y + 26
		for _, line := range PhaseLines(data.Perf) {
			rl.DrawText(line, h.x, y, h.fontSize-2, rl.LightGray)
			y += h.lineHeight - 2
		}
	}

	bar := rl.Rectangle{X: 0, Y: float32(screenH) - h.statusH, Width: float32(screenW), Height: h.statusH}
	gui.StatusBar(bar, StatusText(data))
}

// StatusText formats the status bar line.
func StatusText(data HUDData) string {
	blur := "off"
	if data.BlurRadius > 0 {
		blur = fmt.Sprintf("%.1fpx", data.BlurRadius)
	}
	return fmt.Sprintf("Drops: %d/%d | Drawn: %d | Frame: %d | FPS: %d | Motion: %s | Blur: %s",
		data.Population, data.Target, data.Drawn, data.Frame, data.FPS, data.Motion, blur)
}

// PhaseLines formats one line per frame phase in execution order.
// Phases with no samples are omitted.
func PhaseLines(s telemetry.PerfStats) []string {
	lines := make([]string, 0, len(telemetry.Phases)+1)
	if s.AvgFrameDuration > 0 {
		lines = append(lines, fmt.Sprintf("frame %8s", s.AvgFrameDuration.Round(time.Microsecond)))
	}
	for _, phase := range telemetry.Phases {
		avg, ok := s.PhaseAvg[phase]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-10s %8s %5.1f%%", phase, avg.Round(time.Microsecond), s.PhasePct[phase]))
	}
	return lines
}
