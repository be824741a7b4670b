package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/rain/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}

	// Every method is safe on nil
	if err := om.WriteWindow(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WritePerf(PerfStats{}, 1); err != nil {
		t.Error(err)
	}
	if err := om.WriteConfig(config.Defaults()); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("nil manager should report no directory")
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := uint64(1); i <= 3; i++ {
		if err := om.WriteWindow(WindowStats{WindowEnd: i * 600, Population: 50, Target: 50}); err != nil {
			t.Fatalf("WriteWindow: %v", err)
		}
		if err := om.WritePerf(PerfStats{PhasePct: map[string]float64{}}, i*600); err != nil {
			t.Fatalf("WritePerf: %v", err)
		}
	}
	if err := om.WriteConfig(config.Defaults()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for _, tc := range []struct {
		file   string
		header string
	}{
		{"frames.csv", "window_end,sim_time,population,target,frames"},
		{"perf.csv", "window_end,avg_frame_us"},
	} {
		data, err := os.ReadFile(filepath.Join(dir, tc.file))
		if err != nil {
			t.Fatalf("reading %s: %v", tc.file, err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 4 {
			t.Errorf("%s has %d lines, want header + 3 rows", tc.file, len(lines))
		}
		if !strings.HasPrefix(lines[0], tc.header) {
			t.Errorf("%s header = %q, want prefix %q", tc.file, lines[0], tc.header)
		}
		if strings.Count(string(data), "window_end") != 1 {
			t.Errorf("%s repeats its header", tc.file)
		}
	}

	loaded, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if loaded.Rain.TargetPopulation != 50 {
		t.Errorf("round-tripped population = %d, want 50", loaded.Rain.TargetPopulation)
	}
}
