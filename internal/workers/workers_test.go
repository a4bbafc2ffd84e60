package workers

import (
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	t.Setenv(EnvOverride, "")
	procs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		expected   int
	}{
		{"one per cpu", 1.0, 0, procs},
		{"two per cpu", 2.0, 0, procs * 2},
		{"capped", 2.0, 1, 1},
		{"never below one", 0.0001, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.multiplier, tt.limit); got != tt.expected {
				t.Errorf("Expected %d workers, got %d", tt.expected, got)
			}
		})
	}
}

func TestCountWithEnvOverride(t *testing.T) {
	procs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name     string
		envValue string
		limit    int
		expected int
	}{
		{"override", "3", 0, 3},
		{"override capped", "12", 4, 4},
		{"zero ignored", "0", 0, procs},
		{"negative ignored", "-2", 0, procs},
		{"garbage ignored", "many", 0, procs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvOverride, tt.envValue)
			if got := Count(1.0, tt.limit); got != tt.expected {
				t.Errorf("Expected %d workers with %s=%s, got %d", tt.expected, EnvOverride, tt.envValue, got)
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	t.Setenv(EnvOverride, "")
	procs := runtime.GOMAXPROCS(0)

	if got := ForCPU(0); got != procs {
		t.Errorf("Expected ForCPU %d, got %d", procs, got)
	}
	if got := ForIO(0); got != procs*2 {
		t.Errorf("Expected ForIO %d, got %d", procs*2, got)
	}
	if got := ForIO(1); got != 1 {
		t.Errorf("Expected ForIO capped at 1, got %d", got)
	}
}
