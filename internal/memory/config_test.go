package memory

import (
	"runtime/debug"
	"testing"
	"time"
)

// gib is typed so the ratio products below are computed at run time; the
// same expression on an untyped constant is not a whole number and does not
// convert to int64.
var gib int64 = 1 << 30

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MemoryLimitBytes != 0 {
		t.Errorf("Expected MemoryLimitBytes to be 0, got %d", cfg.MemoryLimitBytes)
	}
	if cfg.HighWaterMark >= cfg.CriticalWaterMark {
		t.Errorf("Expected HighWaterMark below CriticalWaterMark, got %v >= %v", cfg.HighWaterMark, cfg.CriticalWaterMark)
	}
	if cfg.CheckInterval != 5*time.Second {
		t.Errorf("Expected CheckInterval to be 5s, got %v", cfg.CheckInterval)
	}
}

func TestConfigureFromEnv(t *testing.T) {
	original := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(original) })

	tests := []struct {
		name           string
		memoryLimit    string
		memoryRatio    string
		wantConfigured bool
		wantSource     string
		wantRatio      float64
		wantGoLimit    int64
	}{
		{"unset", "", "", false, "none", 0, 0},
		{"bytes", "1073741824", "", true, "MEMORY_LIMIT", DefaultMemoryRatio, int64(float64(gib) * DefaultMemoryRatio)},
		{"suffix", "1GiB", "0.5", true, "MEMORY_LIMIT", 0.5, 1 << 29},
		{"bad ratio", "1GiB", "1.5", true, "MEMORY_LIMIT", DefaultMemoryRatio, int64(float64(gib) * DefaultMemoryRatio)},
		{"unparseable ratio", "1GiB", "lots", true, "MEMORY_LIMIT", DefaultMemoryRatio, int64(float64(gib) * DefaultMemoryRatio)},
		{"invalid limit", "plenty", "", false, "none", 0, 0},
		{"negative limit", "-5", "", false, "none", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GOMEMLIMIT", "")
			t.Setenv("MEMORY_LIMIT", tt.memoryLimit)
			t.Setenv("MEMORY_RATIO", tt.memoryRatio)

			result := ConfigureFromEnv()
			if result.Configured != tt.wantConfigured {
				t.Errorf("Expected Configured=%v, got %v", tt.wantConfigured, result.Configured)
			}
			if result.Source != tt.wantSource {
				t.Errorf("Expected Source %q, got %q", tt.wantSource, result.Source)
			}
			if result.Ratio != tt.wantRatio {
				t.Errorf("Expected Ratio %v, got %v", tt.wantRatio, result.Ratio)
			}
			if result.GoMemLimit != tt.wantGoLimit {
				t.Errorf("Expected GoMemLimit %d, got %d", tt.wantGoLimit, result.GoMemLimit)
			}
		})
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"20971520", 20 << 20, false},
		{"20MiB", 20 << 20, false},
		{"20 MiB", 20 << 20, false},
		{"20MB", 20_000_000, false},
		{"1.5GiB", 3 << 29, false},
		{"512B", 512, false},
		{"", 0, true},
		{"twenty", 0, true},
		{"9999999999TiB", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseBytes(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBytes(%q): unexpected error state %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBytes(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{20 << 20, "20.0 MiB"},
		{3 << 29, "1.5 GiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
