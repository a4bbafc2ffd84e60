package workers

import (
	"os"
	"runtime"
	"strconv"

	"media-gallery/internal/logging"
)

// EnvOverride names the variable that pins the worker count.
const EnvOverride = "PROBE_WORKERS"

// Count returns a worker count of multiplier × GOMAXPROCS, at least one and
// at most limit (0 means no cap). GOMAXPROCS follows container CPU limits,
// unlike runtime.NumCPU.
//
// A positive PROBE_WORKERS value replaces the computed count; the cap still
// applies.
func Count(multiplier float64, limit int) int {
	workers := 0
	if override := os.Getenv(EnvOverride); override != "" {
		count, err := strconv.Atoi(override)
		if err == nil && count > 0 {
			workers = count
		} else {
			logging.Warn("Ignoring invalid %s=%q", EnvOverride, override)
		}
	}

	if workers == 0 {
		workers = int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	}
	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}
	return workers
}

// ForCPU returns one worker per CPU, for decoding-heavy work such as image
// orientation probes.
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns two workers per CPU, for work that mostly waits on the
// filesystem or on ffprobe subprocesses.
func ForIO(limit int) int {
	return Count(2.0, limit)
}
