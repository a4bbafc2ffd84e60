// Package memory configures the Go memory limit for containerized
// deployments and samples heap usage against it.
//
// # Configuration
//
// Call [ConfigureFromEnv] early in main, before significant allocations:
//
//	func main() {
//	    memory.ConfigureFromEnv()
//	    // ...
//	}
//
// Environment variables:
//
//   - GOMEMLIMIT: standard Go variable. If set it wins and nothing else is
//     read.
//   - MEMORY_LIMIT: container memory limit, usually passed through the
//     Kubernetes Downward API. Plain bytes or a suffixed size ("512MiB").
//   - MEMORY_RATIO: share of MEMORY_LIMIT given to the Go heap, between 0
//     and 1. Default 0.85. Lower it when ffprobe runs with high concurrency.
//
// Downward API example:
//
//	env:
//	- name: MEMORY_LIMIT
//	  valueFrom:
//	    resourceFieldRef:
//	      resource: limits.memory
//	- name: MEMORY_RATIO
//	  value: "0.75"
//
// # Monitoring
//
// A [Monitor] has two consumers. Player slots call [Monitor.Usage] right
// before creating a decoder, so admission control sees a fresh reading
// rather than the last tick. Catalog probe workers call
// [Monitor.WaitIfPaused] between files and block while usage is above the
// critical water mark.
//
//	monitor := memory.NewMonitor(memory.DefaultConfig())
//	monitor.Start()
//	defer monitor.Stop()
//
// The pause releases once usage falls below the high water mark, so the two
// marks form a hysteresis band. [Static] is a fixed reading for tests and
// for setups that budget players separately from the heap.
package memory
