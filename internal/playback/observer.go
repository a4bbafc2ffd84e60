package playback

// Observer records playback metrics. Implementations are provided by the
// metrics package to break the import cycle between playback and metrics.
type Observer interface {
	// ObserveState records a slot entering state.
	ObserveState(state string)
	// ObserveRetry records a retry scheduled for reason.
	ObserveRetry(reason string)
	ObserveRetriesExhausted()
	ObserveAdmissionRefused()
	ObserveOutOfMemory()
	// ObservePrepareDuration records the time from resource creation to ready.
	ObservePrepareDuration(seconds float64)
	// SetActivePlayers records how many slots hold a live resource.
	SetActivePlayers(n int)
}

// defaultObserver is the package-level observer set at startup.
// If nil, metric recording is silently skipped (safe for tests).
var defaultObserver Observer

// SetObserver sets the package-level metrics observer.
func SetObserver(o Observer) {
	defaultObserver = o
}

func observe() Observer {
	return defaultObserver
}
