package metrics

import (
	"media-gallery/internal/filesystem"
	"media-gallery/internal/playback"
	"media-gallery/internal/zoompan"
)

// playbackObserver implements playback.Observer using the Prometheus
// metrics declared in this package.
type playbackObserver struct{}

// NewPlaybackObserver creates an observer that records player lifecycle
// metrics into the collectors declared in metrics.go.
func NewPlaybackObserver() playback.Observer {
	return &playbackObserver{}
}

func (o *playbackObserver) ObserveState(state string) {
	PlayerStateTransitions.WithLabelValues(state).Inc()
}

func (o *playbackObserver) ObserveRetry(reason string) {
	PlayerRetriesTotal.WithLabelValues(reason).Inc()
}

func (o *playbackObserver) ObserveRetriesExhausted() {
	PlayerRetriesExhausted.Inc()
}

func (o *playbackObserver) ObserveAdmissionRefused() {
	PlayerAdmissionRefused.Inc()
}

func (o *playbackObserver) ObserveOutOfMemory() {
	PlayerOutOfMemory.Inc()
}

func (o *playbackObserver) ObservePrepareDuration(seconds float64) {
	PlayerPrepareDuration.Observe(seconds)
}

func (o *playbackObserver) SetActivePlayers(n int) {
	PlayersActive.Set(float64(n))
}

// gestureObserver implements zoompan.Observer.
type gestureObserver struct{}

// NewGestureObserver creates an observer for gesture and zoom metrics.
func NewGestureObserver() zoompan.Observer {
	return &gestureObserver{}
}

func (o *gestureObserver) ObserveGesture(class string) {
	GesturesTotal.WithLabelValues(class).Inc()
}

func (o *gestureObserver) ObserveZoom(scale float64) {
	ZoomScale.Observe(scale)
}

func (o *gestureObserver) ObserveAction(trigger, action string) {
	GestureActionsTotal.WithLabelValues(trigger, action).Inc()
}

// filesystemObserver implements filesystem.Observer.
type filesystemObserver struct{}

// NewFilesystemObserver creates an observer for NFS retry metrics.
func NewFilesystemObserver() filesystem.Observer {
	return &filesystemObserver{}
}

func (o *filesystemObserver) ObserveStaleError(op string) {
	FilesystemStaleErrors.WithLabelValues(op).Inc()
}

func (o *filesystemObserver) ObserveRetryOutcome(op string, recovered bool) {
	outcome := "failed"
	if recovered {
		outcome = "recovered"
	}
	FilesystemRetries.WithLabelValues(op, outcome).Inc()
}
