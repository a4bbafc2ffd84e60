package filesystem

import "sync/atomic"

// Observer records retry activity. The metrics package implements it, so
// filesystem does not import metrics.
type Observer interface {
	// ObserveStaleError counts an ESTALE failure of op ("stat", "open", "readdir").
	ObserveStaleError(op string)
	// ObserveRetryOutcome records how an operation that hit ESTALE ended.
	ObserveRetryOutcome(op string, recovered bool)
}

type noopObserver struct{}

func (noopObserver) ObserveStaleError(string)         {}
func (noopObserver) ObserveRetryOutcome(string, bool) {}

var observer atomic.Value

func init() {
	observer.Store(Observer(noopObserver{}))
}

// SetObserver installs o. A nil o disables observation.
func SetObserver(o Observer) {
	if o == nil {
		o = noopObserver{}
	}
	observer.Store(o)
}

func observe() Observer {
	return observer.Load().(Observer)
}
