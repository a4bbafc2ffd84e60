package zoompan

// Observer records gesture and zoom metrics. The metrics package provides
// the implementation so zoompan does not import it.
type Observer interface {
	// ObserveGesture records a finished gesture by classification
	// ("idle", "dragging", "scaling", "vertical_swipe").
	ObserveGesture(class string)
	// ObserveZoom records a settled zoom scale.
	ObserveZoom(scale float64)
	// ObserveAction records a tap or swipe action that fired.
	ObserveAction(trigger, action string)
}

// defaultObserver is set at startup. When nil, recording is skipped.
var defaultObserver Observer

// SetObserver sets the package-level metrics observer.
func SetObserver(o Observer) {
	defaultObserver = o
}

func observe() Observer {
	return defaultObserver
}
