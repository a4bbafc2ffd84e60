package zoompan

import "sync"

// ValueKind names a value a continuous swipe adjusts.
type ValueKind string

const (
	ValueZoom       ValueKind = "zoom"
	ValueBrightness ValueKind = "brightness"
	ValueVolume     ValueKind = "volume"
)

const (
	MinBrightness = 0.1
	MaxBrightness = 1.0
	MinVolume     = 0.0
	MaxVolume     = 1.0
)

// ValueSink holds the brightness and volume a swipe adjusts. The current
// value is read once when a swipe starts and used as its baseline.
type ValueSink interface {
	Value(kind ValueKind) float64
	SetValue(kind ValueKind, v float64)
}

// Levels is an in-memory ValueSink, safe for concurrent use.
type Levels struct {
	mu     sync.RWMutex
	values map[ValueKind]float64
}

// NewLevels creates a sink with the given starting brightness and volume.
func NewLevels(brightness, volume float64) *Levels {
	return &Levels{values: map[ValueKind]float64{
		ValueBrightness: brightness,
		ValueVolume:     volume,
	}}
}

// Value implements ValueSink.
func (l *Levels) Value(kind ValueKind) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.values[kind]
}

// SetValue implements ValueSink.
func (l *Levels) SetValue(kind ValueKind, v float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values[kind] = v
}

func valueKind(a Action) ValueKind {
	switch a {
	case ActionZoom:
		return ValueZoom
	case ActionBrightness:
		return ValueBrightness
	case ActionVolume:
		return ValueVolume
	}
	return ""
}

// valueRange returns the bounds of a continuously adjusted value.
func valueRange(kind ValueKind, maxScale float64) (float64, float64) {
	switch kind {
	case ValueZoom:
		return 1, maxScale
	case ValueBrightness:
		return MinBrightness, MaxBrightness
	default:
		return MinVolume, MaxVolume
	}
}
