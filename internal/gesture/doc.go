// Package gesture turns the raw pointer event stream of one surface into
// discrete intents.
//
// # Classification
//
// A gesture starts at the first pointer down and is classified once, at the
// first movement that exceeds the slop:
//
//   - two pointers: scaling (pinch), reported as incremental factors around
//     the pointers' midpoint
//   - one pointer moving mostly vertically: a vertical swipe, whose side and
//     direction are locked to the original down position
//   - otherwise: dragging
//
// A second pointer arriving during a drag promotes it to scaling.
//
// # Taps
//
// Taps are only recognized for gestures that were never classified. A single
// tap is held back until the double-tap window has passed, so callers must
// call [Interpreter.Flush] once [Interpreter.PendingTapDeadline] is reached.
//
// An Interpreter is not safe for concurrent use; feed it from the goroutine
// that owns the surface.
package gesture
