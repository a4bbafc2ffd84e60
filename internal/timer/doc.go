// Package timer provides the cancelable deferred-callback abstraction used by
// the playback lifecycle, and the single-goroutine loop that owns all
// gesture, transform and playback state.
//
// Callbacks scheduled through a Scheduler never run concurrently with other
// loop work: LoopScheduler posts them onto its Loop, and Manual runs them
// synchronously from Advance.
package timer
