// Package playback manages the lifecycle of decoding resources for a
// scrolling list of media slots.
//
// # Slots
//
// A [Slot] owns at most one [Resource] for the content bound to it:
//
//	Idle -> Preparing -> Ready <-> Buffering -> Ended
//	                  \-> Error (retry, fallback or invalid)
//	any -> Released
//
// Before each resource is created, memory pressure is checked through a
// [ResourceBudgetProbe]. A refusal is not an error; the slot shows a
// thumbnail instead. Preparation is bounded by a load timeout, transient
// failures are retried after a cooldown up to Config.MaxRetries, and
// out-of-memory failures are never retried. When retries are exhausted the
// slot is marked invalid until [Slot.Reload] is called.
//
// Timers go through a [timer.Scheduler], so tests drive them with
// [timer.Manual].
//
// # Coordinator
//
// A [Coordinator] ensures at most one slot decodes at a time. On a focus
// change the previous holder is released before the new slot may create its
// resource. While the list is being dragged the active player is paused,
// not released.
//
// Nothing in this package returns errors to the UI; failures surface as a
// state, a [Reason] and a [Fallback] on slot events and snapshots.
package playback
