// Package gallery runs a scrolling media list on a small pool of recycled
// views.
//
// Each view pairs a playback.Slot with a zoompan.Controller. Item i is
// shown by view i mod PoolSize, so with the default pool of three the
// focused item and both neighbours are always bound. Binding a view to a
// different item recycles its slot first, which releases any decoder it
// held, and resets its zoom.
//
// Focus hands the single active-player token to the focused item through
// a playback.Coordinator. Scroll drags suspend playback without releasing
// it. Video sizes reported by the decoder replace the catalogued geometry,
// and play/pause taps reach the slot of the view that saw them.
//
// A Gallery is not safe for concurrent use. Servers drive it from a
// timer.Loop so it shares a goroutine with the slots and their timers.
package gallery
