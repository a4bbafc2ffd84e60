// Package zoompan applies zoom, pan and swipe policy to the gesture intents
// of one visible surface and keeps its viewport transform clamped.
//
// Taps, double taps and the four swipe bindings (left/right half, up/down)
// resolve through an [ActionTable], so behavior can be rebound from
// configuration without touching the transform math. Continuous swipes
// (zoom, brightness, volume) are recomputed from the value captured when the
// swipe started; overlay actions fire once per gesture after the swipe
// passes a sixth of the viewport height.
package zoompan
