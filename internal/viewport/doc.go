// Package viewport implements the scale+translate transform applied to a
// single visible surface, together with the clamping rules that keep the
// content inside (or centered within) the viewport.
//
// # Coordinate Spaces
//
// Three spaces are involved:
//
//   - Intrinsic space: media pixels, [0, IntrinsicWidth] x [0, IntrinsicHeight].
//   - Base space: intrinsic space scaled by the fit scale so that the whole
//     content fits the viewport at Scale == 1.
//   - Viewport space: device-independent units relative to the top-left corner
//     of the visible rectangle the content renders into.
//
// A [Transform] maps base space into viewport space:
//
//	x' = x*Scale + TranslateX
//	y' = y*Scale + TranslateY
//
// # Clamping
//
// [Clamp] evaluates each axis independently. When the mapped content is not
// larger than the viewport on an axis it is centered; otherwise the smallest
// translation that removes blank space on that axis is applied. Offsets
// within [EdgeEpsilon] of the boundary are left alone so floating-point
// jitter does not keep re-nudging a legitimately aligned edge. Clamp is
// idempotent.
//
// Operations on an unknown geometry or an empty viewport return their input
// unchanged; callers treat that as "not ready yet" rather than an error.
package viewport
