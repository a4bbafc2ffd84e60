// Package tcellinput converts terminal mouse input into gesture pointer
// events.
//
// A terminal reports one mouse with coarse cell coordinates, so the
// Translator scales cells into viewport pixels and maps the left button
// onto a single touch pointer. Wheel notches become short synthetic
// two-pointer pinches centered on the mouse, which lets the same gesture
// interpreter drive zoom on a desktop terminal.
package tcellinput
