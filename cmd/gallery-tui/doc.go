// Command gallery-tui browses a media directory in the terminal.
//
// Each terminal cell shows two vertical pixels using half-block glyphs, so
// the viewport is as wide as the terminal in columns and twice as tall as
// the image area in rows. The mouse drives the same gesture handling as a
// touch screen: drag to pan, click for the single-tap action, double click
// to zoom, and the wheel to pinch around the pointer.
//
// Keys:
//
//	Left/Up, Right/Down  previous or next item
//	c                    cycle zoom levels
//	r                    reset zoom
//	space                play or pause
//	l                    reload a failed video
//	q, Esc, Ctrl+C       quit
//
// Usage:
//
//	gallery-tui [-db path] [dir]
package main
