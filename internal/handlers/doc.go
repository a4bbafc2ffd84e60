// Package handlers provides the HTTP API of the gallery daemon.
//
// It includes handlers for:
//   - Health, liveness and version probes
//   - Listing items and moving focus between them
//   - Scroll drag state and viewport size
//   - Pointer input, zoom and transform state per item
//   - Player state, reload and play/pause per item
//   - Rendered preview frames
//
// The gallery is not safe for concurrent use, so every handler that
// touches it runs its work on the daemon's timer.Loop.
package handlers
