// Package ggsurface renders gallery frames with the gogpu/gg 2D library.
//
// A [Surface] is a zoompan.RenderableSurface: the controller pushes every
// transform change to it, and [Surface.EncodePNG] draws the latest state.
// [Render] is the stateless form used for one-off previews.
//
// The viewport transform maps intrinsic content pixels into the viewport
// through viewport.Transform.Matrix, which becomes the gg context matrix
// directly. Content without a decoded image is drawn as a placeholder
// rectangle with diagonals so pan and zoom remain visible.
package ggsurface
