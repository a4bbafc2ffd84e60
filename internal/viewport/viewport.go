package viewport

import (
	"fmt"
	"math"
)

const (
	// MinScale is the fit scale; content is never shown smaller than this.
	MinScale = 1.0
	// DefaultMaxScale is used when no maximum zoom is configured.
	DefaultMaxScale = 5.0
	// LowestMaxScale and HighestMaxScale bound a configured maximum zoom.
	LowestMaxScale  = 3.0
	HighestMaxScale = 10.0

	// EdgeEpsilon absorbs floating-point jitter at the viewport boundary.
	EdgeEpsilon = 1.5
)

// Viewport is the visible rectangle content renders into. OffsetX and
// OffsetY locate it on screen, so pointer coordinates can be converted
// into viewport-local coordinates.
type Viewport struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Valid reports whether the viewport has a positive area.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// Local converts screen coordinates into viewport-local coordinates.
func (v Viewport) Local(x, y float64) (float64, float64) {
	return x - v.OffsetX, y - v.OffsetY
}

// Center returns the viewport center in viewport-local coordinates.
func (v Viewport) Center() (float64, float64) {
	return v.Width / 2, v.Height / 2
}

// Geometry holds the intrinsic pixel size of a piece of media.
type Geometry struct {
	IntrinsicWidth  float64 `json:"intrinsicWidth"`
	IntrinsicHeight float64 `json:"intrinsicHeight"`
}

// Known reports whether the intrinsic size has been reported yet.
func (g Geometry) Known() bool {
	return g.IntrinsicWidth > 0 && g.IntrinsicHeight > 0
}

// FitScale returns the scale that fits the whole content into the viewport.
func (g Geometry) FitScale(vp Viewport) float64 {
	if !g.Known() || !vp.Valid() {
		return 0
	}
	return math.Min(vp.Width/g.IntrinsicWidth, vp.Height/g.IntrinsicHeight)
}

// BaseSize returns the content size in base space (intrinsic * fit scale).
func (g Geometry) BaseSize(vp Viewport) (float64, float64) {
	fit := g.FitScale(vp)
	return g.IntrinsicWidth * fit, g.IntrinsicHeight * fit
}

// Frame pairs a viewport with the geometry of the content shown in it.
type Frame struct {
	Viewport Viewport `json:"viewport"`
	Geometry Geometry `json:"geometry"`
}

// Ready reports whether transforms can be computed for this frame.
func (f Frame) Ready() bool {
	return f.Viewport.Valid() && f.Geometry.Known()
}

// Rect is an axis-aligned rectangle in viewport space.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }

// CenterY returns the vertical center.
func (r Rect) CenterY() float64 { return (r.Top + r.Bottom) / 2 }

// Transform maps base space into viewport space.
type Transform struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
}

// Identity returns the unscaled, untranslated transform.
func Identity() Transform {
	return Transform{Scale: MinScale}
}

// Centered returns the fit transform: scale 1 with the content centered.
func Centered(vp Viewport, geom Geometry) Transform {
	return Clamp(Identity(), vp, geom)
}

// String implements fmt.Stringer.
func (t Transform) String() string {
	return fmt.Sprintf("scale=%.3f translate=(%.2f, %.2f)", t.Scale, t.TranslateX, t.TranslateY)
}

// ScaleAt multiplies the scale by delta, keeping the content point under
// (focusX, focusY) at the same viewport position.
func (t Transform) ScaleAt(delta, focusX, focusY float64) Transform {
	if delta <= 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return t
	}
	return Transform{
		Scale:      t.Scale * delta,
		TranslateX: focusX - (focusX-t.TranslateX)*delta,
		TranslateY: focusY - (focusY-t.TranslateY)*delta,
	}
}

// ScaleTo sets an absolute scale anchored at (focusX, focusY).
func (t Transform) ScaleTo(scale, focusX, focusY float64) Transform {
	if t.Scale <= 0 {
		t = Identity()
	}
	return t.ScaleAt(scale/t.Scale, focusX, focusY)
}

// Translate moves the content by (dx, dy).
func (t Transform) Translate(dx, dy float64) Transform {
	t.TranslateX += dx
	t.TranslateY += dy
	return t
}

// Apply maps a base-space point into viewport space.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.Scale + t.TranslateX, y*t.Scale + t.TranslateY
}

// Invert maps a viewport-space point back into base space.
func (t Transform) Invert(x, y float64) (float64, float64) {
	if t.Scale == 0 {
		return x, y
	}
	return (x - t.TranslateX) / t.Scale, (y - t.TranslateY) / t.Scale
}

// Map returns the content's base rectangle mapped into viewport space.
func (t Transform) Map(vp Viewport, geom Geometry) Rect {
	w, h := geom.BaseSize(vp)
	return Rect{
		Left:   t.TranslateX,
		Top:    t.TranslateY,
		Right:  t.TranslateX + w*t.Scale,
		Bottom: t.TranslateY + h*t.Scale,
	}
}

// Equal reports whether two transforms match within eps.
func (t Transform) Equal(o Transform, eps float64) bool {
	return math.Abs(t.Scale-o.Scale) <= eps &&
		math.Abs(t.TranslateX-o.TranslateX) <= eps &&
		math.Abs(t.TranslateY-o.TranslateY) <= eps
}

// Affine is a 2x3 row-major affine matrix:
//
//	| A  B  C |
//	| D  E  F |
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// Matrix returns the affine matrix mapping intrinsic pixels into viewport
// space, which is what renderers need.
func (t Transform) Matrix(vp Viewport, geom Geometry) Affine {
	s := geom.FitScale(vp) * t.Scale
	return Affine{
		A: s, B: 0, C: t.TranslateX,
		D: 0, E: s, F: t.TranslateY,
	}
}

// ClampScale bounds a scale to [lo, hi].
func ClampScale(s, lo, hi float64) float64 {
	if math.IsNaN(s) {
		return lo
	}
	return math.Max(lo, math.Min(hi, s))
}

// NormalizeMaxScale bounds a configured maximum zoom into the supported
// range, substituting DefaultMaxScale for non-positive values.
func NormalizeMaxScale(s float64) float64 {
	if s <= 0 || math.IsNaN(s) {
		return DefaultMaxScale
	}
	return ClampScale(s, LowestMaxScale, HighestMaxScale)
}

// Clamp returns t adjusted so the content never leaves the viewport when it
// is larger than the viewport, and is centered when it is smaller.
func Clamp(t Transform, vp Viewport, geom Geometry) Transform {
	if !vp.Valid() || !geom.Known() || t.Scale <= 0 {
		return t
	}
	w, h := geom.BaseSize(vp)
	t.TranslateX = clampAxis(t.TranslateX, w*t.Scale, vp.Width)
	t.TranslateY = clampAxis(t.TranslateY, h*t.Scale, vp.Height)
	return t
}

// clampAxis returns the corrected start offset for content of the given
// extent inside a viewport of size view.
func clampAxis(start, extent, view float64) float64 {
	if extent <= view {
		return (view - extent) / 2
	}
	if start > EdgeEpsilon {
		return 0
	}
	if start+extent < view-EdgeEpsilon {
		return view - extent
	}
	return start
}
