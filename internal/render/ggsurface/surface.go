package ggsurface

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/gogpu/gg"

	"media-gallery/internal/logging"
	"media-gallery/internal/viewport"
)

// ErrEmptyViewport is returned when there is nothing to draw into.
var ErrEmptyViewport = errors.New("ggsurface: viewport has no area")

var (
	backgroundColor  = gg.RGB(0, 0, 0)
	placeholderColor = gg.Hex("#3a3f4b")
	outlineColor     = gg.Hex("#9aa4b8")
)

// Options tunes a render.
type Options struct {
	// Content is drawn stretched over the intrinsic rectangle. When nil a
	// placeholder is drawn.
	Content image.Image
	// Brightness in (0, 1] dims the frame; 0 means full brightness.
	Brightness float64
}

// Render draws content at transform t into a context sized to the frame's
// viewport. The caller must Close the returned context.
func Render(t viewport.Transform, f viewport.Frame, opts Options) (*gg.Context, error) {
	w, h := int(f.Viewport.Width), int(f.Viewport.Height)
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyViewport
	}

	dc := gg.NewContext(w, h)
	dc.ClearWithColor(backgroundColor)

	if f.Geometry.Known() {
		m := t.Matrix(f.Viewport, f.Geometry)
		iw, ih := f.Geometry.IntrinsicWidth, f.Geometry.IntrinsicHeight

		dc.Push()
		dc.SetTransform(gg.Matrix{A: m.A, B: m.B, C: m.C, D: m.D, E: m.E, F: m.F})
		if opts.Content != nil {
			dc.DrawImageEx(gg.ImageBufFromImage(opts.Content), gg.DrawImageOptions{
				DstWidth:      iw,
				DstHeight:     ih,
				Interpolation: gg.InterpBilinear,
				Opacity:       1,
			})
		} else if err := drawPlaceholder(dc, iw, ih, m.A); err != nil {
			dc.Pop()
			_ = dc.Close()
			return nil, err
		}
		dc.Pop()
	}

	if b := opts.Brightness; b > 0 && b < 1 {
		dc.SetRGBA(0, 0, 0, 1-b)
		dc.DrawRectangle(0, 0, float64(w), float64(h))
		if err := dc.Fill(); err != nil {
			_ = dc.Close()
			return nil, fmt.Errorf("dimming frame: %w", err)
		}
	}
	return dc, nil
}

func drawPlaceholder(dc *gg.Context, w, h, scale float64) error {
	dc.SetColor(placeholderColor.Color())
	dc.DrawRectangle(0, 0, w, h)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("filling placeholder: %w", err)
	}

	// Keep the outline about two viewport pixels wide at any zoom.
	if scale > 0 {
		dc.SetLineWidth(2 / scale)
	}
	dc.SetColor(outlineColor.Color())
	dc.DrawRectangle(0, 0, w, h)
	dc.DrawLine(0, 0, w, h)
	dc.DrawLine(w, 0, 0, h)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("stroking placeholder: %w", err)
	}
	return nil
}

// Surface keeps the latest transform pushed by a controller.
type Surface struct {
	mu        sync.Mutex
	transform viewport.Transform
	frame     viewport.Frame
	content   image.Image
	updates   int
}

// New creates an empty surface.
func New() *Surface {
	return &Surface{transform: viewport.Identity()}
}

// ApplyTransform implements zoompan.RenderableSurface.
func (s *Surface) ApplyTransform(t viewport.Transform, f viewport.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transform, s.frame = t, f
	s.updates++
}

// SetContent sets the image drawn for the current item. Nil restores the
// placeholder.
func (s *Surface) SetContent(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = img
}

// State returns the last applied transform and frame, and how many updates
// the surface has received.
func (s *Surface) State() (viewport.Transform, viewport.Frame, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transform, s.frame, s.updates
}

// EncodePNG renders the current state as PNG.
func (s *Surface) EncodePNG(w io.Writer, brightness float64) error {
	s.mu.Lock()
	t, f, content := s.transform, s.frame, s.content
	s.mu.Unlock()
	return EncodePNG(w, t, f, Options{Content: content, Brightness: brightness})
}

// EncodePNG renders a frame and writes it as PNG.
func EncodePNG(w io.Writer, t viewport.Transform, f viewport.Frame, opts Options) error {
	dc, err := Render(t, f, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := dc.Close(); err != nil {
			logging.Warn("failed to close render context: %v", err)
		}
	}()
	return dc.EncodePNG(w)
}
