package ggsurface

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"media-gallery/internal/viewport"
)

var square = viewport.Frame{
	Viewport: viewport.Viewport{Width: 100, Height: 100},
	Geometry: viewport.Geometry{IntrinsicWidth: 50, IntrinsicHeight: 100},
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	return img
}

func luminance(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return (r + g + b) / 3
}

func TestRenderPlaceholderFollowsTransform(t *testing.T) {
	var buf bytes.Buffer
	tr := viewport.Centered(square.Viewport, square.Geometry)
	if err := EncodePNG(&buf, tr, square, Options{}); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	img := decode(t, buf.Bytes())

	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("Expected 100x100 image, got %v", b)
	}
	// Centered 50-wide content leaves 25px bars on each side.
	if l := luminance(img.At(5, 50)); l != 0 {
		t.Errorf("Expected black letterbox, got luminance %d", l)
	}
	if l := luminance(img.At(40, 20)); l == 0 {
		t.Error("Expected placeholder inside the content rectangle")
	}
}

func TestRenderContentImage(t *testing.T) {
	content := image.NewRGBA(image.Rect(0, 0, 50, 100))
	for y := range 100 {
		for x := range 50 {
			content.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	var buf bytes.Buffer
	tr := viewport.Centered(square.Viewport, square.Geometry)
	if err := EncodePNG(&buf, tr, square, Options{Content: content}); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	r, g, _, _ := decode(t, buf.Bytes()).At(50, 50).RGBA()
	if r < 0xc000 || g > 0x4000 {
		t.Errorf("Expected red content at the center, got r=%x g=%x", r, g)
	}
}

func TestBrightnessDims(t *testing.T) {
	tr := viewport.Centered(square.Viewport, square.Geometry)
	var full, dim bytes.Buffer
	if err := EncodePNG(&full, tr, square, Options{}); err != nil {
		t.Fatal(err)
	}
	if err := EncodePNG(&dim, tr, square, Options{Brightness: 0.3}); err != nil {
		t.Fatal(err)
	}
	a := luminance(decode(t, full.Bytes()).At(40, 20))
	b := luminance(decode(t, dim.Bytes()).At(40, 20))
	if b >= a {
		t.Errorf("Expected dimmed frame darker, got %d >= %d", b, a)
	}
}

func TestRenderEmptyViewport(t *testing.T) {
	_, err := Render(viewport.Identity(), viewport.Frame{}, Options{})
	if !errors.Is(err, ErrEmptyViewport) {
		t.Errorf("Expected ErrEmptyViewport, got %v", err)
	}
}

func TestSurfaceRecordsTransforms(t *testing.T) {
	s := New()
	tr := viewport.Transform{Scale: 2, TranslateX: -25, TranslateY: -50}
	s.ApplyTransform(tr, square)

	got, frame, updates := s.State()
	if got != tr || frame != square || updates != 1 {
		t.Errorf("Expected %v after one update, got %v (%d updates)", tr, got, updates)
	}

	var buf bytes.Buffer
	if err := s.EncodePNG(&buf, 0); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	// At scale 2 the content covers the whole viewport.
	if l := luminance(decode(t, buf.Bytes()).At(2, 50)); l == 0 {
		t.Error("Expected zoomed content to reach the viewport edge")
	}
}
