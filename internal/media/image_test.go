package media

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createTestImage writes a gradient PNG of the given size.
func createTestImage(t *testing.T, path string, width, height int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8((x * 255) / width), G: uint8((y * 255) / height), B: 128, A: 255})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
}

func TestGetImageDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.png")
	createTestImage(t, path, 120, 40)

	dims, err := GetImageDimensions(path)
	if err != nil {
		t.Fatalf("GetImageDimensions failed: %v", err)
	}
	if dims.Width != 120 || dims.Height != 40 {
		t.Errorf("Expected 120x40, got %dx%d", dims.Width, dims.Height)
	}
}

func TestGetImageDimensionsErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{filepath.Join(dir, "missing.png"), bad} {
		if _, err := GetImageDimensions(path); err == nil {
			t.Errorf("Expected error for %s", path)
		}
	}
}

func TestLoadImageConstrained(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	createTestImage(t, path, 200, 100)

	tests := []struct {
		name         string
		maxW, maxH   int
		wantW, wantH int
	}{
		{"within bounds", 400, 400, 200, 100},
		{"width bound", 100, 400, 100, 50},
		{"height bound", 400, 25, 50, 25},
		{"no bounds", 0, 0, 200, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := LoadImageConstrained(path, tt.maxW, tt.maxH)
			if err != nil {
				t.Fatalf("LoadImageConstrained failed: %v", err)
			}
			b := img.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("Expected %dx%d, got %dx%d", tt.wantW, tt.wantH, b.Dx(), b.Dy())
			}
		})
	}
}

func TestLoadImageConstrainedErrors(t *testing.T) {
	if _, err := LoadImageConstrained(filepath.Join(t.TempDir(), "missing.png"), 10, 10); err == nil {
		t.Error("Expected error for a missing file")
	}
}

func TestCache(t *testing.T) {
	loads := map[string]int{}
	c := NewCache(2)
	c.load = func(path string, w, h int) (image.Image, error) {
		loads[path]++
		if path == "broken" {
			return nil, errors.New("decode failed")
		}
		return image.NewRGBA(image.Rect(0, 0, w, h)), nil
	}

	mustGet := func(path string) {
		t.Helper()
		if _, err := c.Get(path, 10, 10); err != nil {
			t.Fatalf("Get(%s) failed: %v", path, err)
		}
	}

	mustGet("a")
	mustGet("a")
	if loads["a"] != 1 {
		t.Errorf("Expected one load for a cached image, got %d", loads["a"])
	}

	mustGet("b")
	mustGet("a") // a becomes most recent
	mustGet("c") // evicts b
	mustGet("a")
	if loads["a"] != 1 {
		t.Errorf("Expected a to stay cached, got %d loads", loads["a"])
	}
	mustGet("b")
	if loads["b"] != 2 {
		t.Errorf("Expected b reloaded after eviction, got %d loads", loads["b"])
	}

	if _, err := c.Get("a", 20, 20); err != nil {
		t.Fatal(err)
	}
	if loads["a"] != 2 {
		t.Errorf("Expected a different size to load again, got %d loads", loads["a"])
	}

	if _, err := c.Get("broken", 10, 10); err == nil {
		t.Error("Expected load error")
	}
	if c.Len() != 2 {
		t.Errorf("Expected 2 cached images, got %d", c.Len())
	}
}

func TestCacheConcurrentMissStoresOnce(t *testing.T) {
	c := NewCache(2)
	started := make(chan struct{})
	release := make(chan struct{})
	c.load = func(path string, w, h int) (image.Image, error) {
		started <- struct{}{}
		<-release
		return image.NewRGBA(image.Rect(0, 0, w, h)), nil
	}

	results := make(chan image.Image, 2)
	for i := 0; i < 2; i++ {
		go func() {
			img, err := c.Get("a", 10, 10)
			if err != nil {
				t.Errorf("Get failed: %v", err)
			}
			results <- img
		}()
	}
	<-started
	<-started
	close(release)

	first, second := <-results, <-results
	if first != second {
		t.Error("Expected both callers to get the cached image")
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 cached image, got %d", c.Len())
	}

	// The spare slot is still free for another image.
	c.load = func(path string, w, h int) (image.Image, error) {
		return image.NewRGBA(image.Rect(0, 0, w, h)), nil
	}
	if _, err := c.Get("b", 10, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get("a", 10, 10); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Errorf("Expected 2 cached images, got %d", c.Len())
	}
}
