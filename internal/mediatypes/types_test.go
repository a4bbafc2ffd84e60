package mediatypes

import (
	"testing"
	"time"
)

func TestGetFileType(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		want FileType
	}{
		{"JPEG image", ".jpg", FileTypeImage},
		{"PNG image", ".png", FileTypeImage},
		{"WebP image", ".webp", FileTypeImage},
		{"MP4 video", ".mp4", FileTypeVideo},
		{"WebM video", ".webm", FileTypeVideo},
		{"MKV video", ".mkv", FileTypeVideo},
		{"Unknown extension", ".xyz", FileTypeOther},
		{"Empty extension", "", FileTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetFileType(tt.ext)
			if got != tt.want {
				t.Errorf("GetFileType(%q) = %v, want %v", tt.ext, got, tt.want)
			}
		})
	}
}

func TestFileTypeForPath(t *testing.T) {
	tests := []struct {
		path string
		want FileType
	}{
		{"/media/IMG_0001.JPG", FileTypeImage},
		{"/media/holiday/clip.MOV", FileTypeVideo},
		{"notes.txt", FileTypeOther},
		{"/media/no-extension", FileTypeOther},
	}
	for _, tt := range tests {
		if got := FileTypeForPath(tt.path); got != tt.want {
			t.Errorf("FileTypeForPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestGetMimeType(t *testing.T) {
	if got := GetMimeType(".mp4"); got != "video/mp4" {
		t.Errorf("Expected video/mp4, got %s", got)
	}
	if got := GetMimeType(".unknown"); got != "application/octet-stream" {
		t.Errorf("Expected application/octet-stream, got %s", got)
	}
}

func TestExtensionMapsDisjoint(t *testing.T) {
	for ext := range ImageExtensions {
		if VideoExtensions[ext] {
			t.Errorf("Extension %s is registered as both image and video", ext)
		}
		if _, ok := MimeTypes[ext]; !ok {
			t.Errorf("Image extension %s has no MIME type", ext)
		}
	}
	for ext := range VideoExtensions {
		if _, ok := MimeTypes[ext]; !ok {
			t.Errorf("Video extension %s has no MIME type", ext)
		}
	}
}

func TestDescriptor(t *testing.T) {
	d := NewDescriptor("/media/clips/beach.mp4", 1920, 1080, 30*time.Second)
	if !d.IsVideo() {
		t.Error("Expected video descriptor")
	}
	if !d.HasGeometry() {
		t.Error("Expected geometry to be known")
	}
	if d.Name() != "beach.mp4" {
		t.Errorf("Expected name beach.mp4, got %s", d.Name())
	}

	img := NewDescriptor("/media/photo.jpg", 0, 0, 0)
	if img.IsVideo() {
		t.Error("Expected image descriptor")
	}
	if img.HasGeometry() {
		t.Error("Expected unknown geometry")
	}
}
