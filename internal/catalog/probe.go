package catalog

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // GIF format support
	_ "image/jpeg" // JPEG format support
	_ "image/png"  // PNG format support
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // BMP format support
	_ "golang.org/x/image/tiff" // TIFF format support
	_ "golang.org/x/image/webp" // WebP format support

	"media-gallery/internal/decoder"
	"media-gallery/internal/filesystem"
	"media-gallery/internal/logging"
	"media-gallery/internal/mediatypes"
	"media-gallery/internal/metrics"
)

// Prober reads the intrinsic size of media files.
type Prober struct {
	// Video reads video information. Nil disables video probing and
	// leaves video geometry unknown.
	Video decoder.ProbeFunc
}

// NewProber creates a prober that reads videos with ffprobe.
func NewProber() *Prober {
	return &Prober{Video: decoder.ProbeVideo}
}

// Probe returns the descriptor for path. Files whose size cannot be read
// still yield a descriptor with zero geometry alongside the error.
func (p *Prober) Probe(ctx context.Context, path string) (mediatypes.Descriptor, error) {
	desc := mediatypes.NewDescriptor(path, 0, 0, 0)
	kind := string(desc.Kind)
	start := time.Now()

	var err error
	switch desc.Kind {
	case mediatypes.FileTypeImage:
		desc.Width, desc.Height, err = imageSize(path)
	case mediatypes.FileTypeVideo:
		if p.Video == nil {
			return desc, nil
		}
		var info *decoder.VideoInfo
		info, err = p.Video(ctx, path)
		if err == nil {
			desc.Width, desc.Height = info.DisplaySize()
			desc.Duration = info.Duration
		}
	default:
		return desc, fmt.Errorf("catalog: %s is not a media file", path)
	}

	status := "success"
	if err != nil {
		status = "error"
		logging.Debug("Probe failed for %s: %v", path, err)
	}
	metrics.CatalogProbesTotal.WithLabelValues(kind, status).Inc()
	metrics.CatalogProbeDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	return desc, err
}

// imageSize returns the displayed size of an image. Only JPEGs carry the
// EXIF orientation that can swap the axes, so other formats are read from
// the header alone.
func imageSize(path string) (int, int, error) {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return 0, 0, err
	}
	cfg, format, err := image.DecodeConfig(f)
	if closeErr := f.Close(); closeErr != nil {
		logging.Warn("failed to close image file %s: %v", path, closeErr)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("decoding %s header: %w", path, err)
	}
	if format != "jpeg" {
		return cfg.Width, cfg.Height, nil
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return 0, 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}
