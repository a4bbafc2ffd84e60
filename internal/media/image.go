package media

import (
	"errors"
	"fmt"
	"image"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support

	"media-gallery/internal/filesystem"
	"media-gallery/internal/logging"
)

// MaxImagePixels is the largest source image decoded for a preview. A
// 20 MP image takes about 80 MB as RGBA.
const MaxImagePixels = 20_000_000

// ErrImageTooLarge is returned for images above MaxImagePixels.
var ErrImageTooLarge = errors.New("media: image exceeds pixel limit")

// ImageDimensions holds image width and height
type ImageDimensions struct {
	Width  int
	Height int
}

// GetImageDimensions returns image dimensions without fully decoding the
// image. Orientation is not applied.
func GetImageDimensions(path string) (*ImageDimensions, error) {
	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return nil, err
	}
	return &ImageDimensions{Width: config.Width, Height: config.Height}, nil
}

// LoadImageConstrained loads an upright image scaled down to fit within
// maxWidth x maxHeight. Images already inside the bounds are returned at
// full size; non-positive bounds disable scaling.
func LoadImageConstrained(path string, maxWidth, maxHeight int) (image.Image, error) {
	dimensions, err := GetImageDimensions(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if pixels := dimensions.Width * dimensions.Height; pixels > MaxImagePixels {
		return nil, fmt.Errorf("%w: %s is %dx%d", ErrImageTooLarge, path, dimensions.Width, dimensions.Height)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	b := img.Bounds()
	if maxWidth <= 0 || maxHeight <= 0 || (b.Dx() <= maxWidth && b.Dy() <= maxHeight) {
		return img, nil
	}

	logging.Debug("Constraining image %s from %dx%d to fit %dx%d", path, b.Dx(), b.Dy(), maxWidth, maxHeight)
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos), nil
}
