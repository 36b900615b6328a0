package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
)

var (
	// ErrRead is returned when the staged file cannot be read.
	ErrRead = errors.New("failed to read image")

	// ErrUnsupportedOrCorrupt is returned when no registered codec
	// recognizes the bytes or the data ends early.
	ErrUnsupportedOrCorrupt = errors.New("unsupported or corrupt image")

	// ErrTooLarge is returned when the declared dimensions exceed the
	// decoder's pixel limit.
	ErrTooLarge = errors.New("image exceeds pixel limit")
)

// Decoder turns staged image files into Rasters.
//
// The zero value decodes images of any size.
type Decoder struct {
	// MaxPixels caps width*height. The header is checked before the pixel
	// data is decoded, so oversized images never get allocated.
	// Zero or negative means no limit.
	MaxPixels int
}

// Decode reads the file at path and decodes it.
//
// # Errors
//
//   - ErrRead if the file does not exist or cannot be read
//   - ErrUnsupportedOrCorrupt if the content is not a recognized image
//   - ErrTooLarge if the image has more than MaxPixels pixels
func (d Decoder) Decode(path string) (*Raster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return d.DecodeBytes(data)
}

// DecodeBytes decodes an in-memory image. It applies the same checks as Decode.
func (d Decoder) DecodeBytes(data []byte) (*Raster, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedOrCorrupt, err)
	}

	if d.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(d.MaxPixels) {
		return nil, fmt.Errorf("%w: %dx%d is more than %d pixels",
			ErrTooLarge, cfg.Width, cfg.Height, d.MaxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedOrCorrupt, err)
	}

	r := NewRaster(img)
	r.format = format
	return r, nil
}
