package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Raster is a decoded pixel grid with 8-bit R, G and B channels.
type Raster struct {
	img    *image.NRGBA
	format string
}

// NewRaster copies img into a Raster. Later changes to img are not visible
// through the returned value.
func NewRaster(img image.Image) *Raster {
	return &Raster{img: imaging.Clone(img)}
}

// Width returns the number of columns.
func (r *Raster) Width() int { return r.img.Rect.Dx() }

// Height returns the number of rows.
func (r *Raster) Height() int { return r.img.Rect.Dy() }

// Format returns the codec name that decoded the image ("jpeg", "png", ...),
// or "" for a Raster built with NewRaster.
func (r *Raster) Format() string { return r.format }

// RGB returns the channels of the pixel at (x, y), where 0 <= x < Width()
// and 0 <= y < Height(). Coordinates outside that range are not checked.
func (r *Raster) RGB(x, y int) (red, green, blue uint8) {
	i := r.img.PixOffset(r.img.Rect.Min.X+x, r.img.Rect.Min.Y+y)
	p := r.img.Pix[i : i+3 : i+3]
	return p[0], p[1], p[2]
}
