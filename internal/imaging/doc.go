// Package imaging decodes staged image files into read-only pixel grids.
//
// Decoding is delegated to github.com/disintegration/imaging, which registers
// the JPEG, PNG, GIF, BMP and TIFF codecs. The format is always sniffed from
// the file content; file names and client supplied types are never trusted.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// # Color Representation
//
// Every decoded image is converted to non-premultiplied 8-bit RGBA. Callers
// only see the R, G and B channels; alpha and any other channel are dropped.
// Because the channels are not premultiplied, a fully transparent pixel still
// reports the color it was stored with.
//
// No EXIF orientation is applied: the grid is reported exactly as stored.
//
// # Thread Safety
//
// A Raster is never mutated after Decode returns, so it can be read from any
// number of goroutines at once.
package imaging
