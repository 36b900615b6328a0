package pixeltext

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Characters written per pixel by each encoding.
const (
	BinaryPixelWidth = 24
	HexPixelWidth    = 6
)

// Image is the read-only pixel grid the encoders walk.
type Image interface {
	Width() int
	Height() int
	// RGB returns the 8-bit channels of the pixel at (x, y).
	RGB(x, y int) (r, g, b uint8)
}

// EncodedPair holds both encodings of one image.
type EncodedPair struct {
	Binary string `json:"binary"`
	Hex    string `json:"hex"`
}

const hexDigits = "0123456789ABCDEF"

// binaryDigits[v] is v written as 8 binary digits, most significant first.
var binaryDigits [256][8]byte

func init() {
	for v := range binaryDigits {
		for bit := 0; bit < 8; bit++ {
			d := byte('0')
			if v&(0x80>>bit) != 0 {
				d = '1'
			}
			binaryDigits[v][bit] = d
		}
	}
}

func writeBinary(b *strings.Builder, v uint8) {
	b.Write(binaryDigits[v][:])
}

func writeHex(b *strings.Builder, v uint8) {
	b.WriteByte(hexDigits[v>>4])
	b.WriteByte(hexDigits[v&0x0f])
}

// Binary returns the binary-digit encoding of img.
// An image with zero width or height encodes to "".
func Binary(ctx context.Context, img Image) (string, error) {
	return walk(ctx, img, BinaryPixelWidth, writeBinary)
}

// Hex returns the uppercase hexadecimal encoding of img.
// An image with zero width or height encodes to "".
func Hex(ctx context.Context, img Image) (string, error) {
	return walk(ctx, img, HexPixelWidth, writeHex)
}

// Encode computes both encodings of img concurrently.
// If either fails, the pair is empty and the first error is returned.
func Encode(ctx context.Context, img Image) (EncodedPair, error) {
	var pair EncodedPair
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := Binary(gctx, img)
		pair.Binary = s
		return err
	})
	g.Go(func() error {
		s, err := Hex(gctx, img)
		pair.Hex = s
		return err
	})

	if err := g.Wait(); err != nil {
		return EncodedPair{}, err
	}
	return pair, nil
}

// walk visits every pixel of img in row-major order and writes each channel
// with write. pixelWidth is the number of characters write emits per pixel.
func walk(ctx context.Context, img Image, pixelWidth int, write func(*strings.Builder, uint8)) (string, error) {
	w, h := img.Width(), img.Height()
	if w <= 0 || h <= 0 {
		return "", nil
	}

	var b strings.Builder
	b.Grow(w * h * pixelWidth)

	for y := 0; y < h; y++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		for x := 0; x < w; x++ {
			r, g, bl := img.RGB(x, y)
			write(&b, r)
			write(&b, g)
			write(&b, bl)
		}
	}
	return b.String(), nil
}
