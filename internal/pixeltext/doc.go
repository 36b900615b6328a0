// Package pixeltext re-encodes a pixel grid as text.
//
// Two encodings are produced for every image, both built by walking the grid
// in row-major order (rows top to bottom, pixels left to right) and writing
// the R, G and B channels of each pixel in that order, with no separators:
//
//   - Binary: each channel as 8 binary digits, zero padded ("00010000")
//   - Hex: each channel as 2 uppercase hex digits, zero padded ("1F")
//
// A W x H image therefore yields exactly 24*W*H binary characters and 6*W*H
// hex characters. Output depends on nothing but the pixel values: there is no
// locale, sampling, or early exit, and encoding the same image twice gives
// byte-identical strings.
//
// Encoding is O(W*H) in time and output size. The context is checked once
// per row so a cancelled request stops promptly on large images.
package pixeltext
