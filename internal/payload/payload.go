// Package payload turns the base64 text carried in an upload body into raw bytes.
//
// # Encoding Policy
//
// Only the standard base64 alphabet (RFC 4648 §4) is accepted. Padding is
// optional, but when present it must be correct:
//   - input whose length is a multiple of 4 is decoded as padded base64
//   - any other length is decoded as unpadded base64
//
// Whitespace, line breaks, the URL-safe alphabet and "data:" URL prefixes are
// all rejected. Decoding is strict: non-zero trailing bits are an error.
package payload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEncoding is returned for content that is not valid base64 under
// the package policy.
var ErrInvalidEncoding = errors.New("invalid base64 encoding")

var (
	padded   = base64.StdEncoding.Strict()
	unpadded = base64.RawStdEncoding.Strict()
)

// Decode returns the bytes encoded by content.
//
// The returned error wraps ErrInvalidEncoding and the decoder's own error,
// which reports the offset of the first bad byte.
func Decode(content string) ([]byte, error) {
	// encoding/base64 silently skips CR and LF
	if i := strings.IndexAny(content, "\r\n"); i >= 0 {
		return nil, fmt.Errorf("%w: line break at offset %d", ErrInvalidEncoding, i)
	}

	enc := unpadded
	if len(content)%4 == 0 {
		enc = padded
	}

	data, err := enc.DecodeString(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}
	return data, nil
}
