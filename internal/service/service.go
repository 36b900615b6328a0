// Package service runs the upload pipeline: decode the base64 payload, stage
// the bytes, decode the image, and encode its pixels as binary and hex text.
//
// Every failure is returned as an *Error whose Kind tells the transport which
// status to answer with. No failure is fatal to the process.
package service

import (
	"context"
	"errors"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/ironsheep/image-pixel-text/internal/imaging"
	"github.com/ironsheep/image-pixel-text/internal/payload"
	"github.com/ironsheep/image-pixel-text/internal/pixeltext"
	"github.com/ironsheep/image-pixel-text/internal/staging"
)

// File is the uploaded file as sent by the client.
type File struct {
	// FileType is the client's claim about the format. It is logged but never
	// used for decoding; the format is sniffed from the content.
	FileType string `json:"filetype"`

	// Contents is the base64 encoded file.
	Contents string `json:"contents"`
}

// UploadRequest is the body of POST /upload.
type UploadRequest struct {
	File File `json:"file"`
}

// Service encodes uploaded images.
type Service interface {
	Upload(ctx context.Context, req UploadRequest) (pixeltext.EncodedPair, error)
}

// ImageDecoder decodes a staged file into a pixel grid.
type ImageDecoder interface {
	Decode(path string) (*imaging.Raster, error)
}

type service struct {
	store     *staging.Store
	decoder   ImageDecoder
	cacheName string
	logger    log.Logger
}

// New returns a Service staging uploads in store.
//
// When cacheName is not empty, the hex encoding of every successful upload is
// also written to that file inside the staging directory. The cache is a debug
// aid only: failing to write it is logged and otherwise ignored.
func New(store *staging.Store, decoder ImageDecoder, cacheName string, logger log.Logger) Service {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &service{
		store:     store,
		decoder:   decoder,
		cacheName: cacheName,
		logger:    logger,
	}
}

func (s *service) Upload(ctx context.Context, req UploadRequest) (pixeltext.EncodedPair, error) {
	data, err := payload.Decode(req.File.Contents)
	if err != nil {
		return pixeltext.EncodedPair{}, NewError(KindInvalidEncoding, "file contents are not valid base64", err)
	}

	img, err := s.stageAndDecode(ctx, data)
	if err != nil {
		return pixeltext.EncodedPair{}, err
	}

	level.Debug(s.logger).Log("method", "Upload", "filetype", req.File.FileType,
		"format", img.Format(), "width", img.Width(), "height", img.Height())

	pair, err := pixeltext.Encode(ctx, img)
	if err != nil {
		return pixeltext.EncodedPair{}, NewError(KindTimeout, "encoding stopped", err)
	}

	s.cacheHex(pair.Hex)
	return pair, nil
}

// stageAndDecode writes data under a key of its own, decodes the staged
// file, and removes it again whether or not decoding succeeded.
func (s *service) stageAndDecode(ctx context.Context, data []byte) (*imaging.Raster, error) {
	key := staging.NewKey()
	path, err := s.store.Write(ctx, key, data)
	if err != nil {
		return nil, NewError(KindIO, "failed to stage upload", err)
	}
	defer func() {
		if err := s.store.Remove(ctx, key); err != nil {
			level.Warn(s.logger).Log("method", "Upload", "msg", "staged file left behind", "key", key, "err", err)
		}
	}()

	img, err := s.decoder.Decode(path)
	switch {
	case err == nil:
		return img, nil
	case errors.Is(err, imaging.ErrRead):
		return nil, NewError(KindIO, "failed to read staged upload", err)
	case errors.Is(err, imaging.ErrTooLarge):
		return nil, NewError(KindTooLarge, "image is too large", err)
	default:
		return nil, NewError(KindUnsupportedImage, "file is not a supported image", err)
	}
}

// cacheHex writes the hex encoding to the cache file. Failures are logged and
// dropped so they never reach the caller.
func (s *service) cacheHex(hex string) {
	if s.cacheName == "" {
		return
	}
	if err := s.store.WriteCache(s.cacheName, []byte(hex)); err != nil {
		level.Warn(s.logger).Log("method", "Upload", "msg", "hex cache not written", "err", err)
	}
}
