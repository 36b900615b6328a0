package service

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/ironsheep/image-pixel-text/internal/pixeltext"
)

// Middleware decorates a Service.
type Middleware func(Service) Service

// LoggingMiddleware logs one line per upload with its duration and outcome.
// Client errors are logged at warn level, server errors at error level.
func LoggingMiddleware(logger log.Logger) Middleware {
	return func(next Service) Service {
		return loggingMiddleware{next: next, logger: logger}
	}
}

type loggingMiddleware struct {
	next   Service
	logger log.Logger
}

func (mw loggingMiddleware) Upload(ctx context.Context, req UploadRequest) (pair pixeltext.EncodedPair, err error) {
	defer func(begin time.Time) {
		lvl := level.Info
		if err != nil {
			lvl = level.Error
			if ErrorFrom(err).Kind.StatusCode() < 500 {
				lvl = level.Warn
			}
		}
		lvl(mw.logger).Log(
			"method", "Upload",
			"filetype", req.File.FileType,
			"payload_bytes", len(req.File.Contents),
			"hex_chars", len(pair.Hex),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return mw.next.Upload(ctx, req)
}
