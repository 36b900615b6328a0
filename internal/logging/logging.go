// Package logging builds the process-wide go-kit logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New returns a logfmt logger writing to w that drops records below
// levelName (debug, info, warn or error). Every record carries a UTC
// timestamp, the caller, and svc=svc.
func New(w io.Writer, levelName, svc string) (log.Logger, error) {
	allow, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}

	var logger log.Logger
	logger = log.NewLogfmtLogger(w)
	logger = log.NewSyncLogger(logger)
	logger = level.NewFilter(logger, allow)
	logger = log.With(logger,
		"svc", svc,
		"ts", log.DefaultTimestampUTC,
		"caller", log.DefaultCaller,
	)
	return logger, nil
}

// ParseLevel maps a level name to a go-kit filter option.
func ParseLevel(name string) (level.Option, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return level.AllowDebug(), nil
	case "", "info":
		return level.AllowInfo(), nil
	case "warn", "warning":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	default:
		return nil, fmt.Errorf("unknown log level %q", name)
	}
}
