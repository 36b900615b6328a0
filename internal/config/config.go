// Package config loads the service settings from the environment.
//
// Values are read from process environment variables. Before reading them,
// Load merges an optional .env file (PIXELTEXT_ENV_FILE, default ".env");
// variables already set in the environment win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable of the service.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string

	// StagingDir receives uploaded bytes while they are decoded.
	StagingDir string

	// HexCache names the best-effort cache file inside StagingDir.
	// Empty disables the cache.
	HexCache string

	// RequestTimeout bounds a single upload. Zero means no limit.
	RequestTimeout time.Duration

	// MaxUploadBytes caps the request body. Zero means no limit.
	MaxUploadBytes int64

	// MaxPixels caps width*height of decoded images. Zero means no limit.
	MaxPixels int

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Defaults.
const (
	DefaultAddr           = ":8080"
	DefaultStagingDir     = "./temp"
	DefaultHexCache       = "hex-cache.txt"
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxUploadBytes = 32 << 20
	DefaultMaxPixels      = 4096 * 4096
	DefaultLogLevel       = "info"
	DefaultEnvFile        = ".env"
)

// Load returns the configuration, applying defaults for unset variables.
// A missing .env file is not an error; a malformed one is.
func Load() (Config, error) {
	envFile := getEnv("PIXELTEXT_ENV_FILE", DefaultEnvFile)
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := Config{
		Addr:       getEnv("PIXELTEXT_ADDR", DefaultAddr),
		StagingDir: getEnv("PIXELTEXT_STAGING_DIR", DefaultStagingDir),
		LogLevel:   getEnv("PIXELTEXT_LOG_LEVEL", DefaultLogLevel),
	}

	// An explicitly empty PIXELTEXT_HEX_CACHE turns the cache off.
	cfg.HexCache = DefaultHexCache
	if v, ok := os.LookupEnv("PIXELTEXT_HEX_CACHE"); ok {
		cfg.HexCache = v
	}

	var err error
	if cfg.RequestTimeout, err = getDurationEnv("PIXELTEXT_REQUEST_TIMEOUT", DefaultRequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.MaxUploadBytes, err = getInt64Env("PIXELTEXT_MAX_UPLOAD_BYTES", DefaultMaxUploadBytes); err != nil {
		return Config{}, err
	}
	maxPixels, err := getInt64Env("PIXELTEXT_MAX_PIXELS", DefaultMaxPixels)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxPixels = int(maxPixels)

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getDurationEnv accepts a plain integer as milliseconds, or any
// time.ParseDuration string.
func getDurationEnv(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	if ms, err := strconv.Atoi(val); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	return d, nil
}

func getInt64Env(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q: want a non-negative integer", key, val)
	}
	return n, nil
}
