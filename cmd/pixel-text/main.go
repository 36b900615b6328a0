package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/ironsheep/image-pixel-text/internal/config"
	"github.com/ironsheep/image-pixel-text/internal/imaging"
	"github.com/ironsheep/image-pixel-text/internal/logging"
	"github.com/ironsheep/image-pixel-text/internal/service"
	"github.com/ironsheep/image-pixel-text/internal/staging"
	"github.com/ironsheep/image-pixel-text/internal/transport"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("pixel-text %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("pixel-text - HTTP service that re-encodes image pixels as binary and hex text")
			fmt.Println()
			fmt.Println("Usage: pixel-text [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from .env):")
			fmt.Println("  PIXELTEXT_ADDR=:8080                 Listen address")
			fmt.Println("  PIXELTEXT_STAGING_DIR=./temp         Directory for staged uploads")
			fmt.Println("  PIXELTEXT_HEX_CACHE=hex-cache.txt    Debug cache of the last hex output (empty disables)")
			fmt.Println("  PIXELTEXT_REQUEST_TIMEOUT=30s        Per-request time limit")
			fmt.Println("  PIXELTEXT_MAX_UPLOAD_BYTES=33554432  Request body limit")
			fmt.Println("  PIXELTEXT_MAX_PIXELS=16777216        Decoded image size limit")
			fmt.Println("  PIXELTEXT_LOG_LEVEL=info             debug, info, warn or error")
			fmt.Println("  PIXELTEXT_ENV_FILE=.env              Optional env file")
			fmt.Println()
			fmt.Println("Send POST /upload with {\"file\":{\"filetype\":...,\"contents\":<base64>}}.")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, "pixel-text")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		level.Error(logger).Log("msg", "server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger log.Logger) error {
	level.Info(logger).Log("msg", "starting", "version", Version, "commit", GitCommit, "addr", cfg.Addr)

	store := staging.NewStore(cfg.StagingDir)
	if err := store.EnsureDir(); err != nil {
		return err
	}

	var svc service.Service
	{
		svc = service.New(store, imaging.Decoder{MaxPixels: cfg.MaxPixels}, cfg.HexCache,
			log.With(logger, "component", "service"))
		svc = service.LoggingMiddleware(log.With(logger, "component", "LoggingMiddleware"))(svc)
	}

	gin.SetMode(gin.ReleaseMode)
	endpoints := transport.MakeEndpoints(svc, cfg.RequestTimeout)
	handler := transport.NewHTTPHandler(endpoints, log.With(logger, "component", "http"), cfg.MaxUploadBytes)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		level.Info(logger).Log("msg", "HTTP server listening", "addr", cfg.Addr, "staging_dir", store.Dir())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		return err
	case sig := <-sigChan:
		level.Info(logger).Log("msg", "shutting down", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	level.Info(logger).Log("msg", "shutdown complete")
	return nil
}
