// Package transport exposes the upload service over HTTP.
//
// Routes:
//   - POST /upload: JSON {"file":{"filetype","contents"}} -> {"binary","hex"}
//   - anything else: 404 {"message":"","error":"page not found"}
//
// Failures are answered with {"message","error"}, where "error" names the
// failure kind and the status code follows from it. CORS is open to every
// origin and header for POST.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/ironsheep/image-pixel-text/internal/service"
)

// UploadPath is the only route the service answers.
const UploadPath = "/upload"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// NewHTTPHandler builds the router. Upload bodies larger than maxUploadBytes
// are rejected; zero or negative disables the limit.
func NewHTTPHandler(endpoints Endpoints, logger log.Logger, maxUploadBytes int64) *gin.Engine {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	r := gin.New()
	// /upload/ is a different path, not a redirect target.
	r.RedirectTrailingSlash = false

	r.Use(gin.CustomRecovery(recoverPanic(logger)))
	r.Use(requestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodPost},
		AllowHeaders:    []string{"*"},
		MaxAge:          12 * time.Hour,
	}))

	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(encodeError),
	}

	r.POST(UploadPath, gin.WrapH(httptransport.NewServer(
		endpoints.Upload,
		decodeUploadRequest(maxUploadBytes),
		httptransport.EncodeJSONResponse,
		options...,
	)))

	r.NoRoute(notFound)
	return r
}

func decodeUploadRequest(maxBytes int64) httptransport.DecodeRequestFunc {
	return func(_ context.Context, r *http.Request) (interface{}, error) {
		body := r.Body
		if maxBytes > 0 {
			body = http.MaxBytesReader(nil, r.Body, maxBytes)
		}

		var req service.UploadRequest
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, service.NewError(service.KindTooLarge,
					fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), err)
			}
			return nil, service.NewError(service.KindBadRequest, "request body is not a valid upload", err)
		}

		if req.File.Contents == "" {
			return nil, service.NewError(service.KindBadRequest, "file.contents is required", nil)
		}
		return req, nil
	}
}

func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	e := service.ErrorFrom(err)
	writeError(w, e.Kind.StatusCode(), ErrorResponse{
		Message: e.Error(),
		Error:   e.Kind.String(),
	})
}

func writeError(w http.ResponseWriter, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{
		Message: "",
		Error:   service.KindRouteNotFound.String(),
	})
}

// recoverPanic answers a panicking request with a 500 and keeps serving.
func recoverPanic(logger log.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		level.Error(logger).Log("msg", "panic while serving request",
			"method", c.Request.Method, "path", c.Request.URL.Path, "panic", fmt.Sprint(recovered))
		writeError(c.Writer, http.StatusInternalServerError, ErrorResponse{
			Message: "request failed",
			Error:   service.KindInternal.String(),
		})
		c.Abort()
	}
}

// requestLogger traces every request, including preflights and 404s.
func requestLogger(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()
		level.Debug(logger).Log(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(begin),
			"client", c.ClientIP(),
		)
	}
}
