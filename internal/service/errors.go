package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a request failure. Each kind maps to one HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidEncoding
	KindIO
	KindUnsupportedImage
	KindTooLarge
	KindRouteNotFound
	KindBadRequest
	KindTimeout
)

var kindNames = map[Kind]string{
	KindInternal:         "internal error",
	KindInvalidEncoding:  "invalid encoding",
	KindIO:               "io error",
	KindUnsupportedImage: "unsupported or corrupt image",
	KindTooLarge:         "payload too large",
	KindRouteNotFound:    "page not found",
	KindBadRequest:       "bad request",
	KindTimeout:          "request timeout",
}

// String returns the value sent in the "error" field of a response body.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// StatusCode returns the HTTP status for the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindInvalidEncoding, KindUnsupportedImage, KindBadRequest:
		return http.StatusBadRequest
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindRouteNotFound:
		return http.StatusNotFound
	case KindTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a request-scoped failure carrying its Kind to the transport.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// NewError returns an Error of kind k. Context cancellation and deadline
// errors are always reported as KindTimeout, whatever k is.
func NewError(k Kind, message string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		k = KindTimeout
	}
	return &Error{Kind: k, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorFrom returns err as an *Error, classifying foreign errors.
func ErrorFrom(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewError(KindInternal, "request failed", err)
}
