// Package apierror defines the error taxonomy returned by the JSON API.
//
// Handlers build an *Error with one of the constructors below and hand it to
// the responder in features/errors, which picks the status code from Kind and
// writes {"error": Message, "details": ...}.
package apierror

import (
	"errors"
	"net/http"
)

// Kind classifies an API failure.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindConflict    Kind = "conflict"
	KindAuth        Kind = "auth"
	KindNotFound    Kind = "not_found"
	KindUpload      Kind = "upload"
	KindRateLimited Kind = "rate_limited"
	KindServer      Kind = "server"
)

// Error is an API failure with a human-readable message.
// Err is the underlying cause; it is only exposed (as details) for server errors.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the Kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindConflict, KindAuth, KindUpload:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Details returns the cause string shown to clients. Only server errors carry one.
func (e *Error) Details() string {
	if e.Kind == KindServer && e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

func Validation(msg string) *Error  { return &Error{Kind: KindValidation, Message: msg} }
func Conflict(msg string) *Error    { return &Error{Kind: KindConflict, Message: msg} }
func Auth(msg string) *Error        { return &Error{Kind: KindAuth, Message: msg} }
func NotFound(msg string) *Error    { return &Error{Kind: KindNotFound, Message: msg} }
func RateLimited(msg string) *Error { return &Error{Kind: KindRateLimited, Message: msg} }

// Upload wraps an intake rejection (bad file type, file too large).
func Upload(msg string, err error) *Error {
	return &Error{Kind: KindUpload, Message: msg, Err: err}
}

// Server wraps a store or filesystem failure.
func Server(msg string, err error) *Error {
	return &Error{Kind: KindServer, Message: msg, Err: err}
}

// As extracts an *Error from err. Anything else is reported as a server error
// with a generic message.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Server("Internal server error", err)
}
