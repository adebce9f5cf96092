package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrServerUnavailable means the server could not be reached at all.
	ErrServerUnavailable = errors.New("server unavailable")
	// ErrTimeout means the server did not answer within the request timeout.
	ErrTimeout = errors.New("request timed out")
	// ErrNotAuthenticated is returned by Session operations that need a user.
	ErrNotAuthenticated = errors.New("not logged in")
)

// APIError is an application-level error response from the server.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%d): %s", e.Message, e.Status, e.Details)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// UserMessage turns err into text suitable for showing to a person.
func UserMessage(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrServerUnavailable):
		return "Cannot connect to the server. Please ensure the storyhub server is running."
	case errors.Is(err, ErrTimeout):
		return "Request timed out. Please try again."
	case errors.Is(err, ErrNotAuthenticated):
		return "You are not logged in."
	case errors.As(err, &apiErr):
		return apiErr.Message
	default:
		return err.Error()
	}
}

// classify maps a transport failure from http.Client.Do onto the client's
// network error kinds. Caller cancellation is passed through unchanged.
func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrServerUnavailable, err)
}

func statusMessage(status int) string {
	if s := http.StatusText(status); s != "" {
		return s
	}
	return "Request failed"
}
