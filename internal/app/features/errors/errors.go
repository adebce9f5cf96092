// internal/app/features/errors/errors.go
//
// Package errors writes JSON API responses. Every failure a handler returns
// goes through ErrorLogger.Write so status codes, body shape and logging
// stay uniform.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/dalemusser/storyhub/internal/app/system/apierror"
	"github.com/dalemusser/storyhub/internal/app/system/limits"
	"go.uber.org/zap"
)

// ErrorLogger logs API failures and writes them as {"error": ...}.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{log: logger}
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Write responds with err. Errors that are not *apierror.Error become a
// generic 500. Client errors are logged at Info, server errors at Error.
func (l *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, err error) {
	ae := apierror.As(err)
	status := ae.Status()

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("kind", string(ae.Kind)),
		zap.String("message", ae.Message),
	}
	if ae.Err != nil {
		fields = append(fields, zap.Error(ae.Err))
	}
	if status >= http.StatusInternalServerError {
		l.log.Error("request failed", fields...)
	} else {
		l.log.Info("request rejected", fields...)
	}

	JSON(w, status, errorBody{Error: ae.Message, Details: ae.Details()})
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON reads a JSON request body into v, rejecting bodies over 1 MiB.
// An empty body leaves v unchanged.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxJSONBody))
	if err := dec.Decode(v); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		return apierror.Validation("Invalid JSON body")
	}
	return nil
}
