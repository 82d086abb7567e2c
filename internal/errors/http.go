// Package errors provides the error types shared by the CLI and the HTTP
// layer: errors enriched with fix suggestions for the command line, and
// HTTPError for responses the handlers render as error pages.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is an error that maps onto an HTTP status code.
type HTTPError struct {
	Status  int
	Message string
	Cause   error
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// Unwrap returns the underlying cause
func (e *HTTPError) Unwrap() error {
	return e.Cause
}

// NotFound reports a missing record, such as a post id nobody created.
func NotFound(format string, args ...interface{}) *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// BadRequest reports a request the handlers could not read at all.
func BadRequest(cause error, message string) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Message: message, Cause: cause}
}

// Internal reports an unexpected failure, such as a template that failed to
// render.
func Internal(cause error, message string) *HTTPError {
	return &HTTPError{Status: http.StatusInternalServerError, Message: message, Cause: cause}
}

// StatusOf returns the HTTP status carried by err, or 500 for any other error.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return http.StatusInternalServerError
}
