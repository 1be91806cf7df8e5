package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error types
var (
	ErrAuthentication = errors.New("authentication error")
	ErrConfiguration  = errors.New("configuration error")
	ErrTransport      = errors.New("transport error")
	ErrAPI            = errors.New("API error")
	ErrFilesystem     = errors.New("filesystem error")
	ErrPagination     = errors.New("pagination error")
	ErrValidation     = errors.New("validation error")
)

// WrapError wraps an error with a standard error type.
// Both errType and err stay matchable with errors.Is.
func WrapError(err error, errType error, message string) error {
	return fmt.Errorf("%w: %s: %w", errType, message, err)
}

// StatusError is a non-2xx response received while fetching a page.
type StatusError struct {
	Page       int
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("page %d: HTTP %d %s", e.Page, e.StatusCode, http.StatusText(e.StatusCode))
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		msg += " (signature rejected, re-check TRACKER_ID and API_KEY)"
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap classifies the status so callers can use errors.Is.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrAuthentication
	}
	return ErrAPI
}

// Is provides a convenience wrapper around errors.Is
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As provides a convenience wrapper around errors.As
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
