package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable marks transport-level failures (connection refused,
	// timeouts, DNS). The server was never reached or never answered, so the
	// caller must not treat the credential or the resource as invalid.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized marks 401 responses: the credential is missing or expired.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks 403 responses: the action was denied for this user.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrServer marks 5xx responses.
	ErrServer = errors.New("server error")
)

// ErrorSource is a field-level validation failure reported by the backend.
type ErrorSource struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error is the normalized shape of every non-2xx response. It carries the
// HTTP status, the server's message verbatim, and optional field-level
// sources for form error mapping. errors.Is matches the status-class
// sentinels above through Unwrap.
type Error struct {
	Status       int
	Message      string
	ErrorSources []ErrorSource
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: request failed (status %d)", e.Status)
}

func (e *Error) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status >= 500:
		return ErrServer
	}
	return nil
}

// IsAuthFailure reports whether err means the credential itself was rejected
// (401/403), as opposed to the server being unreachable or erroring. Session
// bootstrap relies on this distinction to avoid spurious logouts.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}
