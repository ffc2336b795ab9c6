package searchd

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped from API error codes.
// Use errors.Is() to check.
var (
	ErrValidation         = errors.New("searchd: validation failed")
	ErrNotFound           = errors.New("searchd: not found")
	ErrRebuildInProgress  = errors.New("searchd: rebuild already in progress")
	ErrBackendUnavailable = errors.New("searchd: search backend unavailable")
	ErrUnauthorized       = errors.New("searchd: unauthorized")
)

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int    // HTTP status code
	Code    string // machine-readable error class
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("searchd: %s (status %d, code %s)", e.Message, e.Status, e.Code)
}

// Unwrap maps the response to a sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	if e.Status == 401 {
		return ErrUnauthorized
	}
	switch e.Code {
	case "validation_failed", "bad_request":
		return ErrValidation
	case "not_found":
		return ErrNotFound
	case "rebuild_in_progress":
		return ErrRebuildInProgress
	case "backend_unavailable":
		return ErrBackendUnavailable
	}
	return nil
}
