package domain

import "errors"

var (
	// ErrBackendUnavailable signals that the remote search engine is
	// unreachable or erroring. Search recovers by falling back to the
	// local index instead of surfacing it.
	ErrBackendUnavailable = errors.New("search backend unavailable")
	// ErrValidation signals malformed query parameters.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrUnknownDocType signals an unrecognized content type tag.
	ErrUnknownDocType = errors.New("unknown document type")
	// ErrRebuildInProgress signals that a full rebuild is already running.
	ErrRebuildInProgress = errors.New("rebuild already in progress")
)
