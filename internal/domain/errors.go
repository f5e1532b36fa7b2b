package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
)

// ConflictError represents a resource conflict with details about the existing
// resource, so callers can surface "already exists" rather than a generic
// failure.
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (folder, file, content)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// PathError indicates a malformed virtual path. It is always a local,
// recoverable validation failure.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// Is allows errors.Is() to match against ErrValidation
func (e *PathError) Is(target error) bool {
	return target == ErrValidation
}
