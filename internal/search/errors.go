package search

import (
	"errors"
	"fmt"
)

// Error codes for categorizing search errors
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodePageLimit  = "PAGE_LIMIT_EXCEEDED"
	CodeBackend    = "BACKEND_ERROR"
)

// Error represents a categorized error from a search operation.
type Error struct {
	Code    string // Error category code
	Message string // Human-readable message
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is().
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Common error instances for comparison
var (
	ErrValidation = &Error{Code: CodeValidation, Message: "invalid search request"}
	ErrNotFound   = &Error{Code: CodeNotFound, Message: "not found"}
	ErrPageLimit  = &Error{Code: CodePageLimit, Message: "page limit exceeded"}
	ErrBackend    = &Error{Code: CodeBackend, Message: "backend failure"}
)

// NewValidationError creates a request validation error.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// NewPageLimitError creates an error for pages beyond the configured cap.
func NewPageLimitError(maxPages int) *Error {
	return &Error{
		Code:    CodePageLimit,
		Message: fmt.Sprintf("you've exceeded the maximum of %d pages, please make your search query less broad", maxPages),
	}
}

// NewBackendError wraps a failure from the record or index store.
func NewBackendError(message string, cause error) *Error {
	return &Error{Code: CodeBackend, Message: message, Cause: cause}
}

// IsValidation returns whether the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound returns whether the error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPageLimit returns whether the error is a page-cap error.
func IsPageLimit(err error) bool {
	return errors.Is(err, ErrPageLimit)
}

// IsBackend returns whether the error is a backend failure.
func IsBackend(err error) bool {
	return errors.Is(err, ErrBackend)
}
