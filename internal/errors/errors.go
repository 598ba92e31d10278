// Package errors provides the structured domain error used across the library.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Lookup and navigation errors
	CodeNotFound          Code = "NOT_FOUND"
	CodeOutOfRange        Code = "OUT_OF_RANGE"
	CodeInconsistentGraph Code = "INCONSISTENT_GRAPH"
	CodeRandomDisabled    Code = "RANDOM_DISABLED"

	// Search errors
	CodeInvalidSearchType Code = "INVALID_SEARCH_TYPE"

	// Input errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// Storage errors
	CodeStorage Code = "STORAGE"
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable message
	Metadata map[string]string // Additional context (ids, field names)
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// WithMetadata creates a domain error with metadata.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// GetCode extracts the Code from an error chain. Returns CodeUnknown when
// no domain error is present.
func GetCode(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return GetCode(err) == code
}

// NotFound is shorthand for a CodeNotFound error naming the missing thing.
func NotFound(kind string, id int) *Error {
	return WithMetadata(CodeNotFound, fmt.Sprintf("%s not found: %d", kind, id),
		map[string]string{"kind": kind, "id": fmt.Sprint(id)})
}
