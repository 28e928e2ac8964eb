// Package errors provides structured error types for molpatch.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the reactor, the batch runner and the CLI
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Construction-time codes (the reactor is never created):
//   - INVALID_TEMPLATE: disallowed atom kind or malformed replacement template
//   - VARIABLE_BOND: replacement bond with zero or several allowed orders
//
// Application-time codes (fatal to a single Apply call, no partial graph):
//   - UNMATCHED_ANY_ELEMENT: any-element template atom without a host counterpart
//   - AMBIGUOUS_HYDROGENS: fresh query atom with several hydrogen-count alternatives
//   - INVALID_MAPPING: mapping refers to missing host atoms or misses pattern atoms
//
// # Usage
//
//	err := errors.New(errors.ErrCodeVariableBond, "bond %d-%d has %d orders", n, m, k)
//	if errors.Is(err, errors.ErrCodeVariableBond) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeToolkit, origErr, "kekulize")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidTemplate Code = "INVALID_TEMPLATE"
	ErrCodeVariableBond    Code = "VARIABLE_BOND"
	ErrCodeInvalidMapping  Code = "INVALID_MAPPING"

	// Patch application errors
	ErrCodeUnmatchedAnyElement Code = "UNMATCHED_ANY_ELEMENT"
	ErrCodeAmbiguousHydrogens  Code = "AMBIGUOUS_HYDROGENS"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Collaborator errors
	ErrCodeToolkit Code = "TOOLKIT_FAILURE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsConstruction reports whether err was raised while building a reactor.
func IsConstruction(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidTemplate, ErrCodeVariableBond:
		return true
	}
	return false
}
