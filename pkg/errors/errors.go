// Package errors provides structured error types for vesselgen.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the library packages
//   - Machine-readable error codes for programmatic handling
//   - A distinguished variant for broken internal invariants
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (volume, config, format, path)
//   - EMPTY_VOLUME: The occupancy volume has nothing to grow a network in
//   - FILE_NOT_FOUND: A referenced input file does not exist
//   - INTERNAL_*: Unexpected internal errors and invariant violations
//
// # Invariant Violations
//
// The synthesis pipeline checks a number of structural invariants (MST edge
// count, tree reachability, in-degree bounds, acyclicity). A violation means
// a broken precondition or an algorithmic bug, never a recoverable runtime
// condition. Such failures are reported with [ErrCodeInvariant]; the command
// line driver turns them into a non-zero exit, while tests can assert on the
// code without terminating the process:
//
//	if errors.IsInvariant(err) {
//	    // structural failure, no partial output exists
//	}
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidVolume, "dimension %d must be positive", n)
//	if errors.Is(err, errors.ErrCodeInvalidVolume) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvariant, cause, "build tree from %d", root)
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidVolume Code = "INVALID_VOLUME"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeEmptyVolume   Code = "EMPTY_VOLUME"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Run control
	ErrCodeCancelled Code = "CANCELLED"

	// Internal errors
	ErrCodeInternal  Code = "INTERNAL_ERROR"
	ErrCodeInvariant Code = "INTERNAL_INVARIANT"
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

// Invariant creates an internal invariant violation with an optional cause.
// A nil cause produces a plain invariant error.
func Invariant(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeInvariant, cause, format, args...)
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

// IsInvariant reports whether err is an internal invariant violation.
func IsInvariant(err error) bool {
	return Is(err, ErrCodeInvariant)
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

// UserMessage returns the error chain as printed on the command line: each
// *Error contributes its message without the code prefix, followed by its
// cause. Other errors are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}

// ExitCode maps an error to a process exit status for the command line.
// Input problems exit with 2, invariant violations with 70 (EX_SOFTWARE),
// cancellation with 130 and everything else with 1.
func ExitCode(err error) int {
	switch GetCode(err) {
	case "":
		return 1
	case ErrCodeInvariant, ErrCodeInternal:
		return 70
	case ErrCodeCancelled:
		return 130
	case ErrCodeFileNotFound:
		return 1
	default:
		return 2
	}
}
