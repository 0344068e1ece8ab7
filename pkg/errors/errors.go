// Package errors provides structured error types for stacklayout.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes follow the failure taxonomy of the layout core:
//   - INVALID_*: Input validation failures (bad placements, mismatched lengths)
//   - NOT_A_TREE: Graph-shape failures for tree layouts
//   - INTERNAL_ERROR: Post-condition violations inside an algorithm
//   - EXTERNAL_PROCESS, TIMEOUT: Failures of the external graph-drawing tool
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidRegion, "unrecognized corner %q", tag)
//	if errors.Is(err, errors.ErrCodeInvalidRegion) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExternalProcess, origErr, "run %s", cmd)
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
	ErrCodeInvalidRegion Code = "INVALID_REGION"
	ErrCodeInvalidUnit   Code = "INVALID_UNIT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Graph shape errors
	ErrCodeNotATree Code = "NOT_A_TREE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// External process errors
	ErrCodeExternalProcess Code = "EXTERNAL_PROCESS"
	ErrCodeTimeout         Code = "TIMEOUT"

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
// The outermost *Error decides; inner codes are not consulted.
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

// ProcessError carries the diagnostic output of a failed external process.
type ProcessError struct {
	Command  string // Executable that was run
	ExitCode int    // Process exit status, -1 if it never started
	Stderr   string // Captured standard error (trimmed)
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s exited with status %d: %s", e.Command, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
}

// Code returns the error code for this error type.
func (e *ProcessError) Code() Code {
	return ErrCodeExternalProcess
}
