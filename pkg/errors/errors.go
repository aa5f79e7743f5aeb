// Package errors provides structured error types for the chartwheel application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - UNRESOLVED_*: Layout constraints that cannot be satisfied
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidTemplate, "unknown template: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidTemplate) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "failed to read %s", path)
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
	ErrCodeInvalidLayer    Code = "INVALID_LAYER"
	ErrCodeInvalidSettings Code = "INVALID_SETTINGS"
	ErrCodeInvalidTemplate Code = "INVALID_TEMPLATE"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeTemplateNotFound Code = "TEMPLATE_NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"

	// Layout errors
	ErrCodeUnresolvedCollision Code = "UNRESOLVED_COLLISION"

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
// For *Error types, returns the message without the code prefix; a wrapped
// CollisionError adds its numbers and the suggested fix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		var ce *CollisionError
		if errors.As(e.Cause, &ce) {
			return e.Message + ": " + ce.Detail()
		}
		return e.Message
	}
	return err.Error()
}

// CollisionError carries the numbers behind an unresolved glyph collision so
// callers can suggest a concrete fix.
type CollisionError struct {
	Points        int     // Number of glyphs on the ring
	SymbolRadius  float64 // Effective footprint radius of one glyph
	CircleRadius  float64 // Radius of the placement circle
	Required      float64 // Circumference needed for even spacing
	Circumference float64 // Circumference available
	Reason        string  // Short description of which check failed
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	return "unresolved collision: " + e.Detail()
}

// Detail describes the failed check and the fix without the error prefix.
func (e *CollisionError) Detail() string {
	return fmt.Sprintf("%s: %d symbols of radius %.2f need %.1f, circle of radius %.2f has %.1f; increase the ring radius or decrease the symbol scale",
		e.Reason, e.Points, e.SymbolRadius, e.Required, e.CircleRadius, e.Circumference)
}

// Code returns the error code for this error type.
func (e *CollisionError) Code() Code {
	return ErrCodeUnresolvedCollision
}

// Unresolved wraps a CollisionError as a coded *Error so that Is and GetCode
// recognise it.
func Unresolved(ce *CollisionError) *Error {
	return Wrap(ErrCodeUnresolvedCollision, ce, "cannot place all symbols without overlap")
}
