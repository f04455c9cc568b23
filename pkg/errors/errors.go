// Package errors provides structured error types for slidesmith.
//
// Errors carry a machine-readable [Code] so callers can classify a failure
// without parsing message text. The composer relies on three families:
//
//   - Input errors (INVALID_*): the whole run is rejected before any work.
//   - Slide errors (SLIDE_PLAN, REALIZE): one slide failed, the run goes on.
//   - Asset errors (ASSET, FONT_UNAVAILABLE): never fatal, the asset is
//     omitted or substituted.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSettings, "slideWidth must be positive, got %v", w)
//	if errors.IsInput(err) {
//	    // reject the request
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeAsset, decodeErr, "brand logo")
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
	ErrCodeInvalidSettings Code = "INVALID_SETTINGS"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidTheme    Code = "INVALID_THEME"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Per-slide errors
	ErrCodeSlidePlan Code = "SLIDE_PLAN"
	ErrCodeRealize   Code = "REALIZE"

	// Asset errors
	ErrCodeAsset           Code = "ASSET"
	ErrCodeFontUnavailable Code = "FONT_UNAVAILABLE"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

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

// IsInput reports whether err rejects the whole run.
func IsInput(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidSettings, ErrCodeInvalidFormat,
		ErrCodeInvalidTheme, ErrCodeInvalidPath:
		return true
	}
	return false
}

// IsSlide reports whether err is scoped to a single slide.
func IsSlide(err error) bool {
	switch GetCode(err) {
	case ErrCodeSlidePlan, ErrCodeRealize:
		return true
	}
	return false
}

// IsAsset reports whether err concerns an optional asset.
func IsAsset(err error) bool {
	switch GetCode(err) {
	case ErrCodeAsset, ErrCodeFontUnavailable:
		return true
	}
	return false
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
