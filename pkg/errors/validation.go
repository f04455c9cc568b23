package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateDimension checks that a canvas or font dimension is a finite
// positive number.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidSettings, "%s must be a finite number", name)
	}
	if v <= 0 {
		return New(ErrCodeInvalidSettings, "%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidateUnit checks that v lies in [0, 1].
func ValidateUnit(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidSettings, "%s must be within [0, 1], got %v", name, v)
	}
	return nil
}

// ValidateOneOf checks that v is one of the allowed values. Empty v is
// accepted so callers can apply defaults afterwards.
func ValidateOneOf(name, v string, allowed ...string) error {
	if v == "" {
		return nil
	}
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return New(ErrCodeInvalidSettings, "invalid %s %q (must be one of: %s)", name, v, strings.Join(allowed, ", "))
}

// ValidatePath validates a local file path supplied in input documents
// (brand logo, theme files).
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
