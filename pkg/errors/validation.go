package errors

import (
	"math"
	"slices"
	"strings"
)

// RequireLength checks that a vector named name has exactly want values.
func RequireLength(name string, got, want int) error {
	if got != want {
		return New(ErrCodeInvalidInput, "%s: expected %d values, received %d", name, want, got)
	}
	return nil
}

// RequireMinLength checks that a vector named name has at least min values.
func RequireMinLength(name string, got, min int) error {
	if got < min {
		return New(ErrCodeInvalidInput, "%s: expected %d or more values, received %d", name, min, got)
	}
	return nil
}

// RequireFinite rejects NaN and infinite values.
// The index of the first offending value is reported.
func RequireFinite(name string, values ...float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "%s[%d]: expected a finite number, received %v", name, i, v)
		}
	}
	return nil
}

// RequirePositive rejects values <= 0.
func RequirePositive(name string, v float64) error {
	if !(v > 0) {
		return New(ErrCodeInvalidInput, "%s: expected a positive number, received %v", name, v)
	}
	return nil
}

// RequireOneOf checks that value is one of the allowed choices.
func RequireOneOf(name, value string, choices ...string) error {
	if slices.Contains(choices, value) {
		return nil
	}
	quoted := make([]string, len(choices))
	for i, c := range choices {
		quoted[i] = "'" + c + "'"
	}
	return New(ErrCodeInvalidInput, "%s: expected one of %s, received %q", name, strings.Join(quoted, ", "), value)
}

// ValidatePath validates a user-supplied relative file path for safety.
// It prevents path traversal when the HTTP API reads prior layouts by name.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || r < 0x20 || r == 0x7f {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidInput, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidInput, "path cannot contain backslashes")
	}

	return nil
}
