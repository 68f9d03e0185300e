// Package pathguard rejects caller-supplied filesystem paths that are unsafe
// to hand to the storage layer.
package pathguard

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Aman-CERP/docindex/internal/errors"
)

// DefaultMaxChars is the longest path accepted by Validate.
const DefaultMaxChars = 1024

// traversalToken is rejected anywhere in a path.
const traversalToken = ".."

// Validate checks path against the default limits.
func Validate(path string) error {
	return ValidateWithLimit(path, DefaultMaxChars)
}

// ValidateWithLimit rejects empty paths, paths longer than maxChars
// characters, and paths containing a parent-directory token.
// A non-positive maxChars falls back to DefaultMaxChars.
func ValidateWithLimit(path string, maxChars int) error {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if path == "" {
		return errors.ValidationError(errors.ErrCodeInvalidPath, "path cannot be empty")
	}
	// Byte length bounds rune count from above, so skip counting short paths.
	if len(path) > maxChars && utf8.RuneCountInString(path) > maxChars {
		return errors.ValidationError(errors.ErrCodeInvalidPath,
			fmt.Sprintf("path is too long (max %d characters)", maxChars))
	}
	if strings.Contains(path, traversalToken) {
		return errors.ValidationError(errors.ErrCodeInvalidPath,
			"path cannot contain '..'").
			WithDetail("path", path)
	}
	return nil
}
