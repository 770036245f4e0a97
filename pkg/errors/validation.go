package errors

import (
	"net/url"
	"slices"
	"strings"
	"unicode"
)

// MaxIDLength bounds task, dependency and project identifiers.
const MaxIDLength = 256

// ValidateID validates a task or edge identifier taken from user input.
//
// The rules are deliberately narrow: identifiers end up in cache keys, log
// lines and DOT output, so they must be non-empty, at most MaxIDLength
// bytes, and free of control characters.
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "%s ID cannot be empty", kind)
	}
	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidID, "%s ID too long (max %d characters)", kind, MaxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "%s ID %q contains control characters", kind, id)
		}
	}
	return nil
}

// ValidateProjectID validates a project scope as sent in the X-Project-ID
// header. On top of [ValidateID], it rejects path separators and traversal
// sequences because file caches use the scope in directory names.
func ValidateProjectID(id string) error {
	if err := ValidateID("project", id); err != nil {
		return err
	}
	for _, pattern := range []string{"..", "/", "\\", ":"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidID, "project ID contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateURL validates a backend URL and checks that its scheme is one of
// the allowed ones.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL")
	}
	if len(schemes) > 0 && !slices.Contains(schemes, u.Scheme) {
		return New(ErrCodeInvalidInput, "URL scheme must be one of %s, got %q", strings.Join(schemes, ", "), u.Scheme)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL must include a host")
	}
	return nil
}
