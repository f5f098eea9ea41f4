package errors

import (
	"strings"
	"unicode"
)

// maxTitleLength bounds entity display names. Titles are rendered as single
// lines of text next to each node.
const maxTitleLength = 512

// ValidateTitle validates an entity display name.
//
// The rules are conservative:
//   - No control characters (titles are single-line labels)
//   - Maximum length of 512 bytes
//
// An empty title is allowed; the entity is still laid out.
func ValidateTitle(name string) error {
	if len(name) > maxTitleLength {
		return New(ErrCodeMalformed, "entity name too long (max %d characters)", maxTitleLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeMalformed, "entity name contains invalid control characters")
		}
	}
	return nil
}

// ValidatePropertyKey validates a configurable property key name such as the
// entity id key or the relationship source key.
func ValidatePropertyKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return New(ErrCodeInvalidConfig, "property key cannot be empty")
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "property key %q contains control characters", key)
		}
	}
	return nil
}

// ValidateExtension checks a file extension against the supported set and
// returns it lower-cased without the leading dot.
func ValidateExtension(ext string, supported ...string) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, s := range supported {
		if ext == s {
			return ext, nil
		}
	}
	return "", New(ErrCodeInvalidFormat, "unsupported file extension %q (must be one of: %s)", ext, strings.Join(supported, ", "))
}
