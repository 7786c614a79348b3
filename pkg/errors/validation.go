package errors

import (
	"strings"
	"unicode"
)

// ValidateID validates an identifier supplied by a caller (tournament or
// player id). Identifiers end up in cache keys, document filters and log
// lines, so the rules are conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - No whitespace at either end
//   - Maximum length of 128 characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}

	const maxIDLength = 128
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "%s id too long (max %d characters)", kind, maxIDLength)
	}

	for _, r := range id {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s id contains invalid control characters", kind)
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidInput, "%s id has leading or trailing whitespace", kind)
	}

	return nil
}

// ValidateURI validates a connection string for a backing service.
// It only checks the scheme; the driver reports anything deeper.
func ValidateURI(uri string, schemes ...string) error {
	if uri == "" {
		return New(ErrCodeInvalidInput, "URI cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(uri, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URI must use one of the schemes %v", schemes)
}
