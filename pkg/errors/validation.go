package errors

import (
	"strings"
	"unicode"
)

// ValidateDesignator validates a device designator like "R1" or "M12".
// A designator is an uppercase alphabetic prefix followed by a decimal
// index. The rules are intentionally conservative; they must hold for
// every designator a snapshot or the CLI can introduce.
func ValidateDesignator(name string) error {
	if name == "" {
		return New(ErrCodeInvalidDesignator, "designator cannot be empty")
	}
	if len(name) > 16 {
		return New(ErrCodeInvalidDesignator, "designator too long (max 16 characters)")
	}
	i := 0
	for i < len(name) && name[i] >= 'A' && name[i] <= 'Z' {
		i++
	}
	if i == 0 {
		return New(ErrCodeInvalidDesignator, "designator must start with an uppercase prefix: %q", name)
	}
	if i == len(name) {
		return New(ErrCodeInvalidDesignator, "designator is missing its index: %q", name)
	}
	for _, r := range name[i:] {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidDesignator, "designator index must be decimal: %q", name)
		}
	}
	return nil
}

// ValidateNetLabel validates a user-supplied net name.
//
// The rules keep labels safe to embed in netlists and snapshots:
//   - No empty labels
//   - No control characters or whitespace
//   - Maximum length of 64 characters
func ValidateNetLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidInput, "net label cannot be empty")
	}
	if len(label) > 64 {
		return New(ErrCodeInvalidInput, "net label too long (max 64 characters)")
	}
	for _, r := range label {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "net label contains invalid characters")
		}
	}
	return nil
}

// ValidateSnapshotPath validates a snapshot file path from the CLI or API.
// It prevents path traversal and ensures a reasonable length; existence is
// checked by the caller.
func ValidateSnapshotPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "snapshot path cannot be empty")
	}
	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "snapshot path too long (max 500 characters)")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "snapshot path contains control characters")
		}
	}
	if strings.Contains(path, "\x00") {
		return New(ErrCodeInvalidPath, "snapshot path contains a null byte")
	}
	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "snapshot path cannot traverse parent directories")
		}
	}
	return nil
}
