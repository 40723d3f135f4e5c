package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateNodeID validates a graph node identifier for safety and sanity.
// It rejects identifiers that could break downstream encoders or keys.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No null bytes
//   - Maximum length of 256 characters
//
// Structural rules (uniqueness, endpoint existence) are enforced by the
// graph builder, not here.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidGraph, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node id contains invalid control characters")
		}
	}

	return nil
}

// ValidateLabel validates a node or edge label. Labels may be empty; when
// present they must be printable and of reasonable length.
func ValidateLabel(label string) error {
	const maxLabelLength = 500
	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidGraph, "label too long (max %d characters)", maxLabelLength)
	}

	for _, r := range label {
		if r != '\t' && unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "label contains invalid control characters")
		}
	}

	return nil
}

// hexColorRegex matches CSS hex colors (#rgb, #rrggbb, #rrggbbaa).
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateHexColor validates a CSS hex color string such as "#ff8800".
// An empty string is accepted and means "use the default".
func ValidateHexColor(color string) error {
	if color == "" {
		return nil
	}

	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidStyle, "invalid hex color: %q", color)
	}

	return nil
}

// fingerprintRegex matches the hex form of a content fingerprint.
var fingerprintRegex = regexp.MustCompile(`^[0-9a-f]{64}$`)

// ValidateFingerprint validates the hex form of a content fingerprint as
// received from an external caller (URL parameter, CLI argument).
func ValidateFingerprint(fp string) error {
	if fp == "" {
		return New(ErrCodeInvalidInput, "fingerprint cannot be empty")
	}

	if !fingerprintRegex.MatchString(fp) {
		return New(ErrCodeInvalidInput, "invalid fingerprint: %q", fp)
	}

	return nil
}

// ValidateFontFamily validates a font family name for embedding in output
// documents. It rejects characters that would escape an SVG attribute.
func ValidateFontFamily(family string) error {
	if family == "" {
		return nil
	}

	if len(family) > 100 {
		return New(ErrCodeInvalidStyle, "font family too long (max 100 characters)")
	}

	if strings.ContainsAny(family, `<>"'&`) {
		return New(ErrCodeInvalidStyle, "font family contains invalid characters: %q", family)
	}

	for _, r := range family {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidStyle, "font family contains control characters")
		}
	}

	return nil
}
