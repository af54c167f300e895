package utils

import (
	"strings"

	"github.com/braunma/netmap/internal/constants"
)

// NormalizeColor converts various color formats to 6-char hex without #
func NormalizeColor(input string) string {
	if input == "" {
		return ""
	}

	// Remove # prefix if present
	input = strings.TrimPrefix(input, "#")

	// Convert to lowercase
	input = strings.ToLower(input)

	// If it's 3 characters, expand to 6 (e.g., "f00" -> "ff0000")
	if len(input) == 3 {
		return string([]byte{
			input[0], input[0],
			input[1], input[1],
			input[2], input[2],
		})
	}

	// If it's already 6 characters, return as-is
	if len(input) == 6 {
		return input
	}

	// Invalid format, return empty
	return ""
}

// GetStatusColor returns the glow color for a health status
func GetStatusColor(status string) string {
	if color, ok := constants.StatusColorMap[strings.ToLower(status)]; ok {
		return color
	}

	return ""
}

// CSSColor formats a hex color for SVG/CSS output
func CSSColor(hex string) string {
	hex = NormalizeColor(hex)
	if hex == "" {
		return "none"
	}
	return "#" + hex
}
