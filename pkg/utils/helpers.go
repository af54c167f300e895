package utils

import (
	"math"
	"strconv"
	"strings"
)

// Slugify converts a string to a URL-safe slug
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	// Remove any characters that aren't alphanumeric, dots or hyphens
	var result strings.Builder
	for _, char := range s {
		if (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9') || char == '-' || char == '.' {
			result.WriteRune(char)
		}
	}
	return result.String()
}

// ParseIPv4Octets splits a dotted IPv4 string into its four octets.
// Anything that is not four 1-3 digit groups in 0-255 yields [0,0,0,0].
func ParseIPv4Octets(ip string) [4]int {
	var octets [4]int

	parts := strings.Split(strings.TrimSpace(ip), ".")
	if len(parts) != 4 {
		return [4]int{}
	}

	for i, part := range parts {
		if len(part) == 0 || len(part) > 3 {
			return [4]int{}
		}
		for _, c := range part {
			if c < '0' || c > '9' {
				return [4]int{}
			}
		}
		n, err := strconv.Atoi(part)
		if err != nil || n > 255 {
			return [4]int{}
		}
		octets[i] = n
	}

	return octets
}

// CompareIPv4 orders two IPv4 strings numerically, octet by octet.
// Returns -1, 0 or 1.
func CompareIPv4(a, b string) int {
	oa := ParseIPv4Octets(a)
	ob := ParseIPv4Octets(b)
	for i := 0; i < 4; i++ {
		if oa[i] < ob[i] {
			return -1
		}
		if oa[i] > ob[i] {
			return 1
		}
	}
	return 0
}

// Distance returns the Euclidean distance between two points
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// Clamp bounds v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Contains checks if a string slice contains a specific string
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
