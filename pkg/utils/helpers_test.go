package utils

import (
	"math"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple lowercase",
			input:    "simple",
			expected: "simple",
		},
		{
			name:     "uppercase to lowercase",
			input:    "UPPERCASE",
			expected: "uppercase",
		},
		{
			name:     "spaces to hyphens",
			input:    "Core Switch 01",
			expected: "core-switch-01",
		},
		{
			name:     "special characters removed",
			input:    "nas@#$%1",
			expected: "nas1",
		},
		{
			name:     "dots preserved",
			input:    "10.0.0.1",
			expected: "10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slugify(tt.input)
			if result != tt.expected {
				t.Errorf("Slugify(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseIPv4Octets(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected [4]int
	}{
		{
			name:     "valid address",
			input:    "10.0.0.20",
			expected: [4]int{10, 0, 0, 20},
		},
		{
			name:     "surrounding whitespace",
			input:    " 192.168.1.5 ",
			expected: [4]int{192, 168, 1, 5},
		},
		{
			name:     "empty",
			input:    "",
			expected: [4]int{0, 0, 0, 0},
		},
		{
			name:     "hostname",
			input:    "nas.local",
			expected: [4]int{0, 0, 0, 0},
		},
		{
			name:     "three octets",
			input:    "10.0.1",
			expected: [4]int{0, 0, 0, 0},
		},
		{
			name:     "non numeric octet",
			input:    "10.0.x.1",
			expected: [4]int{0, 0, 0, 0},
		},
		{
			name:     "ipv6",
			input:    "fe80::1",
			expected: [4]int{0, 0, 0, 0},
		},
		{
			name:     "signed octet",
			input:    "10.0.-1.1",
			expected: [4]int{0, 0, 0, 0},
		},
		{
			name:     "plus sign",
			input:    "10.0.0.+5",
			expected: [4]int{0, 0, 0, 0},
		},
		{
			name:     "octet out of range",
			input:    "1.2.3.999",
			expected: [4]int{0, 0, 0, 0},
		},
		{
			name:     "upper bound",
			input:    "255.255.255.255",
			expected: [4]int{255, 255, 255, 255},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseIPv4Octets(tt.input)
			if result != tt.expected {
				t.Errorf("ParseIPv4Octets(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCompareIPv4(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{
			name:     "numeric not lexical",
			a:        "10.0.0.5",
			b:        "10.0.0.20",
			expected: -1,
		},
		{
			name:     "higher octet wins",
			a:        "10.0.1.1",
			b:        "10.0.0.200",
			expected: 1,
		},
		{
			name:     "equal",
			a:        "172.16.0.1",
			b:        "172.16.0.1",
			expected: 0,
		},
		{
			name:     "malformed sorts first",
			a:        "garbage",
			b:        "0.0.0.1",
			expected: -1,
		},
		{
			name:     "missing equals zero address",
			a:        "",
			b:        "0.0.0.0",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CompareIPv4(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("CompareIPv4(%q, %q) = %d, expected %d", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(0, 0, 3, 4); math.Abs(d-5) > 1e-9 {
		t.Errorf("Distance() = %f, expected %f", d, 5.0)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		expected float64
	}{
		{name: "below", v: 0.01, expected: 0.1},
		{name: "inside", v: 1.5, expected: 1.5},
		{name: "above", v: 9, expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Clamp(tt.v, 0.1, 4); result != tt.expected {
				t.Errorf("Clamp(%f) = %f, expected %f", tt.v, result, tt.expected)
			}
		})
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name     string
		slice    []string
		item     string
		expected bool
	}{
		{
			name:     "found",
			slice:    []string{"memory", "file", "redis"},
			item:     "file",
			expected: true,
		},
		{
			name:     "not found",
			slice:    []string{"memory", "file"},
			item:     "mongo",
			expected: false,
		},
		{
			name:     "empty slice",
			slice:    []string{},
			item:     "a",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Contains(tt.slice, tt.item)
			if result != tt.expected {
				t.Errorf("Contains(%v, %q) = %v, expected %v", tt.slice, tt.item, result, tt.expected)
			}
		})
	}
}
