package utils

import (
	"os"
	"strconv"
	"strings"
)

// GetEnvOrDefault returns the environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ParseInteger parses an integer from a string with a default value.
func ParseInteger(s string, defaultValue int) int {
	if s == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return value
}

// ParseBoolean parses a boolean from a string with a default value.
func ParseBoolean(s string, defaultValue bool) bool {
	if s == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(s)
	if err != nil {
		return defaultValue
	}
	return value
}

// ParseArray parses a comma-separated string into a slice, trimming whitespace
// and dropping empty entries.
func ParseArray(s string, defaultValue []string) []string {
	if s == "" {
		return defaultValue
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}

// TruncateString shortens a string to at most max runes, appending an
// ellipsis when truncation occurred.
func TruncateString(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
