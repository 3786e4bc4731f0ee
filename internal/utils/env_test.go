package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGetEnvOrDefault tests environment lookup with fallback
func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("LINGO_TEST_VAR", "set")
	assert.Equal(t, "set", GetEnvOrDefault("LINGO_TEST_VAR", "default"))

	t.Setenv("LINGO_TEST_VAR", "")
	assert.Equal(t, "default", GetEnvOrDefault("LINGO_TEST_VAR", "default"))
}

// TestParseInteger tests integer parsing with defaults
func TestParseInteger(t *testing.T) {
	assert.Equal(t, 42, ParseInteger("42", 0))
	assert.Equal(t, -1, ParseInteger("-1", 0))
	assert.Equal(t, 7, ParseInteger("", 7))
	assert.Equal(t, 7, ParseInteger("not a number", 7))
}

// TestParseBoolean tests boolean parsing with defaults
func TestParseBoolean(t *testing.T) {
	assert.True(t, ParseBoolean("true", false))
	assert.True(t, ParseBoolean("1", false))
	assert.False(t, ParseBoolean("false", true))
	assert.True(t, ParseBoolean("", true))
	assert.True(t, ParseBoolean("maybe", true))
}

// TestParseArray tests comma-separated list parsing
func TestParseArray(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, ParseArray("a, b ,c", nil))
	assert.Equal(t, []string{"only"}, ParseArray("only", nil))
	assert.Equal(t, []string{"fallback"}, ParseArray("", []string{"fallback"}))
	// Only separators and whitespace also falls back.
	assert.Equal(t, []string{"fallback"}, ParseArray(" , , ", []string{"fallback"}))
}

// TestTruncateString tests rune-aware truncation
func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abc...", TruncateString("abcdef", 3))
	assert.Equal(t, "", TruncateString("anything", 0))
	// Multibyte runes are not split.
	assert.Equal(t, "héllo", TruncateString("héllo", 5))
	assert.Equal(t, "日本...", TruncateString("日本語のテキスト", 2))
	assert.False(t, strings.Contains(TruncateString("héllo wörld", 6), "�"))
}
