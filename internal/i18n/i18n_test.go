package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLocalization tests bundle lookup across the supported languages
func TestLocalization(t *testing.T) {
	require.NoError(t, Init())

	en := GetLocalizer("en-US")
	assert.Equal(t, "Success", T(en, "common.success"))

	zh := GetLocalizer("zh-CN")
	assert.NotEqual(t, T(en, "common.success"), T(zh, "common.success"))

	// Unknown message IDs fall back to the ID itself.
	assert.Equal(t, "no.such.message", T(en, "no.such.message"))
}

// TestTemplateData tests template substitution
func TestTemplateData(t *testing.T) {
	require.NoError(t, Init())

	en := GetLocalizer("en-US")
	msg := T(en, "locale.copied", map[string]any{"Count": 3})
	assert.Contains(t, msg, "3")
}

// TestNormalizeLanguageCode tests header language mapping
func TestNormalizeLanguageCode(t *testing.T) {
	assert.Equal(t, "zh-CN", normalizeLanguageCode("zh"))
	assert.Equal(t, "zh-CN", normalizeLanguageCode("zh-TW"))
	assert.Equal(t, "ja-JP", normalizeLanguageCode("ja"))
	assert.Equal(t, "en-US", normalizeLanguageCode("en-GB"))
	assert.Equal(t, "en-US", normalizeLanguageCode("fr"))
	assert.Equal(t, "en-US", normalizeLanguageCode(""))
}

// TestParseAcceptLanguage tests Accept-Language header parsing
func TestParseAcceptLanguage(t *testing.T) {
	assert.Equal(t, []string{"zh-CN"}, parseAcceptLanguage("zh-CN,zh;q=0.9,en;q=0.8"))
	assert.Equal(t, []string{"ja-JP"}, parseAcceptLanguage("ja;q=0.7"))
	assert.Nil(t, parseAcceptLanguage(""))
}
