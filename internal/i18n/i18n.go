// Package i18n localizes API response messages.
package i18n

import (
	"strings"

	"lingo-hub/internal/i18n/locales"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var bundle *i18n.Bundle

// Init initializes the message bundle. Must be called before serving requests.
func Init() error {
	bundle = i18n.NewBundle(language.AmericanEnglish)

	for lang, messages := range map[string]map[string]string{
		"en-US": locales.MessagesEnUS,
		"zh-CN": locales.MessagesZhCN,
		"ja-JP": locales.MessagesJaJP,
	} {
		tag := language.MustParse(lang)
		for id, msg := range messages {
			bundle.AddMessages(tag, &i18n.Message{ID: id, Other: msg})
		}
	}

	return nil
}

// GetLocalizer builds a localizer for an Accept-Language header value.
func GetLocalizer(acceptLang string) *i18n.Localizer {
	langs := parseAcceptLanguage(acceptLang)
	if len(langs) == 0 {
		langs = []string{"en-US"}
	}
	return i18n.NewLocalizer(bundle, langs...)
}

// parseAcceptLanguage extracts the preferred language from an
// Accept-Language header, ignoring quality factors.
func parseAcceptLanguage(acceptLang string) []string {
	if acceptLang == "" {
		return nil
	}
	parts := strings.Split(acceptLang, ",")
	lang := strings.TrimSpace(parts[0])
	if idx := strings.Index(lang, ";"); idx > 0 {
		lang = lang[:idx]
	}
	return []string{normalizeLanguageCode(lang)}
}

// normalizeLanguageCode maps a language tag to one of the supported bundles.
func normalizeLanguageCode(lang string) string {
	switch lower := strings.ToLower(strings.TrimSpace(lang)); {
	case strings.HasPrefix(lower, "zh"):
		return "zh-CN"
	case strings.HasPrefix(lower, "ja"):
		return "ja-JP"
	default:
		return "en-US"
	}
}

// T translates a message, falling back to the message ID on failure.
func T(localizer *i18n.Localizer, msgID string, data ...map[string]any) string {
	config := &i18n.LocalizeConfig{MessageID: msgID}
	if len(data) > 0 {
		config.TemplateData = data[0]
	}
	msg, err := localizer.Localize(config)
	if err != nil {
		return msgID
	}
	return msg
}
