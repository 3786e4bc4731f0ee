package i18n

import (
	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

const (
	// LocalizerKey is the gin.Context key holding the request localizer.
	LocalizerKey = "localizer"
	// LangKey is the gin.Context key holding the normalized language code.
	LangKey = "lang"
)

// Middleware resolves the request language and stores a localizer on the context.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		acceptLang := c.GetHeader("Accept-Language")
		c.Set(LocalizerKey, GetLocalizer(acceptLang))
		c.Set(LangKey, normalizeLanguageCode(acceptLang))
		c.Next()
	}
}

// GetLocalizerFromContext returns the request localizer, defaulting to en-US.
func GetLocalizerFromContext(c *gin.Context) *i18n.Localizer {
	if localizer, exists := c.Get(LocalizerKey); exists {
		if l, ok := localizer.(*i18n.Localizer); ok {
			return l
		}
	}
	return GetLocalizer("en-US")
}

// Message localizes a message ID for the current request.
func Message(c *gin.Context, msgID string, templateData ...map[string]any) string {
	return T(GetLocalizerFromContext(c), msgID, templateData...)
}
