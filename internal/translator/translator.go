// Package translator provides the AI translation client used by the
// auto-translate orchestrators.
package translator

import "context"

// Request describes a single source-to-target translation.
type Request struct {
	Text         string
	SourceLang   string
	TargetLang   string
	Instructions string
}

// BatchRequest describes one source text translated into several target
// languages in a single model call.
type BatchRequest struct {
	Text         string
	SourceLang   string
	TargetLangs  []string
	Instructions string
}

// Translator is implemented by AI translation providers.
type Translator interface {
	// Translate returns the translation of one text into one target language.
	Translate(ctx context.Context, req Request) (string, error)
	// TranslateBatch returns a mapping from target language code to
	// translated text. A failure here is fatal for the whole batch.
	TranslateBatch(ctx context.Context, req BatchRequest) (map[string]string, error)
}
