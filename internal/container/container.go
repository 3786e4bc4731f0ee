// Package container wires the application dependencies together.
package container

import (
	"lingo-hub/internal/app"
	"lingo-hub/internal/config"
	"lingo-hub/internal/db"
	"lingo-hub/internal/handler"
	"lingo-hub/internal/router"
	"lingo-hub/internal/services"
	"lingo-hub/internal/store"
	"lingo-hub/internal/translator"
	"lingo-hub/internal/types"

	"go.uber.org/dig"
)

// BuildContainer creates and configures the dependency injection container.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	providers := []any{
		config.NewManager,
		store.NewStore,
		db.NewDB,

		func(configManager types.ConfigManager) translator.Translator {
			return translator.NewOpenAIClient(configManager)
		},

		services.NewTaskService,
		services.NewAuthService,
		services.NewReviewService,
		services.NewTranslationService,
		services.NewAutoTranslateService,
		services.NewScrapeService,
		services.NewImportExportService,

		handler.NewServer,
		router.NewRouter,

		app.NewApp,
	}

	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	return container, nil
}
