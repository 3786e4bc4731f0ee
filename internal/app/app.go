// Package app provides the main application logic and lifecycle management.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lingo-hub/internal/i18n"
	"lingo-hub/internal/models"
	"lingo-hub/internal/services"
	"lingo-hub/internal/store"
	"lingo-hub/internal/types"
	"lingo-hub/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/dig"
	"gorm.io/gorm"
)

// App holds all services and manages the application lifecycle.
type App struct {
	engine        *gin.Engine
	configManager types.ConfigManager
	authService   *services.AuthService
	storage       store.Store
	db            *gorm.DB
	httpServer    *http.Server
}

// AppParams defines the dependencies for the App.
type AppParams struct {
	dig.In
	Engine        *gin.Engine
	ConfigManager types.ConfigManager
	AuthService   *services.AuthService
	Storage       store.Store
	DB            *gorm.DB
}

// NewApp is the constructor for App, with dependencies injected by dig.
func NewApp(params AppParams) *App {
	return &App{
		engine:        params.Engine,
		configManager: params.ConfigManager,
		authService:   params.AuthService,
		storage:       params.Storage,
		db:            params.DB,
	}
}

// Start runs the application, it is a non-blocking call.
func (a *App) Start() error {
	// Initialize i18n
	if err := i18n.Init(); err != nil {
		return fmt.Errorf("failed to initialize i18n: %w", err)
	}
	logrus.Info("i18n initialized successfully.")

	// Master node performs initialization
	if a.configManager.IsMaster() {
		logrus.Info("Starting as Master Node.")

		if err := a.db.AutoMigrate(
			&models.Organization{},
			&models.User{},
			&models.App{},
			&models.CatalogLocale{},
			&models.AppLocale{},
			&models.TranslationKey{},
			&models.Translation{},
			&models.TranslationReview{},
			&models.ScrapeJob{},
		); err != nil {
			return fmt.Errorf("database auto-migration failed: %w", err)
		}
		logrus.Info("Database auto-migration completed.")

		if err := seedCatalogLocales(a.db); err != nil {
			return fmt.Errorf("failed to seed locale catalog: %w", err)
		}

		if err := a.authService.EnsureBootstrapUser(a.configManager.GetAuthConfig()); err != nil {
			return fmt.Errorf("failed to ensure bootstrap user: %w", err)
		}
	} else {
		logrus.Info("Starting as Slave Node.")
	}

	// Display configuration and start the HTTP server
	a.configManager.DisplayServerConfig()

	serverConfig := a.configManager.GetEffectiveServerConfig()
	a.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port),
		Handler:        a.engine,
		ReadTimeout:    time.Duration(serverConfig.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(serverConfig.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(serverConfig.IdleTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logrus.Infof("Lingo Hub started successfully on Version: %s", version.Version)
		logrus.Infof("Server address: http://%s:%d", serverConfig.Host, serverConfig.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server startup failed: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the application.
func (a *App) Stop(ctx context.Context) {
	logrus.Info("Shutting down server...")

	httpShutdownStart := time.Now()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logrus.Debug("HTTP server graceful shutdown timed out, forcing remaining connections to close.")
		if closeErr := a.httpServer.Close(); closeErr != nil {
			logrus.Errorf("Error forcing HTTP server to close: %v", closeErr)
		}
	}
	logrus.Infof("HTTP server has been shut down. (took %v)", time.Since(httpShutdownStart))

	if err := a.storage.Close(); err != nil {
		logrus.Errorf("Error closing store: %v", err)
	}

	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("Error closing database connection: %v", err)
		}
	}

	logrus.Info("Server exited gracefully")
}

// seedCatalogLocales inserts the built-in locale catalog. Existing codes are
// left untouched so operators can extend the table.
func seedCatalogLocales(db *gorm.DB) error {
	locales := []models.CatalogLocale{
		{Code: "en", Name: "English", NativeName: "English"},
		{Code: "en-GB", Name: "English (United Kingdom)", NativeName: "English (UK)"},
		{Code: "de", Name: "German", NativeName: "Deutsch"},
		{Code: "fr", Name: "French", NativeName: "Français"},
		{Code: "es", Name: "Spanish", NativeName: "Español"},
		{Code: "it", Name: "Italian", NativeName: "Italiano"},
		{Code: "pt", Name: "Portuguese", NativeName: "Português"},
		{Code: "pt-BR", Name: "Portuguese (Brazil)", NativeName: "Português (Brasil)"},
		{Code: "nl", Name: "Dutch", NativeName: "Nederlands"},
		{Code: "pl", Name: "Polish", NativeName: "Polski"},
		{Code: "ru", Name: "Russian", NativeName: "Русский"},
		{Code: "uk", Name: "Ukrainian", NativeName: "Українська"},
		{Code: "tr", Name: "Turkish", NativeName: "Türkçe"},
		{Code: "ar", Name: "Arabic", NativeName: "العربية"},
		{Code: "he", Name: "Hebrew", NativeName: "עברית"},
		{Code: "hi", Name: "Hindi", NativeName: "हिन्दी"},
		{Code: "zh-CN", Name: "Chinese (Simplified)", NativeName: "简体中文"},
		{Code: "zh-TW", Name: "Chinese (Traditional)", NativeName: "繁體中文"},
		{Code: "ja", Name: "Japanese", NativeName: "日本語"},
		{Code: "ko", Name: "Korean", NativeName: "한국어"},
		{Code: "th", Name: "Thai", NativeName: "ไทย"},
		{Code: "vi", Name: "Vietnamese", NativeName: "Tiếng Việt"},
		{Code: "id", Name: "Indonesian", NativeName: "Bahasa Indonesia"},
		{Code: "sv", Name: "Swedish", NativeName: "Svenska"},
		{Code: "da", Name: "Danish", NativeName: "Dansk"},
		{Code: "nb", Name: "Norwegian (Bokmål)", NativeName: "Norsk bokmål"},
		{Code: "fi", Name: "Finnish", NativeName: "Suomi"},
		{Code: "cs", Name: "Czech", NativeName: "Čeština"},
		{Code: "el", Name: "Greek", NativeName: "Ελληνικά"},
		{Code: "ro", Name: "Romanian", NativeName: "Română"},
		{Code: "hu", Name: "Hungarian", NativeName: "Magyar"},
	}

	for _, locale := range locales {
		var count int64
		if err := db.Model(&models.CatalogLocale{}).Where("code = ?", locale.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&locale).Error; err != nil {
			return err
		}
	}
	return nil
}
