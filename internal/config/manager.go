// Package config provides environment-backed configuration management.
package config

import (
	"fmt"
	"os"

	"lingo-hub/internal/types"
	"lingo-hub/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all application configuration loaded from the environment.
type Config struct {
	Server      types.ServerConfig
	Auth        types.AuthConfig
	CORS        types.CORSConfig
	Performance types.PerformanceConfig
	Log         types.LogConfig
	Database    types.DatabaseConfig
	RedisDSN    string
	Translator  types.TranslatorConfig
	DebugMode   bool
}

// Manager implements types.ConfigManager.
type Manager struct {
	config *Config
}

// NewManager creates a configuration manager, loading .env when present.
func NewManager() (types.ConfigManager, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	manager := &Manager{}
	if err := manager.ReloadConfig(); err != nil {
		return nil, err
	}

	if err := manager.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return manager, nil
}

// ReloadConfig re-reads all configuration from the environment.
func (m *Manager) ReloadConfig() error {
	config := &Config{
		Server: types.ServerConfig{
			Port:                    utils.ParseInteger(os.Getenv("PORT"), 3001),
			Host:                    utils.GetEnvOrDefault("HOST", "0.0.0.0"),
			IsMaster:                !utils.ParseBoolean(os.Getenv("IS_SLAVE"), false),
			ReadTimeout:             utils.ParseInteger(os.Getenv("SERVER_READ_TIMEOUT"), 60),
			WriteTimeout:            utils.ParseInteger(os.Getenv("SERVER_WRITE_TIMEOUT"), 600),
			IdleTimeout:             utils.ParseInteger(os.Getenv("SERVER_IDLE_TIMEOUT"), 120),
			GracefulShutdownTimeout: utils.ParseInteger(os.Getenv("SERVER_GRACEFUL_SHUTDOWN_TIMEOUT"), 10),
		},
		Auth: types.AuthConfig{
			BootstrapEmail:    utils.GetEnvOrDefault("BOOTSTRAP_EMAIL", "admin@localhost"),
			BootstrapPassword: os.Getenv("BOOTSTRAP_PASSWORD"),
			SessionTTLMinutes: utils.ParseInteger(os.Getenv("SESSION_TTL_MINUTES"), 720),
		},
		CORS: types.CORSConfig{
			Enabled:          utils.ParseBoolean(os.Getenv("ENABLE_CORS"), true),
			AllowedOrigins:   utils.ParseArray(os.Getenv("ALLOWED_ORIGINS"), []string{"*"}),
			AllowedMethods:   utils.ParseArray(os.Getenv("ALLOWED_METHODS"), []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   utils.ParseArray(os.Getenv("ALLOWED_HEADERS"), []string{"*"}),
			AllowCredentials: utils.ParseBoolean(os.Getenv("ALLOW_CREDENTIALS"), false),
		},
		Performance: types.PerformanceConfig{
			MaxConcurrentRequests: utils.ParseInteger(os.Getenv("MAX_CONCURRENT_REQUESTS"), 100),
		},
		Log: types.LogConfig{
			Level:      utils.GetEnvOrDefault("LOG_LEVEL", "info"),
			Format:     utils.GetEnvOrDefault("LOG_FORMAT", "text"),
			EnableFile: utils.ParseBoolean(os.Getenv("LOG_ENABLE_FILE"), false),
			FilePath:   utils.GetEnvOrDefault("LOG_FILE_PATH", "./data/logs/app.log"),
		},
		Database: types.DatabaseConfig{
			DSN: utils.GetEnvOrDefault("DATABASE_DSN", "./data/lingo-hub.db"),
		},
		RedisDSN: os.Getenv("REDIS_DSN"),
		Translator: types.TranslatorConfig{
			BaseURL:        utils.GetEnvOrDefault("TRANSLATOR_BASE_URL", "https://api.openai.com/v1"),
			APIKey:         os.Getenv("TRANSLATOR_API_KEY"),
			Model:          utils.GetEnvOrDefault("TRANSLATOR_MODEL", "gpt-4o-mini"),
			TimeoutSeconds: utils.ParseInteger(os.Getenv("TRANSLATOR_TIMEOUT"), 60),
		},
		DebugMode: utils.ParseBoolean(os.Getenv("DEBUG_MODE"), false),
	}

	m.config = config
	return nil
}

// Validate checks the configuration for common mistakes.
func (m *Manager) Validate() error {
	if m.config.Server.Port < 1 || m.config.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", m.config.Server.Port)
	}
	if m.config.Database.DSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	if m.config.Auth.BootstrapPassword != "" && len(m.config.Auth.BootstrapPassword) < 8 {
		return fmt.Errorf("BOOTSTRAP_PASSWORD must be at least 8 characters")
	}
	if m.config.Auth.SessionTTLMinutes < 1 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}
	if m.config.Performance.MaxConcurrentRequests < 1 {
		return fmt.Errorf("MAX_CONCURRENT_REQUESTS must be positive")
	}
	return nil
}

// IsMaster returns whether this node performs migrations and background jobs.
func (m *Manager) IsMaster() bool {
	return m.config.Server.IsMaster
}

// IsDebugMode returns whether debug-only endpoints are enabled.
func (m *Manager) IsDebugMode() bool {
	return m.config.DebugMode
}

// GetAuthConfig returns the authentication configuration.
func (m *Manager) GetAuthConfig() types.AuthConfig {
	return m.config.Auth
}

// GetCORSConfig returns the CORS configuration.
func (m *Manager) GetCORSConfig() types.CORSConfig {
	return m.config.CORS
}

// GetPerformanceConfig returns the performance configuration.
func (m *Manager) GetPerformanceConfig() types.PerformanceConfig {
	return m.config.Performance
}

// GetLogConfig returns the logging configuration.
func (m *Manager) GetLogConfig() types.LogConfig {
	return m.config.Log
}

// GetDatabaseConfig returns the database configuration.
func (m *Manager) GetDatabaseConfig() types.DatabaseConfig {
	return m.config.Database
}

// GetRedisDSN returns the Redis DSN, empty when the memory store is used.
func (m *Manager) GetRedisDSN() string {
	return m.config.RedisDSN
}

// GetTranslatorConfig returns the AI translation provider configuration.
func (m *Manager) GetTranslatorConfig() types.TranslatorConfig {
	return m.config.Translator
}

// GetEffectiveServerConfig returns the server configuration.
func (m *Manager) GetEffectiveServerConfig() types.ServerConfig {
	return m.config.Server
}

// DisplayServerConfig logs a startup summary of the effective configuration.
func (m *Manager) DisplayServerConfig() {
	server := m.config.Server
	logrus.Info("Server configuration:")
	logrus.Infof("  Listen: %s:%d (master: %v)", server.Host, server.Port, server.IsMaster)
	logrus.Infof("  Log level: %s, format: %s", m.config.Log.Level, m.config.Log.Format)
	if m.config.RedisDSN != "" {
		logrus.Info("  Store: redis")
	} else {
		logrus.Info("  Store: memory")
	}
	logrus.Infof("  Translator model: %s", m.config.Translator.Model)
}
