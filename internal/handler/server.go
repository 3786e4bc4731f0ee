// Package handler provides HTTP handlers for the application
package handler

import (
	"context"
	"net/http"
	"time"

	"lingo-hub/internal/services"
	"lingo-hub/internal/store"
	"lingo-hub/internal/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/dig"
	"gorm.io/gorm"
)

// ServerParams contains the dependencies for the server handlers.
type ServerParams struct {
	dig.In

	DB                   *gorm.DB
	Store                store.Store
	ConfigManager        types.ConfigManager
	AuthService          *services.AuthService
	TaskService          *services.TaskService
	ReviewService        *services.ReviewService
	TranslationService   *services.TranslationService
	AutoTranslateService *services.AutoTranslateService
	ScrapeService        *services.ScrapeService
	ImportExportService  *services.ImportExportService
}

// Server holds the dependencies shared by all HTTP handlers.
type Server struct {
	DB                   *gorm.DB
	Store                store.Store
	ConfigManager        types.ConfigManager
	AuthService          *services.AuthService
	TaskService          *services.TaskService
	ReviewService        *services.ReviewService
	TranslationService   *services.TranslationService
	AutoTranslateService *services.AutoTranslateService
	ScrapeService        *services.ScrapeService
	ImportExportService  *services.ImportExportService
}

// NewServer creates a new Server instance.
func NewServer(params ServerParams) *Server {
	return &Server{
		DB:                   params.DB,
		Store:                params.Store,
		ConfigManager:        params.ConfigManager,
		AuthService:          params.AuthService,
		TaskService:          params.TaskService,
		ReviewService:        params.ReviewService,
		TranslationService:   params.TranslationService,
		AutoTranslateService: params.AutoTranslateService,
		ScrapeService:        params.ScrapeService,
		ImportExportService:  params.ImportExportService,
	}
}

// Health handles the liveness probe. It verifies database connectivity and
// reports uptime when the router recorded a start time.
func (s *Server) Health(c *gin.Context) {
	status := "healthy"
	database := "ok"

	if s.DB != nil {
		sqlDB, err := s.DB.DB()
		if err != nil {
			status, database = "unhealthy", "unavailable"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			defer cancel()
			if err := sqlDB.PingContext(ctx); err != nil {
				status, database = "unhealthy", "unavailable"
			}
		}
	}

	uptime := "unknown"
	if value, exists := c.Get("serverStartTime"); exists {
		if startTime, ok := value.(time.Time); ok {
			uptime = time.Since(startTime).Round(time.Second).String()
		}
	}

	httpStatus := http.StatusOK
	if status != "healthy" {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, gin.H{
		"status":    status,
		"database":  database,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    uptime,
	})
}
