// Package router wires the HTTP routes to their handlers.
package router

import (
	"net/http"
	"time"

	"lingo-hub/internal/handler"
	"lingo-hub/internal/i18n"
	"lingo-hub/internal/middleware"
	"lingo-hub/internal/services"
	"lingo-hub/internal/types"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with the full middleware chain and all
// API routes.
func NewRouter(
	serverHandler *handler.Server,
	configManager types.ConfigManager,
	authService *services.AuthService,
) *gin.Engine {
	if !configManager.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Logger(configManager.GetLogConfig()))
	router.Use(middleware.CORS(configManager.GetCORSConfig()))
	router.Use(middleware.RateLimiter(configManager.GetPerformanceConfig()))
	router.Use(middleware.SecurityHeaders())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerSystemRoutes(router, serverHandler)
	registerAPIRoutes(router, serverHandler, authService)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})

	return router
}

// registerSystemRoutes registers system-level routes
func registerSystemRoutes(router *gin.Engine, serverHandler *handler.Server) {
	startTime := time.Now()
	router.GET("/health", func(c *gin.Context) {
		c.Set("serverStartTime", startTime)
		serverHandler.Health(c)
	})
}

// registerAPIRoutes registers API routes
func registerAPIRoutes(router *gin.Engine, serverHandler *handler.Server, authService *services.AuthService) {
	api := router.Group("/api")
	api.Use(i18n.Middleware())

	// Public routes
	api.POST("/auth/login", serverHandler.Login)

	// Protected routes
	protectedAPI := api.Group("")
	protectedAPI.Use(middleware.Auth(authService))
	registerProtectedAPIRoutes(protectedAPI, serverHandler)
}

// registerProtectedAPIRoutes registers the session-protected API routes
func registerProtectedAPIRoutes(api *gin.RouterGroup, serverHandler *handler.Server) {
	api.POST("/auth/logout", serverHandler.Logout)
	api.GET("/auth/me", serverHandler.CurrentUser)

	api.GET("/locales", serverHandler.ListCatalogLocales)

	apps := api.Group("/apps")
	{
		apps.POST("", serverHandler.CreateApp)
		apps.GET("", serverHandler.ListApps)
		apps.GET("/:id", serverHandler.GetApp)
		apps.PUT("/:id", serverHandler.UpdateApp)
		apps.DELETE("/:id", serverHandler.DeleteApp)

		apps.GET("/:id/locales", serverHandler.ListAppLocales)
		apps.POST("/:id/locales", serverHandler.AddAppLocale)
		apps.PUT("/:id/locales/:localeId", serverHandler.UpdateAppLocale)
		apps.DELETE("/:id/locales/:localeId", serverHandler.DeleteAppLocale)
		apps.POST("/:id/locales/copy", serverHandler.CopyLocale)

		apps.POST("/:id/keys", serverHandler.CreateKey)
		apps.GET("/:id/keys", serverHandler.ListKeys)

		apps.GET("/:id/reviews/pending", serverHandler.ListPendingReviews)

		apps.POST("/:id/translate", serverHandler.TranslateBulk)

		apps.GET("/:id/locales/:localeId/export", serverHandler.ExportLocale)
		apps.POST("/:id/locales/:localeId/import", serverHandler.ImportLocale)

		apps.POST("/:id/scrape", serverHandler.StartScrape)
	}

	keys := api.Group("/keys")
	{
		keys.PUT("/:keyId", serverHandler.UpdateKey)
		keys.DELETE("/:keyId", serverHandler.DeleteKey)
		keys.GET("/:keyId/translations", serverHandler.GetKeyMatrix)
		keys.PUT("/:keyId/translations", serverHandler.UpsertTranslation)
		keys.GET("/:keyId/reviews", serverHandler.ReviewHistory)
		keys.POST("/:keyId/translate", serverHandler.TranslateKey)
	}

	reviews := api.Group("/reviews")
	{
		reviews.POST("", serverHandler.SubmitReview)
		reviews.POST("/:id/approve", serverHandler.ApproveReview)
		reviews.POST("/:id/reject", serverHandler.RejectReview)
		reviews.POST("/:id/cancel", serverHandler.CancelReview)
	}

	api.GET("/scrape-jobs/:jobId", serverHandler.GetScrapeJob)

	api.GET("/tasks/status", serverHandler.GetTaskStatus)
}
