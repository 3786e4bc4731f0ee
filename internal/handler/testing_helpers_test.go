package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"lingo-hub/internal/handler"
	"lingo-hub/internal/i18n"
	"lingo-hub/internal/models"
	"lingo-hub/internal/router"
	"lingo-hub/internal/services"
	"lingo-hub/internal/store"
	"lingo-hub/internal/translator"
	"lingo-hub/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testConfig is a static ConfigManager for handler tests.
type testConfig struct{}

func (testConfig) IsMaster() bool    { return true }
func (testConfig) IsDebugMode() bool { return false }
func (testConfig) GetAuthConfig() types.AuthConfig {
	return types.AuthConfig{SessionTTLMinutes: 60}
}
func (testConfig) GetCORSConfig() types.CORSConfig {
	return types.CORSConfig{
		Enabled:        true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}
}
func (testConfig) GetPerformanceConfig() types.PerformanceConfig {
	return types.PerformanceConfig{MaxConcurrentRequests: 100}
}
func (testConfig) GetLogConfig() types.LogConfig {
	return types.LogConfig{Level: "error", Format: "text"}
}
func (testConfig) GetDatabaseConfig() types.DatabaseConfig {
	return types.DatabaseConfig{DSN: ":memory:"}
}
func (testConfig) GetRedisDSN() string { return "" }
func (testConfig) GetTranslatorConfig() types.TranslatorConfig {
	return types.TranslatorConfig{BaseURL: "http://localhost", Model: "test", TimeoutSeconds: 5}
}
func (testConfig) GetEffectiveServerConfig() types.ServerConfig {
	return types.ServerConfig{Port: 3001, Host: "127.0.0.1"}
}
func (testConfig) Validate() error      { return nil }
func (testConfig) DisplayServerConfig() {}
func (testConfig) ReloadConfig() error  { return nil }

// echoTranslator translates by tagging the text with the target language.
type echoTranslator struct {
	mu    sync.Mutex
	calls int
}

func (e *echoTranslator) Translate(_ context.Context, req translator.Request) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	return fmt.Sprintf("[%s] %s", req.TargetLang, req.Text), nil
}

func (e *echoTranslator) TranslateBatch(_ context.Context, req translator.BatchRequest) (map[string]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	result := make(map[string]string, len(req.TargetLangs))
	for _, lang := range req.TargetLangs {
		result[lang] = fmt.Sprintf("[%s] %s", lang, req.Text)
	}
	return result, nil
}

// testEnv bundles the router and the seeded tenant data handler tests use.
type testEnv struct {
	Engine *gin.Engine
	DB     *gorm.DB

	Org      models.Organization
	Owner    models.User
	Reviewer models.User
	App      models.App
	EN       models.AppLocale
	FR       models.AppLocale
	Greeting models.TranslationKey

	OwnerToken    string
	ReviewerToken string
}

const testPassword = "handler-test-pw"

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, i18n.Init())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A second pooled connection to :memory: would see its own empty
	// database; pin the pool so background goroutines share one.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.App{},
		&models.CatalogLocale{},
		&models.AppLocale{},
		&models.TranslationKey{},
		&models.Translation{},
		&models.TranslationReview{},
		&models.ScrapeJob{},
	))

	memStore := store.NewMemoryStore()
	t.Cleanup(func() { memStore.Close() })

	authService := &services.AuthService{DB: db, Store: memStore, SessionTTL: time.Hour}
	taskService := services.NewTaskService(memStore)
	reviewService := services.NewReviewService(db)
	translationService := services.NewTranslationService(db, reviewService)
	autoTranslateService := services.NewAutoTranslateService(db, &echoTranslator{}, translationService, reviewService, taskService)
	scrapeService := services.NewScrapeService(db, translationService, taskService)
	importExportService := services.NewImportExportService(db, translationService, taskService)

	server := handler.NewServer(handler.ServerParams{
		DB:                   db,
		Store:                memStore,
		ConfigManager:        testConfig{},
		AuthService:          authService,
		TaskService:          taskService,
		ReviewService:        reviewService,
		TranslationService:   translationService,
		AutoTranslateService: autoTranslateService,
		ScrapeService:        scrapeService,
		ImportExportService:  importExportService,
	})

	env := &testEnv{
		Engine: router.NewRouter(server, testConfig{}, authService),
		DB:     db,
	}
	env.seed(t)

	ownerToken, _, err := authService.Login(env.Owner.Email, testPassword)
	require.NoError(t, err)
	reviewerToken, _, err := authService.Login(env.Reviewer.Email, testPassword)
	require.NoError(t, err)
	env.OwnerToken = ownerToken
	env.ReviewerToken = reviewerToken

	return env
}

func (env *testEnv) seed(t *testing.T) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	env.Org = models.Organization{Name: "acme"}
	require.NoError(t, env.DB.Create(&env.Org).Error)

	env.Owner = models.User{
		OrganizationID: env.Org.ID,
		Email:          "owner@acme.test",
		DisplayName:    "Olive Owner",
		PasswordHash:   string(hash),
		Role:           models.RoleOwner,
	}
	require.NoError(t, env.DB.Create(&env.Owner).Error)

	env.Reviewer = models.User{
		OrganizationID: env.Org.ID,
		Email:          "reviewer@acme.test",
		DisplayName:    "Remy Reviewer",
		PasswordHash:   string(hash),
		Role:           models.RoleAdmin,
	}
	require.NoError(t, env.DB.Create(&env.Reviewer).Error)

	english := models.CatalogLocale{Code: "en", Name: "English"}
	french := models.CatalogLocale{Code: "fr", Name: "French"}
	require.NoError(t, env.DB.Create(&english).Error)
	require.NoError(t, env.DB.Create(&french).Error)

	env.App = models.App{OrganizationID: env.Org.ID, Name: "storefront"}
	require.NoError(t, env.DB.Create(&env.App).Error)

	env.EN = models.AppLocale{AppID: env.App.ID, CatalogLocaleID: english.ID, IsDefault: true}
	require.NoError(t, env.DB.Create(&env.EN).Error)
	env.FR = models.AppLocale{AppID: env.App.ID, CatalogLocaleID: french.ID, RequiresReview: true}
	require.NoError(t, env.DB.Create(&env.FR).Error)

	env.Greeting = models.TranslationKey{AppID: env.App.ID, Name: "home.greeting"}
	require.NoError(t, env.DB.Create(&env.Greeting).Error)
}

// request performs an authenticated JSON request against the test router.
func (env *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.Engine.ServeHTTP(w, req)
	return w
}

// data extracts the data field from a success envelope.
func data(t *testing.T, w *httptest.ResponseRecorder) gjson.Result {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return gjson.Get(w.Body.String(), "data")
}
