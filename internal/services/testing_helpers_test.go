package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"lingo-hub/internal/models"
	"lingo-hub/internal/translator"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing (pure Go, no CGO)
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second pooled connection to :memory: would see its own empty
	// database; pin the pool so concurrent writers share one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.App{},
		&models.CatalogLocale{},
		&models.AppLocale{},
		&models.TranslationKey{},
		&models.Translation{},
		&models.TranslationReview{},
		&models.ScrapeJob{},
	)
	require.NoError(t, err)

	return db
}

// fixture is a fully populated test tenant: one app with an ungated default
// locale (en), a review-gated locale (fr), and an ungated locale (de).
type fixture struct {
	DB        *gorm.DB
	Org       models.Organization
	Requester models.User
	Reviewer  models.User
	Outsider  models.User
	App       models.App
	EN        models.AppLocale
	FR        models.AppLocale
	DE        models.AppLocale
	Greeting  models.TranslationKey
	Farewell  models.TranslationKey
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)

	f := &fixture{DB: db}

	f.Org = models.Organization{Name: "acme"}
	require.NoError(t, db.Create(&f.Org).Error)
	otherOrg := models.Organization{Name: "umbrella"}
	require.NoError(t, db.Create(&otherOrg).Error)

	f.Requester = models.User{OrganizationID: f.Org.ID, Email: "requester@acme.test", DisplayName: "Rita Requester", PasswordHash: "x", Role: models.RoleTranslator}
	f.Reviewer = models.User{OrganizationID: f.Org.ID, Email: "reviewer@acme.test", DisplayName: "Remy Reviewer", PasswordHash: "x", Role: models.RoleAdmin}
	f.Outsider = models.User{OrganizationID: otherOrg.ID, Email: "outsider@umbrella.test", DisplayName: "Oscar Outsider", PasswordHash: "x", Role: models.RoleOwner}
	for _, u := range []*models.User{&f.Requester, &f.Reviewer, &f.Outsider} {
		require.NoError(t, db.Create(u).Error)
	}

	f.App = models.App{OrganizationID: f.Org.ID, Name: "storefront"}
	require.NoError(t, db.Create(&f.App).Error)

	en := models.CatalogLocale{Code: "en", Name: "English"}
	fr := models.CatalogLocale{Code: "fr", Name: "French"}
	de := models.CatalogLocale{Code: "de", Name: "German"}
	for _, l := range []*models.CatalogLocale{&en, &fr, &de} {
		require.NoError(t, db.Create(l).Error)
	}

	f.EN = models.AppLocale{AppID: f.App.ID, CatalogLocaleID: en.ID, IsDefault: true}
	f.FR = models.AppLocale{AppID: f.App.ID, CatalogLocaleID: fr.ID, RequiresReview: true}
	f.DE = models.AppLocale{AppID: f.App.ID, CatalogLocaleID: de.ID}
	for _, al := range []*models.AppLocale{&f.EN, &f.FR, &f.DE} {
		require.NoError(t, db.Create(al).Error)
	}

	f.Greeting = models.TranslationKey{AppID: f.App.ID, Name: "home.greeting"}
	f.Farewell = models.TranslationKey{AppID: f.App.ID, Name: "home.farewell"}
	for _, k := range []*models.TranslationKey{&f.Greeting, &f.Farewell} {
		require.NoError(t, db.Create(k).Error)
	}

	return f
}

// seedTranslation inserts a value directly, bypassing every service path.
func (f *fixture) seedTranslation(t *testing.T, keyID, appLocaleID uint, value string, updatedBy uint) models.Translation {
	t.Helper()
	tr := models.Translation{KeyID: keyID, AppLocaleID: appLocaleID, Value: value, UpdatedBy: updatedBy}
	require.NoError(t, f.DB.Create(&tr).Error)
	return tr
}

func (f *fixture) translationFor(t *testing.T, keyID, appLocaleID uint) *models.Translation {
	t.Helper()
	var tr models.Translation
	err := f.DB.Where("key_id = ? AND app_locale_id = ?", keyID, appLocaleID).First(&tr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	require.NoError(t, err)
	return &tr
}

func (f *fixture) reviewCount(t *testing.T, keyID, appLocaleID uint, status string) int64 {
	t.Helper()
	var count int64
	err := f.DB.Model(&models.TranslationReview{}).
		Where("key_id = ? AND app_locale_id = ? AND status = ?", keyID, appLocaleID, status).
		Count(&count).Error
	require.NoError(t, err)
	return count
}

// stubTranslator is a controllable translator.Translator for orchestrator
// tests. It records every call.
type stubTranslator struct {
	mu         sync.Mutex
	calls      int
	batchCalls int
	fail       map[string]error
	transform  func(text, targetLang string) string
}

func newStubTranslator() *stubTranslator {
	return &stubTranslator{
		fail: make(map[string]error),
		transform: func(text, targetLang string) string {
			return fmt.Sprintf("[%s] %s", targetLang, text)
		},
	}
}

func (s *stubTranslator) Translate(_ context.Context, req translator.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err, ok := s.fail[req.TargetLang]; ok {
		return "", err
	}
	return s.transform(req.Text, req.TargetLang), nil
}

func (s *stubTranslator) TranslateBatch(_ context.Context, req translator.BatchRequest) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchCalls++
	result := make(map[string]string, len(req.TargetLangs))
	for _, lang := range req.TargetLangs {
		if err, ok := s.fail[lang]; ok {
			return nil, err
		}
		result[lang] = s.transform(req.Text, lang)
	}
	return result, nil
}

func (s *stubTranslator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubTranslator) batchCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batchCalls
}
