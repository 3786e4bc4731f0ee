package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/models"
	"lingo-hub/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func newScrapeService(f *fixture) *ScrapeService {
	reviews := NewReviewService(f.DB)
	translations := NewTranslationService(f.DB, reviews)
	tasks := NewTaskService(store.NewMemoryStore())
	return NewScrapeService(f.DB, translations, tasks)
}

// waitForJob polls until the job leaves the pending/processing states.
func waitForJob(t *testing.T, svc *ScrapeService, jobID string, actor *models.User) *models.ScrapeJob {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.GetJob(jobID, actor)
		require.NoError(t, err)
		if job.Status == models.ScrapeStatusCompleted || job.Status == models.ScrapeStatusFailed {
			return job
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("scrape job did not finish in time")
	return nil
}

// TestStartScrapeImportsPageTexts verifies the full job lifecycle: fetch,
// extract, create keys under the default locale.
func TestStartScrapeImportsPageTexts(t *testing.T) {
	f := setupFixture(t)
	svc := newScrapeService(f)

	page := `<html><head><title>Shop</title><style>.x{color:red}</style></head>
	<body><h1>Welcome to our store</h1><p>Free shipping on all orders</p>
	<script>var ignored = "nope";</script></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	job, err := svc.StartScrape(f.App.ID, server.URL, &f.Requester)
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)

	done := waitForJob(t, svc, job.ID, &f.Requester)
	assert.Equal(t, models.ScrapeStatusCompleted, done.Status)
	assert.Greater(t, done.FoundCount, 0)
	assert.Greater(t, done.CreatedKeyCount, 0)

	var key models.TranslationKey
	require.NoError(t, f.DB.Where("app_id = ? AND name = ?", f.App.ID, "welcome_to_our_store").First(&key).Error)
	tr := f.translationFor(t, key.ID, f.EN.ID)
	require.NotNil(t, tr)
	assert.Equal(t, "Welcome to our store", tr.Value)

	// Script and style text never becomes a key.
	var count int64
	require.NoError(t, f.DB.Model(&models.TranslationKey{}).
		Where("app_id = ? AND name LIKE ?", f.App.ID, "%ignored%").Count(&count).Error)
	assert.Zero(t, count)
}

// TestStartScrapeFetchFailure verifies the failed terminal status.
func TestStartScrapeFetchFailure(t *testing.T) {
	f := setupFixture(t)
	svc := newScrapeService(f)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	job, err := svc.StartScrape(f.App.ID, server.URL, &f.Requester)
	require.NoError(t, err)

	done := waitForJob(t, svc, job.ID, &f.Requester)
	assert.Equal(t, models.ScrapeStatusFailed, done.Status)
	assert.NotEmpty(t, done.Error)
}

// TestStartScrapeRequiresDefaultLocale verifies the precondition.
func TestStartScrapeRequiresDefaultLocale(t *testing.T) {
	f := setupFixture(t)
	svc := newScrapeService(f)

	require.NoError(t, f.DB.Model(&models.AppLocale{}).Where("app_id = ?", f.App.ID).Update("is_default", false).Error)

	_, err := svc.StartScrape(f.App.ID, "http://example.com", &f.Requester)
	require.Error(t, err)
	apiErr, ok := err.(*app_errors.APIError)
	require.True(t, ok)
	assert.Equal(t, app_errors.ErrValidation.Code, apiErr.Code)
}

// TestGetJobScoping verifies cross-tenant job reads are rejected.
func TestGetJobScoping(t *testing.T) {
	f := setupFixture(t)
	svc := newScrapeService(f)

	job := models.ScrapeJob{ID: "job-1", AppID: f.App.ID, URL: "http://example.com", Status: models.ScrapeStatusPending}
	require.NoError(t, f.DB.Create(&job).Error)

	_, err := svc.GetJob("job-1", &f.Outsider)
	assert.Equal(t, app_errors.ErrForbidden, err)

	_, err = svc.GetJob("missing", &f.Requester)
	assert.Equal(t, app_errors.ErrResourceNotFound, err)
}

// TestExtractTexts covers dedup and markup filtering.
func TestExtractTexts(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(
		`<html><body><p>Hello</p><p>Hello</p><div>  spaced   out  </div><script>skip()</script></body></html>`))
	require.NoError(t, err)

	texts := extractTexts(doc)
	assert.Equal(t, []string{"Hello", "spaced out"}, texts)
}

// TestSlugify covers key name derivation.
func TestSlugify(t *testing.T) {
	assert.Equal(t, "welcome_to_our_store", slugify("Welcome to our store"))
	assert.Equal(t, "free_shipping", slugify("  Free, shipping!  "))
	assert.Equal(t, "", slugify("!!!"))
	assert.LessOrEqual(t, len(slugify(strings.Repeat("word ", 40))), 64)
}
