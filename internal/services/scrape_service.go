package services

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/models"
	"lingo-hub/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	scrapeFetchTimeout  = 30 * time.Second
	scrapeMaxBodyBytes  = 4 << 20
	scrapeMaxTextLength = 500
)

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// ScrapeService imports translation keys from a live web page. Jobs run as
// fire-and-forget goroutines; clients poll the job row until it reaches a
// terminal status.
type ScrapeService struct {
	DB           *gorm.DB
	Translations *TranslationService
	Tasks        *TaskService
	httpClient   *http.Client
}

// NewScrapeService creates a new ScrapeService.
func NewScrapeService(db *gorm.DB, translations *TranslationService, tasks *TaskService) *ScrapeService {
	return &ScrapeService{
		DB:           db,
		Translations: translations,
		Tasks:        tasks,
		httpClient:   &http.Client{Timeout: scrapeFetchTimeout},
	}
}

// StartScrape creates a scrape job and launches the worker goroutine.
// The returned job is in pending status; poll GetJob for progress.
func (s *ScrapeService) StartScrape(appID uint, url string, actor *models.User) (*models.ScrapeJob, error) {
	app, err := CheckAppAccess(s.DB, appID, actor)
	if err != nil {
		return nil, err
	}

	var defaultLocale models.AppLocale
	err = s.DB.Where("app_id = ? AND is_default = ?", appID, true).First(&defaultLocale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, app_errors.NewAPIError(app_errors.ErrValidation, "app has no default locale")
	}
	if err != nil {
		return nil, err
	}

	job := &models.ScrapeJob{
		ID:     uuid.NewString(),
		AppID:  appID,
		URL:    url,
		Status: models.ScrapeStatusPending,
	}
	if err := s.DB.Create(job).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}

	go s.runScrape(job.ID, app, defaultLocale.ID, url, actor.ID)
	return job, nil
}

// GetJob returns one scrape job, scoped to the caller's organization.
func (s *ScrapeService) GetJob(jobID string, actor *models.User) (*models.ScrapeJob, error) {
	var job models.ScrapeJob
	if err := s.DB.Where("id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_errors.ErrResourceNotFound
		}
		return nil, err
	}
	if _, err := CheckAppAccess(s.DB, job.AppID, actor); err != nil {
		return nil, err
	}
	return &job, nil
}

// runScrape is the background worker: fetch, extract, create keys, finish.
func (s *ScrapeService) runScrape(jobID string, app *models.App, defaultLocaleID uint, url string, actorID uint) {
	s.updateJob(jobID, map[string]any{"status": models.ScrapeStatusProcessing})

	texts, err := s.fetchTexts(url)
	if err != nil {
		logrus.Warnf("Scrape job %s failed to fetch %s: %v", jobID, url, err)
		s.updateJob(jobID, map[string]any{
			"status": models.ScrapeStatusFailed,
			"error":  err.Error(),
		})
		return
	}

	tracking := false
	if _, err := s.Tasks.StartTask(TaskTypeScrapeImport, app.Name, len(texts)); err != nil {
		logrus.Debugf("Scrape job %s not tracked: %v", jobID, err)
	} else {
		tracking = true
	}

	created := 0
	skipped := 0
	for i, text := range texts {
		wasCreated, err := s.importText(app.ID, defaultLocaleID, text, actorID)
		if err != nil {
			logrus.Warnf("Scrape job %s failed to import %q: %v", jobID, utils.TruncateString(text, 40), err)
			skipped++
		} else if wasCreated {
			created++
		} else {
			skipped++
		}
		if tracking {
			if err := s.Tasks.UpdateProgress(i + 1); err != nil {
				logrus.Debugf("Failed to update scrape progress: %v", err)
			}
		}
	}

	stats := datatypes.JSONMap{
		"found":   len(texts),
		"created": created,
		"skipped": skipped,
	}
	s.updateJob(jobID, map[string]any{
		"status":            models.ScrapeStatusCompleted,
		"found_count":       len(texts),
		"created_key_count": created,
		"page_stats":        stats,
	})
	if tracking {
		if err := s.Tasks.EndTask(stats, nil); err != nil {
			logrus.Warnf("Failed to end scrape task: %v", err)
		}
	}
	logrus.Infof("Scrape job %s completed: %d found, %d created", jobID, len(texts), created)
}

// importText creates a key named after the text slug and seeds the default
// locale value. Existing keys are left untouched.
func (s *ScrapeService) importText(appID, defaultLocaleID uint, text string, actorID uint) (bool, error) {
	name := slugify(text)
	if name == "" {
		return false, nil
	}

	var existing models.TranslationKey
	err := s.DB.Where("app_id = ? AND name = ?", appID, name).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	return true, s.DB.Transaction(func(tx *gorm.DB) error {
		key := models.TranslationKey{
			AppID:       appID,
			Name:        name,
			Description: fmt.Sprintf("Imported from page scrape: %s", utils.TruncateString(text, 120)),
		}
		if err := tx.Create(&key).Error; err != nil {
			return err
		}
		_, err := s.Translations.upsertDirect(tx, key.ID, defaultLocaleID, text, actorID)
		return err
	})
}

// fetchTexts downloads the page and extracts deduplicated visible text
// fragments.
func (s *ScrapeService) fetchTexts(url string) ([]string, error) {
	resp, err := s.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching page", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, scrapeMaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return extractTexts(doc), nil
}

// extractTexts walks the DOM collecting visible text, skipping script,
// style, and markup-only nodes.
func extractTexts(doc *html.Node) []string {
	var texts []string
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.Join(strings.Fields(n.Data), " ")
			if len(text) > 1 && len(text) <= scrapeMaxTextLength && !seen[text] {
				seen[text] = true
				texts = append(texts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return texts
}

// slugify derives a stable key name from a text fragment.
func slugify(text string) string {
	slug := slugCleaner.ReplaceAllString(strings.ToLower(text), "_")
	slug = strings.Trim(slug, "_")
	if len(slug) > 64 {
		slug = strings.Trim(slug[:64], "_")
	}
	return slug
}

func (s *ScrapeService) updateJob(jobID string, fields map[string]any) {
	if err := s.DB.Model(&models.ScrapeJob{}).Where("id = ?", jobID).Updates(fields).Error; err != nil {
		logrus.Errorf("Failed to update scrape job %s: %v", jobID, err)
	}
}
