package services

import (
	"errors"
	"fmt"
	"strings"

	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"gorm.io/gorm"
)

// ImportKeyResult is the per-key outcome of a JSON import.
type ImportKeyResult struct {
	Key      string `json:"key"`
	Created  bool   `json:"created,omitempty"`
	Deferred bool   `json:"deferred,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ImportResult summarizes a JSON import run.
type ImportResult struct {
	Total    int               `json:"total"`
	Written  int               `json:"written"`
	Deferred int               `json:"deferred"`
	Failed   int               `json:"failed"`
	Details  []ImportKeyResult `json:"details"`
}

// ImportExportService moves translations in and out as nested JSON
// documents, the interchange format most frontend i18n toolchains speak.
type ImportExportService struct {
	DB           *gorm.DB
	Translations *TranslationService
	Tasks        *TaskService
}

// NewImportExportService creates a new ImportExportService.
func NewImportExportService(db *gorm.DB, translations *TranslationService, tasks *TaskService) *ImportExportService {
	return &ImportExportService{DB: db, Translations: translations, Tasks: tasks}
}

// Export renders one locale's translations as a nested JSON document.
// Dotted key names become nested objects.
func (s *ImportExportService) Export(appID, appLocaleID uint, actor *models.User) ([]byte, string, error) {
	if _, err := CheckAppAccess(s.DB, appID, actor); err != nil {
		return nil, "", err
	}

	var appLocale models.AppLocale
	err := s.DB.Preload("CatalogLocale").Where("id = ? AND app_id = ?", appLocaleID, appID).First(&appLocale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", app_errors.ErrResourceNotFound
	}
	if err != nil {
		return nil, "", err
	}

	type row struct {
		Name  string
		Value string
	}
	var rows []row
	err = s.DB.Model(&models.Translation{}).
		Select("translation_keys.name, translations.value").
		Joins("JOIN translation_keys ON translation_keys.id = translations.key_id").
		Where("translation_keys.app_id = ? AND translations.app_locale_id = ?", appID, appLocaleID).
		Order("translation_keys.name").
		Scan(&rows).Error
	if err != nil {
		return nil, "", err
	}

	doc := "{}"
	for _, r := range rows {
		// sjson treats dots as path separators, which is exactly the
		// nesting we want.
		doc, err = sjson.Set(doc, r.Name, r.Value)
		if err != nil {
			return nil, "", fmt.Errorf("failed to render key %q: %w", r.Name, err)
		}
	}
	return []byte(doc), appLocale.CatalogLocale.Code, nil
}

// Import flattens a nested JSON document into dotted key names and writes
// every string leaf through the standard upsert path, so review-gated
// locales defer to pending reviews instead of mutating.
func (s *ImportExportService) Import(appID, appLocaleID uint, payload []byte, actor *models.User) (*ImportResult, error) {
	app, err := CheckAppAccess(s.DB, appID, actor)
	if err != nil {
		return nil, err
	}
	parsed := gjson.ParseBytes(payload)
	if !parsed.IsObject() {
		return nil, app_errors.NewAPIError(app_errors.ErrInvalidJSON, "import payload must be a JSON object")
	}

	entries := flattenJSON(parsed, "")
	if len(entries) == 0 {
		return &ImportResult{}, nil
	}

	tracking := false
	if _, err := s.Tasks.StartTask(TaskTypeJSONImport, app.Name, len(entries)); err != nil {
		logrus.Debugf("JSON import not tracked: %v", err)
	} else {
		tracking = true
	}

	result := &ImportResult{Total: len(entries)}
	for i, entry := range entries {
		detail := s.importEntry(appID, appLocaleID, entry.name, entry.value, actor)
		switch {
		case detail.Error != "":
			result.Failed++
		case detail.Deferred:
			result.Deferred++
		default:
			result.Written++
		}
		result.Details = append(result.Details, detail)
		if tracking {
			if err := s.Tasks.UpdateProgress(i + 1); err != nil {
				logrus.Debugf("Failed to update import progress: %v", err)
			}
		}
	}

	if tracking {
		if err := s.Tasks.EndTask(result, nil); err != nil {
			logrus.Warnf("Failed to end import task: %v", err)
		}
	}
	return result, nil
}

// importEntry ensures the key exists, then routes the value through the
// gated upsert. Failures are isolated per key.
func (s *ImportExportService) importEntry(appID, appLocaleID uint, name, value string, actor *models.User) ImportKeyResult {
	detail := ImportKeyResult{Key: name}

	var key models.TranslationKey
	err := s.DB.Where("app_id = ? AND name = ?", appID, name).First(&key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		key = models.TranslationKey{AppID: appID, Name: name}
		if createErr := s.DB.Create(&key).Error; createErr != nil {
			detail.Error = app_errors.ParseDBError(createErr).Error()
			return detail
		}
		detail.Created = true
	} else if err != nil {
		detail.Error = err.Error()
		return detail
	}

	upsert, err := s.Translations.Upsert(key.ID, appLocaleID, value, actor)
	if err != nil {
		detail.Error = err.Error()
		return detail
	}
	detail.Deferred = upsert.Deferred
	return detail
}

type flatEntry struct {
	name  string
	value string
}

// flattenJSON walks a gjson object depth-first, emitting dotted key paths
// for every string leaf. Non-string leaves are skipped.
func flattenJSON(node gjson.Result, prefix string) []flatEntry {
	var entries []flatEntry
	node.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if prefix != "" {
			name = prefix + "." + name
		}
		switch {
		case value.IsObject():
			entries = append(entries, flattenJSON(value, name)...)
		case value.Type == gjson.String:
			if strings.TrimSpace(name) != "" {
				entries = append(entries, flatEntry{name: name, value: value.String()})
			}
		}
		return true
	})
	return entries
}
