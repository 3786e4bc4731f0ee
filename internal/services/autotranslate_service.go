package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/models"
	"lingo-hub/internal/translator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Bulk translation policies.
const (
	PolicyTranslateAll  = "translateAll"
	PolicyFillMissing   = "fillMissing"
	PolicyRefreshLocale = "refreshLocale"
)

// ValidPolicy reports whether a policy tag is recognized.
func ValidPolicy(policy string) bool {
	switch policy {
	case PolicyTranslateAll, PolicyFillMissing, PolicyRefreshLocale:
		return true
	}
	return false
}

// TargetOutcome is the per-target result of a single-key translation run.
type TargetOutcome struct {
	Locale         string `json:"locale"`
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
	RequiresReview bool   `json:"requires_review,omitempty"`
}

// PairOutcome is the per-(key, locale) result of a bulk translation run.
type PairOutcome struct {
	KeyName        string `json:"key_name"`
	Locale         string `json:"locale"`
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
	RequiresReview bool   `json:"requires_review,omitempty"`
}

// BulkRequest describes a bulk auto-translate run.
type BulkRequest struct {
	AppID           uint
	SourceLocaleID  uint
	TargetLocaleIDs []uint
	Policy          string
	Instructions    string
	KeyNames        []string
}

// AutoTranslateService orchestrates AI translation calls and routes every
// result through the review gate or the direct write path.
type AutoTranslateService struct {
	DB           *gorm.DB
	Translator   translator.Translator
	Translations *TranslationService
	Reviews      *ReviewService
	Tasks        *TaskService
}

// NewAutoTranslateService creates a new AutoTranslateService.
func NewAutoTranslateService(db *gorm.DB, t translator.Translator, translations *TranslationService, reviews *ReviewService, tasks *TaskService) *AutoTranslateService {
	return &AutoTranslateService{
		DB:           db,
		Translator:   t,
		Translations: translations,
		Reviews:      reviews,
		Tasks:        tasks,
	}
}

// resolvedLocale pairs an app locale with its catalog code.
type resolvedLocale struct {
	appLocale models.AppLocale
	code      string
}

// TranslateKey translates one key's source value into the target locales
// with a single batched model call. A model failure is fatal to the whole
// operation; per-target post-processing failures are isolated.
func (s *AutoTranslateService) TranslateKey(ctx context.Context, keyID, sourceLocaleID uint, targetLocaleIDs []uint, instructions string, actor *models.User) ([]TargetOutcome, error) {
	key, err := s.findKey(keyID)
	if err != nil {
		return nil, err
	}
	if _, err := CheckAppAccess(s.DB, key.AppID, actor); err != nil {
		return nil, err
	}

	source, err := s.resolveLocale(key.AppID, sourceLocaleID)
	if err != nil {
		return nil, err
	}
	sourceValue, err := s.sourceValue(keyID, sourceLocaleID)
	if err != nil {
		return nil, err
	}

	outcomes := make([]TargetOutcome, 0, len(targetLocaleIDs))
	targetsByCode := make(map[string]resolvedLocale, len(targetLocaleIDs))
	codes := make([]string, 0, len(targetLocaleIDs))
	for _, targetID := range targetLocaleIDs {
		target, err := s.resolveLocale(key.AppID, targetID)
		if err != nil {
			outcomes = append(outcomes, TargetOutcome{
				Locale:  fmt.Sprintf("locale:%d", targetID),
				Success: false,
				Error:   "target locale not found",
			})
			continue
		}
		targetsByCode[target.code] = *target
		codes = append(codes, target.code)
	}
	if len(codes) == 0 {
		return outcomes, nil
	}

	translated, err := s.Translator.TranslateBatch(ctx, translator.BatchRequest{
		Text:         sourceValue,
		SourceLang:   source.code,
		TargetLangs:  codes,
		Instructions: instructions,
	})
	if err != nil {
		return nil, app_errors.NewAPIError(app_errors.ErrBadGateway, err.Error())
	}

	// Fan out over the model's returned mapping; each target is judged
	// independently so one failure never aborts its siblings.
	seen := make(map[string]bool, len(translated))
	for code, text := range translated {
		seen[code] = true
		target, ok := targetsByCode[code]
		if !ok {
			outcomes = append(outcomes, TargetOutcome{Locale: code, Success: false, Error: "unknown locale code in model response"})
			continue
		}
		outcomes = append(outcomes, s.applyTarget(key, target, code, text, actor))
	}
	for code := range targetsByCode {
		if !seen[code] {
			outcomes = append(outcomes, TargetOutcome{Locale: code, Success: false, Error: "model returned no translation"})
		}
	}
	return outcomes, nil
}

// applyTarget routes one translated text through the gate or the direct path.
func (s *AutoTranslateService) applyTarget(key *models.TranslationKey, target resolvedLocale, code, text string, actor *models.User) TargetOutcome {
	if text == "" {
		return TargetOutcome{Locale: code, Success: false, Error: "empty translation"}
	}

	gate, err := s.Reviews.GateWrite(s.DB, key, target.appLocale.ID, text, actor.ID)
	if err != nil {
		return TargetOutcome{Locale: code, Success: false, Error: err.Error()}
	}
	if gate.Deferred {
		return TargetOutcome{Locale: code, Success: true, RequiresReview: true}
	}

	if _, err := s.Translations.upsertDirect(s.DB, key.ID, target.appLocale.ID, text, actor.ID); err != nil {
		return TargetOutcome{Locale: code, Success: false, Error: err.Error()}
	}
	return TargetOutcome{Locale: code, Success: true}
}

// TranslateBulk runs one independent model call per (key, target) pair that
// survives the policy filters, all issued concurrently. Every outcome is
// isolated: a pair's failure is recorded, never propagated.
func (s *AutoTranslateService) TranslateBulk(ctx context.Context, req BulkRequest, actor *models.User) ([]PairOutcome, error) {
	app, err := CheckAppAccess(s.DB, req.AppID, actor)
	if err != nil {
		return nil, err
	}

	source, err := s.resolveLocale(req.AppID, req.SourceLocaleID)
	if err != nil {
		return nil, err
	}
	targets := make([]resolvedLocale, 0, len(req.TargetLocaleIDs))
	for _, targetID := range req.TargetLocaleIDs {
		target, err := s.resolveLocale(req.AppID, targetID)
		if err != nil {
			return nil, app_errors.NewAPIError(app_errors.ErrValidation, fmt.Sprintf("target locale %d is not configured for this app", targetID))
		}
		targets = append(targets, *target)
	}

	keys, err := s.selectKeys(req.AppID, req.KeyNames)
	if err != nil {
		return nil, err
	}

	sourceValues, err := s.valuesByKey(req.AppID, req.SourceLocaleID)
	if err != nil {
		return nil, err
	}
	targetValues := make(map[uint]map[uint]string, len(targets))
	if req.Policy == PolicyFillMissing {
		for _, target := range targets {
			values, err := s.valuesByKey(req.AppID, target.appLocale.ID)
			if err != nil {
				return nil, err
			}
			targetValues[target.appLocale.ID] = values
		}
	}

	type pair struct {
		key    models.TranslationKey
		target resolvedLocale
	}

	var outcomes []PairOutcome
	var pairs []pair
	for _, key := range keys {
		sourceText := sourceValues[key.ID]
		if sourceText == "" {
			// Unsatisfiable key: report every target without burning a
			// model call.
			for _, target := range targets {
				outcomes = append(outcomes, PairOutcome{
					KeyName: key.Name,
					Locale:  target.code,
					Success: false,
					Error:   "No source translation",
				})
			}
			continue
		}
		for _, target := range targets {
			if req.Policy == PolicyFillMissing && targetValues[target.appLocale.ID][key.ID] != "" {
				continue
			}
			// refreshLocale currently behaves like translateAll here; the
			// distinct tag is kept for forward compatibility.
			pairs = append(pairs, pair{key: key, target: target})
		}
	}

	tracking := s.startTracking(app.Name, len(pairs))

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		processed int
	)
	for _, p := range pairs {
		wg.Add(1)
		go func(p pair) {
			defer wg.Done()
			outcome := s.translatePair(ctx, p.key, *source, p.target, sourceValues[p.key.ID], req.Instructions, actor)
			mu.Lock()
			outcomes = append(outcomes, outcome)
			processed++
			done := processed
			mu.Unlock()
			if tracking {
				if err := s.Tasks.UpdateProgress(done); err != nil {
					logrus.Debugf("Failed to update bulk translate progress: %v", err)
				}
			}
		}(p)
	}
	wg.Wait()

	if tracking {
		summary := summarize(outcomes)
		if err := s.Tasks.EndTask(summary, nil); err != nil {
			logrus.Warnf("Failed to end bulk translate task: %v", err)
		}
	}
	return outcomes, nil
}

// translatePair issues one model call and routes the result, catching every
// failure at the pair boundary.
func (s *AutoTranslateService) translatePair(ctx context.Context, key models.TranslationKey, source, target resolvedLocale, sourceText, instructions string, actor *models.User) PairOutcome {
	text, err := s.Translator.Translate(ctx, translator.Request{
		Text:         sourceText,
		SourceLang:   source.code,
		TargetLang:   target.code,
		Instructions: instructions,
	})
	if err != nil {
		return PairOutcome{KeyName: key.Name, Locale: target.code, Success: false, Error: err.Error()}
	}
	if text == "" {
		return PairOutcome{KeyName: key.Name, Locale: target.code, Success: false, Error: "empty translation"}
	}

	gate, err := s.Reviews.GateWrite(s.DB, &key, target.appLocale.ID, text, actor.ID)
	if err != nil {
		return PairOutcome{KeyName: key.Name, Locale: target.code, Success: false, Error: err.Error()}
	}
	if gate.Deferred {
		return PairOutcome{KeyName: key.Name, Locale: target.code, Success: true, RequiresReview: true}
	}
	if _, err := s.Translations.upsertDirect(s.DB, key.ID, target.appLocale.ID, text, actor.ID); err != nil {
		return PairOutcome{KeyName: key.Name, Locale: target.code, Success: false, Error: err.Error()}
	}
	return PairOutcome{KeyName: key.Name, Locale: target.code, Success: true}
}

// startTracking claims the global task slot on a best-effort basis; a run
// that cannot claim it still proceeds, it just is not pollable.
func (s *AutoTranslateService) startTracking(appName string, total int) bool {
	if s.Tasks == nil {
		return false
	}
	if _, err := s.Tasks.StartTask(TaskTypeBulkTranslate, appName, total); err != nil {
		logrus.Debugf("Bulk translate not tracked: %v", err)
		return false
	}
	return true
}

// BulkSummary aggregates pair outcomes for the task result.
type BulkSummary struct {
	Total          int `json:"total"`
	Succeeded      int `json:"succeeded"`
	Failed         int `json:"failed"`
	RequiresReview int `json:"requires_review"`
}

func summarize(outcomes []PairOutcome) BulkSummary {
	summary := BulkSummary{Total: len(outcomes)}
	for _, o := range outcomes {
		switch {
		case o.Success && o.RequiresReview:
			summary.Succeeded++
			summary.RequiresReview++
		case o.Success:
			summary.Succeeded++
		default:
			summary.Failed++
		}
	}
	return summary
}

// selectKeys loads the app's keys, optionally filtered to an explicit set
// of names. Unknown names are ignored.
func (s *AutoTranslateService) selectKeys(appID uint, names []string) ([]models.TranslationKey, error) {
	query := s.DB.Where("app_id = ?", appID)
	if len(names) > 0 {
		query = query.Where("name IN ?", names)
	}
	var keys []models.TranslationKey
	if err := query.Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// valuesByKey maps key ID to the current value for one locale.
func (s *AutoTranslateService) valuesByKey(appID, appLocaleID uint) (map[uint]string, error) {
	var translations []models.Translation
	err := s.DB.Joins("JOIN translation_keys ON translation_keys.id = translations.key_id").
		Where("translation_keys.app_id = ? AND translations.app_locale_id = ?", appID, appLocaleID).
		Find(&translations).Error
	if err != nil {
		return nil, err
	}
	values := make(map[uint]string, len(translations))
	for _, t := range translations {
		values[t.KeyID] = t.Value
	}
	return values, nil
}

// resolveLocale loads an app locale and its catalog code.
func (s *AutoTranslateService) resolveLocale(appID, appLocaleID uint) (*resolvedLocale, error) {
	var appLocale models.AppLocale
	err := s.DB.Preload("CatalogLocale").Where("id = ? AND app_id = ?", appLocaleID, appID).First(&appLocale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, app_errors.ErrResourceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &resolvedLocale{appLocale: appLocale, code: appLocale.CatalogLocale.Code}, nil
}

// sourceValue loads the non-empty source value required before any
// translation can happen.
func (s *AutoTranslateService) sourceValue(keyID, sourceLocaleID uint) (string, error) {
	var translation models.Translation
	err := s.DB.Where("key_id = ? AND app_locale_id = ?", keyID, sourceLocaleID).First(&translation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && translation.Value == "") {
		return "", app_errors.ErrNoSourceValue
	}
	if err != nil {
		return "", err
	}
	return translation.Value, nil
}

func (s *AutoTranslateService) findKey(keyID uint) (*models.TranslationKey, error) {
	var key models.TranslationKey
	if err := s.DB.First(&key, keyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_errors.ErrResourceNotFound
		}
		return nil, err
	}
	return &key, nil
}
