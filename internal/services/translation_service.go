package services

import (
	"errors"
	"time"

	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/models"

	"gorm.io/gorm"
)

// TranslationService is the single sanctioned write path for translation
// values outside of review approval.
type TranslationService struct {
	DB      *gorm.DB
	Reviews *ReviewService
}

// NewTranslationService creates a new TranslationService.
func NewTranslationService(db *gorm.DB, reviews *ReviewService) *TranslationService {
	return &TranslationService{DB: db, Reviews: reviews}
}

// UpsertResult reports what the upsert did: a direct write carries the
// translation ID, a gated write carries the created review instead.
type UpsertResult struct {
	TranslationID *uint `json:"translation_id"`
	Deferred      bool  `json:"deferred"`
	ReviewID      *uint `json:"review_id,omitempty"`
}

// Upsert writes a translation value through the review gate. Gated locales
// get a pending review and no translation mutation; ungated locales are
// patched or inserted directly.
func (s *TranslationService) Upsert(keyID, appLocaleID uint, value string, actor *models.User) (*UpsertResult, error) {
	key, err := s.findKey(keyID)
	if err != nil {
		return nil, err
	}
	if _, err := CheckAppAccess(s.DB, key.AppID, actor); err != nil {
		return nil, err
	}

	gate, err := s.Reviews.GateWrite(s.DB, key, appLocaleID, value, actor.ID)
	if err != nil {
		return nil, err
	}
	if gate.Deferred {
		return &UpsertResult{Deferred: true, ReviewID: &gate.Review.ID}, nil
	}

	translationID, err := s.upsertDirect(s.DB, keyID, appLocaleID, value, actor.ID)
	if err != nil {
		return nil, err
	}
	return &UpsertResult{TranslationID: &translationID}, nil
}

// upsertDirect patches the existing translation row or inserts a new one,
// bypassing the review gate. Read-before-write keeps the one-row-per-pair
// invariant; the unique index backs it up.
func (s *TranslationService) upsertDirect(tx *gorm.DB, keyID, appLocaleID uint, value string, userID uint) (uint, error) {
	var translation models.Translation
	err := tx.Where("key_id = ? AND app_locale_id = ?", keyID, appLocaleID).First(&translation).Error
	if err == nil {
		updateErr := tx.Model(&translation).Updates(map[string]any{
			"value":      value,
			"updated_by": userID,
			"updated_at": time.Now(),
		}).Error
		return translation.ID, updateErr
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	translation = models.Translation{
		KeyID:       keyID,
		AppLocaleID: appLocaleID,
		Value:       value,
		UpdatedBy:   userID,
	}
	if createErr := tx.Create(&translation).Error; createErr != nil {
		return 0, createErr
	}
	return translation.ID, nil
}

// CopyLocale duplicates every non-empty source-locale value into the target
// locale. Keys without a source value are silently skipped. This path
// intentionally bypasses the review gate; see the review docs for why the
// asymmetry is preserved.
func (s *TranslationService) CopyLocale(appID, sourceLocaleID, targetLocaleID uint, actor *models.User) (int, error) {
	if _, err := CheckAppAccess(s.DB, appID, actor); err != nil {
		return 0, err
	}
	if sourceLocaleID == targetLocaleID {
		return 0, app_errors.NewAPIError(app_errors.ErrValidation, "source and target locales must differ")
	}
	for _, localeID := range []uint{sourceLocaleID, targetLocaleID} {
		var appLocale models.AppLocale
		if err := s.DB.Where("id = ? AND app_id = ?", localeID, appID).First(&appLocale).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, app_errors.ErrResourceNotFound
			}
			return 0, err
		}
	}

	var keys []models.TranslationKey
	if err := s.DB.Where("app_id = ?", appID).Find(&keys).Error; err != nil {
		return 0, err
	}

	copied := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, key := range keys {
			var source models.Translation
			err := tx.Where("key_id = ? AND app_locale_id = ?", key.ID, sourceLocaleID).First(&source).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if source.Value == "" {
				continue
			}
			if _, err := s.upsertDirect(tx, key.ID, targetLocaleID, source.Value, actor.ID); err != nil {
				return err
			}
			copied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return copied, nil
}

// LocaleValue is one locale's current value for a key.
type LocaleValue struct {
	AppLocaleID    uint    `json:"app_locale_id"`
	LocaleCode     string  `json:"locale_code"`
	RequiresReview bool    `json:"requires_review"`
	Value          *string `json:"value"`
	UpdatedBy      *uint   `json:"updated_by,omitempty"`
}

// KeyMatrix returns the key's value (or absence) for every app locale.
func (s *TranslationService) KeyMatrix(keyID uint, actor *models.User) ([]LocaleValue, error) {
	key, err := s.findKey(keyID)
	if err != nil {
		return nil, err
	}
	if _, err := CheckAppAccess(s.DB, key.AppID, actor); err != nil {
		return nil, err
	}

	var appLocales []models.AppLocale
	if err := s.DB.Preload("CatalogLocale").Where("app_id = ?", key.AppID).Order("id").Find(&appLocales).Error; err != nil {
		return nil, err
	}

	var translations []models.Translation
	if err := s.DB.Where("key_id = ?", keyID).Find(&translations).Error; err != nil {
		return nil, err
	}
	byLocale := make(map[uint]models.Translation, len(translations))
	for _, t := range translations {
		byLocale[t.AppLocaleID] = t
	}

	matrix := make([]LocaleValue, 0, len(appLocales))
	for _, al := range appLocales {
		entry := LocaleValue{
			AppLocaleID:    al.ID,
			LocaleCode:     al.CatalogLocale.Code,
			RequiresReview: al.RequiresReview,
		}
		if t, ok := byLocale[al.ID]; ok {
			value := t.Value
			updatedBy := t.UpdatedBy
			entry.Value = &value
			entry.UpdatedBy = &updatedBy
		}
		matrix = append(matrix, entry)
	}
	return matrix, nil
}

func (s *TranslationService) findKey(keyID uint) (*models.TranslationKey, error) {
	var key models.TranslationKey
	if err := s.DB.First(&key, keyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_errors.ErrResourceNotFound
		}
		return nil, err
	}
	return &key, nil
}
