package services

import (
	"errors"
	"time"

	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/models"

	"gorm.io/gorm"
)

// ReviewService owns the review gate and the pending/approved/rejected/
// cancelled lifecycle for proposed translation changes.
type ReviewService struct {
	DB *gorm.DB
}

// NewReviewService creates a new ReviewService.
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{DB: db}
}

// GateResult reports whether a write was deferred into the review queue.
type GateResult struct {
	Deferred bool
	Review   *models.TranslationReview
}

// GateWrite decides whether a proposed change to (key, locale) must be
// deferred. A missing app-locale association fails open to a direct write.
// When the locale requires review, exactly one pending review row is
// created, snapshotting the current value at request time.
func (s *ReviewService) GateWrite(tx *gorm.DB, key *models.TranslationKey, appLocaleID uint, proposedValue string, requestedBy uint) (*GateResult, error) {
	var appLocale models.AppLocale
	err := tx.Where("id = ? AND app_id = ?", appLocaleID, key.AppID).First(&appLocale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &GateResult{Deferred: false}, nil
	}
	if err != nil {
		return nil, err
	}
	if !appLocale.RequiresReview {
		return &GateResult{Deferred: false}, nil
	}

	review, err := s.createPendingReview(tx, key.ID, appLocaleID, proposedValue, requestedBy)
	if err != nil {
		return nil, err
	}
	return &GateResult{Deferred: true, Review: review}, nil
}

// SubmitForReview creates a pending review for (key, locale) regardless of
// the locale's review flag. Used by the explicit submit endpoint.
func (s *ReviewService) SubmitForReview(keyID, appLocaleID uint, proposedValue string, actor *models.User) (*models.TranslationReview, error) {
	key, err := s.findKey(keyID)
	if err != nil {
		return nil, err
	}
	if _, err := CheckAppAccess(s.DB, key.AppID, actor); err != nil {
		return nil, err
	}
	return s.createPendingReview(s.DB, keyID, appLocaleID, proposedValue, actor.ID)
}

// createPendingReview inserts one pending review with a snapshot of the
// current translation value (nil when the key has no value for the locale).
func (s *ReviewService) createPendingReview(tx *gorm.DB, keyID, appLocaleID uint, proposedValue string, requestedBy uint) (*models.TranslationReview, error) {
	var current models.Translation
	var translationID *uint
	var currentValue *string
	err := tx.Where("key_id = ? AND app_locale_id = ?", keyID, appLocaleID).First(&current).Error
	if err == nil {
		translationID = &current.ID
		value := current.Value
		currentValue = &value
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := models.TranslationReview{
		KeyID:         keyID,
		AppLocaleID:   appLocaleID,
		TranslationID: translationID,
		Status:        models.ReviewStatusPending,
		ProposedValue: proposedValue,
		CurrentValue:  currentValue,
		RequestedBy:   requestedBy,
		RequestedAt:   time.Now(),
	}
	if err := tx.Create(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// Approve applies a pending review's proposed value to the translation and
// marks the review approved. The status flip is a single conditional update
// inside one transaction, so two concurrent approvals cannot both apply:
// the loser sees zero rows affected and fails with "not pending".
func (s *ReviewService) Approve(reviewID uint, actor *models.User) (*models.TranslationReview, error) {
	review, err := s.loadForDecision(reviewID, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		claimed := tx.Model(&models.TranslationReview{}).
			Where("id = ? AND status = ?", reviewID, models.ReviewStatusPending).
			Updates(map[string]any{
				"status":      models.ReviewStatusApproved,
				"reviewed_by": actor.ID,
				"reviewed_at": now,
			})
		if claimed.Error != nil {
			return claimed.Error
		}
		if claimed.RowsAffected == 0 {
			return app_errors.ErrReviewNotPending
		}

		// Provenance transfers to the requester, not the approver.
		var translation models.Translation
		findErr := tx.Where("key_id = ? AND app_locale_id = ?", review.KeyID, review.AppLocaleID).First(&translation).Error
		if findErr == nil {
			return tx.Model(&translation).Updates(map[string]any{
				"value":      review.ProposedValue,
				"updated_by": review.RequestedBy,
				"updated_at": now,
			}).Error
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}
		return tx.Create(&models.Translation{
			KeyID:       review.KeyID,
			AppLocaleID: review.AppLocaleID,
			Value:       review.ProposedValue,
			UpdatedBy:   review.RequestedBy,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	review.Status = models.ReviewStatusApproved
	review.ReviewedBy = &actor.ID
	review.ReviewedAt = &now
	return review, nil
}

// Reject marks a pending review rejected with an optional comment. The
// translation row is untouched.
func (s *ReviewService) Reject(reviewID uint, actor *models.User, comment string) (*models.TranslationReview, error) {
	review, err := s.loadForDecision(reviewID, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := s.DB.Model(&models.TranslationReview{}).
		Where("id = ? AND status = ?", reviewID, models.ReviewStatusPending).
		Updates(map[string]any{
			"status":      models.ReviewStatusRejected,
			"reviewed_by": actor.ID,
			"reviewed_at": now,
			"comment":     comment,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, app_errors.ErrReviewNotPending
	}

	review.Status = models.ReviewStatusRejected
	review.ReviewedBy = &actor.ID
	review.ReviewedAt = &now
	review.Comment = comment
	return review, nil
}

// Cancel lets the original requester withdraw a pending review.
func (s *ReviewService) Cancel(reviewID uint, actor *models.User) (*models.TranslationReview, error) {
	var review models.TranslationReview
	if err := s.DB.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_errors.ErrResourceNotFound
		}
		return nil, err
	}
	if review.RequestedBy != actor.ID {
		return nil, app_errors.ErrNotRequester
	}

	now := time.Now()
	result := s.DB.Model(&models.TranslationReview{}).
		Where("id = ? AND status = ?", reviewID, models.ReviewStatusPending).
		Update("status", models.ReviewStatusCancelled)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, app_errors.ErrReviewNotPending
	}

	review.Status = models.ReviewStatusCancelled
	review.ReviewedAt = &now
	return &review, nil
}

// loadForDecision loads a review and checks the approve/reject
// preconditions: it exists, is pending, the actor is not the requester, and
// the actor has access to the review's app.
func (s *ReviewService) loadForDecision(reviewID uint, actor *models.User) (*models.TranslationReview, error) {
	var review models.TranslationReview
	if err := s.DB.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_errors.ErrResourceNotFound
		}
		return nil, err
	}
	if review.Status != models.ReviewStatusPending {
		return nil, app_errors.ErrReviewNotPending
	}
	if review.RequestedBy == actor.ID {
		return nil, app_errors.ErrSelfReview
	}

	key, err := s.findKey(review.KeyID)
	if err != nil {
		return nil, err
	}
	if _, err := CheckAppAccess(s.DB, key.AppID, actor); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) findKey(keyID uint) (*models.TranslationKey, error) {
	var key models.TranslationKey
	if err := s.DB.First(&key, keyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_errors.ErrResourceNotFound
		}
		return nil, err
	}
	return &key, nil
}

// ReviewRecord is a review annotated with display identities.
type ReviewRecord struct {
	models.TranslationReview
	RequesterName string `json:"requester_name"`
	ReviewerName  string `json:"reviewer_name,omitempty"`
}

// History returns every review for (key, locale), newest first.
func (s *ReviewService) History(keyID, appLocaleID uint) ([]ReviewRecord, error) {
	var reviews []models.TranslationReview
	err := s.DB.Where("key_id = ? AND app_locale_id = ?", keyID, appLocaleID).
		Order("requested_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return s.annotate(reviews)
}

// PendingReview is a pending review enriched with reviewer context: the
// owning key, the locale code, and the key's values across all app locales.
type PendingReview struct {
	ReviewRecord
	KeyName     string            `json:"key_name"`
	LocaleCode  string            `json:"locale_code"`
	OtherValues map[string]string `json:"other_values"`
}

// ListPending returns all pending reviews for an app, optionally filtered
// to one locale, oldest first.
func (s *ReviewService) ListPending(appID uint, appLocaleID *uint) ([]PendingReview, error) {
	query := s.DB.Model(&models.TranslationReview{}).
		Joins("JOIN translation_keys ON translation_keys.id = translation_reviews.key_id").
		Where("translation_keys.app_id = ? AND translation_reviews.status = ?", appID, models.ReviewStatusPending).
		Order("translation_reviews.requested_at ASC")
	if appLocaleID != nil {
		query = query.Where("translation_reviews.app_locale_id = ?", *appLocaleID)
	}

	var reviews []models.TranslationReview
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}

	annotated, err := s.annotate(reviews)
	if err != nil {
		return nil, err
	}

	localeCodes, err := s.localeCodesByID(appID)
	if err != nil {
		return nil, err
	}

	result := make([]PendingReview, 0, len(annotated))
	for _, record := range annotated {
		var key models.TranslationKey
		if err := s.DB.First(&key, record.KeyID).Error; err != nil {
			return nil, err
		}

		var siblings []models.Translation
		if err := s.DB.Where("key_id = ?", record.KeyID).Find(&siblings).Error; err != nil {
			return nil, err
		}
		otherValues := make(map[string]string, len(siblings))
		for _, t := range siblings {
			if code, ok := localeCodes[t.AppLocaleID]; ok {
				otherValues[code] = t.Value
			}
		}

		result = append(result, PendingReview{
			ReviewRecord: record,
			KeyName:      key.Name,
			LocaleCode:   localeCodes[record.AppLocaleID],
			OtherValues:  otherValues,
		})
	}
	return result, nil
}

// annotate resolves requester/reviewer display names in one user lookup.
func (s *ReviewService) annotate(reviews []models.TranslationReview) ([]ReviewRecord, error) {
	userIDs := make(map[uint]struct{})
	for _, r := range reviews {
		userIDs[r.RequestedBy] = struct{}{}
		if r.ReviewedBy != nil {
			userIDs[*r.ReviewedBy] = struct{}{}
		}
	}

	names := make(map[uint]string, len(userIDs))
	if len(userIDs) > 0 {
		ids := make([]uint, 0, len(userIDs))
		for id := range userIDs {
			ids = append(ids, id)
		}
		var users []models.User
		if err := s.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			names[u.ID] = u.DisplayName
		}
	}

	records := make([]ReviewRecord, 0, len(reviews))
	for _, r := range reviews {
		record := ReviewRecord{TranslationReview: r, RequesterName: names[r.RequestedBy]}
		if r.ReviewedBy != nil {
			record.ReviewerName = names[*r.ReviewedBy]
		}
		records = append(records, record)
	}
	return records, nil
}

// localeCodesByID maps app-locale IDs to their catalog locale codes.
func (s *ReviewService) localeCodesByID(appID uint) (map[uint]string, error) {
	var appLocales []models.AppLocale
	if err := s.DB.Preload("CatalogLocale").Where("app_id = ?", appID).Find(&appLocales).Error; err != nil {
		return nil, err
	}
	codes := make(map[uint]string, len(appLocales))
	for _, al := range appLocales {
		codes[al.ID] = al.CatalogLocale.Code
	}
	return codes, nil
}
