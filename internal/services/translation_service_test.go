package services

import (
	"testing"

	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTranslationService(f *fixture) *TranslationService {
	return NewTranslationService(f.DB, NewReviewService(f.DB))
}

// TestUpsertCreatesThenPatches verifies the one-row-per-pair invariant.
func TestUpsertCreatesThenPatches(t *testing.T) {
	f := setupFixture(t)
	translations := newTranslationService(f)

	first, err := translations.Upsert(f.Greeting.ID, f.EN.ID, "Hello", &f.Requester)
	require.NoError(t, err)
	require.NotNil(t, first.TranslationID)

	second, err := translations.Upsert(f.Greeting.ID, f.EN.ID, "Hi there", &f.Reviewer)
	require.NoError(t, err)
	require.NotNil(t, second.TranslationID)
	assert.Equal(t, *first.TranslationID, *second.TranslationID)

	var count int64
	require.NoError(t, f.DB.Model(&models.Translation{}).
		Where("key_id = ? AND app_locale_id = ?", f.Greeting.ID, f.EN.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	tr := f.translationFor(t, f.Greeting.ID, f.EN.ID)
	assert.Equal(t, "Hi there", tr.Value)
	assert.Equal(t, f.Reviewer.ID, tr.UpdatedBy)
}

// TestUpsertUnknownKey verifies the not-found mapping.
func TestUpsertUnknownKey(t *testing.T) {
	f := setupFixture(t)
	translations := newTranslationService(f)

	_, err := translations.Upsert(99999, f.EN.ID, "Hello", &f.Requester)
	assert.Equal(t, app_errors.ErrResourceNotFound, err)
}

// TestUpsertRequiresOrgAccess verifies cross-tenant writes are rejected.
func TestUpsertRequiresOrgAccess(t *testing.T) {
	f := setupFixture(t)
	translations := newTranslationService(f)

	_, err := translations.Upsert(f.Greeting.ID, f.EN.ID, "Hello", &f.Outsider)
	assert.Equal(t, app_errors.ErrForbidden, err)
}

// TestCopyLocale verifies the copied count and that keys without a source
// value are skipped silently.
func TestCopyLocale(t *testing.T) {
	f := setupFixture(t)
	translations := newTranslationService(f)

	f.seedTranslation(t, f.Greeting.ID, f.EN.ID, "Hello", f.Requester.ID)
	f.seedTranslation(t, f.Farewell.ID, f.EN.ID, "Goodbye", f.Requester.ID)
	noValue := models.TranslationKey{AppID: f.App.ID, Name: "home.empty"}
	require.NoError(t, f.DB.Create(&noValue).Error)

	copied, err := translations.CopyLocale(f.App.ID, f.EN.ID, f.DE.ID, &f.Reviewer)
	require.NoError(t, err)
	assert.Equal(t, 2, copied)

	assert.Equal(t, "Hello", f.translationFor(t, f.Greeting.ID, f.DE.ID).Value)
	assert.Equal(t, "Goodbye", f.translationFor(t, f.Farewell.ID, f.DE.ID).Value)
	assert.Nil(t, f.translationFor(t, noValue.ID, f.DE.ID))
}

// TestCopyLocaleBypassesGate verifies copying into a review-gated locale
// writes directly without creating reviews.
func TestCopyLocaleBypassesGate(t *testing.T) {
	f := setupFixture(t)
	translations := newTranslationService(f)

	f.seedTranslation(t, f.Greeting.ID, f.EN.ID, "Hello", f.Requester.ID)

	copied, err := translations.CopyLocale(f.App.ID, f.EN.ID, f.FR.ID, &f.Reviewer)
	require.NoError(t, err)
	assert.Equal(t, 1, copied)

	assert.Equal(t, "Hello", f.translationFor(t, f.Greeting.ID, f.FR.ID).Value)
	var count int64
	require.NoError(t, f.DB.Model(&models.TranslationReview{}).Count(&count).Error)
	assert.Zero(t, count)
}

// TestCopyLocaleValidation covers the same-locale and unknown-locale cases.
func TestCopyLocaleValidation(t *testing.T) {
	f := setupFixture(t)
	translations := newTranslationService(f)

	_, err := translations.CopyLocale(f.App.ID, f.EN.ID, f.EN.ID, &f.Requester)
	require.Error(t, err)
	apiErr, ok := err.(*app_errors.APIError)
	require.True(t, ok)
	assert.Equal(t, app_errors.ErrValidation.Code, apiErr.Code)

	_, err = translations.CopyLocale(f.App.ID, f.EN.ID, 99999, &f.Requester)
	assert.Equal(t, app_errors.ErrResourceNotFound, err)
}

// TestKeyMatrix verifies the per-locale matrix, including absent values.
func TestKeyMatrix(t *testing.T) {
	f := setupFixture(t)
	translations := newTranslationService(f)

	f.seedTranslation(t, f.Greeting.ID, f.EN.ID, "Hello", f.Requester.ID)

	matrix, err := translations.KeyMatrix(f.Greeting.ID, &f.Requester)
	require.NoError(t, err)
	require.Len(t, matrix, 3)

	byCode := make(map[string]LocaleValue, len(matrix))
	for _, entry := range matrix {
		byCode[entry.LocaleCode] = entry
	}

	require.NotNil(t, byCode["en"].Value)
	assert.Equal(t, "Hello", *byCode["en"].Value)
	assert.Nil(t, byCode["fr"].Value)
	assert.True(t, byCode["fr"].RequiresReview)
	assert.False(t, byCode["de"].RequiresReview)
}
