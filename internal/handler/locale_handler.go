package handler

import (
	"errors"

	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/middleware"
	"lingo-hub/internal/models"
	"lingo-hub/internal/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListCatalogLocales returns the global locale catalog.
func (s *Server) ListCatalogLocales(c *gin.Context) {
	var locales []models.CatalogLocale
	if err := s.DB.Order("code").Find(&locales).Error; err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}
	response.Success(c, locales)
}

// ListAppLocales returns the locales configured for one app.
func (s *Server) ListAppLocales(c *gin.Context) {
	app, ok := s.appFromParam(c)
	if !ok {
		return
	}
	var locales []models.AppLocale
	if err := s.DB.Preload("CatalogLocale").Where("app_id = ?", app.ID).Order("id").Find(&locales).Error; err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}
	response.Success(c, locales)
}

// AppLocaleCreateRequest defines the payload for adding a locale to an app.
type AppLocaleCreateRequest struct {
	LocaleCode     string `json:"locale_code" binding:"required"`
	IsDefault      bool   `json:"is_default"`
	RequiresReview bool   `json:"requires_review"`
}

// AddAppLocale associates a catalog locale with an app.
func (s *Server) AddAppLocale(c *gin.Context) {
	app, ok := s.appFromParam(c)
	if !ok {
		return
	}

	var req AppLocaleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	var catalogLocale models.CatalogLocale
	err := s.DB.Where("code = ?", req.LocaleCode).First(&catalogLocale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.ErrorI18nFromAPIError(c, app_errors.ErrValidation, "validation.invalid_locale_code")
		return
	}
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}

	appLocale := models.AppLocale{
		AppID:           app.ID,
		CatalogLocaleID: catalogLocale.ID,
		IsDefault:       req.IsDefault,
		RequiresReview:  req.RequiresReview,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			// At most one default locale per app.
			if err := tx.Model(&models.AppLocale{}).Where("app_id = ?", app.ID).Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&appLocale).Error
	})
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}
	appLocale.CatalogLocale = catalogLocale
	response.SuccessI18n(c, "locale.added", appLocale)
}

// AppLocaleUpdateRequest defines the payload for updating locale settings.
type AppLocaleUpdateRequest struct {
	IsDefault      *bool `json:"is_default,omitempty"`
	RequiresReview *bool `json:"requires_review,omitempty"`
}

// UpdateAppLocale toggles per-locale settings, including the review gate.
func (s *Server) UpdateAppLocale(c *gin.Context) {
	app, appLocale, ok := s.appLocaleFromParams(c)
	if !ok {
		return
	}

	var req AppLocaleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{}
		if req.IsDefault != nil {
			if *req.IsDefault {
				if err := tx.Model(&models.AppLocale{}).Where("app_id = ?", app.ID).Update("is_default", false).Error; err != nil {
					return err
				}
			}
			updates["is_default"] = *req.IsDefault
		}
		if req.RequiresReview != nil {
			updates["requires_review"] = *req.RequiresReview
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(appLocale).Updates(updates).Error
	})
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}
	response.SuccessI18n(c, "locale.updated", appLocale)
}

// DeleteAppLocale removes a locale association and its translations.
// Pending reviews against the locale are cancelled implicitly by deletion.
func (s *Server) DeleteAppLocale(c *gin.Context) {
	_, appLocale, ok := s.appLocaleFromParams(c)
	if !ok {
		return
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("app_locale_id = ?", appLocale.ID).Delete(&models.TranslationReview{}).Error; err != nil {
			return err
		}
		if err := tx.Where("app_locale_id = ?", appLocale.ID).Delete(&models.Translation{}).Error; err != nil {
			return err
		}
		return tx.Delete(appLocale).Error
	})
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}
	response.SuccessI18n(c, "locale.removed", nil)
}

// CopyLocaleRequest defines the payload for duplicating locale values.
type CopyLocaleRequest struct {
	SourceLocaleID uint `json:"source_locale_id" binding:"required"`
	TargetLocaleID uint `json:"target_locale_id" binding:"required"`
}

// CopyLocale copies every non-empty value from one locale to another.
func (s *Server) CopyLocale(c *gin.Context) {
	app, ok := s.appFromParam(c)
	if !ok {
		return
	}

	var req CopyLocaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	copied, err := s.TranslationService.CopyLocale(app.ID, req.SourceLocaleID, req.TargetLocaleID, middleware.GetCurrentUser(c))
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "locale.copied", gin.H{"copied": copied}, map[string]any{"Count": copied})
}

// appLocaleFromParams resolves :id (app) and :localeId to an app locale the
// caller may access.
func (s *Server) appLocaleFromParams(c *gin.Context) (*models.App, *models.AppLocale, bool) {
	app, ok := s.appFromParam(c)
	if !ok {
		return nil, nil, false
	}
	localeID, ok := parseUintParam(c, "localeId")
	if !ok {
		return nil, nil, false
	}

	var appLocale models.AppLocale
	err := s.DB.Preload("CatalogLocale").Where("id = ? AND app_id = ?", localeID, app.ID).First(&appLocale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.Error(c, app_errors.ErrResourceNotFound)
		return nil, nil, false
	}
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return nil, nil, false
	}
	return app, &appLocale, true
}
