package handler

import (
	"strconv"

	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/middleware"
	"lingo-hub/internal/models"
	"lingo-hub/internal/response"
	"lingo-hub/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AppCreateRequest defines the payload for creating an app.
type AppCreateRequest struct {
	Name            string         `json:"name" binding:"required"`
	Description     string         `json:"description"`
	PublishSettings map[string]any `json:"publish_settings"`
}

// CreateApp handles the creation of a new app in the caller's organization.
func (s *Server) CreateApp(c *gin.Context) {
	var req AppCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	user := middleware.GetCurrentUser(c)
	app := models.App{
		OrganizationID:  user.OrganizationID,
		Name:            req.Name,
		Description:     req.Description,
		PublishSettings: datatypes.JSONMap(req.PublishSettings),
	}
	if err := s.DB.Create(&app).Error; err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}
	response.SuccessI18n(c, "app.created", app)
}

// ListApps lists the caller's organization apps.
func (s *Server) ListApps(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	var apps []models.App
	if err := s.DB.Where("organization_id = ?", user.OrganizationID).Order("name").Find(&apps).Error; err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}
	response.Success(c, apps)
}

// GetApp returns a single app.
func (s *Server) GetApp(c *gin.Context) {
	app, ok := s.appFromParam(c)
	if !ok {
		return
	}
	response.Success(c, app)
}

// AppUpdateRequest defines the payload for updating an app. Pointer fields
// distinguish omitted from zero values.
type AppUpdateRequest struct {
	Name            *string        `json:"name,omitempty"`
	Description     *string        `json:"description,omitempty"`
	PublishSettings map[string]any `json:"publish_settings,omitempty"`
}

// UpdateApp handles partial updates of an app.
func (s *Server) UpdateApp(c *gin.Context) {
	app, ok := s.appFromParam(c)
	if !ok {
		return
	}

	var req AppUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.PublishSettings != nil {
		updates["publish_settings"] = datatypes.JSONMap(req.PublishSettings)
	}
	if len(updates) > 0 {
		if err := s.DB.Model(app).Updates(updates).Error; err != nil {
			response.Error(c, app_errors.ParseDBError(err))
			return
		}
	}
	response.SuccessI18n(c, "app.updated", app)
}

// DeleteApp removes an app and all of its dependent rows.
func (s *Server) DeleteApp(c *gin.Context) {
	app, ok := s.appFromParam(c)
	if !ok {
		return
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		keyIDs := tx.Model(&models.TranslationKey{}).Select("id").Where("app_id = ?", app.ID)
		if err := tx.Where("key_id IN (?)", keyIDs).Delete(&models.TranslationReview{}).Error; err != nil {
			return err
		}
		if err := tx.Where("key_id IN (?)", keyIDs).Delete(&models.Translation{}).Error; err != nil {
			return err
		}
		for _, model := range []any{&models.TranslationKey{}, &models.AppLocale{}, &models.ScrapeJob{}} {
			if err := tx.Where("app_id = ?", app.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(app).Error
	})
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}
	response.SuccessI18n(c, "app.deleted", nil)
}

// appFromParam resolves the :id path param to an app the caller may access.
// Writes the error response itself when resolution fails.
func (s *Server) appFromParam(c *gin.Context) (*models.App, bool) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return nil, false
	}
	app, err := services.CheckAppAccess(s.DB, id, middleware.GetCurrentUser(c))
	if HandleServiceError(c, err) {
		return nil, false
	}
	return app, true
}

// parseUintParam parses a numeric path parameter, responding with a
// validation error on failure.
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || value == 0 {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrValidation, "invalid "+name+" parameter"))
		return 0, false
	}
	return uint(value), true
}
