package handler

import (
	"errors"
	"strings"

	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/middleware"
	"lingo-hub/internal/models"
	"lingo-hub/internal/response"
	"lingo-hub/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// KeyCreateRequest defines the payload for creating a translation key.
type KeyCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateKey handles the creation of a new translation key.
func (s *Server) CreateKey(c *gin.Context) {
	app, ok := s.appFromParam(c)
	if !ok {
		return
	}

	var req KeyCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		response.ErrorI18nFromAPIError(c, app_errors.ErrValidation, "validation.key_id_required")
		return
	}

	key := models.TranslationKey{
		AppID:       app.ID,
		Name:        name,
		Description: req.Description,
	}
	if err := s.DB.Create(&key).Error; err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}
	response.SuccessI18n(c, "key.created", key)
}

// ListKeys lists an app's translation keys with pagination. An optional
// search parameter filters by name substring.
func (s *Server) ListKeys(c *gin.Context) {
	app, ok := s.appFromParam(c)
	if !ok {
		return
	}

	query := s.DB.Model(&models.TranslationKey{}).Where("app_id = ?", app.ID)
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	query = query.Order("name")

	var keys []models.TranslationKey
	result, err := response.Paginate(c, query, &keys)
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}
	response.Success(c, result)
}

// KeyUpdateRequest defines the payload for updating a key.
type KeyUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateKey handles partial updates of a translation key.
func (s *Server) UpdateKey(c *gin.Context) {
	key, ok := s.keyFromParam(c)
	if !ok {
		return
	}

	var req KeyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			response.ErrorI18nFromAPIError(c, app_errors.ErrValidation, "validation.key_id_required")
			return
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) > 0 {
		if err := s.DB.Model(key).Updates(updates).Error; err != nil {
			response.Error(c, app_errors.ParseDBError(err))
			return
		}
	}
	response.SuccessI18n(c, "key.updated", key)
}

// DeleteKey removes a key together with its translations and reviews.
func (s *Server) DeleteKey(c *gin.Context) {
	key, ok := s.keyFromParam(c)
	if !ok {
		return
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key_id = ?", key.ID).Delete(&models.TranslationReview{}).Error; err != nil {
			return err
		}
		if err := tx.Where("key_id = ?", key.ID).Delete(&models.Translation{}).Error; err != nil {
			return err
		}
		return tx.Delete(key).Error
	})
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}
	response.SuccessI18n(c, "key.deleted", nil)
}

// keyFromParam resolves the :keyId path param to a key the caller may access.
func (s *Server) keyFromParam(c *gin.Context) (*models.TranslationKey, bool) {
	keyID, ok := parseUintParam(c, "keyId")
	if !ok {
		return nil, false
	}

	var key models.TranslationKey
	err := s.DB.First(&key, keyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.Error(c, app_errors.ErrResourceNotFound)
		return nil, false
	}
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return nil, false
	}
	if _, err := services.CheckAppAccess(s.DB, key.AppID, middleware.GetCurrentUser(c)); HandleServiceError(c, err) {
		return nil, false
	}
	return &key, true
}
