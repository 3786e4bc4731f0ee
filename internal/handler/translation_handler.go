package handler

import (
	"strings"

	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/middleware"
	"lingo-hub/internal/response"

	"github.com/gin-gonic/gin"
)

// GetKeyMatrix returns a key's value for every app locale.
func (s *Server) GetKeyMatrix(c *gin.Context) {
	keyID, ok := parseUintParam(c, "keyId")
	if !ok {
		return
	}
	matrix, err := s.TranslationService.KeyMatrix(keyID, middleware.GetCurrentUser(c))
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, matrix)
}

// TranslationUpsertRequest defines the payload for writing a value.
type TranslationUpsertRequest struct {
	AppLocaleID uint   `json:"app_locale_id" binding:"required"`
	Value       string `json:"value"`
}

// UpsertTranslation writes a value through the review gate. The response
// message distinguishes a direct save from a deferred review.
func (s *Server) UpsertTranslation(c *gin.Context) {
	keyID, ok := parseUintParam(c, "keyId")
	if !ok {
		return
	}

	var req TranslationUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}
	if strings.TrimSpace(req.Value) == "" {
		response.ErrorI18nFromAPIError(c, app_errors.ErrValidation, "validation.value_required")
		return
	}

	result, err := s.TranslationService.Upsert(keyID, req.AppLocaleID, req.Value, middleware.GetCurrentUser(c))
	if HandleServiceError(c, err) {
		return
	}

	if result.Deferred {
		response.SuccessI18n(c, "translation.deferred", result)
		return
	}
	response.SuccessI18n(c, "translation.saved", result)
}
