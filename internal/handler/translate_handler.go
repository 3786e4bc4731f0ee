package handler

import (
	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/middleware"
	"lingo-hub/internal/response"
	"lingo-hub/internal/services"

	"github.com/gin-gonic/gin"
)

// TranslateKeyRequest defines the payload for a single-key translation run.
type TranslateKeyRequest struct {
	SourceLocaleID  uint   `json:"source_locale_id" binding:"required"`
	TargetLocaleIDs []uint `json:"target_locale_ids" binding:"required"`
	Instructions    string `json:"instructions"`
}

// TranslateKey runs the AI translator for one key into several target
// locales with a single batched model call.
func (s *Server) TranslateKey(c *gin.Context) {
	keyID, ok := parseUintParam(c, "keyId")
	if !ok {
		return
	}

	var req TranslateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}
	if len(req.TargetLocaleIDs) == 0 {
		response.ErrorI18nFromAPIError(c, app_errors.ErrValidation, "validation.targets_required")
		return
	}

	outcomes, err := s.AutoTranslateService.TranslateKey(c.Request.Context(), keyID, req.SourceLocaleID, req.TargetLocaleIDs, req.Instructions, middleware.GetCurrentUser(c))
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "translate.completed", outcomes)
}

// TranslateBulkRequest defines the payload for a bulk translation run.
type TranslateBulkRequest struct {
	SourceLocaleID  uint     `json:"source_locale_id" binding:"required"`
	TargetLocaleIDs []uint   `json:"target_locale_ids" binding:"required"`
	Policy          string   `json:"policy"`
	Instructions    string   `json:"instructions"`
	KeyNames        []string `json:"key_names"`
}

// TranslateBulk runs the AI translator across an app's keys. Each
// (key, target) pair is translated independently; failures are reported
// per pair, never propagated.
func (s *Server) TranslateBulk(c *gin.Context) {
	app, ok := s.appFromParam(c)
	if !ok {
		return
	}

	var req TranslateBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}
	if len(req.TargetLocaleIDs) == 0 {
		response.ErrorI18nFromAPIError(c, app_errors.ErrValidation, "validation.targets_required")
		return
	}
	policy := req.Policy
	if policy == "" {
		policy = services.PolicyTranslateAll
	}
	if !services.ValidPolicy(policy) {
		response.ErrorI18nFromAPIError(c, app_errors.ErrValidation, "validation.invalid_policy")
		return
	}

	outcomes, err := s.AutoTranslateService.TranslateBulk(c.Request.Context(), services.BulkRequest{
		AppID:           app.ID,
		SourceLocaleID:  req.SourceLocaleID,
		TargetLocaleIDs: req.TargetLocaleIDs,
		Policy:          policy,
		Instructions:    req.Instructions,
		KeyNames:        req.KeyNames,
	}, middleware.GetCurrentUser(c))
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "translate.completed", outcomes)
}
