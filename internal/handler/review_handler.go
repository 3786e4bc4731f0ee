package handler

import (
	"strconv"
	"strings"

	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/middleware"
	"lingo-hub/internal/response"

	"github.com/gin-gonic/gin"
)

// ReviewSubmitRequest defines the payload for requesting a review.
type ReviewSubmitRequest struct {
	KeyID         uint   `json:"key_id" binding:"required"`
	AppLocaleID   uint   `json:"app_locale_id" binding:"required"`
	ProposedValue string `json:"proposed_value"`
}

// SubmitReview creates a pending review explicitly, regardless of the
// locale's gate flag.
func (s *Server) SubmitReview(c *gin.Context) {
	var req ReviewSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}
	if strings.TrimSpace(req.ProposedValue) == "" {
		response.ErrorI18nFromAPIError(c, app_errors.ErrValidation, "validation.value_required")
		return
	}

	review, err := s.ReviewService.SubmitForReview(req.KeyID, req.AppLocaleID, req.ProposedValue, middleware.GetCurrentUser(c))
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "review.submitted", review)
}

// ListPendingReviews returns an app's review queue, oldest first. An
// optional locale_id query parameter narrows the queue to one locale.
func (s *Server) ListPendingReviews(c *gin.Context) {
	app, ok := s.appFromParam(c)
	if !ok {
		return
	}

	var localeID *uint
	if raw := c.Query("locale_id"); raw != "" {
		parsed, ok := parseUintQuery(c, "locale_id")
		if !ok {
			return
		}
		localeID = &parsed
	}

	pending, err := s.ReviewService.ListPending(app.ID, localeID)
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, pending)
}

// ReviewHistory returns all reviews for one (key, locale) pair, newest
// first.
func (s *Server) ReviewHistory(c *gin.Context) {
	key, ok := s.keyFromParam(c)
	if !ok {
		return
	}
	localeID, ok := parseUintQuery(c, "locale_id")
	if !ok {
		return
	}

	history, err := s.ReviewService.History(key.ID, localeID)
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, history)
}

// ApproveReview approves a pending review and applies its value.
func (s *Server) ApproveReview(c *gin.Context) {
	reviewID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	review, err := s.ReviewService.Approve(reviewID, middleware.GetCurrentUser(c))
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "review.approved", review)
}

// ReviewRejectRequest defines the payload for rejecting a review.
type ReviewRejectRequest struct {
	Comment string `json:"comment"`
}

// RejectReview rejects a pending review without touching the translation.
func (s *Server) RejectReview(c *gin.Context) {
	reviewID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req ReviewRejectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
			return
		}
	}

	review, err := s.ReviewService.Reject(reviewID, middleware.GetCurrentUser(c), req.Comment)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "review.rejected", review)
}

// CancelReview lets the requester withdraw their own pending review.
func (s *Server) CancelReview(c *gin.Context) {
	reviewID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	review, err := s.ReviewService.Cancel(reviewID, middleware.GetCurrentUser(c))
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "review.cancelled", review)
}

// parseUintQuery parses a numeric query parameter, responding with a
// validation error on failure.
func parseUintQuery(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil || value == 0 {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrValidation, "invalid "+name+" parameter"))
		return 0, false
	}
	return uint(value), true
}
