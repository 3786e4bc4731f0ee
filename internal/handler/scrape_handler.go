package handler

import (
	"net/url"
	"strings"

	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/middleware"
	"lingo-hub/internal/response"

	"github.com/gin-gonic/gin"
)

// ScrapeStartRequest defines the payload for starting a website import.
type ScrapeStartRequest struct {
	URL string `json:"url" binding:"required"`
}

// StartScrape launches a fire-and-forget website import job.
func (s *Server) StartScrape(c *gin.Context) {
	app, ok := s.appFromParam(c)
	if !ok {
		return
	}

	var req ScrapeStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}
	target := strings.TrimSpace(req.URL)
	parsed, err := url.Parse(target)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		response.ErrorI18nFromAPIError(c, app_errors.ErrValidation, "validation.url_required")
		return
	}

	job, err := s.ScrapeService.StartScrape(app.ID, target, middleware.GetCurrentUser(c))
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "scrape.started", job)
}

// GetScrapeJob returns the state of one scrape job for polling.
func (s *Server) GetScrapeJob(c *gin.Context) {
	jobID := c.Param("jobId")
	if jobID == "" {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrValidation, "invalid jobId parameter"))
		return
	}

	job, err := s.ScrapeService.GetJob(jobID, middleware.GetCurrentUser(c))
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, job)
}
