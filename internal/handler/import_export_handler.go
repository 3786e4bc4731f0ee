package handler

import (
	"fmt"
	"io"
	"net/http"

	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/middleware"
	"lingo-hub/internal/response"

	"github.com/gin-gonic/gin"
)

const maxImportBodyBytes = 16 << 20

// ExportLocale streams one locale's translations as a nested JSON document.
func (s *Server) ExportLocale(c *gin.Context) {
	app, ok := s.appFromParam(c)
	if !ok {
		return
	}
	localeID, ok := parseUintParam(c, "localeId")
	if !ok {
		return
	}

	doc, localeCode, err := s.ImportExportService.Export(app.ID, localeID, middleware.GetCurrentUser(c))
	if HandleServiceError(c, err) {
		return
	}

	filename := fmt.Sprintf("%s_%s.json", app.Name, localeCode)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
}

// ImportLocale ingests a nested JSON document into one locale. Values for
// review-gated locales become pending reviews instead of direct writes.
func (s *Server) ImportLocale(c *gin.Context) {
	app, ok := s.appFromParam(c)
	if !ok {
		return
	}
	localeID, ok := parseUintParam(c, "localeId")
	if !ok {
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBodyBytes))
	if err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrBadRequest, "failed to read request body"))
		return
	}

	result, err := s.ImportExportService.Import(app.ID, localeID, payload, middleware.GetCurrentUser(c))
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "import.completed", result)
}
