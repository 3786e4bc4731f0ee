package handler

import (
	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/response"

	"github.com/gin-gonic/gin"
)

// GetTaskStatus returns the state of the global long-running task slot.
func (s *Server) GetTaskStatus(c *gin.Context) {
	status, err := s.TaskService.GetTaskStatus()
	if err != nil {
		response.ErrorI18nFromAPIError(c, app_errors.ErrInternalServer, "task.get_status_failed")
		return
	}
	response.Success(c, status)
}
