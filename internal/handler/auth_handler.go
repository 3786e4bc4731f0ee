package handler

import (
	"strings"

	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/middleware"
	"lingo-hub/internal/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest defines the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session token and the account it belongs to.
type LoginResponse struct {
	Token       string `json:"token"`
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// Login handles credential verification and session issuance.
func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	token, user, err := s.AuthService.Login(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if apiErr, ok := err.(*app_errors.APIError); ok && apiErr == app_errors.ErrUnauthorized {
			response.ErrorI18nFromAPIError(c, apiErr, "auth.invalid_credential")
			return
		}
		HandleServiceError(c, err)
		return
	}

	response.SuccessI18n(c, "auth.login_success", LoginResponse{
		Token:       token,
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	})
}

// Logout invalidates the caller's session token.
func (s *Server) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	const bearerPrefix = "Bearer "
	if strings.HasPrefix(authHeader, bearerPrefix) {
		if err := s.AuthService.Logout(authHeader[len(bearerPrefix):]); err != nil {
			HandleServiceError(c, err)
			return
		}
	}
	response.Success(c, nil)
}

// CurrentUser returns the authenticated account.
func (s *Server) CurrentUser(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		response.Error(c, app_errors.ErrUnauthorized)
		return
	}
	response.Success(c, user)
}
