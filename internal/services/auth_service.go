package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/models"
	"lingo-hub/internal/store"
	"lingo-hub/internal/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const sessionKeyPrefix = "session:"

// AuthService handles login, opaque session tokens, and app access checks.
type AuthService struct {
	DB         *gorm.DB
	Store      store.Store
	SessionTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *gorm.DB, s store.Store, configManager types.ConfigManager) *AuthService {
	authConfig := configManager.GetAuthConfig()
	return &AuthService{
		DB:         db,
		Store:      s,
		SessionTTL: time.Duration(authConfig.SessionTTLMinutes) * time.Minute,
	}
}

// EnsureBootstrapUser seeds an owner account (and its organization) when the
// users table is empty, so a fresh deployment is immediately usable.
func (s *AuthService) EnsureBootstrapUser(authConfig types.AuthConfig) error {
	var count int64
	if err := s.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	if authConfig.BootstrapPassword == "" {
		logrus.Warn("Users table is empty and BOOTSTRAP_PASSWORD is not set; no account seeded")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(authConfig.BootstrapPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		org := models.Organization{Name: "default"}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		user := models.User{
			OrganizationID: org.ID,
			Email:          authConfig.BootstrapEmail,
			DisplayName:    "Administrator",
			PasswordHash:   string(hash),
			Role:           models.RoleOwner,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		logrus.Infof("Seeded bootstrap owner account %s", user.Email)
		return nil
	})
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, app_errors.ErrUnauthorized
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, app_errors.ErrUnauthorized
	}

	token := uuid.NewString()
	payload, err := json.Marshal(user.ID)
	if err != nil {
		return "", nil, err
	}
	if err := s.Store.Set(sessionKeyPrefix+token, payload, s.SessionTTL); err != nil {
		return "", nil, fmt.Errorf("failed to store session: %w", err)
	}
	return token, &user, nil
}

// ResolveSession maps a session token back to its user.
func (s *AuthService) ResolveSession(token string) (*models.User, error) {
	data, err := s.Store.Get(sessionKeyPrefix + token)
	if err == store.ErrNotFound {
		return nil, app_errors.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	var userID uint
	if err := json.Unmarshal(data, &userID); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_errors.ErrUnauthorized
		}
		return nil, err
	}
	return &user, nil
}

// Logout invalidates a session token.
func (s *AuthService) Logout(token string) error {
	return s.Store.Delete(sessionKeyPrefix + token)
}

// CheckAppAccess verifies the user belongs to the app's organization.
// Returns the app on success.
func CheckAppAccess(db *gorm.DB, appID uint, user *models.User) (*models.App, error) {
	var app models.App
	if err := db.First(&app, appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_errors.ErrResourceNotFound
		}
		return nil, err
	}
	if app.OrganizationID != user.OrganizationID {
		return nil, app_errors.ErrForbidden
	}
	return &app, nil
}
