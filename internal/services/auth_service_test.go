package services

import (
	"testing"
	"time"

	app_errors "lingo-hub/internal/errors"
	"lingo-hub/internal/models"
	"lingo-hub/internal/store"
	"lingo-hub/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServiceForTest(t *testing.T) (*AuthService, *fixture) {
	t.Helper()
	f := setupFixture(t)
	svc := &AuthService{
		DB:         f.DB,
		Store:      store.NewMemoryStore(),
		SessionTTL: time.Hour,
	}
	return svc, f
}

// TestEnsureBootstrapUser tests first-run account seeding
func TestEnsureBootstrapUser(t *testing.T) {
	db := setupTestDB(t)
	svc := &AuthService{DB: db, Store: store.NewMemoryStore(), SessionTTL: time.Hour}

	authConfig := types.AuthConfig{
		BootstrapEmail:    "admin@example.com",
		BootstrapPassword: "super-secret-pw",
	}
	require.NoError(t, svc.EnsureBootstrapUser(authConfig))

	var user models.User
	require.NoError(t, db.Where("email = ?", "admin@example.com").First(&user).Error)
	assert.Equal(t, models.RoleOwner, user.Role)
	assert.NotEqual(t, "super-secret-pw", user.PasswordHash)

	var org models.Organization
	require.NoError(t, db.First(&org, user.OrganizationID).Error)
	assert.Equal(t, "default", org.Name)

	// Idempotent: a second run seeds nothing.
	require.NoError(t, svc.EnsureBootstrapUser(authConfig))
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Login works with the seeded credentials.
	token, logged, err := svc.Login("admin@example.com", "super-secret-pw")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)
}

// TestEnsureBootstrapUserSkipsPopulatedTable tests that existing users
// suppress seeding
func TestEnsureBootstrapUserSkipsPopulatedTable(t *testing.T) {
	svc, f := newAuthServiceForTest(t)

	require.NoError(t, svc.EnsureBootstrapUser(types.AuthConfig{
		BootstrapEmail:    "admin@example.com",
		BootstrapPassword: "super-secret-pw",
	}))

	var count int64
	require.NoError(t, f.DB.Model(&models.User{}).Where("email = ?", "admin@example.com").Count(&count).Error)
	assert.Zero(t, count)
}

// TestLoginInvalidCredentials tests the unauthorized paths
func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newAuthServiceForTest(t)

	_, _, err := svc.Login("nobody@acme.test", "whatever")
	assert.Equal(t, app_errors.ErrUnauthorized, err)

	// Fixture users carry an unusable hash, so any password fails.
	_, _, err = svc.Login("requester@acme.test", "wrong")
	assert.Equal(t, app_errors.ErrUnauthorized, err)
}

// TestSessionLifecycle tests resolve and logout
func TestSessionLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := &AuthService{DB: db, Store: store.NewMemoryStore(), SessionTTL: time.Hour}
	require.NoError(t, svc.EnsureBootstrapUser(types.AuthConfig{
		BootstrapEmail:    "admin@example.com",
		BootstrapPassword: "super-secret-pw",
	}))

	token, user, err := svc.Login("admin@example.com", "super-secret-pw")
	require.NoError(t, err)

	resolved, err := svc.ResolveSession(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	require.NoError(t, svc.Logout(token))
	_, err = svc.ResolveSession(token)
	assert.Equal(t, app_errors.ErrUnauthorized, err)

	_, err = svc.ResolveSession("not-a-token")
	assert.Equal(t, app_errors.ErrUnauthorized, err)
}

// TestCheckAppAccess tests tenant scoping
func TestCheckAppAccess(t *testing.T) {
	f := setupFixture(t)

	app, err := CheckAppAccess(f.DB, f.App.ID, &f.Requester)
	require.NoError(t, err)
	assert.Equal(t, f.App.ID, app.ID)

	_, err = CheckAppAccess(f.DB, f.App.ID, &f.Outsider)
	assert.Equal(t, app_errors.ErrForbidden, err)

	_, err = CheckAppAccess(f.DB, 99999, &f.Requester)
	assert.Equal(t, app_errors.ErrResourceNotFound, err)
}
