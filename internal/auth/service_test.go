package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/hospital-portal/internal/audit"
	"github.com/medicore/hospital-portal/internal/store"
)

func newAuthService(t *testing.T) Service {
	t.Helper()
	return NewService(store.NewMemory(), audit.NewNop(), ServiceConfig{
		JWTSecret:   "test-secret",
		TokenExpiry: time.Hour,
	})
}

func TestRegister(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Admin@Hospital.test", "Admin", "supersecret", []string{RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "admin@hospital.test", user.Email)
	assert.Equal(t, []string{RoleAdmin}, user.Roles)
	assert.Equal(t, "active", user.Status)
	assert.NotEqual(t, "supersecret", user.PasswordHash)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "admin@hospital.test", "Other", "supersecret", nil)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Register(ctx, "staff@hospital.test", "Staff", "short", nil)
		assert.ErrorIs(t, err, ErrInvalidUserData)
	})

	t.Run("default role is staff", func(t *testing.T) {
		user, err := svc.Register(ctx, "staff@hospital.test", "Staff", "longenough", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{RoleStaff}, user.Roles)
	})
}

func TestLoginAndValidateToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "admin@hospital.test", "Admin", "supersecret", []string{RoleAdmin})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, "admin@hospital.test", "supersecret")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, registered.ID, resp.User.ID)

	claims, err := svc.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "admin@hospital.test", claims.Email)
	assert.Contains(t, claims.Roles, RoleAdmin)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "admin@hospital.test", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@hospital.test", "supersecret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken(ctx, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestExpiredToken(t *testing.T) {
	svc := NewService(store.NewMemory(), audit.NewNop(), ServiceConfig{
		JWTSecret:   "test-secret",
		TokenExpiry: -time.Minute,
	})
	ctx := context.Background()

	_, err := svc.Register(ctx, "admin@hospital.test", "Admin", "supersecret", nil)
	require.NoError(t, err)
	resp, err := svc.Login(ctx, "admin@hospital.test", "supersecret")
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestDeactivatedUserCannotLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "staff@hospital.test", "Staff", "supersecret", nil)
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateUser(ctx, user.ID))

	_, err = svc.Login(ctx, "staff@hospital.test", "supersecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "staff@hospital.test", "Staff", "oldpassword", nil)
	require.NoError(t, err)

	t.Run("wrong old password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, user.ID, "nope", "newpassword")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("short new password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, user.ID, "oldpassword", "tiny")
		assert.ErrorIs(t, err, ErrInvalidUserData)
	})

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "oldpassword", "newpassword"))

	_, err = svc.Login(ctx, "staff@hospital.test", "oldpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "staff@hospital.test", "newpassword")
	assert.NoError(t, err)
}

func TestSessionRoles(t *testing.T) {
	admin := Session{UserID: "1", Roles: []string{RoleAdmin, RoleStaff}}
	staff := Session{UserID: "2", Roles: []string{RoleStaff}}

	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.HasRole(RoleStaff))
	assert.False(t, staff.IsAdmin())
	assert.False(t, Session{}.IsAdmin())
}
