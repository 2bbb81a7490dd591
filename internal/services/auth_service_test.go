package services

import (
	"context"
	"net/http"
	"testing"

	"shebeka_backend/internal/models"
	"shebeka_backend/internal/services/dto"
	"shebeka_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, &dto.RegisterRequest{
		Name:     "Ann Applier",
		Email:    "  Ann@Example.com ",
		Password: "secret123",
		Role:     "APPLIER",
	})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, "APPLIER", user.Role)

	var stored models.User
	require.NoError(t, env.db.First(&stored, "id = ?", user.ID).Error)
	assert.NotEqual(t, "secret123", stored.PasswordHash)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.auth.Register(ctx, &dto.RegisterRequest{
			Name: "Other", Email: "ann@example.com", Password: "secret123", Role: "RECRUITER",
		})
		requireAppError(t, err, http.StatusConflict)
	})

	t.Run("admin cannot self-register", func(t *testing.T) {
		_, err := env.auth.Register(ctx, &dto.RegisterRequest{
			Name: "Root", Email: "root@example.com", Password: "secret123", Role: "ADMIN",
		})
		requireAppError(t, err, http.StatusBadRequest)
	})

	t.Run("login", func(t *testing.T) {
		resp, err := env.auth.Login(ctx, &dto.LoginRequest{Email: "ANN@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, "Login successful", resp.Message)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, user.ID, resp.User.ID)

		resolved, err := env.auth.ResolveToken(ctx, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, resolved.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.auth.Login(ctx, &dto.LoginRequest{Email: "ann@example.com", Password: "wrong-pass"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.auth.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestResolveToken_DeletedUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, _, err := env.tokens.GenerateToken("00000000-0000-0000-0000-000000000000", models.UserRoleApplier)
	require.NoError(t, err)

	_, err = env.auth.ResolveToken(ctx, token)
	requireAppError(t, err, http.StatusUnauthorized)

	_, err = env.auth.ResolveToken(ctx, "garbage")
	requireAppError(t, err, http.StatusUnauthorized)
}
