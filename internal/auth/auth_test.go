package auth

import (
	"testing"
	"time"

	"shebeka_backend/internal/models"
	"shebeka_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("12345"))
	assert.NoError(t, ValidatePassword("123456"))
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, expiresAt, err := m.GenerateToken("user-1", models.UserRoleRecruiter)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.UserRoleRecruiter, claims.Role)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.GenerateToken("user-1", models.UserRoleApplier)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseToken(token)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeTokenExpired))
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("one", time.Hour).GenerateToken("user-1", models.UserRoleApplier)
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour).ParseToken(token)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidToken))
}

func TestTokenManager_Garbage(t *testing.T) {
	_, err := NewTokenManager("one", time.Hour).ParseToken("not-a-token")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidToken))
}

func TestAuthorize(t *testing.T) {
	recruiter := Identity{UserID: "r1", Role: models.UserRoleRecruiter}

	assert.NoError(t, Authorize(recruiter, models.UserRoleRecruiter, models.UserRoleAdmin))
	assert.ErrorIs(t, Authorize(recruiter, models.UserRoleApplier), apperrors.ErrInsufficientPermissions)
}

func TestAuthorizeOwner(t *testing.T) {
	owner := Identity{UserID: "u1", Role: models.UserRoleRecruiter}
	other := Identity{UserID: "u2", Role: models.UserRoleRecruiter}
	admin := Identity{UserID: "a1", Role: models.UserRoleAdmin}

	assert.NoError(t, AuthorizeOwner(owner, "u1"))
	assert.NoError(t, AuthorizeOwner(admin, "u1"))
	assert.ErrorIs(t, AuthorizeOwner(other, "u1"), apperrors.ErrNotResourceOwner)

	assert.NoError(t, AuthorizeSelf(owner, "u1"))
	assert.Error(t, AuthorizeSelf(admin, "u1"))
}
