package app

import (
	"context"
	"net/http"
	"testing"

	"shebeka_backend/internal/config"
	"shebeka_backend/internal/models"
	"shebeka_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Env = config.EnvTest
	cfg.Database.Driver = "sqlite"
	cfg.JWT.Secret = "test-secret"
	cfg.Storage.BasePath = t.TempDir()
	return cfg
}

func TestNew_WiresRoutes(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := testConfig(t)

	application, err := New(context.Background(), cfg, db)
	require.NoError(t, err)
	defer application.Close()

	w := testutil.SendRequest(t, application.Router(), http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutil.SendRequest(t, application.Router(), http.MethodGet, "/api/v1/jobs", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutil.SendRequest(t, application.Router(), http.MethodGet, "/api/v1/notifications", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutil.SendRequest(t, application.Router(), http.MethodGet, "/ws", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutil.SendRequest(t, application.Router(), http.MethodGet, "/api/v1/unknown", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNew_AuthRoutesAreRateLimited(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := testConfig(t)
	cfg.RateLimit.RPS = 0.01
	cfg.RateLimit.Burst = 1

	application, err := New(context.Background(), cfg, db)
	require.NoError(t, err)
	defer application.Close()

	body := map[string]string{"email": "nobody@example.com", "password": "secret123"}
	w := testutil.SendRequest(t, application.Router(), http.MethodPost, "/api/v1/auth/login", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutil.SendRequest(t, application.Router(), http.MethodPost, "/api/v1/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// лимит действует только на /auth
	w = testutil.SendRequest(t, application.Router(), http.MethodGet, "/api/v1/jobs", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSeedFirstAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("skips without credentials", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		require.NoError(t, SeedFirstAdmin(ctx, db, testConfig(t)))

		var count int64
		require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("creates once", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		cfg := testConfig(t)
		cfg.Admin.Email = " Root@Example.com "
		cfg.Admin.Password = "admin-secret"

		require.NoError(t, SeedFirstAdmin(ctx, db, cfg))
		require.NoError(t, SeedFirstAdmin(ctx, db, cfg))

		var admins []models.User
		require.NoError(t, db.Where("role = ?", models.UserRoleAdmin).Find(&admins).Error)
		require.Len(t, admins, 1)
		assert.Equal(t, "root@example.com", admins[0].Email)
		assert.Equal(t, "Administrator", admins[0].Name)
	})

	t.Run("email taken by another role", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		applier := testutil.CreateUser(t, db, "Ann Applier", models.UserRoleApplier)

		cfg := testConfig(t)
		cfg.Admin.Email = applier.Email
		cfg.Admin.Password = "admin-secret"

		assert.Error(t, SeedFirstAdmin(ctx, db, cfg))
	})
}
