package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"shebeka_backend/internal/logger"
	"shebeka_backend/internal/models"
	"shebeka_backend/internal/ratelimit"
	"shebeka_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	users map[string]*models.User
}

func (r fakeResolver) ResolveToken(_ context.Context, token string) (*models.User, error) {
	if u, ok := r.users[token]; ok {
		return u, nil
	}
	return nil, apperrors.ErrInvalidToken
}

type memoryStats struct {
	mu     sync.Mutex
	events []ratelimit.StatsEvent
}

func (s *memoryStats) Record(_ context.Context, ev ratelimit.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

type brokenStats struct{}

func (brokenStats) Record(context.Context, ratelimit.StatsEvent) error {
	return errors.New("redis down")
}

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	recruiter := &models.User{BaseModel: models.BaseModel{ID: "u-1"}, Role: models.UserRoleRecruiter}
	resolver := fakeResolver{users: map[string]*models.User{"good": recruiter}}

	r := gin.New()
	r.GET("/me", AuthMiddleware(resolver), func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		require.True(t, ok)
		assert.Equal(t, "u-1", GetUserID(c))
		assert.Equal(t, "u-1", logger.GetUserID(c.Request.Context()))
		c.String(http.StatusOK, string(identity.Role))
	})
	r.GET("/recruiters", AuthMiddleware(resolver), RequireRoles(models.UserRoleRecruiter), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/admins", AuthMiddleware(resolver), RequireRoles(models.UserRoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/anonymous", RequireRoles(models.UserRoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"valid token", "/me", "Bearer good", http.StatusOK},
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic good", http.StatusUnauthorized},
		{"unknown token", "/me", "Bearer bad", http.StatusUnauthorized},
		{"role allowed", "/recruiters", "Bearer good", http.StatusNoContent},
		{"role denied", "/admins", "Bearer good", http.StatusForbidden},
		{"roles without auth", "/anonymous", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := perform(r, http.MethodGet, tt.path, headers)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	stats := &memoryStats{}
	r := gin.New()
	r.Use(RateLimitMiddleware(ratelimit.NewStore(0.5, 2), stats))
	r.GET("/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = perform(r, http.MethodGet, "/auth/login", nil)
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "2", last.Header().Get("Retry-After"))
	assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))

	require.Len(t, stats.events, 3)
	assert.True(t, stats.events[0].Allowed)
	assert.False(t, stats.events[2].Allowed)
	assert.Equal(t, "/auth/login", stats.events[2].Path)
}

func TestRateLimitMiddleware_StatsFailureIgnored(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(ratelimit.NewStore(10, 5), brokenStats{}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, logger.GetRequestID(c.Request.Context()))
	})

	w := perform(r, http.MethodGet, "/", map[string]string{"X-Request-ID": "req-42"})
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-42", w.Body.String())

	w = perform(r, http.MethodGet, "/", nil)
	generated := w.Header().Get("X-Request-ID")
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://shebeka.app/"}))
	r.GET("/jobs", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/jobs", map[string]string{"Origin": "https://shebeka.app"})
	assert.Equal(t, "https://shebeka.app", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodGet, "/jobs", map[string]string{"Origin": "https://evil.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodOptions, "/jobs", map[string]string{"Origin": "https://shebeka.app"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	open := gin.New()
	open.Use(CORSMiddleware(nil))
	open.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w = perform(open, http.MethodGet, "/", map[string]string{"Origin": "https://any.example"})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
