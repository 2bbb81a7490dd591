package middleware

import (
	"context"
	"strings"

	"shebeka_backend/internal/auth"
	"shebeka_backend/internal/logger"
	"shebeka_backend/internal/models"
	"shebeka_backend/pkg/apperrors"
	"shebeka_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// TokenResolver - токен -> существующий пользователь
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware - middleware проверки JWT; пользователь должен существовать
func AuthMiddleware(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("No token, authorization denied"))
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		user, err := resolver.ResolveToken(c.Request.Context(), tokenStr)
		if err != nil {
			logger.CtxDebug(c.Request.Context(), "Token rejected", "error", err.Error())
			apperrors.HandleError(c, err)
			return
		}

		SetUser(c, user)
		c.Next()
	}
}

// SetUser сохраняет пользователя в gin.Context и добавляет user_id в логи
func SetUser(c *gin.Context, user *models.User) {
	c.Set(contextkeys.UserIDKey, user.ID)
	c.Set(contextkeys.RoleKey, user.Role)
	c.Set(contextkeys.UserKey, user)
	c.Set(contextkeys.IdentityKey, auth.Identity{UserID: user.ID, Role: user.Role})
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), user.ID))
}

// RequireRoles - роль пользователя должна входить в набор
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
			return
		}

		if err := auth.Authorize(identity, roles...); err != nil {
			logger.CtxWarn(c.Request.Context(), "Role check failed",
				"role", identity.Role,
				"path", c.Request.URL.Path,
			)
			apperrors.HandleError(c, err)
			return
		}

		c.Next()
	}
}

// GetIdentity извлекает вызывающего из контекста
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	val, exists := c.Get(contextkeys.IdentityKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := val.(auth.Identity)
	return identity, ok && identity.UserID != ""
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	identity, _ := GetIdentity(c)
	return identity.UserID
}
