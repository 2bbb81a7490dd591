package middleware

import (
	"math"
	"strconv"
	"time"

	"shebeka_backend/internal/logger"
	"shebeka_backend/internal/ratelimit"
	"shebeka_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware - лимит по IP клиента; stats может быть nil
func RateLimitMiddleware(store *ratelimit.Store, stats ratelimit.StatsStore) gin.HandlerFunc {
	retryAfter := "1"
	if store.RPS() > 0 {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / store.RPS())))
	}

	return func(c *gin.Context) {
		key := c.ClientIP()
		allowed := store.Allow(key)

		if stats != nil {
			ev := ratelimit.StatsEvent{
				Key:     key,
				Allowed: allowed,
				Method:  c.Request.Method,
				Path:    c.FullPath(),
				At:      time.Now(),
			}
			if err := stats.Record(c.Request.Context(), ev); err != nil {
				logger.CtxDebug(c.Request.Context(), "Failed to record rate limit stats", "error", err.Error())
			}
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(store.Burst()))
		if !allowed {
			logger.CtxWarn(c.Request.Context(), "Rate limit exceeded", "ip", key, "path", c.Request.URL.Path)
			c.Header("Retry-After", retryAfter)
			apperrors.HandleError(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
