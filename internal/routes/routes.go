package routes

import (
	"context"
	"net/http"
	"time"

	_ "shebeka_backend/docs"
	"shebeka_backend/internal/handlers"
	"shebeka_backend/internal/logger"
	"shebeka_backend/ws"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options - то, что собирается в app и нужно только при регистрации маршрутов
type Options struct {
	Auth      gin.HandlerFunc
	RateLimit gin.HandlerFunc // nil - без лимита

	// UploadsDir пуст, если файлы лежат не на локальном диске
	UploadsURL string
	UploadsDir string

	// Ping проверяет доступность БД для /health
	Ping func(ctx context.Context) error

	Swagger bool
}

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
	opts Options,
) {
	ginRouter.GET("/health", healthHandler(opts.Ping))

	api := ginRouter.Group("/api/v1")
	appHandlers.RegisterRoutes(api, handlers.RouteMiddlewares{
		Auth:      opts.Auth,
		RateLimit: opts.RateLimit,
	})

	if opts.UploadsDir != "" && opts.UploadsURL != "" {
		ginRouter.Static(opts.UploadsURL, opts.UploadsDir)
		logger.Info("Serving local uploads", "url", opts.UploadsURL, "dir", opts.UploadsDir)
	}

	if opts.Swagger {
		ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// токен приходит в query, заголовки в браузерном WebSocket недоступны
	if wsHandler != nil {
		ginRouter.GET("/ws", wsHandler.ServeWS)
		logger.Info("WebSocket route /ws registered")
	}
}

// healthHandler godoc
// @Summary Проверка состояния сервиса
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func healthHandler(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				logger.CtxWithError(c.Request.Context(), "Health check failed", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	}
}
