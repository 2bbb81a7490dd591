package handlers

import "github.com/gin-gonic/gin"

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	JobHandler          *JobHandler
	ApplicationHandler  *ApplicationHandler
	NotificationHandler *NotificationHandler
	UserHandler         *UserHandler
	UploadHandler       *UploadHandler
}

// RouteMiddlewares - middleware, которые хэндлеры навешивают на свои группы
type RouteMiddlewares struct {
	Auth      gin.HandlerFunc
	RateLimit gin.HandlerFunc
}

// RegisterRoutes регистрирует маршруты всех хэндлеров в группе /api/v1
func (h *AppHandlers) RegisterRoutes(rg *gin.RouterGroup, mw RouteMiddlewares) {
	h.AuthHandler.RegisterRoutes(rg, mw)
	h.JobHandler.RegisterRoutes(rg, mw)
	h.ApplicationHandler.RegisterRoutes(rg, mw)
	h.NotificationHandler.RegisterRoutes(rg, mw)
	h.UserHandler.RegisterRoutes(rg, mw)
	h.UploadHandler.RegisterRoutes(rg, mw)
}
