package handlers

import (
	"net/http"

	"shebeka_backend/internal/middleware"
	"shebeka_backend/internal/models"
	"shebeka_backend/internal/services"
	"shebeka_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

const defaultNotificationsPageLimit = 20

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup, mw RouteMiddlewares) {
	notifications := rg.Group("/notifications")
	notifications.Use(mw.Auth)
	{
		notifications.GET("", h.GetUserNotifications)
		notifications.GET("/stats", h.GetUserNotificationStats)
		notifications.PUT("/read-all", h.MarkAllAsRead)
		notifications.PUT("/:id/read", h.MarkAsRead)
		notifications.DELETE("/:id", h.DeleteNotification)

		notifications.POST("/system", middleware.RequireRoles(models.UserRoleAdmin), h.SendSystemAlert)
	}
}

// GetUserNotifications godoc
// @Summary Уведомления пользователя
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Страница" default(1)
// @Param limit query int false "Размер страницы" default(20)
// @Param unreadOnly query bool false "Только непрочитанные"
// @Success 200 {object} dto.NotificationListResponse
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) GetUserNotifications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, limit := ParsePagination(c, defaultNotificationsPageLimit)
	criteria := dto.NotificationCriteria{
		Page:       page,
		Limit:      limit,
		UnreadOnly: c.Query("unreadOnly") == "true",
	}

	response, err := h.notificationService.GetUserNotifications(c.Request.Context(), userID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	response.Message = "Notifications fetched successfully"
	c.JSON(http.StatusOK, response)
}

// MarkAsRead godoc
// @Summary Отметить уведомление прочитанным
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID уведомления"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/notifications/{id}/read [put]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Notification marked as read"})
}

// MarkAllAsRead godoc
// @Summary Отметить все уведомления прочитанными
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MarkAllReadResponse
// @Router /api/v1/notifications/read-all [put]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkAllAsRead(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MarkAllReadResponse{Message: "All notifications marked as read", Updated: updated})
}

// DeleteNotification godoc
// @Summary Удалить уведомление
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID уведомления"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.DeleteNotification(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Notification deleted successfully"})
}

// GetUserNotificationStats godoc
// @Summary Статистика уведомлений
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.NotificationStatsMessageResponse
// @Router /api/v1/notifications/stats [get]
func (h *NotificationHandler) GetUserNotificationStats(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	stats, err := h.notificationService.GetUserNotificationStats(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NotificationStatsMessageResponse{
		Message: "Notification statistics fetched successfully",
		Stats:   stats,
	})
}

// SendSystemAlert godoc
// @Summary Системное оповещение
// @Description Только для администратора
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SystemAlertRequest true "Получатели и текст"
// @Success 201 {object} dto.SystemAlertResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse "Ни один пользователь не найден"
// @Router /api/v1/notifications/system [post]
func (h *NotificationHandler) SendSystemAlert(c *gin.Context) {
	var req dto.SystemAlertRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.notificationService.SendSystemAlert(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}
