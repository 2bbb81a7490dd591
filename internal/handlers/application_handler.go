package handlers

import (
	"net/http"

	"shebeka_backend/internal/middleware"
	"shebeka_backend/internal/models"
	"shebeka_backend/internal/services"
	"shebeka_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup, mw RouteMiddlewares) {
	applications := rg.Group("/applications")
	applications.Use(mw.Auth)

	applier := applications.Group("")
	applier.Use(middleware.RequireRoles(models.UserRoleApplier))
	{
		applier.POST("/job/:jobId/apply", h.ApplyToJob)
		applier.GET("/my/applications", h.GetMyApplications)
		applier.PUT("/:applicationId/withdraw", h.WithdrawApplication)
	}

	recruiter := applications.Group("")
	recruiter.Use(middleware.RequireRoles(models.UserRoleRecruiter, models.UserRoleAdmin))
	{
		recruiter.GET("/job/:jobId/applications", h.GetJobApplications)
		recruiter.PUT("/:applicationId/status", h.UpdateApplicationStatus)
		recruiter.POST("/:applicationId/interview", h.InviteToInterview)
		recruiter.GET("/stats", h.GetApplicationStats)
	}
}

// ApplyToJob godoc
// @Summary Откликнуться на вакансию
// @Description Резюме по умолчанию берется из профиля. Повторный отклик на ту же вакансию запрещен.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param jobId path string true "ID вакансии"
// @Param request body dto.ApplyRequest false "Сопроводительное письмо и резюме"
// @Success 201 {object} dto.ApplicationMessageResponse
// @Failure 404 {object} apperrors.ErrorResponse "Вакансия не найдена или закрыта"
// @Failure 409 {object} apperrors.ErrorResponse "Уже откликались"
// @Router /api/v1/applications/job/{jobId}/apply [post]
func (h *ApplicationHandler) ApplyToJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	// тело необязательно
	if c.Request.ContentLength != 0 && !h.BindAndValidate_JSON(c, &req) {
		return
	}

	application, err := h.applicationService.ApplyToJob(c.Request.Context(), userID, c.Param("jobId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ApplicationMessageResponse{
		Message:     "Application submitted successfully",
		Application: application,
	})
}

// GetMyApplications godoc
// @Summary Мои отклики
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ApplicationListResponse
// @Router /api/v1/applications/my/applications [get]
func (h *ApplicationHandler) GetMyApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	applications, err := h.applicationService.GetMyApplications(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ApplicationListResponse{
		Message:      "Applications fetched successfully",
		Applications: applications,
	})
}

// GetJobApplications godoc
// @Summary Отклики на вакансию
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param jobId path string true "ID вакансии"
// @Success 200 {object} dto.ApplicationListResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/applications/job/{jobId}/applications [get]
func (h *ApplicationHandler) GetJobApplications(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	applications, err := h.applicationService.GetJobApplications(c.Request.Context(), identity, c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ApplicationListResponse{
		Message:      "Job applications fetched successfully",
		Applications: applications,
	})
}

// UpdateApplicationStatus godoc
// @Summary Изменить статус отклика
// @Description Кандидат получает уведомление APPLICATION_UPDATE
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param applicationId path string true "ID отклика"
// @Param request body dto.UpdateApplicationStatusRequest true "Новый статус"
// @Success 200 {object} dto.ApplicationMessageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Недопустимый переход"
// @Router /api/v1/applications/{applicationId}/status [put]
func (h *ApplicationHandler) UpdateApplicationStatus(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	application, err := h.applicationService.UpdateApplicationStatus(c.Request.Context(), identity, c.Param("applicationId"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ApplicationMessageResponse{
		Message:     "Application status updated successfully",
		Application: application,
	})
}

// WithdrawApplication godoc
// @Summary Отозвать отклик
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param applicationId path string true "ID отклика"
// @Success 200 {object} dto.ApplicationMessageResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /api/v1/applications/{applicationId}/withdraw [put]
func (h *ApplicationHandler) WithdrawApplication(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	application, err := h.applicationService.WithdrawApplication(c.Request.Context(), identity, c.Param("applicationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ApplicationMessageResponse{
		Message:     "Application withdrawn successfully",
		Application: application,
	})
}

// InviteToInterview godoc
// @Summary Пригласить на интервью
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param applicationId path string true "ID отклика"
// @Param request body dto.InterviewInviteRequest true "Дата интервью"
// @Success 201 {object} dto.NotificationMessageResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /api/v1/applications/{applicationId}/interview [post]
func (h *ApplicationHandler) InviteToInterview(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.InterviewInviteRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	notification, err := h.applicationService.InviteToInterview(c.Request.Context(), identity, c.Param("applicationId"), req.Date)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NotificationMessageResponse{
		Message:      "Interview invitation sent",
		Notification: notification,
	})
}

// GetApplicationStats godoc
// @Summary Статистика откликов рекрутера
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ApplicationStatsMessageResponse
// @Router /api/v1/applications/stats [get]
func (h *ApplicationHandler) GetApplicationStats(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	stats, err := h.applicationService.GetApplicationStats(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ApplicationStatsMessageResponse{
		Message: "Application statistics fetched successfully",
		Stats:   stats,
	})
}
