package handlers

import (
	"net/http"

	"shebeka_backend/internal/middleware"
	"shebeka_backend/internal/models"
	"shebeka_backend/internal/services"
	"shebeka_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

const defaultJobsPageLimit = 10

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup, mw RouteMiddlewares) {
	jobs := rg.Group("/jobs")
	{
		// Публичные
		jobs.GET("", h.GetJobs)
		jobs.GET("/:id", h.GetJob)

		recruiter := jobs.Group("")
		recruiter.Use(mw.Auth, middleware.RequireRoles(models.UserRoleRecruiter, models.UserRoleAdmin))
		{
			recruiter.POST("", h.CreateJob)
			recruiter.GET("/my/jobs", h.GetMyJobs)
			recruiter.PUT("/:id", h.UpdateJob)
			recruiter.DELETE("/:id", h.DeleteJob)
		}
	}
}

// CreateJob godoc
// @Summary Создать вакансию
// @Description Кандидаты с подходящими навыками получают уведомление NEW_JOB_MATCH
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobRequest true "Вакансия"
// @Success 201 {object} dto.JobMessageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /api/v1/jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.JobMessageResponse{Message: "Job created successfully", Job: job})
}

// GetJobs godoc
// @Summary Список открытых вакансий
// @Tags jobs
// @Produce json
// @Param search query string false "Поиск по названию, описанию и тегам"
// @Param category query string false "Категория"
// @Param jobType query string false "FULL_TIME, PART_TIME, CONTRACT, INTERNSHIP, FREELANCE"
// @Param experienceLevel query string false "ENTRY, JUNIOR, MID, SENIOR, LEAD"
// @Param isRemote query bool false "Удаленная работа"
// @Param page query int false "Страница" default(1)
// @Param limit query int false "Размер страницы" default(10)
// @Success 200 {object} dto.JobListResponse
// @Router /api/v1/jobs [get]
func (h *JobHandler) GetJobs(c *gin.Context) {
	var query dto.ListJobsQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	page, limit := ParsePagination(c, defaultJobsPageLimit)

	response, err := h.jobService.GetJobs(c.Request.Context(), &query, page, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	response.Message = "Jobs fetched successfully"
	c.JSON(http.StatusOK, response)
}

// GetJob godoc
// @Summary Вакансия по ID
// @Tags jobs
// @Produce json
// @Param id path string true "ID вакансии"
// @Success 200 {object} dto.JobMessageResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.jobService.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.JobMessageResponse{Message: "Job fetched successfully", Job: job})
}

// GetMyJobs godoc
// @Summary Вакансии текущего рекрутера
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.JobsMessageResponse
// @Router /api/v1/jobs/my/jobs [get]
func (h *JobHandler) GetMyJobs(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	jobs, err := h.jobService.GetMyJobs(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.JobsMessageResponse{Message: "Your jobs fetched successfully", Jobs: jobs})
}

// UpdateJob godoc
// @Summary Обновить вакансию
// @Description Частичное обновление; только владелец или администратор
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID вакансии"
// @Param request body dto.UpdateJobRequest true "Изменяемые поля"
// @Success 200 {object} dto.JobMessageResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/jobs/{id} [put]
func (h *JobHandler) UpdateJob(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.UpdateJob(c.Request.Context(), identity, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.JobMessageResponse{Message: "Job updated successfully", Job: job})
}

// DeleteJob godoc
// @Summary Удалить вакансию
// @Description Отклики на удаленную вакансию сохраняются
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID вакансии"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/jobs/{id} [delete]
func (h *JobHandler) DeleteJob(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), identity, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Job deleted successfully"})
}
