package handlers

import (
	"net/http"

	"shebeka_backend/internal/middleware"
	"shebeka_backend/internal/models"
	"shebeka_backend/internal/services"
	"shebeka_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, mw RouteMiddlewares) {
	users := rg.Group("/users")
	users.Use(mw.Auth)
	{
		users.GET("/profile", h.GetProfile)
		users.PUT("/profile", h.UpdateProfile)
		users.PUT("/resume", h.UpdateResume)
		users.PUT("/avatar", h.UpdateAvatar)

		users.POST("/skills", h.AddSkill)
		users.DELETE("/skills/:skill", h.RemoveSkill)

		users.GET("/public/:userId",
			middleware.RequireRoles(models.UserRoleRecruiter, models.UserRoleAdmin),
			h.GetPublicProfile,
		)
	}
}

// GetProfile godoc
// @Summary Профиль текущего пользователя
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProfileMessageResponse
// @Router /api/v1/users/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileMessageResponse{Message: "Profile fetched successfully", User: profile})
}

// UpdateProfile godoc
// @Summary Обновить профиль
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Имя, телефон, о себе, город"
// @Success 200 {object} dto.ProfileMessageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /api/v1/users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileMessageResponse{Message: "Profile updated successfully", User: profile})
}

// UpdateResume godoc
// @Summary Указать ссылку на резюме
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ResumeURLRequest true "Ссылка на резюме"
// @Success 200 {object} dto.ProfileMessageResponse
// @Failure 400 {object} apperrors.ErrorResponse "Resume URL is required"
// @Router /api/v1/users/resume [put]
func (h *UserHandler) UpdateResume(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ResumeURLRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.userService.UpdateResume(c.Request.Context(), userID, req.ResumeURL)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileMessageResponse{Message: "Resume updated successfully", User: profile})
}

// UpdateAvatar godoc
// @Summary Указать ссылку на аватар
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AvatarURLRequest true "Ссылка на аватар"
// @Success 200 {object} dto.ProfileMessageResponse
// @Failure 400 {object} apperrors.ErrorResponse "Avatar URL is required"
// @Router /api/v1/users/avatar [put]
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AvatarURLRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.userService.UpdateAvatar(c.Request.Context(), userID, req.AvatarURL)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileMessageResponse{Message: "Avatar updated successfully", User: profile})
}

// AddSkill godoc
// @Summary Добавить навык
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddSkillRequest true "Навык"
// @Success 200 {object} dto.SkillsResponse
// @Failure 400 {object} apperrors.ErrorResponse "Skill already exists"
// @Router /api/v1/users/skills [post]
func (h *UserHandler) AddSkill(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AddSkillRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	skills, err := h.userService.AddSkill(c.Request.Context(), userID, req.Skill)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SkillsResponse{Message: "Skill added successfully", Skills: skills})
}

// RemoveSkill godoc
// @Summary Удалить навык
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param skill path string true "Навык"
// @Success 200 {object} dto.SkillsResponse
// @Router /api/v1/users/skills/{skill} [delete]
func (h *UserHandler) RemoveSkill(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	skills, err := h.userService.RemoveSkill(c.Request.Context(), userID, c.Param("skill"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SkillsResponse{Message: "Skill removed successfully", Skills: skills})
}

// GetPublicProfile godoc
// @Summary Публичный профиль кандидата
// @Description Для рекрутеров; контактные данные не раскрываются
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userId path string true "ID кандидата"
// @Success 200 {object} dto.PublicProfileMessageResponse
// @Failure 404 {object} apperrors.ErrorResponse "User profile not found"
// @Router /api/v1/users/public/{userId} [get]
func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	profile, err := h.userService.GetPublicProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PublicProfileMessageResponse{Message: "Public profile fetched successfully", User: profile})
}
