package handlers

import (
	"context"
	"errors"
	"net/http"

	"shebeka_backend/internal/services"
	"shebeka_backend/internal/services/dto"
	"shebeka_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// ============================================
// UPLOAD HANDLER
// ============================================

type UploadHandler struct {
	*BaseHandler
	userService  services.UserService
	maxFormBytes int64
}

// NewUploadHandler; maxFormBytes ограничивает тело multipart запроса целиком
func NewUploadHandler(base *BaseHandler, userService services.UserService, maxFormBytes int64) *UploadHandler {
	return &UploadHandler{
		BaseHandler:  base,
		userService:  userService,
		maxFormBytes: maxFormBytes,
	}
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup, mw RouteMiddlewares) {
	uploads := rg.Group("/users")
	uploads.Use(mw.Auth)
	{
		uploads.POST("/resume/upload", h.UploadResume)
		uploads.POST("/avatar/upload", h.UploadAvatar)
	}
}

// UploadResume godoc
// @Summary Загрузить резюме
// @Description pdf, doc или docx; ссылка сохраняется в профиле
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Файл резюме"
// @Success 201 {object} dto.FileResponse
// @Failure 413 {object} apperrors.ErrorResponse
// @Failure 415 {object} apperrors.ErrorResponse
// @Router /api/v1/users/resume/upload [post]
func (h *UploadHandler) UploadResume(c *gin.Context) {
	h.upload(c, "Resume uploaded successfully", h.userService.UploadResume)
}

// UploadAvatar godoc
// @Summary Загрузить аватар
// @Description jpeg или png; изображение обрезается до квадрата и уменьшается
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Изображение"
// @Success 201 {object} dto.FileResponse
// @Failure 413 {object} apperrors.ErrorResponse
// @Failure 415 {object} apperrors.ErrorResponse
// @Router /api/v1/users/avatar/upload [post]
func (h *UploadHandler) UploadAvatar(c *gin.Context) {
	h.upload(c, "Avatar uploaded successfully", h.userService.UploadAvatar)
}

type uploadFunc func(ctx context.Context, userID string, file services.UploadedFile) (string, error)

func (h *UploadHandler) upload(c *gin.Context, message string, save uploadFunc) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFormBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.HandleServiceError(c, apperrors.ErrFileTooLarge)
			return
		}
		apperrors.HandleError(c, apperrors.NewBadRequestError("no file provided"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("failed to read file: "+err.Error()))
		return
	}
	defer file.Close()

	url, err := save(c.Request.Context(), userID, services.UploadedFile{
		Name:    fileHeader.Filename,
		Size:    fileHeader.Size,
		Content: file,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FileResponse{Message: message, URL: url})
}
