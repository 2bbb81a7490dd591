package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"shebeka_backend/internal/imageprocessor"
	"shebeka_backend/internal/logger"
	"shebeka_backend/internal/repositories"
	"shebeka_backend/internal/services/dto"
	"shebeka_backend/internal/storage"
	"shebeka_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// UploadedFile - файл из multipart формы
type UploadedFile struct {
	Name    string
	Size    int64
	Content io.Reader
}

// UploadLimits - ограничения размеров загрузок
type UploadLimits struct {
	ResumeMaxSize int64
	AvatarMaxSize int64
}

var resumeContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var avatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	UpdateResume(ctx context.Context, userID, resumeURL string) (*dto.ProfileResponse, error)
	UpdateAvatar(ctx context.Context, userID, avatarURL string) (*dto.ProfileResponse, error)
	UploadResume(ctx context.Context, userID string, file UploadedFile) (string, error)
	UploadAvatar(ctx context.Context, userID string, file UploadedFile) (string, error)
	AddSkill(ctx context.Context, userID, skill string) ([]string, error)
	RemoveSkill(ctx context.Context, userID, skill string) ([]string, error)
	GetPublicProfile(ctx context.Context, userID string) (*dto.PublicProfileResponse, error)
}

type userService struct {
	userRepo   repositories.UserRepository
	transactor repositories.Transactor
	storage    storage.Storage
	images     *imageprocessor.Processor
	limits     UploadLimits
}

func NewUserService(
	userRepo repositories.UserRepository,
	transactor repositories.Transactor,
	fileStorage storage.Storage,
	images *imageprocessor.Processor,
	limits UploadLimits,
) UserService {
	return &userService{
		userRepo:   userRepo,
		transactor: transactor,
		storage:    fileStorage,
		images:     images,
		limits:     limits,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapUserError(err)
	}
	return buildProfileResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewBadRequestError("Name cannot be empty")
		}
		updates["name"] = name
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Location != nil {
		updates["location"] = strings.TrimSpace(*req.Location)
	}

	return s.updateAndReload(ctx, userID, updates)
}

func (s *userService) UpdateResume(ctx context.Context, userID, resumeURL string) (*dto.ProfileResponse, error) {
	resumeURL = strings.TrimSpace(resumeURL)
	if resumeURL == "" {
		return nil, apperrors.NewBadRequestError("Resume URL is required")
	}
	return s.updateAndReload(ctx, userID, map[string]interface{}{"resume": resumeURL})
}

func (s *userService) UpdateAvatar(ctx context.Context, userID, avatarURL string) (*dto.ProfileResponse, error) {
	avatarURL = strings.TrimSpace(avatarURL)
	if avatarURL == "" {
		return nil, apperrors.NewBadRequestError("Avatar URL is required")
	}
	return s.updateAndReload(ctx, userID, map[string]interface{}{"avatar": avatarURL})
}

func (s *userService) UploadResume(ctx context.Context, userID string, file UploadedFile) (string, error) {
	if file.Size > s.limits.ResumeMaxSize {
		return "", apperrors.ErrFileTooLarge.WithDetails(map[string]int64{"maxSize": s.limits.ResumeMaxSize})
	}
	ext := strings.ToLower(filepath.Ext(file.Name))
	contentType, ok := resumeContentTypes[ext]
	if !ok {
		return "", apperrors.ErrInvalidFileType.WithDetails(map[string]string{"allowed": "pdf, doc, docx"})
	}

	key := storage.NewKey("resumes", userID, ext)
	if err := s.storage.Save(ctx, key, file.Content, contentType); err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeExternalServiceError, "storage", "Failed to store file", http.StatusBadGateway)
	}

	url := s.storage.URL(key)
	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"resume": url}); err != nil {
		s.cleanup(ctx, key)
		return "", mapUserError(err)
	}

	logger.CtxInfo(ctx, "Resume uploaded", "key", key, "size", file.Size)
	return url, nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID string, file UploadedFile) (string, error) {
	if file.Size > s.limits.AvatarMaxSize {
		return "", apperrors.ErrFileTooLarge.WithDetails(map[string]int64{"maxSize": s.limits.AvatarMaxSize})
	}
	if !avatarExtensions[strings.ToLower(filepath.Ext(file.Name))] {
		return "", apperrors.ErrInvalidFileType.WithDetails(map[string]string{"allowed": "jpg, jpeg, png"})
	}

	processed, err := s.images.Avatar(file.Content)
	if err != nil {
		return "", apperrors.ErrInvalidFileType.WithError(err)
	}

	key := storage.NewKey("avatars", userID, ".jpg")
	if err := s.storage.Save(ctx, key, processed, "image/jpeg"); err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeExternalServiceError, "storage", "Failed to store file", http.StatusBadGateway)
	}

	url := s.storage.URL(key)
	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"avatar": url}); err != nil {
		s.cleanup(ctx, key)
		return "", mapUserError(err)
	}

	logger.CtxInfo(ctx, "Avatar uploaded", "key", key)
	return url, nil
}

func (s *userService) cleanup(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.CtxWithError(ctx, "Failed to remove orphaned upload", err, "key", key)
	}
}

// AddSkill - навыки как множество: повторное добавление запрещено
func (s *userService) AddSkill(ctx context.Context, userID, skill string) ([]string, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return nil, apperrors.NewBadRequestError("Skill is required")
	}

	var skills []string
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		user, err := s.userRepo.FindByID(txCtx, userID)
		if err != nil {
			return mapUserError(err)
		}
		if user.HasSkill(skill) {
			return apperrors.ErrSkillAlreadyExists
		}

		skills = append(stringsOrEmpty(user.Skills), skill)
		return s.userRepo.UpdateFields(txCtx, userID, map[string]interface{}{
			"skills": datatypes.JSONSlice[string](skills),
		})
	})
	if err != nil {
		return nil, mapUserError(err)
	}
	return skills, nil
}

// RemoveSkill - отсутствующий навык не ошибка
func (s *userService) RemoveSkill(ctx context.Context, userID, skill string) ([]string, error) {
	var skills []string
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		user, err := s.userRepo.FindByID(txCtx, userID)
		if err != nil {
			return mapUserError(err)
		}

		skills = make([]string, 0, len(user.Skills))
		for _, sk := range user.Skills {
			if sk != skill {
				skills = append(skills, sk)
			}
		}
		if len(skills) == len(user.Skills) {
			return nil
		}
		return s.userRepo.UpdateFields(txCtx, userID, map[string]interface{}{
			"skills": datatypes.JSONSlice[string](skills),
		})
	})
	if err != nil {
		return nil, mapUserError(err)
	}
	return skills, nil
}

func (s *userService) GetPublicProfile(ctx context.Context, userID string) (*dto.PublicProfileResponse, error) {
	user, err := s.userRepo.FindPublicApplier(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return buildPublicProfileResponse(user), nil
}

func (s *userService) updateAndReload(ctx context.Context, userID string, updates map[string]interface{}) (*dto.ProfileResponse, error) {
	if err := s.userRepo.UpdateFields(ctx, userID, updates); err != nil {
		return nil, mapUserError(err)
	}
	return s.GetProfile(ctx, userID)
}

// mapUserError оставляет AppError как есть, остальное переводит в доменные ошибки
func mapUserError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrUserNotFound
	}
	return apperrors.InternalError(err)
}
