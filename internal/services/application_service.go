package services

import (
	"context"
	"errors"

	"shebeka_backend/internal/auth"
	"shebeka_backend/internal/logger"
	"shebeka_backend/internal/models"
	"shebeka_backend/internal/repositories"
	"shebeka_backend/internal/services/dto"
	"shebeka_backend/pkg/apperrors"
)

type ApplicationService interface {
	ApplyToJob(ctx context.Context, applierID, jobID string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error)
	GetMyApplications(ctx context.Context, applierID string) ([]*dto.ApplicationResponse, error)
	GetJobApplications(ctx context.Context, caller auth.Identity, jobID string) ([]*dto.ApplicationResponse, error)
	UpdateApplicationStatus(ctx context.Context, caller auth.Identity, applicationID, status string) (*dto.ApplicationResponse, error)
	WithdrawApplication(ctx context.Context, caller auth.Identity, applicationID string) (*dto.ApplicationResponse, error)
	InviteToInterview(ctx context.Context, caller auth.Identity, applicationID, date string) (*dto.NotificationResponse, error)
	GetApplicationStats(ctx context.Context, recruiterID string) (*dto.ApplicationStatsResponse, error)
}

type applicationService struct {
	applicationRepo repositories.ApplicationRepository
	jobRepo         repositories.JobRepository
	userRepo        repositories.UserRepository
	notifications   NotificationService
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
) ApplicationService {
	return &applicationService{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		userRepo:        userRepo,
		notifications:   notifications,
	}
}

func (s *applicationService) ApplyToJob(ctx context.Context, applierID, jobID string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotOpen
		}
		return nil, apperrors.InternalError(err)
	}
	if !job.IsOpen() {
		return nil, apperrors.ErrJobNotOpen
	}

	exists, err := s.applicationRepo.ExistsForApplierAndJob(ctx, applierID, jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrAlreadyApplied
	}

	resume := req.Resume
	if resume == "" {
		applier, err := s.userRepo.FindByID(ctx, applierID)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, apperrors.InternalError(err)
		}
		resume = applier.Resume
	}

	application := &models.Application{
		ApplierID:   applierID,
		JobID:       jobID,
		CoverLetter: req.CoverLetter,
		Resume:      resume,
		Status:      models.ApplicationStatusPending,
	}

	// Параллельный отклик проходит проверку выше, его отсекает уникальный индекс
	if err := s.applicationRepo.Create(ctx, application); err != nil {
		if errors.Is(err, repositories.ErrDuplicateApplication) {
			return nil, apperrors.ErrAlreadyApplied
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Application submitted", "application_id", application.ID, "job_id", jobID)

	detailed, err := s.applicationRepo.FindWithDetails(ctx, application.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildApplicationResponse(detailed), nil
}

func (s *applicationService) GetMyApplications(ctx context.Context, applierID string) ([]*dto.ApplicationResponse, error) {
	applications, err := s.applicationRepo.FindByApplier(ctx, applierID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildApplicationList(applications), nil
}

func (s *applicationService) GetJobApplications(ctx context.Context, caller auth.Identity, jobID string) ([]*dto.ApplicationResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if err := auth.AuthorizeOwner(caller, job.RecruiterID); err != nil {
		return nil, err
	}

	applications, err := s.applicationRepo.FindByJob(ctx, jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildApplicationList(applications), nil
}

func (s *applicationService) UpdateApplicationStatus(ctx context.Context, caller auth.Identity, applicationID, status string) (*dto.ApplicationResponse, error) {
	next := models.ApplicationStatus(status)
	if !next.IsValid() {
		return nil, apperrors.ErrInvalidStatus("application",
			"Invalid status. Must be: PENDING, REVIEWED, ACCEPTED, REJECTED, or WITHDRAWN")
	}
	if next == models.ApplicationStatusWithdrawn {
		return nil, apperrors.ErrInvalidStatus("application", "Only the applicant can withdraw an application")
	}

	application, err := s.findApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwner(caller, application.Job.RecruiterID); err != nil {
		return nil, err
	}

	if err := s.transition(ctx, application, next); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Application status updated",
		"application_id", application.ID,
		"status", next,
	)
	return buildApplicationResponse(application), nil
}

// WithdrawApplication идемпотентен: повторный отзыв ничего не меняет и не уведомляет
func (s *applicationService) WithdrawApplication(ctx context.Context, caller auth.Identity, applicationID string) (*dto.ApplicationResponse, error) {
	application, err := s.findApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeSelf(caller, application.ApplierID); err != nil {
		return nil, err
	}

	if application.Status == models.ApplicationStatusWithdrawn {
		return buildApplicationResponse(application), nil
	}
	if err := s.transition(ctx, application, models.ApplicationStatusWithdrawn); err != nil {
		return nil, err
	}
	return buildApplicationResponse(application), nil
}

func (s *applicationService) InviteToInterview(ctx context.Context, caller auth.Identity, applicationID, date string) (*dto.NotificationResponse, error) {
	application, err := s.findApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwner(caller, application.Job.RecruiterID); err != nil {
		return nil, err
	}

	switch application.Status {
	case models.ApplicationStatusPending, models.ApplicationStatusReviewed:
	default:
		return nil, apperrors.ErrConflict(nil, "application",
			"Interview can only be scheduled for pending or reviewed applications").
			WithDetails(map[string]string{"status": string(application.Status)})
	}

	notification := s.notifications.NotifyInterviewInvite(ctx, application, application.Job.Title, date)
	if notification == nil {
		return nil, apperrors.InternalError(errors.New("interview invitation was not saved"))
	}
	return notification, nil
}

func (s *applicationService) GetApplicationStats(ctx context.Context, recruiterID string) (*dto.ApplicationStatsResponse, error) {
	stats, err := s.applicationRepo.GetRecruiterStats(ctx, recruiterID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	byStatus := make(map[string]int64, len(models.ApplicationStatuses))
	for _, status := range models.ApplicationStatuses {
		byStatus[string(status)] = stats.ByStatus[status]
	}
	return &dto.ApplicationStatsResponse{
		Total:    stats.Total,
		ByStatus: byStatus,
	}, nil
}

// ---------------- Helpers ----------------

// findApplication - отклик вместе с вакансией (в том числе удаленной)
func (s *applicationService) findApplication(ctx context.Context, applicationID string) (*models.Application, error) {
	application, err := s.applicationRepo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if application.Job == nil {
		return nil, apperrors.InternalError(errors.New("application has no job: " + application.ID))
	}
	return application, nil
}

// transition проверяет переход, сохраняет статус и только после этого уведомляет кандидата.
// Ошибка уведомления не влияет на результат.
func (s *applicationService) transition(ctx context.Context, application *models.Application, next models.ApplicationStatus) error {
	if !application.Status.CanTransitionTo(next) {
		return apperrors.ErrInvalidTransition("application", string(application.Status), string(next))
	}

	if err := s.applicationRepo.UpdateStatus(ctx, application.ID, next); err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return apperrors.ErrApplicationNotFound
		}
		return apperrors.InternalError(err)
	}
	application.Status = next

	s.notifications.NotifyApplicationStatus(ctx, application, application.Job.Title)
	return nil
}

func buildApplicationList(applications []models.Application) []*dto.ApplicationResponse {
	result := make([]*dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		result = append(result, buildApplicationResponse(&applications[i]))
	}
	return result
}
