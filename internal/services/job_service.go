package services

import (
	"context"
	"errors"
	"strings"

	"shebeka_backend/internal/auth"
	"shebeka_backend/internal/logger"
	"shebeka_backend/internal/models"
	"shebeka_backend/internal/repositories"
	"shebeka_backend/internal/services/dto"
	"shebeka_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

const (
	defaultJobLimit = 10
	maxJobLimit     = 100
	defaultCategory = "General"
)

type JobService interface {
	CreateJob(ctx context.Context, recruiterID string, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	GetJobs(ctx context.Context, query *dto.ListJobsQuery, page, limit int) (*dto.JobListResponse, error)
	GetJob(ctx context.Context, jobID string) (*dto.JobResponse, error)
	GetMyJobs(ctx context.Context, recruiterID string) ([]*dto.JobResponse, error)
	UpdateJob(ctx context.Context, caller auth.Identity, jobID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error)
	DeleteJob(ctx context.Context, caller auth.Identity, jobID string) error
}

type jobService struct {
	jobRepo       repositories.JobRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
}

func NewJobService(
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
) JobService {
	return &jobService{
		jobRepo:       jobRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

func (s *jobService) CreateJob(ctx context.Context, recruiterID string, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	location := strings.TrimSpace(req.Location)
	if title == "" || description == "" || location == "" {
		return nil, apperrors.NewBadRequestError("Title, description, and location are required")
	}

	job := &models.Job{
		Title:           title,
		Description:     description,
		Requirements:    req.Requirements,
		Salary:          req.Salary,
		Location:        location,
		JobType:         models.JobTypeFullTime,
		ExperienceLevel: models.ExperienceMid,
		Category:        defaultCategory,
		Tags:            datatypes.JSONSlice[string](uniqueStrings(req.Tags)),
		IsRemote:        req.IsRemote,
		Status:          models.JobStatusOpen,
		ExpiresAt:       req.ExpiresAt,
		RecruiterID:     recruiterID,
	}
	if req.JobType != "" {
		job.JobType = models.JobType(req.JobType)
	}
	if req.ExperienceLevel != "" {
		job.ExperienceLevel = models.ExperienceLevel(req.ExperienceLevel)
	}
	if c := strings.TrimSpace(req.Category); c != "" {
		job.Category = c
	}
	if !job.JobType.IsValid() || !job.ExperienceLevel.IsValid() {
		return nil, apperrors.NewBadRequestError("Invalid jobType or experienceLevel")
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	created, err := s.jobRepo.FindWithDetails(ctx, job.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Job created", "job_id", created.ID, "tags", len(created.Tags))

	s.notifyMatchingAppliers(ctx, created)
	return buildJobResponse(created), nil
}

// notifyMatchingAppliers - NEW_JOB_MATCH кандидатам, у которых навыки пересекаются с тегами
func (s *jobService) notifyMatchingAppliers(ctx context.Context, job *models.Job) {
	if len(job.Tags) == 0 {
		return
	}

	appliers, err := s.userRepo.FindAppliersWithSkills(ctx)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to load appliers for job match", err, "job_id", job.ID)
		return
	}

	var matched []string
	for _, a := range appliers {
		if intersectsFold(a.Skills, job.Tags) {
			matched = append(matched, a.ID)
		}
	}
	if len(matched) == 0 {
		return
	}

	company := "a company"
	if job.Recruiter != nil && job.Recruiter.Name != "" {
		company = job.Recruiter.Name
	}

	sent := s.notifications.NotifyNewJobMatch(ctx, job, company, matched)
	logger.CtxDebug(ctx, "Job match notifications sent", "job_id", job.ID, "matched", len(matched), "sent", sent)
}

func (s *jobService) GetJobs(ctx context.Context, query *dto.ListJobsQuery, page, limit int) (*dto.JobListResponse, error) {
	page, limit = normalizePage(page, limit, defaultJobLimit, maxJobLimit)

	criteria := repositories.JobCriteria{
		Page:  page,
		Limit: limit,
	}
	if query != nil {
		criteria.Search = strings.TrimSpace(query.Search)
		criteria.Category = strings.TrimSpace(query.Category)
		criteria.JobType = models.JobType(query.JobType)
		criteria.ExperienceLevel = models.ExperienceLevel(query.ExperienceLevel)
		criteria.IsRemote = query.IsRemote
	}

	jobs, total, err := s.jobRepo.FindOpen(ctx, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, buildJobResponse(&jobs[i]))
	}

	return &dto.JobListResponse{
		Jobs:       items,
		Pagination: dto.NewPagination(page, limit, total),
	}, nil
}

func (s *jobService) GetJob(ctx context.Context, jobID string) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindWithDetails(ctx, jobID)
	if err != nil {
		return nil, mapJobError(err)
	}
	return buildJobResponse(job), nil
}

func (s *jobService) GetMyJobs(ctx context.Context, recruiterID string) ([]*dto.JobResponse, error) {
	jobs, err := s.jobRepo.FindByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, buildJobResponse(&jobs[i]))
	}
	return items, nil
}

func (s *jobService) UpdateJob(ctx context.Context, caller auth.Identity, jobID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, mapJobError(err)
	}
	if err := auth.AuthorizeOwner(caller, job.RecruiterID); err != nil {
		return nil, err
	}

	updates, err := jobUpdates(req)
	if err != nil {
		return nil, err
	}
	if err := s.jobRepo.UpdateFields(ctx, jobID, updates); err != nil {
		return nil, mapJobError(err)
	}

	updated, err := s.jobRepo.FindWithDetails(ctx, jobID)
	if err != nil {
		return nil, mapJobError(err)
	}

	logger.CtxInfo(ctx, "Job updated", "job_id", jobID, "fields", len(updates))
	return buildJobResponse(updated), nil
}

func (s *jobService) DeleteJob(ctx context.Context, caller auth.Identity, jobID string) error {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return mapJobError(err)
	}
	if err := auth.AuthorizeOwner(caller, job.RecruiterID); err != nil {
		return err
	}

	if err := s.jobRepo.Delete(ctx, jobID); err != nil {
		return mapJobError(err)
	}

	logger.CtxInfo(ctx, "Job deleted", "job_id", jobID)
	return nil
}

// jobUpdates переводит частичный патч в набор колонок
func jobUpdates(req *dto.UpdateJobRequest) (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	setTrimmed := func(column string, value *string, required bool) error {
		if value == nil {
			return nil
		}
		v := strings.TrimSpace(*value)
		if required && v == "" {
			return apperrors.NewBadRequestError(column + " cannot be empty")
		}
		updates[column] = v
		return nil
	}

	if err := setTrimmed("title", req.Title, true); err != nil {
		return nil, err
	}
	if err := setTrimmed("description", req.Description, true); err != nil {
		return nil, err
	}
	if err := setTrimmed("location", req.Location, true); err != nil {
		return nil, err
	}
	if err := setTrimmed("category", req.Category, true); err != nil {
		return nil, err
	}
	if req.Requirements != nil {
		updates["requirements"] = *req.Requirements
	}
	if req.Salary != nil {
		updates["salary"] = *req.Salary
	}
	if req.JobType != nil {
		t := models.JobType(*req.JobType)
		if !t.IsValid() {
			return nil, apperrors.NewBadRequestError("Invalid jobType")
		}
		updates["job_type"] = t
	}
	if req.ExperienceLevel != nil {
		l := models.ExperienceLevel(*req.ExperienceLevel)
		if !l.IsValid() {
			return nil, apperrors.NewBadRequestError("Invalid experienceLevel")
		}
		updates["experience_level"] = l
	}
	if req.Status != nil {
		st := models.JobStatus(*req.Status)
		if !st.IsValid() {
			return nil, apperrors.NewBadRequestError("Invalid status. Must be: OPEN or CLOSED")
		}
		updates["status"] = st
	}
	if req.Tags != nil {
		updates["tags"] = datatypes.JSONSlice[string](uniqueStrings(req.Tags))
	}
	if req.IsRemote != nil {
		updates["is_remote"] = *req.IsRemote
	}
	if req.ExpiresAt != nil {
		updates["expires_at"] = *req.ExpiresAt
		// новый срок - новое предупреждение
		updates["expiry_notified_at"] = nil
	}
	return updates, nil
}

func mapJobError(err error) error {
	if errors.Is(err, repositories.ErrJobNotFound) {
		return apperrors.ErrJobNotFound
	}
	return apperrors.InternalError(err)
}
