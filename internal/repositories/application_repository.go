package repositories

import (
	"context"
	"errors"
	"time"

	"shebeka_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("application for this job already exists")
)

type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) error
	FindByID(ctx context.Context, id string) (*models.Application, error)
	FindWithDetails(ctx context.Context, id string) (*models.Application, error)
	ExistsForApplierAndJob(ctx context.Context, applierID, jobID string) (bool, error)
	FindByApplier(ctx context.Context, applierID string) ([]models.Application, error)
	FindByJob(ctx context.Context, jobID string) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
	GetRecruiterStats(ctx context.Context, recruiterID string) (*ApplicationStats, error)
}

type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

type ApplicationStats struct {
	Total    int64
	ByStatus map[models.ApplicationStatus]int64
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

// Create - повторный отклик отсекается уникальным индексом (applier_id, job_id)
func (r *ApplicationRepositoryImpl) Create(ctx context.Context, application *models.Application) error {
	if err := conn(ctx, r.db).Create(application).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateApplication
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Application, error) {
	var application models.Application
	err := conn(ctx, r.db).
		Preload("Job", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&application, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

// FindWithDetails - отклик с вакансией, рекрутером и кандидатом
func (r *ApplicationRepositoryImpl) FindWithDetails(ctx context.Context, id string) (*models.Application, error) {
	var application models.Application
	err := conn(ctx, r.db).
		Preload("Job", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Job.Recruiter").
		Preload("Applier").
		First(&application, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) ExistsForApplierAndJob(ctx context.Context, applierID, jobID string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Application{}).
		Where("applier_id = ? AND job_id = ?", applierID, jobID).
		Count(&count).Error
	return count > 0, err
}

func (r *ApplicationRepositoryImpl) FindByApplier(ctx context.Context, applierID string) ([]models.Application, error) {
	var applications []models.Application
	err := conn(ctx, r.db).
		Preload("Job", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Job.Recruiter").
		Where("applier_id = ?", applierID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) FindByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	var applications []models.Application
	err := conn(ctx, r.db).
		Preload("Applier").
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	result := conn(ctx, r.db).Model(&models.Application{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// GetRecruiterStats - отклики по всем вакансиям рекрутера (включая удаленные), по статусам
func (r *ApplicationRepositoryImpl) GetRecruiterStats(ctx context.Context, recruiterID string) (*ApplicationStats, error) {
	stats := &ApplicationStats{ByStatus: make(map[models.ApplicationStatus]int64)}

	var statusStats []struct {
		Status models.ApplicationStatus
		Count  int64
	}

	err := conn(ctx, r.db).Model(&models.Application{}).
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.recruiter_id = ?", recruiterID).
		Select("applications.status AS status, COUNT(*) AS count").
		Group("applications.status").
		Scan(&statusStats).Error
	if err != nil {
		return nil, err
	}

	for _, ss := range statusStats {
		stats.ByStatus[ss.Status] = ss.Count
		stats.Total += ss.Count
	}
	return stats, nil
}
