package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"shebeka_backend/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

const applicationsCountSelect = "jobs.*, (SELECT COUNT(*) FROM applications WHERE applications.job_id = jobs.id) AS applications_count"

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id string) (*models.Job, error)
	FindWithDetails(ctx context.Context, id string) (*models.Job, error)
	FindOpen(ctx context.Context, criteria JobCriteria) ([]models.Job, int64, error)
	FindByRecruiter(ctx context.Context, recruiterID string) ([]models.Job, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error

	// Worker operations
	FindExpiringUnnotified(ctx context.Context, now, until time.Time) ([]models.Job, error)
	MarkExpiryNotified(ctx context.Context, id string, at time.Time) error
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
}

type JobRepositoryImpl struct {
	db *gorm.DB
}

// JobCriteria - фильтры публичного списка вакансий (только OPEN)
type JobCriteria struct {
	Search          string
	Category        string
	JobType         models.JobType
	ExperienceLevel models.ExperienceLevel
	IsRemote        *bool
	Page            int
	Limit           int
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{db: db}
}

func (r *JobRepositoryImpl) Create(ctx context.Context, job *models.Job) error {
	if job.Tags == nil {
		job.Tags = []string{}
	}
	return conn(ctx, r.db).Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := conn(ctx, r.db).First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindWithDetails - вакансия с рекрутером и количеством откликов
func (r *JobRepositoryImpl) FindWithDetails(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := conn(ctx, r.db).
		Select(applicationsCountSelect).
		Preload("Recruiter").
		Where("jobs.id = ?", id).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindOpen(ctx context.Context, criteria JobCriteria) ([]models.Job, int64, error) {
	var jobs []models.Job
	query := conn(ctx, r.db).Model(&models.Job{}).Where("jobs.status = ?", models.JobStatusOpen)

	if search := strings.TrimSpace(criteria.Search); search != "" {
		needle := strings.ToLower(search)
		pattern := "%" + escapeLike(needle) + "%"
		query = query.Where(
			"LOWER(jobs.title) LIKE ? ESCAPE '!' OR LOWER(jobs.description) LIKE ? ESCAPE '!' OR LOWER("+r.textCast("jobs.tags")+") LIKE ? ESCAPE '!'",
			pattern, pattern, tagPattern(needle),
		)
	}
	if criteria.Category != "" {
		query = query.Where("jobs.category = ?", criteria.Category)
	}
	if criteria.JobType != "" {
		query = query.Where("jobs.job_type = ?", criteria.JobType)
	}
	if criteria.ExperienceLevel != "" {
		query = query.Where("jobs.experience_level = ?", criteria.ExperienceLevel)
	}
	if criteria.IsRemote != nil {
		query = query.Where("jobs.is_remote = ?", *criteria.IsRemote)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Select(applicationsCountSelect).
		Preload("Recruiter").
		Order("jobs.created_at DESC").
		Limit(criteria.Limit).
		Offset(offset(criteria.Page, criteria.Limit)).
		Find(&jobs).Error

	return jobs, total, err
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike экранирует спецсимволы LIKE; '!' не требует экранирования ни в одном диалекте
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// tagPattern ищет подстроку внутри элементов JSON-массива тегов.
// Запрос кодируется так же, как хранятся теги, поэтому кавычки из запроса
// не совпадают с разделителями между элементами.
func tagPattern(needle string) string {
	encoded, err := json.Marshal(needle)
	if err != nil {
		return "%" + escapeLike(needle) + "%"
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(string(encoded), `"`), `"`)
	return "%" + escapeLike(inner) + "%"
}

// textCast - приведение JSON-колонки к тексту зависит от диалекта
func (r *JobRepositoryImpl) textCast(column string) string {
	if r.db.Dialector.Name() == "mysql" {
		return "CAST(" + column + " AS CHAR)"
	}
	return "CAST(" + column + " AS TEXT)"
}

func (r *JobRepositoryImpl) FindByRecruiter(ctx context.Context, recruiterID string) ([]models.Job, error) {
	var jobs []models.Job
	err := conn(ctx, r.db).
		Select(applicationsCountSelect).
		Where("jobs.recruiter_id = ?", recruiterID).
		Order("jobs.created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()

	result := conn(ctx, r.db).Model(&models.Job{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// Delete - мягкое удаление, отклики остаются
func (r *JobRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&models.Job{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// Worker operations

func (r *JobRepositoryImpl) FindExpiringUnnotified(ctx context.Context, now, until time.Time) ([]models.Job, error) {
	var jobs []models.Job
	err := conn(ctx, r.db).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at > ? AND expires_at <= ? AND expiry_notified_at IS NULL",
			models.JobStatusOpen, now, until).
		Order("expires_at ASC").
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) MarkExpiryNotified(ctx context.Context, id string, at time.Time) error {
	return conn(ctx, r.db).Model(&models.Job{}).Where("id = ?", id).
		Update("expiry_notified_at", at).Error
}

func (r *JobRepositoryImpl) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	result := conn(ctx, r.db).Model(&models.Job{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", models.JobStatusOpen, now).
		Updates(map[string]interface{}{
			"status":     models.JobStatusClosed,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
