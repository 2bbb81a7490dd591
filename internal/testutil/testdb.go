package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"shebeka_backend/database"
	"shebeka_backend/internal/auth"
	"shebeka_backend/internal/config"
	"shebeka_backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbCounter atomic.Int64

// NewTestDB - отдельная in-memory SQLite база на каждый тест
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Env = config.EnvTest
	cfg.Database.Driver = "sqlite"
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg.Database.DSN = fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbCounter.Add(1))

	ctx := context.Background()
	db, err := database.Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(ctx, db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// CreateUser создает пользователя с паролем "password123"
func CreateUser(t *testing.T, db *gorm.DB, name string, role models.UserRole, skills ...string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	if skills == nil {
		skills = []string{}
	}
	user := &models.User{
		Name:         name,
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + fmt.Sprintf("+%d@example.com", dbCounter.Add(1)),
		PasswordHash: hash,
		Role:         role,
		Skills:       skills,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateJob создает открытую вакансию; createdAt задает порядок в выдаче
func CreateJob(t *testing.T, db *gorm.DB, recruiterID, title string, mutate ...func(*models.Job)) *models.Job {
	t.Helper()

	job := &models.Job{
		Title:           title,
		Description:     title + " description",
		Location:        "Remote",
		JobType:         models.JobTypeFullTime,
		ExperienceLevel: models.ExperienceMid,
		Category:        "General",
		Tags:            []string{},
		Status:          models.JobStatusOpen,
		RecruiterID:     recruiterID,
	}
	for _, m := range mutate {
		m(job)
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

// CreateApplication создает отклик в статусе PENDING, если не указан другой
func CreateApplication(t *testing.T, db *gorm.DB, applierID, jobID string, status ...models.ApplicationStatus) *models.Application {
	t.Helper()

	application := &models.Application{
		ApplierID: applierID,
		JobID:     jobID,
		Status:    models.ApplicationStatusPending,
	}
	if len(status) > 0 {
		application.Status = status[0]
	}
	require.NoError(t, db.Create(application).Error)
	return application
}

// At - фиксированное время для тестов с сортировкой
func At(minutesAgo int) time.Time {
	return time.Now().UTC().Add(-time.Duration(minutesAgo) * time.Minute).Truncate(time.Second)
}
