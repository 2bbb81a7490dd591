package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"shebeka_backend/internal/models"
	"shebeka_backend/internal/repositories"
	"shebeka_backend/internal/services"
	"shebeka_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type brokenNotificationRepo struct {
	repositories.NotificationRepository
}

func (brokenNotificationRepo) Create(context.Context, *models.Notification) error {
	return errors.New("notifications unavailable")
}

func newWorker(db *gorm.DB, notificationRepo repositories.NotificationRepository) *JobExpiryWorker {
	userRepo := repositories.NewUserRepository(db)
	notifications := services.NewNotificationService(notificationRepo, userRepo, nil)
	return NewJobExpiryWorker(repositories.NewJobRepository(db), notifications, time.Hour, 72*time.Hour)
}

func expiringAt(at time.Time) func(*models.Job) {
	return func(j *models.Job) { j.ExpiresAt = &at }
}

func TestJobExpiryWorker_RunOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	worker := newWorker(db, repositories.NewNotificationRepository(db))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	recruiter := testutil.CreateUser(t, db, "Rita Recruiter", models.UserRoleRecruiter)
	soon := testutil.CreateJob(t, db, recruiter.ID, "Soon", expiringAt(now.Add(48*time.Hour)))
	later := testutil.CreateJob(t, db, recruiter.ID, "Later", expiringAt(now.Add(30*24*time.Hour)))
	expired := testutil.CreateJob(t, db, recruiter.ID, "Expired", expiringAt(now.Add(-time.Hour)))
	forever := testutil.CreateJob(t, db, recruiter.ID, "Forever")

	worker.RunOnce(ctx, now)

	var notifications []models.Notification
	require.NoError(t, db.Where("user_id = ?", recruiter.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationJobExpiring, notifications[0].Type)
	require.NotNil(t, notifications[0].RelatedID)
	assert.Equal(t, soon.ID, *notifications[0].RelatedID)
	assert.Contains(t, notifications[0].Message, "2 days")

	statusOf := func(id string) models.JobStatus {
		var j models.Job
		require.NoError(t, db.First(&j, "id = ?", id).Error)
		return j.Status
	}
	assert.Equal(t, models.JobStatusOpen, statusOf(soon.ID))
	assert.Equal(t, models.JobStatusOpen, statusOf(later.ID))
	assert.Equal(t, models.JobStatusClosed, statusOf(expired.ID))
	assert.Equal(t, models.JobStatusOpen, statusOf(forever.ID))

	// повторный проход не дублирует предупреждение
	worker.RunOnce(ctx, now.Add(time.Hour))
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", recruiter.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestJobExpiryWorker_RetriesWhenNotificationNotSaved(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	recruiter := testutil.CreateUser(t, db, "Rita Recruiter", models.UserRoleRecruiter)
	job := testutil.CreateJob(t, db, recruiter.ID, "Soon", expiringAt(now.Add(24*time.Hour)))

	newWorker(db, brokenNotificationRepo{repositories.NewNotificationRepository(db)}).RunOnce(ctx, now)

	var stored models.Job
	require.NoError(t, db.First(&stored, "id = ?", job.ID).Error)
	assert.Nil(t, stored.ExpiryNotifiedAt)

	newWorker(db, repositories.NewNotificationRepository(db)).RunOnce(ctx, now)

	require.NoError(t, db.First(&stored, "id = ?", job.ID).Error)
	assert.NotNil(t, stored.ExpiryNotifiedAt)
}

func TestJobExpiryWorker_StartStopsOnCancel(t *testing.T) {
	db := testutil.NewTestDB(t)
	worker := newWorker(db, repositories.NewNotificationRepository(db))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}
