package repositories

import (
	"context"
	"testing"

	"shebeka_backend/internal/models"
	"shebeka_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationRepository_UniquePair(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	recruiter := testutil.CreateUser(t, db, "Rita Recruiter", models.UserRoleRecruiter)
	applier := testutil.CreateUser(t, db, "Ann Applier", models.UserRoleApplier)
	job := testutil.CreateJob(t, db, recruiter.ID, "Backend Engineer")

	first := &models.Application{ApplierID: applier.ID, JobID: job.ID, Status: models.ApplicationStatusPending}
	require.NoError(t, repo.Create(ctx, first))

	second := &models.Application{ApplierID: applier.ID, JobID: job.ID, Status: models.ApplicationStatusPending}
	assert.ErrorIs(t, repo.Create(ctx, second), ErrDuplicateApplication)

	exists, err := repo.ExistsForApplierAndJob(ctx, applier.ID, job.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	var count int64
	require.NoError(t, db.Model(&models.Application{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestApplicationRepository_FindByApplier_SurvivesJobDeletion(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewApplicationRepository(db)
	jobs := NewJobRepository(db)
	ctx := context.Background()

	recruiter := testutil.CreateUser(t, db, "Rita Recruiter", models.UserRoleRecruiter)
	applier := testutil.CreateUser(t, db, "Ann Applier", models.UserRoleApplier)
	job := testutil.CreateJob(t, db, recruiter.ID, "Backend Engineer")
	testutil.CreateApplication(t, db, applier.ID, job.ID)

	require.NoError(t, jobs.Delete(ctx, job.ID))

	applications, err := repo.FindByApplier(ctx, applier.ID)
	require.NoError(t, err)
	require.Len(t, applications, 1)
	require.NotNil(t, applications[0].Job)
	assert.Equal(t, "Backend Engineer", applications[0].Job.Title)
	require.NotNil(t, applications[0].Job.Recruiter)
	assert.Equal(t, recruiter.ID, applications[0].Job.Recruiter.ID)
}

func TestApplicationRepository_UpdateStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	recruiter := testutil.CreateUser(t, db, "Rita Recruiter", models.UserRoleRecruiter)
	applier := testutil.CreateUser(t, db, "Ann Applier", models.UserRoleApplier)
	job := testutil.CreateJob(t, db, recruiter.ID, "Backend Engineer")
	application := testutil.CreateApplication(t, db, applier.ID, job.ID)

	require.NoError(t, repo.UpdateStatus(ctx, application.ID, models.ApplicationStatusReviewed))

	found, err := repo.FindWithDetails(ctx, application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusReviewed, found.Status)
	assert.Equal(t, applier.ID, found.Applier.ID)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", models.ApplicationStatusReviewed), ErrApplicationNotFound)
}

func TestApplicationRepository_GetRecruiterStats(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	recruiter := testutil.CreateUser(t, db, "Rita Recruiter", models.UserRoleRecruiter)
	other := testutil.CreateUser(t, db, "Oscar Other", models.UserRoleRecruiter)
	a1 := testutil.CreateUser(t, db, "Ann Applier", models.UserRoleApplier)
	a2 := testutil.CreateUser(t, db, "Bob Applier", models.UserRoleApplier)

	j1 := testutil.CreateJob(t, db, recruiter.ID, "Job 1")
	j2 := testutil.CreateJob(t, db, recruiter.ID, "Job 2")
	foreign := testutil.CreateJob(t, db, other.ID, "Foreign")

	testutil.CreateApplication(t, db, a1.ID, j1.ID, models.ApplicationStatusAccepted)
	testutil.CreateApplication(t, db, a2.ID, j1.ID)
	testutil.CreateApplication(t, db, a1.ID, j2.ID)
	testutil.CreateApplication(t, db, a2.ID, foreign.ID)

	stats, err := repo.GetRecruiterStats(ctx, recruiter.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.ByStatus[models.ApplicationStatusPending])
	assert.Equal(t, int64(1), stats.ByStatus[models.ApplicationStatusAccepted])
}
