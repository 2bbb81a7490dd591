package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"shebeka_backend/internal/models"
	"shebeka_backend/internal/services/dto"
	"shebeka_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateJob_DefaultsAndValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	recruiter := testutil.CreateUser(t, env.db, "Rita Recruiter", models.UserRoleRecruiter)

	job, err := env.jobs.CreateJob(ctx, recruiter.ID, &dto.CreateJobRequest{
		Title:       "  Backend Engineer ",
		Description: "Build APIs",
		Location:    "Almaty",
		Tags:        []string{"Go", " Go ", "", "SQL"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, "FULL_TIME", job.JobType)
	assert.Equal(t, "MID", job.ExperienceLevel)
	assert.Equal(t, "General", job.Category)
	assert.Equal(t, "OPEN", job.Status)
	assert.Equal(t, []string{"Go", "SQL"}, job.Tags)
	require.NotNil(t, job.Recruiter)
	assert.Equal(t, recruiter.ID, job.Recruiter.ID)

	_, err = env.jobs.CreateJob(ctx, recruiter.ID, &dto.CreateJobRequest{Title: "x", Description: " ", Location: "y"})
	appErr := requireAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, "Title, description, and location are required", appErr.Message)
}

func TestCreateJob_NotifiesMatchingAppliers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	recruiter := testutil.CreateUser(t, env.db, "Acme Corp", models.UserRoleRecruiter)
	gopher := testutil.CreateUser(t, env.db, "Gopher", models.UserRoleApplier, "go", "Docker")
	designer := testutil.CreateUser(t, env.db, "Designer", models.UserRoleApplier, "Figma")
	newbie := testutil.CreateUser(t, env.db, "Newbie", models.UserRoleApplier)

	job, err := env.jobs.CreateJob(ctx, recruiter.ID, &dto.CreateJobRequest{
		Title:       "Backend Engineer",
		Description: "Build APIs",
		Location:    "Remote",
		Tags:        []string{"Go", "Postgres"},
	})
	require.NoError(t, err)

	matched := env.notificationsOf(t, gopher.ID)
	require.Len(t, matched, 1)
	assert.Equal(t, models.NotificationNewJobMatch, matched[0].Type)
	assert.Equal(t, "New Job Match", matched[0].Title)
	assert.Equal(t, "New job \"Backend Engineer\" at Acme Corp matches your skills!", matched[0].Message)
	require.NotNil(t, matched[0].RelatedID)
	assert.Equal(t, job.ID, *matched[0].RelatedID)
	assert.Len(t, env.pusher.For(gopher.ID), 1)

	assert.Empty(t, env.notificationsOf(t, designer.ID))
	assert.Empty(t, env.notificationsOf(t, newbie.ID))
	assert.Empty(t, env.notificationsOf(t, recruiter.ID))
}

func TestGetJobs_FiltersAndPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	recruiter := testutil.CreateUser(t, env.db, "Rita Recruiter", models.UserRoleRecruiter)

	for i, title := range []string{"Go Developer", "Rust Developer", "QA Engineer"} {
		minutes := i
		testutil.CreateJob(t, env.db, recruiter.ID, title, func(j *models.Job) {
			j.Category = "Engineering"
			j.CreatedAt = testutil.At(10 - minutes)
		})
	}
	testutil.CreateJob(t, env.db, recruiter.ID, "Accountant", func(j *models.Job) { j.Category = "Finance" })
	testutil.CreateJob(t, env.db, recruiter.ID, "Closed Go Role", func(j *models.Job) {
		j.Category = "Engineering"
		j.Status = models.JobStatusClosed
	})

	list, err := env.jobs.GetJobs(ctx, &dto.ListJobsQuery{Category: "Engineering"}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.Pagination.Total)
	assert.Equal(t, 2, list.Pagination.TotalPages)
	assert.True(t, list.Pagination.HasNext)
	require.Len(t, list.Jobs, 2)
	assert.Equal(t, "QA Engineer", list.Jobs[0].Title)

	page2, err := env.jobs.GetJobs(ctx, &dto.ListJobsQuery{Category: "Engineering"}, 2, 2)
	require.NoError(t, err)
	assert.False(t, page2.Pagination.HasNext)
	require.Len(t, page2.Jobs, 1)
	assert.Equal(t, "Go Developer", page2.Jobs[0].Title)

	search, err := env.jobs.GetJobs(ctx, &dto.ListJobsQuery{Search: "developer"}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), search.Pagination.Total)
	assert.Equal(t, 1, search.Pagination.Current)
}

func TestUpdateAndDeleteJob_Ownership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := testutil.CreateUser(t, env.db, "Rita Recruiter", models.UserRoleRecruiter)
	stranger := testutil.CreateUser(t, env.db, "Other Recruiter", models.UserRoleRecruiter)
	job := testutil.CreateJob(t, env.db, owner.ID, "Backend Engineer")

	_, err := env.jobs.UpdateJob(ctx, identityOf(stranger), job.ID, &dto.UpdateJobRequest{Title: strPtr("Hacked")})
	requireAppError(t, err, http.StatusForbidden)

	expires := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	updated, err := env.jobs.UpdateJob(ctx, identityOf(owner), job.ID, &dto.UpdateJobRequest{
		Title:     strPtr("Senior Backend Engineer"),
		Status:    strPtr("CLOSED"),
		Tags:      []string{"Go"},
		ExpiresAt: &expires,
	})
	require.NoError(t, err)
	assert.Equal(t, "Senior Backend Engineer", updated.Title)
	assert.Equal(t, "CLOSED", updated.Status)
	assert.Equal(t, []string{"Go"}, updated.Tags)
	assert.Equal(t, "Backend Engineer description", updated.Description)

	_, err = env.jobs.UpdateJob(ctx, identityOf(owner), job.ID, &dto.UpdateJobRequest{Status: strPtr("ARCHIVED")})
	requireAppError(t, err, http.StatusBadRequest)

	require.Error(t, env.jobs.DeleteJob(ctx, identityOf(stranger), job.ID))
	require.NoError(t, env.jobs.DeleteJob(ctx, identityOf(owner), job.ID))

	_, err = env.jobs.GetJob(ctx, job.ID)
	requireAppError(t, err, http.StatusNotFound)

	mine, err := env.jobs.GetMyJobs(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
