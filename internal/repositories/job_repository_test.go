package repositories

import (
	"context"
	"testing"
	"time"

	"shebeka_backend/internal/models"
	"shebeka_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRepository_FindOpen_FiltersAndOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	recruiter := testutil.CreateUser(t, db, "Rita Recruiter", models.UserRoleRecruiter)

	oldest := testutil.CreateJob(t, db, recruiter.ID, "Go Developer", func(j *models.Job) {
		j.Category = "Engineering"
		j.Tags = []string{"golang", "postgres"}
		j.CreatedAt = testutil.At(30)
	})
	newest := testutil.CreateJob(t, db, recruiter.ID, "Backend Engineer", func(j *models.Job) {
		j.Category = "Engineering"
		j.IsRemote = true
		j.CreatedAt = testutil.At(10)
	})
	testutil.CreateJob(t, db, recruiter.ID, "Designer", func(j *models.Job) {
		j.Category = "Design"
		j.CreatedAt = testutil.At(20)
	})
	testutil.CreateJob(t, db, recruiter.ID, "Closed Engineering Role", func(j *models.Job) {
		j.Category = "Engineering"
		j.Status = models.JobStatusClosed
		j.CreatedAt = testutil.At(5)
	})

	jobs, total, err := repo.FindOpen(ctx, JobCriteria{Category: "Engineering", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, jobs, 2)
	assert.Equal(t, newest.ID, jobs[0].ID)
	assert.Equal(t, oldest.ID, jobs[1].ID)
	require.NotNil(t, jobs[0].Recruiter)
	assert.Equal(t, recruiter.ID, jobs[0].Recruiter.ID)

	t.Run("search is case-insensitive across title and tags", func(t *testing.T) {
		jobs, total, err := repo.FindOpen(ctx, JobCriteria{Search: "BACKEND", Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, newest.ID, jobs[0].ID)

		jobs, _, err = repo.FindOpen(ctx, JobCriteria{Search: "Postgres", Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, oldest.ID, jobs[0].ID)
	})

	t.Run("remote filter", func(t *testing.T) {
		remote := true
		jobs, total, err := repo.FindOpen(ctx, JobCriteria{IsRemote: &remote, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, newest.ID, jobs[0].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		jobs, total, err := repo.FindOpen(ctx, JobCriteria{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, jobs, 1)
		assert.Equal(t, oldest.ID, jobs[0].ID)
	})
}

func TestJobRepository_FindOpen_SearchIsLiteral(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	recruiter := testutil.CreateUser(t, db, "Rita Recruiter", models.UserRoleRecruiter)
	dev := testutil.CreateJob(t, db, recruiter.ID, "Go Developer", func(j *models.Job) {
		j.Tags = []string{"a", "b"}
	})
	testutil.CreateJob(t, db, recruiter.ID, "Accountant", func(j *models.Job) {
		j.Tags = []string{"x", "y"}
	})
	discount := testutil.CreateJob(t, db, recruiter.ID, "Sales 100% commission", func(j *models.Job) {
		j.Tags = []string{"c_sharp"}
	})

	cases := []struct {
		name   string
		search string
		want   []string
	}{
		{"percent matches only literal percent", "%", []string{discount.ID}},
		{"underscore matches only literal underscore", "_", []string{discount.ID}},
		{"bang is not an escape leak", "!", nil},
		{"separator between tags", `","`, nil},
		{"bracket of tag array", "[", nil},
		{"tag substring", "sha", []string{discount.ID}},
		{"whole tag", "b", []string{dev.ID}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			jobs, total, err := repo.FindOpen(ctx, JobCriteria{Search: tc.search, Page: 1, Limit: 10})
			require.NoError(t, err)
			assert.Equal(t, int64(len(tc.want)), total)
			ids := make([]string, 0, len(jobs))
			for _, j := range jobs {
				ids = append(ids, j.ID)
			}
			assert.ElementsMatch(t, tc.want, ids)
		})
	}
}

func TestJobRepository_ApplicationsCount(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	recruiter := testutil.CreateUser(t, db, "Rita Recruiter", models.UserRoleRecruiter)
	a1 := testutil.CreateUser(t, db, "Ann Applier", models.UserRoleApplier)
	a2 := testutil.CreateUser(t, db, "Bob Applier", models.UserRoleApplier)
	job := testutil.CreateJob(t, db, recruiter.ID, "Backend Engineer")
	testutil.CreateApplication(t, db, a1.ID, job.ID)
	testutil.CreateApplication(t, db, a2.ID, job.ID)

	found, err := repo.FindWithDetails(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.ApplicationsCount)
	assert.Equal(t, "Rita Recruiter", found.Recruiter.Name)

	mine, err := repo.FindByRecruiter(ctx, recruiter.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, int64(2), mine[0].ApplicationsCount)
}

func TestJobRepository_DeleteIsSoft(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	recruiter := testutil.CreateUser(t, db, "Rita Recruiter", models.UserRoleRecruiter)
	job := testutil.CreateJob(t, db, recruiter.ID, "Temp")

	require.NoError(t, repo.Delete(ctx, job.ID))

	_, err := repo.FindByID(ctx, job.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, job.ID), ErrJobNotFound)

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Job{}).Where("id = ?", job.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestJobRepository_ExpiryQueries(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	recruiter := testutil.CreateUser(t, db, "Rita Recruiter", models.UserRoleRecruiter)
	soon := now.Add(48 * time.Hour)
	later := now.Add(10 * 24 * time.Hour)
	past := now.Add(-time.Hour)

	expiring := testutil.CreateJob(t, db, recruiter.ID, "Expiring", func(j *models.Job) { j.ExpiresAt = &soon })
	testutil.CreateJob(t, db, recruiter.ID, "Later", func(j *models.Job) { j.ExpiresAt = &later })
	expired := testutil.CreateJob(t, db, recruiter.ID, "Expired", func(j *models.Job) { j.ExpiresAt = &past })

	jobs, err := repo.FindExpiringUnnotified(ctx, now, now.Add(72*time.Hour))
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, expiring.ID, jobs[0].ID)

	require.NoError(t, repo.MarkExpiryNotified(ctx, expiring.ID, now))
	jobs, err = repo.FindExpiringUnnotified(ctx, now, now.Add(72*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, jobs)

	closed, err := repo.CloseExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), closed)

	reloaded, err := repo.FindByID(ctx, expired.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusClosed, reloaded.Status)
}
