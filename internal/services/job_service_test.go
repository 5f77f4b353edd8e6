package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobboard_backend/internal/dto"
	"jobboard_backend/internal/jobsearch"
	"jobboard_backend/internal/models"
	"jobboard_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobService_CreateDefaults(t *testing.T) {
	f := newFixture(t)
	employer := f.register(t, "boss@example.com", models.UserRoleEmployer)

	job, err := f.jobService.Create(context.Background(), employer, &dto.CreateJobRequest{
		Title:       "Go Developer",
		Location:    "Berlin",
		Description: "Write Go",
		Salary:      &dto.SalaryRequest{Min: 50000, Max: 70000},
	})
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusActive, job.Status)
	assert.Equal(t, models.EmploymentFullTime, job.EmploymentType)
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, DefaultCurrency, job.Salary.Currency)
	assert.Equal(t, employer.UserID, job.EmployerID)
	assert.Equal(t, SourceLocal, job.Source)
}

func TestJobService_CreateRequiresEmployer(t *testing.T) {
	f := newFixture(t)
	seeker := f.register(t, "sam@example.com", models.UserRoleJobseeker)

	_, err := f.jobService.Create(context.Background(), seeker, &dto.CreateJobRequest{
		Title: "x", Location: "y", Description: "z",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbiddenRole))
}

func TestJobService_GetByID(t *testing.T) {
	f := newFixture(t)
	employer := f.register(t, "boss@example.com", models.UserRoleEmployer)
	created := f.createJob(t, employer, "Go Developer")

	job, err := f.jobService.GetByID(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Go Developer", job.Title)
	assert.Nil(t, job.Applications)

	for _, id := range []string{"zzz", "64b7f0c2a1b2c3d4e5f60718"} {
		_, err = f.jobService.GetByID(context.Background(), id)
		assert.True(t, apperrors.Is(err, apperrors.ErrJobNotFound), id)
	}
}

func TestJobService_StatusAndDeleteOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "owner@example.com", models.UserRoleEmployer)
	other := f.register(t, "other@example.com", models.UserRoleEmployer)
	job := f.createJob(t, owner, "Go Developer")

	_, err := f.jobService.UpdateStatus(ctx, other, job.ID.Hex(), models.JobStatusClosed)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbiddenRole))

	_, err = f.jobService.UpdateStatus(ctx, owner, job.ID.Hex(), "archived")
	assert.Error(t, err)

	updated, err := f.jobService.UpdateStatus(ctx, owner, job.ID.Hex(), models.JobStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusClosed, updated.Status)

	mine, err := f.jobService.ListMine(ctx, owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	assert.True(t, apperrors.Is(f.jobService.Delete(ctx, other, job.ID.Hex()), apperrors.ErrForbiddenRole))
	require.NoError(t, f.jobService.Delete(ctx, owner, job.ID.Hex()))

	_, err = f.jobService.GetByID(ctx, job.ID.Hex())
	assert.True(t, apperrors.Is(err, apperrors.ErrJobNotFound))
}

func TestJobService_SearchOnlyActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employer := f.register(t, "boss@example.com", models.UserRoleEmployer)

	f.createJob(t, employer, "Go Developer")
	closed := f.createJob(t, employer, "Go Architect")
	_, err := f.jobService.UpdateStatus(ctx, employer, closed.ID.Hex(), models.JobStatusClosed)
	require.NoError(t, err)
	f.createJob(t, employer, "Rust Developer")

	jobs, err := f.jobService.Search(ctx, &dto.JobSearchQuery{Query: "go"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Go Developer", jobs[0].Title)
}

func TestJobService_Aggregate(t *testing.T) {
	external := []models.ExternalListing{
		{Title: "Remote Go", Via: "https://example.com/1", Source: jobsearch.SourceExternal},
		{Title: "Go SRE", Via: "https://example.com/2", Source: jobsearch.SourceExternal},
	}

	tests := []struct {
		name           string
		provider       jobsearch.Provider
		failLocal      bool
		wantLocal      int
		wantExternal   int
		localStatus    string
		externalStatus string
	}{
		{"both branches", &stubProvider{listings: external}, false, 1, 2, SourceStatusOK, SourceStatusOK},
		{"external fails", &stubProvider{err: errors.New("boom")}, false, 1, 0, SourceStatusOK, SourceStatusDegraded},
		{"external times out", &stubProvider{block: true}, false, 1, 0, SourceStatusOK, SourceStatusDegraded},
		{"external disabled", nil, false, 1, 0, SourceStatusOK, SourceStatusDisabled},
		{"local fails", &stubProvider{listings: external}, true, 0, 2, SourceStatusDegraded, SourceStatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			employer := f.register(t, "boss@example.com", models.UserRoleEmployer)
			f.createJob(t, employer, "Go Developer")

			var svc JobService
			if tt.failLocal {
				svc = NewJobService(failingJobRepo{f.jobs}, f.users, tt.provider, 50*time.Millisecond)
			} else {
				svc = NewJobService(f.jobs, f.users, tt.provider, 50*time.Millisecond)
			}

			resp := svc.Aggregate(context.Background(), &dto.JobSearchQuery{Query: "go"})

			require.NotNil(t, resp.Local)
			require.NotNil(t, resp.External)
			assert.Len(t, resp.Local, tt.wantLocal)
			assert.Len(t, resp.External, tt.wantExternal)
			assert.Equal(t, tt.wantLocal+tt.wantExternal, resp.Metadata.TotalResults)
			assert.Equal(t, tt.localStatus, resp.Metadata.Sources[SourceLocal])
			assert.Equal(t, tt.externalStatus, resp.Metadata.Sources[jobsearch.SourceExternal])
			assert.Equal(t, "go", resp.Metadata.Query)
			assert.False(t, resp.Metadata.Timestamp.IsZero())
		})
	}
}

func TestJobService_AggregateIgnoresClientCancel(t *testing.T) {
	f := newFixture(t)
	employer := f.register(t, "boss@example.com", models.UserRoleEmployer)
	f.createJob(t, employer, "Go Developer")

	svc := NewJobService(f.jobs, f.users, &stubProvider{listings: []models.ExternalListing{{Title: "x"}}}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := svc.Aggregate(ctx, &dto.JobSearchQuery{})
	assert.Len(t, resp.Local, 1)
	assert.Len(t, resp.External, 1)
	assert.Equal(t, SourceStatusOK, resp.Metadata.Sources[jobsearch.SourceExternal])
}
