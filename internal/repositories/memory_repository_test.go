package repositories

import (
	"context"
	"testing"
	"time"

	"jobboard_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &models.User{Email: "sam@example.com", FirstName: "Sam", Role: models.UserRoleJobseeker}
	require.NoError(t, repo.Create(ctx, user))
	assert.False(t, user.ID.IsZero())

	err := repo.Create(ctx, &models.User{Email: "sam@example.com"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	found, err := repo.FindByEmail(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)

	// изменения копии не протекают в хранилище
	found.Profile.Skills = append(found.Profile.Skills, "go")
	again, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Profile.Skills)

	require.NoError(t, repo.SetResume(ctx, user.ID, "/uploads/resumes/1-cv.pdf"))
	ok, err := repo.ReferencesResume(ctx, "resumes/1-cv.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.ReferencesResume(ctx, "resumes/2-other.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	byIDs, err := repo.FindByIDs(ctx, []primitive.ObjectID{user.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)
}

func TestMemoryJobRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryJobRepository()
	employer := primitive.NewObjectID()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	jobs := []*models.Job{
		{Title: "Go Developer", Location: "Remote", EmploymentType: models.EmploymentFullTime, Status: models.JobStatusActive, EmployerID: employer, CreatedAt: base},
		{Title: "Designer", Company: "GoDesign", Location: "Berlin", EmploymentType: models.EmploymentContract, Status: models.JobStatusActive, CreatedAt: base.Add(time.Hour)},
		{Title: "Closed role", Location: "Remote", Status: models.JobStatusClosed, EmployerID: employer, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, j := range jobs {
		require.NoError(t, repo.Create(ctx, j))
	}

	all, err := repo.List(ctx, JobFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Closed role", all[0].Title)

	active, err := repo.List(ctx, JobFilter{Status: models.JobStatusActive, Query: "go"})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	remote, err := repo.List(ctx, JobFilter{Location: "remote", EmployerID: employer})
	require.NoError(t, err)
	assert.Len(t, remote, 2)

	limited, err := repo.List(ctx, JobFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	contract, err := repo.List(ctx, JobFilter{EmploymentType: models.EmploymentContract})
	require.NoError(t, err)
	require.Len(t, contract, 1)
	assert.Equal(t, "Designer", contract[0].Title)
}

func TestMemoryJobRepository_Applications(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryJobRepository()
	job := &models.Job{Title: "Go Developer", Status: models.JobStatusActive}
	require.NoError(t, repo.Create(ctx, job))

	applicant := primitive.NewObjectID()
	app := models.Application{
		ID:          primitive.NewObjectID(),
		ApplicantID: applicant,
		ResumeURL:   "/uploads/resumes/1-cv.pdf",
		Status:      models.ApplicationStatusPending,
	}
	require.NoError(t, repo.AppendApplication(ctx, job.ID, app))
	assert.ErrorIs(t, repo.AppendApplication(ctx, primitive.NewObjectID(), app), ErrJobNotFound)

	mine, err := repo.ListByApplicant(ctx, applicant)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, job.ID, mine[0].ID)

	require.NoError(t, repo.UpdateApplicationStatus(ctx, job.ID, app.ID, models.ApplicationStatusAccepted))
	err = repo.UpdateApplicationStatus(ctx, job.ID, primitive.NewObjectID(), models.ApplicationStatusAccepted)
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	stored, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, stored.Applications, 1)
	assert.Equal(t, models.ApplicationStatusAccepted, stored.Applications[0].Status)

	ok, err := repo.ReferencesResume(ctx, "resumes/1-cv.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Delete(ctx, job.ID))
	assert.ErrorIs(t, repo.Delete(ctx, job.ID), ErrJobNotFound)
}
