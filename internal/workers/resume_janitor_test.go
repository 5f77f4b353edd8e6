package workers

import (
	"context"
	"strings"
	"testing"
	"time"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResumeJanitor_Sweep(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	users := repositories.NewMemoryUserRepository()
	jobs := repositories.NewMemoryJobRepository()

	for _, p := range []string{"resumes/1-profile.pdf", "resumes/2-applied.pdf", "resumes/3-orphan.pdf"} {
		require.NoError(t, store.Save(ctx, p, strings.NewReader("%PDF-1.4"), "application/pdf"))
	}

	user := &models.User{Email: "sam@example.com", Role: models.UserRoleJobseeker}
	require.NoError(t, users.Create(ctx, user))
	require.NoError(t, users.SetResume(ctx, user.ID, store.GetURL("resumes/1-profile.pdf")))

	job := &models.Job{Title: "Go Developer", Status: models.JobStatusActive}
	require.NoError(t, jobs.Create(ctx, job))
	require.NoError(t, jobs.AppendApplication(ctx, job.ID, models.Application{
		ID:        primitive.NewObjectID(),
		ResumeURL: store.GetURL("resumes/2-applied.pdf"),
		Status:    models.ApplicationStatusPending,
	}))

	janitor := NewResumeJanitor(store, time.Hour, users, jobs)

	// всё ещё в grace-периоде
	deleted, err := janitor.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	janitor.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	deleted, err = janitor.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	objects, err := store.List(ctx, resumePrefix)
	require.NoError(t, err)
	paths := make([]string, 0, len(objects))
	for _, o := range objects {
		paths = append(paths, o.Path)
	}
	assert.ElementsMatch(t, []string{"resumes/1-profile.pdf", "resumes/2-applied.pdf"}, paths)
}

func TestResumeJanitor_StartRejectsBadSchedule(t *testing.T) {
	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	janitor := NewResumeJanitor(store, 0)
	assert.Error(t, janitor.Start(context.Background(), "not a schedule"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.NoError(t, janitor.Start(ctx, "@every 1h"))
}
