package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/dto"
	"jobboard_backend/internal/jobsearch"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/storage"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var pdfContent = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<<>>\n%%EOF\n")

type fixture struct {
	users    *repositories.MemoryUserRepository
	jobs     *repositories.MemoryJobRepository
	store    *storage.LocalStorage
	tokens   *auth.TokenManager
	notifier *recordingNotifier

	auth         AuthService
	jobService   JobService
	resumes      ResumeService
	applications ApplicationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	f := &fixture{
		users:    repositories.NewMemoryUserRepository(),
		jobs:     repositories.NewMemoryJobRepository(),
		store:    store,
		tokens:   auth.NewTokenManager("test-secret", time.Hour),
		notifier: &recordingNotifier{},
	}
	f.auth = NewAuthService(f.users, f.tokens)
	f.jobService = NewJobService(f.jobs, f.users, nil, 0)
	f.resumes = NewResumeService(store, f.users, 0)
	f.applications = NewApplicationService(f.jobs, f.users, f.resumes, f.notifier)
	return f
}

func (f *fixture) register(t *testing.T, email string, role models.UserRole) *auth.Identity {
	t.Helper()

	req := &dto.RegisterRequest{
		Email:     email,
		Password:  "pw",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}
	if role == models.UserRoleEmployer {
		req.Company = "Acme"
	}
	resp, err := f.auth.Register(context.Background(), req)
	require.NoError(t, err)

	identity, err := f.auth.Verify(resp.Token)
	require.NoError(t, err)
	return identity
}

func (f *fixture) createJob(t *testing.T, employer *auth.Identity, title string) *models.Job {
	t.Helper()

	job, err := f.jobService.Create(context.Background(), employer, &dto.CreateJobRequest{
		Title:       title,
		Location:    "Remote",
		Description: "Build things",
	})
	require.NoError(t, err)
	return job
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("resume", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["resume"][0]
}

type recordingNotifier struct {
	mu       sync.Mutex
	received []models.Application
	statuses []models.ApplicationStatus
}

func (n *recordingNotifier) NotifyNewApplication(_ context.Context, _ *models.Job, app *models.Application, _ *models.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.received = append(n.received, *app)
}

func (n *recordingNotifier) NotifyApplicationStatus(_ context.Context, _ *models.Job, app *models.Application) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, app.Status)
}

func (n *recordingNotifier) Wait() {}

type stubProvider struct {
	listings []models.ExternalListing
	err      error
	block    bool
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Search(ctx context.Context, _ jobsearch.Query) ([]models.ExternalListing, error) {
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.listings, p.err
}

type failingJobRepo struct {
	*repositories.MemoryJobRepository
}

func (r failingJobRepo) List(context.Context, repositories.JobFilter) ([]models.Job, error) {
	return nil, errors.New("connection refused")
}

type failingAppendRepo struct {
	*repositories.MemoryJobRepository
}

func (r failingAppendRepo) AppendApplication(context.Context, primitive.ObjectID, models.Application) error {
	return errors.New("write conflict")
}
