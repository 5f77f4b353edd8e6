package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"jobboard_backend/internal/email"
	"jobboard_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sentEmail struct {
	to       []string
	template string
	data     email.TemplateData
}

type captureProvider struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (p *captureProvider) Send(context.Context, *email.Email) error { return p.err }

func (p *captureProvider) SendTemplate(_ context.Context, to []string, _ string, templateName string, data email.TemplateData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, sentEmail{to: to, template: templateName, data: data})
	return p.err
}

func TestNotificationService_NewApplicationGoesToEmployer(t *testing.T) {
	f := newFixture(t)
	employer := f.register(t, "boss@example.com", models.UserRoleEmployer)
	provider := &captureProvider{}
	svc := NewNotificationService(provider, f.users)

	job := &models.Job{ID: primitive.NewObjectID(), Title: "Go Developer", EmployerID: employer.UserID}
	app := &models.Application{ID: primitive.NewObjectID(), ResumeURL: "/uploads/resumes/1-cv.pdf"}

	ctx, cancel := context.WithCancel(context.Background())
	svc.NotifyNewApplication(ctx, job, app, &models.User{FirstName: "Sam"})
	cancel()
	svc.Wait()

	require.Len(t, provider.sent, 1)
	assert.Equal(t, []string{"boss@example.com"}, provider.sent[0].to)
	assert.Equal(t, email.TemplateApplicationReceived, provider.sent[0].template)
	assert.Equal(t, "Sam", provider.sent[0].data["ApplicantName"])
}

func TestNotificationService_StatusGoesToApplicant(t *testing.T) {
	f := newFixture(t)
	seeker := f.register(t, "sam@example.com", models.UserRoleJobseeker)
	provider := &captureProvider{err: errors.New("smtp down")}
	svc := NewNotificationService(provider, f.users)

	job := &models.Job{Title: "Go Developer", Company: "Acme"}
	app := &models.Application{ApplicantID: seeker.UserID, Status: models.ApplicationStatusRejected}

	svc.NotifyApplicationStatus(context.Background(), job, app)
	svc.Wait()

	require.Len(t, provider.sent, 1)
	assert.Equal(t, []string{"sam@example.com"}, provider.sent[0].to)
	assert.Equal(t, "rejected", provider.sent[0].data["Status"])
}
