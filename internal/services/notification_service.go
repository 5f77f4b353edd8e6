package services

import (
	"context"
	"sync"
	"time"

	"jobboard_backend/internal/email"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
)

const notificationTimeout = 30 * time.Second

// NotificationService - письма по событиям откликов. Отправка идёт в фоне,
// ошибки только логируются и на ответ API не влияют.
type NotificationService interface {
	NotifyNewApplication(ctx context.Context, job *models.Job, app *models.Application, applicant *models.User)
	NotifyApplicationStatus(ctx context.Context, job *models.Job, app *models.Application)
	// Wait дожидается фоновых отправок (graceful shutdown, тесты).
	Wait()
}

type notificationService struct {
	provider email.Provider
	userRepo repositories.UserRepository
	wg       sync.WaitGroup
}

func NewNotificationService(provider email.Provider, userRepo repositories.UserRepository) NotificationService {
	return &notificationService{
		provider: provider,
		userRepo: userRepo,
	}
}

func (s *notificationService) NotifyNewApplication(ctx context.Context, job *models.Job, app *models.Application, applicant *models.User) {
	jobCopy, appCopy := *job, *app
	applicantName := ""
	if applicant != nil {
		applicantName = applicant.FullName()
	}

	s.dispatch(ctx, "new_application", func(ctx context.Context) error {
		employer, err := s.userRepo.FindByID(ctx, jobCopy.EmployerID)
		if err != nil {
			return err
		}
		return s.provider.SendTemplate(ctx, []string{employer.Email},
			"New application: "+jobCopy.Title,
			email.TemplateApplicationReceived,
			email.TemplateData{
				"EmployerName":  employer.FullName(),
				"ApplicantName": applicantName,
				"JobTitle":      jobCopy.Title,
				"ResumeURL":     appCopy.ResumeURL,
				"CoverLetter":   appCopy.CoverLetter,
			})
	})
}

func (s *notificationService) NotifyApplicationStatus(ctx context.Context, job *models.Job, app *models.Application) {
	jobCopy, appCopy := *job, *app

	s.dispatch(ctx, "application_status", func(ctx context.Context) error {
		applicant, err := s.userRepo.FindByID(ctx, appCopy.ApplicantID)
		if err != nil {
			return err
		}
		return s.provider.SendTemplate(ctx, []string{applicant.Email},
			"Application update: "+jobCopy.Title,
			email.TemplateApplicationStatus,
			email.TemplateData{
				"ApplicantName": applicant.FullName(),
				"JobTitle":      jobCopy.Title,
				"Company":       jobCopy.Company,
				"Status":        string(appCopy.Status),
			})
	})
}

func (s *notificationService) Wait() {
	s.wg.Wait()
}

// dispatch отвязывает отправку от запроса: клиент уже получил ответ.
func (s *notificationService) dispatch(ctx context.Context, kind string, send func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notificationTimeout)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		if err := send(ctx); err != nil {
			logger.CtxWithError(ctx, "⚠️ Notification not sent", err, "kind", kind)
			return
		}
		logger.CtxDebug(ctx, "Notification sent", "kind", kind)
	}()
}
