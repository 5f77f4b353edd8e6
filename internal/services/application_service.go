package services

import (
	"context"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/dto"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/pkg/apperrors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ApplicationService interface {
	// Submit - отклик соискателя. file может быть nil: тогда берётся резюме из профиля.
	Submit(ctx context.Context, identity *auth.Identity, jobID string, req *dto.SubmitApplicationRequest, file *multipart.FileHeader) (*dto.SubmitApplicationResponse, error)
	ListForEmployer(ctx context.Context, identity *auth.Identity) ([]dto.ApplicationView, error)
	ListMine(ctx context.Context, identity *auth.Identity) ([]dto.ApplicationView, error)
	UpdateStatus(ctx context.Context, identity *auth.Identity, jobID, appID string, status models.ApplicationStatus) (*models.Application, error)
}

type ApplicationServiceImpl struct {
	jobRepo       repositories.JobRepository
	userRepo      repositories.UserRepository
	resumes       ResumeService
	notifications NotificationService
	now           func() time.Time
}

func NewApplicationService(
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	resumes ResumeService,
	notifications NotificationService,
) ApplicationService {
	return &ApplicationServiceImpl{
		jobRepo:       jobRepo,
		userRepo:      userRepo,
		resumes:       resumes,
		notifications: notifications,
		now:           time.Now,
	}
}

func (s *ApplicationServiceImpl) Submit(
	ctx context.Context,
	identity *auth.Identity,
	jobID string,
	req *dto.SubmitApplicationRequest,
	file *multipart.FileHeader,
) (*dto.SubmitApplicationResponse, error) {
	// 1. Роль
	if err := auth.Authorize(identity, auth.PermApplicationsSubmit); err != nil {
		return nil, err
	}

	// 2. Вакансия существует
	oid, err := parseObjectID(jobID, apperrors.ErrJobNotFound)
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, mapRepoError(err)
	}

	// 3. Вакансия принимает отклики
	if job.Status != models.JobStatusActive {
		return nil, apperrors.ErrJobNotActive
	}

	applicant, err := s.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	// 4-5. Новый файл или резюме из профиля. Ошибка до любой записи.
	resumeURL := applicant.Profile.Resume
	uploadedPath := ""
	if file != nil {
		uploaded, err := s.resumes.Upload(ctx, identity.UserID, file)
		if err != nil {
			return nil, err
		}
		resumeURL = uploaded.URL
		uploadedPath = uploaded.Path
	}
	if resumeURL == "" {
		return nil, apperrors.ErrMissingResume
	}

	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" {
		phone = applicant.Profile.Phone
	}

	// 6. Запись отклика
	app := models.Application{
		ID:          primitive.NewObjectID(),
		ApplicantID: identity.UserID,
		ResumeURL:   resumeURL,
		CoverLetter: req.CoverLetter,
		PhoneNumber: phone,
		Status:      models.ApplicationStatusPending,
		AppliedAt:   s.now().UTC(),
	}

	if err := s.jobRepo.AppendApplication(ctx, job.ID, app); err != nil {
		if uploadedPath != "" {
			// не транзакция: файл остаётся до очистки janitor
			logger.CtxWarn(ctx, "⚠️ Orphaned resume after failed append", "path", uploadedPath, "job_id", job.ID.Hex())
		}
		return nil, mapRepoError(err)
	}

	logger.CtxInfo(ctx, "✅ Application submitted",
		"job_id", job.ID.Hex(), "application_id", app.ID.Hex(), "applicant_id", identity.UserID.Hex())

	s.notifications.NotifyNewApplication(ctx, job, &app, applicant)

	return &dto.SubmitApplicationResponse{
		Message:       "Application submitted successfully",
		ApplicationID: app.ID,
		JobID:         job.ID,
		Status:        app.Status,
		ResumeURL:     app.ResumeURL,
	}, nil
}

// ListForEmployer - отклики на все вакансии работодателя, новые сверху.
func (s *ApplicationServiceImpl) ListForEmployer(ctx context.Context, identity *auth.Identity) ([]dto.ApplicationView, error) {
	if err := auth.Authorize(identity, auth.PermApplicationsReview); err != nil {
		return nil, err
	}

	jobs, err := s.jobRepo.List(ctx, repositories.JobFilter{EmployerID: identity.UserID})
	if err != nil {
		return nil, mapRepoError(err)
	}

	var applicantIDs []primitive.ObjectID
	for _, j := range jobs {
		for _, a := range j.Applications {
			applicantIDs = append(applicantIDs, a.ApplicantID)
		}
	}

	applicants := map[primitive.ObjectID]*models.User{}
	if len(applicantIDs) > 0 {
		applicants, err = s.userRepo.FindByIDs(ctx, applicantIDs)
		if err != nil {
			return nil, mapRepoError(err)
		}
	}

	views := make([]dto.ApplicationView, 0)
	for _, j := range jobs {
		for _, a := range j.Applications {
			view := toApplicationView(&j, a)
			if u, ok := applicants[a.ApplicantID]; ok {
				view.Applicant = &dto.ApplicantSummary{
					ID:        u.ID,
					FirstName: u.FirstName,
					LastName:  u.LastName,
					Email:     u.Email,
				}
			}
			views = append(views, view)
		}
	}
	sortByAppliedAt(views)
	return views, nil
}

// ListMine - собственные отклики соискателя.
func (s *ApplicationServiceImpl) ListMine(ctx context.Context, identity *auth.Identity) ([]dto.ApplicationView, error) {
	if err := auth.Authorize(identity, auth.PermApplicationsOwn); err != nil {
		return nil, err
	}

	jobs, err := s.jobRepo.ListByApplicant(ctx, identity.UserID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	views := make([]dto.ApplicationView, 0)
	for _, j := range jobs {
		for _, a := range j.Applications {
			if a.ApplicantID == identity.UserID {
				views = append(views, toApplicationView(&j, a))
			}
		}
	}
	sortByAppliedAt(views)
	return views, nil
}

func (s *ApplicationServiceImpl) UpdateStatus(
	ctx context.Context,
	identity *auth.Identity,
	jobID, appID string,
	status models.ApplicationStatus,
) (*models.Application, error) {
	if err := auth.Authorize(identity, auth.PermApplicationsReview); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"status": "must be one of: pending, reviewed, accepted, rejected"})
	}

	jobOID, err := parseObjectID(jobID, apperrors.ErrJobNotFound)
	if err != nil {
		return nil, err
	}
	appOID, err := parseObjectID(appID, apperrors.ErrApplicationNotFound)
	if err != nil {
		return nil, err
	}

	job, err := s.jobRepo.FindByID(ctx, jobOID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if !job.IsOwnedBy(identity.UserID) {
		return nil, apperrors.ErrForbiddenRole
	}
	app := job.FindApplication(appOID)
	if app == nil {
		return nil, apperrors.ErrApplicationNotFound
	}

	if err := s.jobRepo.UpdateApplicationStatus(ctx, job.ID, app.ID, status); err != nil {
		return nil, mapRepoError(err)
	}

	previous := app.Status
	app.Status = status
	logger.CtxInfo(ctx, "Application status changed",
		"job_id", job.ID.Hex(), "application_id", app.ID.Hex(), "from", previous, "to", status)

	if previous != status {
		s.notifications.NotifyApplicationStatus(ctx, job, app)
	}

	updated := *app
	return &updated, nil
}

func toApplicationView(job *models.Job, a models.Application) dto.ApplicationView {
	return dto.ApplicationView{
		ID:          a.ID,
		JobID:       job.ID,
		JobTitle:    job.Title,
		Company:     job.Company,
		ResumeURL:   a.ResumeURL,
		CoverLetter: a.CoverLetter,
		PhoneNumber: a.PhoneNumber,
		Status:      a.Status,
		AppliedAt:   a.AppliedAt,
	}
}

func sortByAppliedAt(views []dto.ApplicationView) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].AppliedAt.After(views[j].AppliedAt)
	})
}
