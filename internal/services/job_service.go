package services

import (
	"context"
	"strings"
	"time"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/dto"
	"jobboard_backend/internal/jobsearch"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/pkg/apperrors"

	"golang.org/x/sync/errgroup"
)

const (
	SourceLocal = "local"

	SourceStatusOK       = "ok"
	SourceStatusDegraded = "degraded"
	SourceStatusDisabled = "disabled"

	DefaultExternalTimeout = 10 * time.Second
	DefaultCurrency        = "USD"
)

type JobService interface {
	// Aggregate всегда возвращает результат: упавшая ветка становится пустой.
	Aggregate(ctx context.Context, query *dto.JobSearchQuery) *dto.AggregateResponse
	Search(ctx context.Context, query *dto.JobSearchQuery) ([]models.Job, error)
	Create(ctx context.Context, identity *auth.Identity, req *dto.CreateJobRequest) (*models.Job, error)
	GetByID(ctx context.Context, id string) (*models.Job, error)
	ListMine(ctx context.Context, identity *auth.Identity) ([]models.Job, error)
	UpdateStatus(ctx context.Context, identity *auth.Identity, id string, status models.JobStatus) (*models.Job, error)
	Delete(ctx context.Context, identity *auth.Identity, id string) error
}

type JobServiceImpl struct {
	jobRepo         repositories.JobRepository
	userRepo        repositories.UserRepository
	external        jobsearch.Provider // nil - внешний поиск выключен
	externalTimeout time.Duration
	now             func() time.Time
}

func NewJobService(
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	external jobsearch.Provider,
	externalTimeout time.Duration,
) JobService {
	if externalTimeout <= 0 {
		externalTimeout = DefaultExternalTimeout
	}
	return &JobServiceImpl{
		jobRepo:         jobRepo,
		userRepo:        userRepo,
		external:        external,
		externalTimeout: externalTimeout,
		now:             time.Now,
	}
}

func (s *JobServiceImpl) Aggregate(ctx context.Context, query *dto.JobSearchQuery) *dto.AggregateResponse {
	// Отключение клиента не отменяет подзапросы
	ctx = context.WithoutCancel(ctx)

	var (
		local          = []models.Job{}
		external       = []models.ExternalListing{}
		localStatus    = SourceStatusOK
		externalStatus = SourceStatusDisabled
	)

	var g errgroup.Group

	g.Go(func() error {
		jobs, err := s.jobRepo.List(ctx, repositories.JobFilter{
			Query:    query.Query,
			Location: query.Location,
			Status:   models.JobStatusActive,
			Limit:    int64(query.Limit),
		})
		if err != nil {
			logger.CtxWithError(ctx, "⚠️ Local job search failed", err)
			localStatus = SourceStatusDegraded
			return nil
		}
		local = publicJobs(jobs, SourceLocal)
		return nil
	})

	if s.external != nil {
		externalStatus = SourceStatusOK
		g.Go(func() error {
			extCtx, cancel := context.WithTimeout(ctx, s.externalTimeout)
			defer cancel()

			listings, err := s.external.Search(extCtx, jobsearch.Query{
				Text:     query.Query,
				Location: query.Location,
			})
			if err != nil {
				logger.CtxWithError(ctx, "⚠️ External job search failed", err, "provider", s.external.Name())
				externalStatus = SourceStatusDegraded
				return nil
			}
			if listings != nil {
				external = listings
			}
			return nil
		})
	}

	// ветки ошибок не возвращают
	_ = g.Wait()

	return &dto.AggregateResponse{
		Local:    local,
		External: external,
		Metadata: dto.AggregateMetadata{
			Query:        query.Query,
			Location:     query.Location,
			TotalResults: len(local) + len(external),
			Timestamp:    s.now().UTC(),
			Sources: map[string]string{
				SourceLocal:              localStatus,
				jobsearch.SourceExternal: externalStatus,
			},
		},
	}
}

// Search - только локальные активные вакансии.
func (s *JobServiceImpl) Search(ctx context.Context, query *dto.JobSearchQuery) ([]models.Job, error) {
	jobs, err := s.jobRepo.List(ctx, repositories.JobFilter{
		Query:          query.Query,
		Location:       query.Location,
		EmploymentType: models.EmploymentType(query.Type),
		Status:         models.JobStatusActive,
		Limit:          int64(query.Limit),
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	return publicJobs(jobs, SourceLocal), nil
}

func (s *JobServiceImpl) Create(ctx context.Context, identity *auth.Identity, req *dto.CreateJobRequest) (*models.Job, error) {
	if err := auth.Authorize(identity, auth.PermJobsCreate); err != nil {
		return nil, err
	}

	company := strings.TrimSpace(req.Company)
	if company == "" {
		employer, err := s.userRepo.FindByID(ctx, identity.UserID)
		if err != nil {
			return nil, mapRepoError(err)
		}
		company = employer.Company
	}
	if company == "" {
		return nil, apperrors.ValidationError(map[string]string{"company": "This field is required"})
	}

	status := req.Status
	if status == "" {
		status = models.JobStatusActive
	}
	employmentType := req.EmploymentType
	if employmentType == "" {
		employmentType = models.EmploymentFullTime
	}
	if !status.IsValid() || !employmentType.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"status": "invalid status or employment type"})
	}

	var salary *models.Salary
	if req.Salary != nil {
		if req.Salary.Max > 0 && req.Salary.Min > req.Salary.Max {
			return nil, apperrors.ValidationError(map[string]string{"salary": "min must not exceed max"})
		}
		currency := strings.ToUpper(req.Salary.Currency)
		if currency == "" {
			currency = DefaultCurrency
		}
		salary = &models.Salary{Min: req.Salary.Min, Max: req.Salary.Max, Currency: currency}
	}

	now := s.now().UTC()
	job := &models.Job{
		Title:          strings.TrimSpace(req.Title),
		Company:        company,
		Location:       strings.TrimSpace(req.Location),
		Description:    req.Description,
		Requirements:   req.Requirements,
		Salary:         salary,
		EmploymentType: employmentType,
		EmployerID:     identity.UserID,
		Status:         status,
		Applications:   []models.Application{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, mapRepoError(err)
	}

	logger.CtxInfo(ctx, "✅ Job created", "job_id", job.ID.Hex(), "employer_id", identity.UserID.Hex())

	created := job.Public()
	created.Source = SourceLocal
	return &created, nil
}

func (s *JobServiceImpl) GetByID(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.findJob(ctx, id)
	if err != nil {
		return nil, err
	}
	public := job.Public()
	public.Source = SourceLocal
	return &public, nil
}

// ListMine - вакансии работодателя в любом статусе, вместе с откликами.
func (s *JobServiceImpl) ListMine(ctx context.Context, identity *auth.Identity) ([]models.Job, error) {
	if err := auth.Authorize(identity, auth.PermJobsManage); err != nil {
		return nil, err
	}

	jobs, err := s.jobRepo.List(ctx, repositories.JobFilter{EmployerID: identity.UserID})
	if err != nil {
		return nil, mapRepoError(err)
	}
	for i := range jobs {
		jobs[i].Source = SourceLocal
		jobs[i].ApplicationCount = len(jobs[i].Applications)
	}
	return jobs, nil
}

func (s *JobServiceImpl) UpdateStatus(ctx context.Context, identity *auth.Identity, id string, status models.JobStatus) (*models.Job, error) {
	if !status.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"status": "must be one of: active, closed, draft"})
	}

	job, err := s.findOwnedJob(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if err := s.jobRepo.UpdateStatus(ctx, job.ID, status); err != nil {
		return nil, mapRepoError(err)
	}

	logger.CtxInfo(ctx, "Job status changed", "job_id", job.ID.Hex(), "from", job.Status, "to", status)

	job.Status = status
	job.UpdatedAt = s.now().UTC()
	public := job.Public()
	public.Source = SourceLocal
	return &public, nil
}

// Delete - жёсткое удаление вместе со встроенными откликами.
func (s *JobServiceImpl) Delete(ctx context.Context, identity *auth.Identity, id string) error {
	job, err := s.findOwnedJob(ctx, identity, id)
	if err != nil {
		return err
	}

	if err := s.jobRepo.Delete(ctx, job.ID); err != nil {
		return mapRepoError(err)
	}

	logger.CtxInfo(ctx, "Job deleted", "job_id", job.ID.Hex(), "applications", len(job.Applications))
	return nil
}

func (s *JobServiceImpl) findJob(ctx context.Context, id string) (*models.Job, error) {
	oid, err := parseObjectID(id, apperrors.ErrJobNotFound)
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return job, nil
}

func (s *JobServiceImpl) findOwnedJob(ctx context.Context, identity *auth.Identity, id string) (*models.Job, error) {
	if err := auth.Authorize(identity, auth.PermJobsManage); err != nil {
		return nil, err
	}
	job, err := s.findJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if !job.IsOwnedBy(identity.UserID) {
		return nil, apperrors.ErrForbiddenRole
	}
	return job, nil
}

func publicJobs(jobs []models.Job, source string) []models.Job {
	out := make([]models.Job, 0, len(jobs))
	for _, j := range jobs {
		p := j.Public()
		p.Source = source
		out = append(out, p)
	}
	return out
}
