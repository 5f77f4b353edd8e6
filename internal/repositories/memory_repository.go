package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"jobboard_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory реализации для локальной разработки без MongoDB и для тестов.
// Семантика фильтров совпадает с Mongo-реализацией.

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[primitive.ObjectID]models.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrUserAlreadyExists
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := cloneUser(u)
	return &cp, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			cp := cloneUser(u)
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryUserRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[primitive.ObjectID]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			cp := cloneUser(u)
			result[id] = &cp
		}
	}
	return result, nil
}

func (r *MemoryUserRepository) UpdateProfile(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	user.UpdatedAt = time.Now().UTC()
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.Company = user.Company
	stored.Profile = user.Profile
	stored.UpdatedAt = user.UpdatedAt
	r.users[user.ID] = cloneUser(stored)
	return nil
}

func (r *MemoryUserRepository) SetResume(_ context.Context, id primitive.ObjectID, resumeURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Profile.Resume = resumeURL
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return nil
}

func (r *MemoryUserRepository) ReferencesResume(_ context.Context, path string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Profile.Resume != "" && strings.HasSuffix(u.Profile.Resume, path) {
			return true, nil
		}
	}
	return false, nil
}

func cloneUser(u models.User) models.User {
	u.Profile.Skills = append([]string(nil), u.Profile.Skills...)
	u.Profile.Experience = append([]models.Experience(nil), u.Profile.Experience...)
	return u
}

// ---------------------------------------------------------------------------

type MemoryJobRepository struct {
	mu   sync.RWMutex
	jobs map[primitive.ObjectID]models.Job
}

func NewMemoryJobRepository() *MemoryJobRepository {
	return &MemoryJobRepository{jobs: make(map[primitive.ObjectID]models.Job)}
}

func (r *MemoryJobRepository) Create(_ context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job.ID.IsZero() {
		job.ID = primitive.NewObjectID()
	}
	if job.Applications == nil {
		job.Applications = []models.Application{}
	}
	r.jobs[job.ID] = cloneJob(*job)
	return nil
}

func (r *MemoryJobRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	cp := cloneJob(j)
	return &cp, nil
}

func (r *MemoryJobRepository) List(_ context.Context, filter JobFilter) ([]models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jobs := []models.Job{}
	for _, j := range r.jobs {
		if matchesJobFilter(j, filter) {
			jobs = append(jobs, cloneJob(j))
		}
	}
	sortNewestFirst(jobs)

	if filter.Limit > 0 && int64(len(jobs)) > filter.Limit {
		jobs = jobs[:filter.Limit]
	}
	return jobs, nil
}

func (r *MemoryJobRepository) ListByApplicant(_ context.Context, applicantID primitive.ObjectID) ([]models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jobs := []models.Job{}
	for _, j := range r.jobs {
		for _, a := range j.Applications {
			if a.ApplicantID == applicantID {
				jobs = append(jobs, cloneJob(j))
				break
			}
		}
	}
	sortNewestFirst(jobs)
	return jobs, nil
}

func (r *MemoryJobRepository) AppendApplication(_ context.Context, jobID primitive.ObjectID, app models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	j.Applications = append(append([]models.Application(nil), j.Applications...), app)
	j.UpdatedAt = time.Now().UTC()
	r.jobs[jobID] = j
	return nil
}

func (r *MemoryJobRepository) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.JobStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	j.Status = status
	j.UpdatedAt = time.Now().UTC()
	r.jobs[id] = j
	return nil
}

func (r *MemoryJobRepository) UpdateApplicationStatus(_ context.Context, jobID, appID primitive.ObjectID, status models.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[jobID]
	if !ok {
		return ErrApplicationNotFound
	}
	apps := append([]models.Application(nil), j.Applications...)
	for i := range apps {
		if apps[i].ID == appID {
			apps[i].Status = status
			j.Applications = apps
			j.UpdatedAt = time.Now().UTC()
			r.jobs[jobID] = j
			return nil
		}
	}
	return ErrApplicationNotFound
}

func (r *MemoryJobRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *MemoryJobRepository) ReferencesResume(_ context.Context, path string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, j := range r.jobs {
		for _, a := range j.Applications {
			if strings.HasSuffix(a.ResumeURL, path) {
				return true, nil
			}
		}
	}
	return false, nil
}

func matchesJobFilter(j models.Job, f JobFilter) bool {
	if f.Status != "" && j.Status != f.Status {
		return false
	}
	if f.EmploymentType != "" && j.EmploymentType != f.EmploymentType {
		return false
	}
	if !f.EmployerID.IsZero() && j.EmployerID != f.EmployerID {
		return false
	}
	if f.Location != "" && !containsFold(j.Location, f.Location) {
		return false
	}
	if f.Query != "" &&
		!containsFold(j.Title, f.Query) &&
		!containsFold(j.Company, f.Query) &&
		!containsFold(j.Description, f.Query) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sortNewestFirst(jobs []models.Job) {
	sort.SliceStable(jobs, func(i, k int) bool {
		if jobs[i].CreatedAt.Equal(jobs[k].CreatedAt) {
			return jobs[i].ID.Hex() > jobs[k].ID.Hex()
		}
		return jobs[i].CreatedAt.After(jobs[k].CreatedAt)
	})
}

func cloneJob(j models.Job) models.Job {
	j.Requirements = append([]string(nil), j.Requirements...)
	j.Applications = append([]models.Application{}, j.Applications...)
	if j.Salary != nil {
		s := *j.Salary
		j.Salary = &s
	}
	return j
}

var (
	_ UserRepository = (*MemoryUserRepository)(nil)
	_ UserRepository = (*UserRepositoryImpl)(nil)
	_ JobRepository  = (*MemoryJobRepository)(nil)
	_ JobRepository  = (*JobRepositoryImpl)(nil)
)
