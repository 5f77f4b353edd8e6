package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"jobboard_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrJobNotFound         = errors.New("job not found")
	ErrApplicationNotFound = errors.New("application not found")
)

const collectionJobs = "jobs"

// JobFilter - критерии выборки вакансий. Пустые поля не фильтруют.
type JobFilter struct {
	Query          string
	Location       string
	EmploymentType models.EmploymentType
	Status         models.JobStatus
	EmployerID     primitive.ObjectID
	Limit          int64
}

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error)
	// List возвращает вакансии от новых к старым.
	List(ctx context.Context, filter JobFilter) ([]models.Job, error)
	ListByApplicant(ctx context.Context, applicantID primitive.ObjectID) ([]models.Job, error)
	AppendApplication(ctx context.Context, jobID primitive.ObjectID, app models.Application) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.JobStatus) error
	UpdateApplicationStatus(ctx context.Context, jobID, appID primitive.ObjectID, status models.ApplicationStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ReferencesResume(ctx context.Context, path string) (bool, error)
}

type JobRepositoryImpl struct {
	collection *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepositoryImpl {
	return &JobRepositoryImpl{collection: db.Collection(collectionJobs)}
}

func (r *JobRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "employer", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "applications.applicant", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create job indexes: %w", err)
	}
	return nil
}

func (r *JobRepositoryImpl) Create(ctx context.Context, job *models.Job) error {
	if job.ID.IsZero() {
		job.ID = primitive.NewObjectID()
	}
	if job.Applications == nil {
		job.Applications = []models.Application{}
	}
	if _, err := r.collection.InsertOne(ctx, job); err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

func (r *JobRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error) {
	var job models.Job
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&job); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

func (r *JobRepositoryImpl) List(ctx context.Context, filter JobFilter) ([]models.Job, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	return r.find(ctx, buildJobFilter(filter), opts)
}

func (r *JobRepositoryImpl) ListByApplicant(ctx context.Context, applicantID primitive.ObjectID) ([]models.Job, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"applications.applicant": applicantID}, opts)
}

func (r *JobRepositoryImpl) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Job, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	jobs := []models.Job{}
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode jobs: %w", err)
	}
	return jobs, nil
}

// buildJobFilter переводит JobFilter в bson. Пользовательский текст экранируется.
func buildJobFilter(f JobFilter) bson.M {
	filter := bson.M{}

	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.EmploymentType != "" {
		filter["employmentType"] = f.EmploymentType
	}
	if !f.EmployerID.IsZero() {
		filter["employer"] = f.EmployerID
	}
	if f.Location != "" {
		filter["location"] = containsIgnoreCase(f.Location)
	}
	if f.Query != "" {
		q := containsIgnoreCase(f.Query)
		filter["$or"] = bson.A{
			bson.M{"title": q},
			bson.M{"company": q},
			bson.M{"description": q},
		}
	}

	return filter
}

func containsIgnoreCase(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

func (r *JobRepositoryImpl) AppendApplication(ctx context.Context, jobID primitive.ObjectID, app models.Application) error {
	res, err := r.collection.UpdateByID(ctx, jobID, bson.M{
		"$push": bson.M{"applications": app},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to append application: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.JobStatus) error {
	res, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) UpdateApplicationStatus(ctx context.Context, jobID, appID primitive.ObjectID, status models.ApplicationStatus) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": jobID, "applications._id": appID},
		bson.M{"$set": bson.M{
			"applications.$.status": status,
			"updatedAt":             time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) ReferencesResume(ctx context.Context, path string) (bool, error) {
	filter := bson.M{"applications.resumeUrl": bson.M{"$regex": regexp.QuoteMeta(path) + "$"}}
	n, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count resume references: %w", err)
	}
	return n > 0, nil
}
