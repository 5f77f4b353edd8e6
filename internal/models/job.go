package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Salary struct {
	Min      float64 `bson:"min,omitempty" json:"min,omitempty"`
	Max      float64 `bson:"max,omitempty" json:"max,omitempty"`
	Currency string  `bson:"currency" json:"currency"`
}

// Application встраивается в документ вакансии.
type Application struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	ApplicantID primitive.ObjectID `bson:"applicant" json:"applicant"`
	ResumeURL   string             `bson:"resumeUrl" json:"resumeUrl"`
	CoverLetter string             `bson:"coverLetter,omitempty" json:"coverLetter,omitempty"`
	PhoneNumber string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Status      ApplicationStatus  `bson:"status" json:"status"`
	AppliedAt   time.Time          `bson:"appliedAt" json:"appliedAt"`
}

type Job struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Company        string             `bson:"company" json:"company"`
	Location       string             `bson:"location" json:"location"`
	Description    string             `bson:"description" json:"description"`
	Requirements   []string           `bson:"requirements,omitempty" json:"requirements,omitempty"`
	Salary         *Salary            `bson:"salary,omitempty" json:"salary,omitempty"`
	EmploymentType EmploymentType     `bson:"employmentType" json:"employmentType"`
	EmployerID     primitive.ObjectID `bson:"employer" json:"employer"`
	Status         JobStatus          `bson:"status" json:"status"`
	Applications   []Application      `bson:"applications" json:"applications,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Только для ответов API
	Source           string `bson:"-" json:"source,omitempty"`
	ApplicationCount int    `bson:"-" json:"applicationCount"`
}

// Public возвращает копию без встроенных откликов: контакты соискателей
// видит только владелец вакансии.
func (j Job) Public() Job {
	j.ApplicationCount = len(j.Applications)
	j.Applications = nil
	return j
}

// IsOwnedBy проверяет, что вакансия принадлежит работодателю.
func (j *Job) IsOwnedBy(userID primitive.ObjectID) bool {
	return j.EmployerID == userID
}

// FindApplication ищет отклик по ID.
func (j *Job) FindApplication(id primitive.ObjectID) *Application {
	for i := range j.Applications {
		if j.Applications[i].ID == id {
			return &j.Applications[i]
		}
	}
	return nil
}
