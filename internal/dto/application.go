package dto

import (
	"time"

	"jobboard_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmitApplicationRequest принимается и как JSON, и как multipart-поля.
type SubmitApplicationRequest struct {
	CoverLetter string `json:"coverLetter" form:"coverLetter" validate:"max=5000"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber" validate:"max=40"`
}

type SubmitApplicationResponse struct {
	Message       string                   `json:"message"`
	ApplicationID primitive.ObjectID       `json:"applicationId"`
	JobID         primitive.ObjectID       `json:"jobId"`
	Status        models.ApplicationStatus `json:"status"`
	ResumeURL     string                   `json:"resumeUrl"`
}

type UpdateApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required,is-application-status"`
}

type ApplicantSummary struct {
	ID        primitive.ObjectID `json:"id"`
	FirstName string             `json:"firstName"`
	LastName  string             `json:"lastName"`
	Email     string             `json:"email"`
}

// ApplicationView - отклик вместе с вакансией, для списков.
type ApplicationView struct {
	ID          primitive.ObjectID       `json:"id"`
	JobID       primitive.ObjectID       `json:"jobId"`
	JobTitle    string                   `json:"jobTitle"`
	Company     string                   `json:"company"`
	Applicant   *ApplicantSummary        `json:"applicant,omitempty"`
	ResumeURL   string                   `json:"resumeUrl"`
	CoverLetter string                   `json:"coverLetter,omitempty"`
	PhoneNumber string                   `json:"phoneNumber,omitempty"`
	Status      models.ApplicationStatus `json:"status"`
	AppliedAt   time.Time                `json:"appliedAt"`
}
