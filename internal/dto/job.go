package dto

import (
	"time"

	"jobboard_backend/internal/models"
)

type SalaryRequest struct {
	Min      float64 `json:"min" validate:"gte=0"`
	Max      float64 `json:"max" validate:"gte=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3"`
}

type CreateJobRequest struct {
	Title          string                `json:"title" validate:"required,max=200"`
	Company        string                `json:"company" validate:"max=200"`
	Location       string                `json:"location" validate:"required,max=200"`
	Description    string                `json:"description" validate:"required,max=20000"`
	Requirements   []string              `json:"requirements" validate:"omitempty,max=50,dive,min=1,max=500"`
	Salary         *SalaryRequest        `json:"salary" validate:"omitempty"`
	EmploymentType models.EmploymentType `json:"employmentType" validate:"omitempty,is-employment-type"`
	Status         models.JobStatus      `json:"status" validate:"omitempty,is-job-status"`
}

type UpdateJobStatusRequest struct {
	Status models.JobStatus `json:"status" validate:"required,is-job-status"`
}

// JobSearchQuery - параметры GET /jobs и GET /jobs/search
type JobSearchQuery struct {
	Query    string `form:"query" json:"query" validate:"max=200"`
	Location string `form:"location" json:"location" validate:"max=200"`
	Type     string `form:"type" json:"type" validate:"omitempty,is-employment-type"`
	Limit    int    `form:"limit" json:"limit" validate:"gte=0,lte=100"`
}

// AggregateMetadata - метаданные агрегированной выдачи.
type AggregateMetadata struct {
	Query        string            `json:"query"`
	Location     string            `json:"location,omitempty"`
	TotalResults int               `json:"totalResults"`
	Timestamp    time.Time         `json:"timestamp"`
	Sources      map[string]string `json:"sources"`
}

type AggregateResponse struct {
	Local    []models.Job             `json:"local"`
	External []models.ExternalListing `json:"external"`
	Metadata AggregateMetadata        `json:"metadata"`
}
