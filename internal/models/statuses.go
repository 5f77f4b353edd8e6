package models

type UserRole string
type EmploymentType string
type JobStatus string
type ApplicationStatus string

const (
	UserRoleEmployer  UserRole = "employer"
	UserRoleJobseeker UserRole = "jobseeker"

	EmploymentFullTime  EmploymentType = "Full-time"
	EmploymentPartTime  EmploymentType = "Part-time"
	EmploymentContract  EmploymentType = "Contract"
	EmploymentTemporary EmploymentType = "Temporary"

	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
	JobStatusDraft  JobStatus = "draft"

	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleEmployer, UserRoleJobseeker:
		return true
	}
	return false
}

func (t EmploymentType) IsValid() bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentTemporary:
		return true
	}
	return false
}

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusActive, JobStatusClosed, JobStatusDraft:
		return true
	}
	return false
}

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}
