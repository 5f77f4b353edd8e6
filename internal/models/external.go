package models

// ExternalListing - нормализованная вакансия внешнего провайдера. Не сохраняется.
type ExternalListing struct {
	JobID          string `json:"jobId,omitempty"`
	Title          string `json:"title"`
	CompanyName    string `json:"companyName"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	Via            string `json:"via"`
	EmploymentType string `json:"employmentType"`
	PostedAt       string `json:"postedAt,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
	Source         string `json:"source"`
}
