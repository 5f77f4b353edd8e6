package jobsearch

import (
	"net/url"
	"strings"

	"jobboard_backend/internal/models"
	"jobboard_backend/pkg/serpapi"
)

const (
	defaultEmploymentType = "Full-time"
	fallbackSearchURL     = "https://www.google.com/search?q="
)

// Normalize приводит сырой результат провайдера к ExternalListing.
// Любое поле провайдера может отсутствовать.
func Normalize(raw serpapi.JobResult) models.ExternalListing {
	listing := models.ExternalListing{
		JobID:          raw.Str("job_id"),
		Title:          raw.Str("title"),
		CompanyName:    raw.Str("company_name", "company"),
		Location:       raw.Str("location"),
		Description:    raw.Str("description", "snippet"),
		EmploymentType: raw.Str("detected_extensions.schedule_type"),
		PostedAt:       raw.Str("detected_extensions.posted_at"),
		Thumbnail:      raw.Str("thumbnail"),
		Source:         SourceExternal,
	}

	if listing.EmploymentType == "" {
		listing.EmploymentType = defaultEmploymentType
	}

	listing.Via = raw.Str("via", "link", "apply_link")
	if listing.Via == "" {
		listing.Via = FallbackApplyURL(listing.Title, listing.CompanyName)
	}

	return listing
}

// FallbackApplyURL строит поисковую ссылку, чтобы у кнопки "откликнуться"
// всегда был адрес.
func FallbackApplyURL(title, company string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{title, company} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, "job application")
	return fallbackSearchURL + url.QueryEscape(strings.Join(parts, " "))
}

// NormalizeAll сохраняет порядок провайдера.
func NormalizeAll(raw []serpapi.JobResult) []models.ExternalListing {
	listings := make([]models.ExternalListing, 0, len(raw))
	for _, r := range raw {
		if r == nil {
			continue
		}
		listings = append(listings, Normalize(r))
	}
	return listings
}
