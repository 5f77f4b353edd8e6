package jobsearch

import (
	"net/url"
	"strings"
	"testing"

	"jobboard_backend/pkg/serpapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ViaFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		raw  serpapi.JobResult
		want string
	}{
		{
			name: "via wins",
			raw:  serpapi.JobResult{"via": "https://via.example", "link": "https://link.example", "apply_link": "https://apply.example"},
			want: "https://via.example",
		},
		{
			name: "link when via empty",
			raw:  serpapi.JobResult{"via": "", "link": "https://link.example", "apply_link": "https://apply.example"},
			want: "https://link.example",
		},
		{
			name: "apply_link last provider field",
			raw:  serpapi.JobResult{"apply_link": "https://apply.example"},
			want: "https://apply.example",
		},
		{
			name: "non-string via ignored",
			raw:  serpapi.JobResult{"via": map[string]interface{}{"x": 1}, "link": "https://link.example"},
			want: "https://link.example",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw).Via)
		})
	}
}

func TestNormalize_SynthesizedURL(t *testing.T) {
	listing := Normalize(serpapi.JobResult{"title": "Go Developer", "company_name": "Acme & Co"})

	require.True(t, strings.HasPrefix(listing.Via, "https://www.google.com/search?q="))
	u, err := url.Parse(listing.Via)
	require.NoError(t, err)
	assert.Equal(t, "Go Developer Acme & Co job application", u.Query().Get("q"))
}

func TestNormalize_EmptyPayloadStillHasApplyURL(t *testing.T) {
	listing := Normalize(serpapi.JobResult{})

	assert.NotEmpty(t, listing.Via)
	assert.Equal(t, "Full-time", listing.EmploymentType)
	assert.Equal(t, SourceExternal, listing.Source)
}

func TestNormalize_FieldFallbacks(t *testing.T) {
	listing := Normalize(serpapi.JobResult{
		"title":    "SRE",
		"company":  "Initech",
		"snippet":  "Keep things running",
		"location": "Austin, TX",
		"job_id":   "abc",
		"detected_extensions": map[string]interface{}{
			"schedule_type": "Part-time",
			"posted_at":     "3 days ago",
		},
	})

	assert.Equal(t, "Initech", listing.CompanyName)
	assert.Equal(t, "Keep things running", listing.Description)
	assert.Equal(t, "Part-time", listing.EmploymentType)
	assert.Equal(t, "3 days ago", listing.PostedAt)
	assert.Equal(t, "abc", listing.JobID)
	assert.Equal(t, "Austin, TX", listing.Location)
}

func TestNormalizeAll_PreservesOrder(t *testing.T) {
	raw := []serpapi.JobResult{{"title": "first"}, nil, {"title": "second"}, {"title": "third"}}

	listings := NormalizeAll(raw)

	require.Len(t, listings, 3)
	assert.Equal(t, "first", listings[0].Title)
	assert.Equal(t, "second", listings[1].Title)
	assert.Equal(t, "third", listings[2].Title)
	for _, l := range listings {
		assert.NotEmpty(t, l.Via)
	}
}
