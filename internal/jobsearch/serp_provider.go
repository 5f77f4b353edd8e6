package jobsearch

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/pkg/apperrors"
	"jobboard_backend/pkg/serpapi"
)

type serpSearcher interface {
	SearchJobs(ctx context.Context, params serpapi.SearchParams) ([]serpapi.JobResult, error)
}

// SerpProvider - google_jobs через SerpAPI.
type SerpProvider struct {
	client          serpSearcher
	defaultQuery    string
	defaultLocation string
}

func NewSerpProvider(client serpSearcher, defaultQuery, defaultLocation string) *SerpProvider {
	return &SerpProvider{
		client:          client,
		defaultQuery:    defaultQuery,
		defaultLocation: defaultLocation,
	}
}

func (p *SerpProvider) Name() string { return "serpapi" }

func (p *SerpProvider) Search(ctx context.Context, q Query) ([]models.ExternalListing, error) {
	params := serpapi.SearchParams{
		Query:    strings.TrimSpace(q.Text),
		Location: strings.TrimSpace(q.Location),
	}
	if params.Query == "" {
		params.Query = p.defaultQuery
	}
	if params.Location == "" {
		params.Location = p.defaultLocation
	}

	start := time.Now()
	raw, err := p.client.SearchJobs(ctx, params)
	logger.UpstreamLog(p.Name(), "search", time.Since(start), err)

	if errors.Is(err, serpapi.ErrNoResults) {
		return []models.ExternalListing{}, nil
	}
	if err != nil {
		return nil, apperrors.ErrUpstreamUnavailable.WithError(err)
	}

	return NormalizeAll(raw), nil
}
