package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
)

const (
	defaultBaseURL = "https://serpapi.com"
	engineJobs     = "google_jobs"
)

// ErrNoResults - SerpAPI отвечает 200 с полем error, когда Google ничего не нашёл.
var ErrNoResults = errors.New("serpapi: no results")

// Config настраивает клиент SerpAPI
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// SearchParams - параметры запроса google_jobs
type SearchParams struct {
	Query    string
	Location string
}

// JobResult - сырой элемент jobs_results. Поля у провайдера плавают,
// поэтому разбираем как map и читаем через Str.
type JobResult map[string]interface{}

type jobsResponse struct {
	JobsResults []JobResult `json:"jobs_results"`
	Error       string      `json:"error"`
}

// NewClient instantiates a SerpAPI client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("serpapi: api_key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// SearchJobs queries the google_jobs engine. Deadline comes from ctx.
func (c *Client) SearchJobs(ctx context.Context, params SearchParams) ([]JobResult, error) {
	u, err := c.buildSearchURL(params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("serpapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("serpapi: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload jobsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("serpapi: decode response: %w", err)
	}

	if payload.Error != "" && len(payload.JobsResults) == 0 {
		if strings.Contains(payload.Error, "hasn't returned any results") {
			return nil, ErrNoResults
		}
		return nil, fmt.Errorf("serpapi: %s", payload.Error)
	}

	return payload.JobsResults, nil
}

func (c *Client) buildSearchURL(params SearchParams) (string, error) {
	if params.Query == "" {
		return "", fmt.Errorf("serpapi: query is required")
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("serpapi: parse base url: %w", err)
	}
	u.Path = path.Join(u.Path, "search.json")

	values := url.Values{}
	values.Set("engine", engineJobs)
	values.Set("q", params.Query)
	if params.Location != "" {
		values.Set("location", params.Location)
	}
	values.Set("api_key", c.apiKey)

	u.RawQuery = values.Encode()
	return u.String(), nil
}

// Str возвращает первое непустое строковое значение из перечисленных ключей.
// Ключ вида "a.b" читает вложенный объект.
func (r JobResult) Str(keys ...string) string {
	for _, key := range keys {
		if v := lookup(r, key); v != "" {
			return v
		}
	}
	return ""
}

func lookup(m map[string]interface{}, key string) string {
	head, rest, nested := strings.Cut(key, ".")
	v, ok := m[head]
	if !ok || v == nil {
		return ""
	}
	if nested {
		child, ok := v.(map[string]interface{})
		if !ok {
			return ""
		}
		return lookup(child, rest)
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
