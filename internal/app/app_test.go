package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/email"
	"jobboard_backend/internal/handlers"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T, checks map[string]handlers.HealthCheck, opts ...func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	for _, opt := range opts {
		opt(cfg)
	}
	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/uploads"})
	require.NoError(t, err)

	deps := &Dependencies{
		UserRepo:     repositories.NewMemoryUserRepository(),
		JobRepo:      repositories.NewMemoryJobRepository(),
		Storage:      store,
		Tokens:       auth.NewTokenManager("test-secret", time.Hour),
		Email:        email.NewLogProvider(email.NewTemplateManager()),
		HealthChecks: checks,
	}
	router, container := SetupRouter(cfg, deps)
	t.Cleanup(container.NotificationService.Wait)

	return &testServer{t: t, router: router}
}

func (s *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) json(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.do(req, token)
}

func (s *testServer) register(addr, role, company string) string {
	w := s.json(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":     addr,
		"password":  "pw",
		"firstName": "Test",
		"lastName":  "User",
		"role":      role,
		"company":   company,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decode(s.t, w, &resp)
	require.NotEmpty(s.t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, w, &resp)
	return resp.Error.Code
}

func TestJobBoardFlow(t *testing.T) {
	s := newTestServer(t, nil)

	employer := s.register("boss@acme.io", "employer", "Acme")
	seeker := s.register("sam@example.com", "jobseeker", "")

	// создание вакансии
	w := s.json(http.MethodPost, "/api/v1/jobs", employer, gin.H{
		"title":       "Go Developer",
		"location":    "Remote",
		"description": "Build services",
		"salary":      gin.H{"min": 1000, "max": 2000},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var job struct {
		ID      string `json:"id"`
		Company string `json:"company"`
		Status  string `json:"status"`
	}
	decode(t, w, &job)
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, "active", job.Status)

	// соискатель не может создавать вакансии
	w = s.json(http.MethodPost, "/api/v1/jobs", seeker, gin.H{
		"title": "Nope", "location": "x", "description": "y",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN_ROLE", errorCode(t, w))

	// отклик без резюме
	w = s.json(http.MethodPost, "/api/v1/jobs/"+job.ID+"/apply", seeker, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_RESUME", errorCode(t, w))

	// отклик с файлом
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("coverLetter", "Hello"))
	part, err := mw.CreateFormFile("resume", "My CV.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/"+job.ID+"/apply", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = s.do(req, seeker)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var applied struct {
		ApplicationID string `json:"applicationId"`
		Status        string `json:"status"`
		ResumeURL     string `json:"resumeUrl"`
	}
	decode(t, w, &applied)
	assert.Equal(t, "pending", applied.Status)
	assert.Contains(t, applied.ResumeURL, "http://example.com/uploads/resumes/")
	assert.Contains(t, applied.ResumeURL, "My_CV.pdf")

	// работодатель видит отклик
	w = s.json(http.MethodGet, "/api/v1/applications/employer", employer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var views []struct {
		ID    string `json:"id"`
		JobID string `json:"jobId"`
	}
	decode(t, w, &views)
	require.Len(t, views, 1)
	assert.Equal(t, applied.ApplicationID, views[0].ID)
	assert.Equal(t, job.ID, views[0].JobID)

	// смена статуса отклика
	w = s.json(http.MethodPatch, "/api/v1/jobs/"+job.ID+"/applications/"+applied.ApplicationID+"/status",
		employer, gin.H{"status": "reviewed"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.json(http.MethodGet, "/api/v1/applications/me", seeker, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []struct {
		Status string `json:"status"`
	}
	decode(t, w, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "reviewed", mine[0].Status)

	// публичная карточка без откликов
	w = s.json(http.MethodGet, "/api/v1/jobs/"+job.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "\"applications\"")

	// объединённая лента
	w = s.json(http.MethodGet, "/api/v1/jobs?query=go", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed struct {
		Local    []json.RawMessage `json:"local"`
		External []json.RawMessage `json:"external"`
		Metadata struct {
			TotalResults int               `json:"totalResults"`
			Sources      map[string]string `json:"sources"`
		} `json:"metadata"`
	}
	decode(t, w, &feed)
	assert.Len(t, feed.Local, 1)
	assert.Empty(t, feed.External)
	assert.Equal(t, 1, feed.Metadata.TotalResults)
	assert.Equal(t, "disabled", feed.Metadata.Sources["external"])
	assert.Equal(t, "ok", feed.Metadata.Sources["local"])
}

func TestUploadResume_TooLarge(t *testing.T) {
	s := newTestServer(t, nil, func(cfg *config.Config) { cfg.Upload.MaxSize = 1024 })
	seeker := s.register("sam@example.com", "jobseeker", "")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("resume", "cv.pdf")
	require.NoError(t, err)
	_, err = part.Write(append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), 4096)...))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload/resume", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := s.do(req, seeker)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "FILE_TOO_LARGE", errorCode(t, w))

	// профиль без резюме
	w = s.json(http.MethodGet, "/api/v1/auth/profile", seeker, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "resumes/")
}

func TestAuthErrors(t *testing.T) {
	s := newTestServer(t, nil)
	s.register("sam@example.com", "jobseeker", "")

	w := s.json(http.MethodGet, "/api/v1/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.json(http.MethodGet, "/api/v1/auth/profile", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.json(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "sam@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, w))

	w = s.json(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "SAM@example.com", "password": "pw", "firstName": "A", "lastName": "B", "role": "jobseeker",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "DUPLICATE_EMAIL", errorCode(t, w))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, map[string]handlers.HealthCheck{
		"mongo": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})

	w := s.json(http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp handlers.HealthResponse
	decode(t, w, &resp)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "ok", resp.Checks["mongo"])
	assert.Equal(t, "unreachable", resp.Checks["redis"])
}

func TestInventoryRoutesDisabledWithoutDatabase(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.json(http.MethodGet, "/api/v1/inventory/items", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaticPrefix(t *testing.T) {
	assert.Equal(t, "/uploads", staticPrefix(""))
	assert.Equal(t, "/files", staticPrefix("/files"))
	assert.Equal(t, "/static/cv", staticPrefix("https://cdn.example.com/static/cv"))
}
