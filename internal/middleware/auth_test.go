package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newAuthRouter(tokens *auth.TokenManager, guards ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(tokens)}, guards...)
	handlers = append(handlers, func(c *gin.Context) {
		identity := GetIdentity(c)
		c.String(http.StatusOK, identity.Email)
	})
	r.GET("/private", handlers...)
	return r
}

func issue(t *testing.T, tokens *auth.TokenManager, role models.UserRole) string {
	t.Helper()
	token, err := tokens.GenerateToken(&models.User{
		ID:    primitive.NewObjectID(),
		Email: "user@example.com",
		Role:  role,
	})
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	router := newAuthRouter(tokens)
	valid := issue(t, tokens, models.UserRoleJobseeker)
	expired := issue(t, auth.NewTokenManager("secret", -time.Minute), models.UserRoleJobseeker)
	foreign := issue(t, auth.NewTokenManager("other-secret", time.Hour), models.UserRoleJobseeker)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"garbage", "Bearer garbage", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "user@example.com", w.Body.String())
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	router := newAuthRouter(tokens, RequireRoles(models.UserRoleEmployer))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, models.UserRoleJobseeker))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN_ROLE")

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, models.UserRoleEmployer))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermission(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	router := newAuthRouter(tokens, RequirePermission(auth.PermApplicationsSubmit))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, models.UserRoleEmployer))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}
