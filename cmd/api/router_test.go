package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/config"
	"library-backend/internal/shared/apperr"
	"library-backend/pkg/container"
)

// newTestRouter wires the real container without a database. Only routes
// that fail before reaching a repository can be exercised.
func newTestRouter(t *testing.T) (*gin.Engine, *container.Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App: config.AppConfig{Environment: config.EnvTest, Port: "3000", Version: "v1"},
		JWT: config.JWTConfig{Secret: "router-secret", Expiry: time.Hour},
		RateLimit: config.RateLimitConfig{
			Max:     100,
			AuthMax: 2,
			Window:  15 * time.Minute,
		},
	}

	c, err := container.Build(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Cleanup(time.Second) })

	return SetupRouter(c), c
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Code
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "API is running", body["message"])
	assert.Equal(t, "v1", body["version"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, target := range []string{
		"/api/v1/authors",
		"/api/v1/books/1",
		"/api/v1/users",
		"/api/v1/export",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code, target)
		assert.Equal(t, apperr.CodeTokenMissing, errorCode(t, w), target)
	}
}

func TestInvalidIDsAreRejectedBeforeStorage(t *testing.T) {
	r, c := newTestRouter(t)

	token, err := c.JWTManager.GenerateAccessToken(1, "user@x.com")
	require.NoError(t, err)

	tests := []struct {
		target string
		code   string
	}{
		{"/api/v1/authors/abc", apperr.CodeInvalidAuthorID},
		{"/api/v1/books/0", apperr.CodeInvalidBookID},
		{"/api/v1/users/-4", apperr.CodeInvalidUserID},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.target, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, tt.target)
		assert.Equal(t, tt.code, errorCode(t, w), tt.target)
	}
}

func TestRegisterValidationAndAuthRateLimit(t *testing.T) {
	r, _ := newTestRouter(t)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"email":"bad","password":"1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperr.CodeValidation, errorCode(t, w))

	w = post(`{"email":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperr.CodeInvalidRequestBody, errorCode(t, w))

	w = post(`{}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, apperr.CodeTooManyRequests, errorCode(t, w))
}

func TestUnknownRoute(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nothing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperr.CodeRouteNotFound, errorCode(t, w))
}

func TestCORSAndSecurityHeaders(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/books", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "authorization,content-type")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code, "preflight needs no token")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/authors", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `library_http_requests_total{method="GET",route="/api/v1/health",status="200"} 1`)
}
