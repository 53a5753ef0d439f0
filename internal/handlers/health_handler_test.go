package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/utils"
)

type stubRepository struct {
	pingErr error
}

func (r *stubRepository) Exercise() repositories.ExerciseRepository { return nil }
func (r *stubRepository) Session() repositories.SessionRepository   { return nil }
func (r *stubRepository) Profile() repositories.ProfileRepository   { return nil }
func (r *stubRepository) Ping(ctx context.Context) error            { return r.pingErr }
func (r *stubRepository) Close() error                              { return nil }

func performHealthCheck(t *testing.T, repo repositories.Repository) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewHealthHandler(repo, utils.NewSlogLogger(slog.New(slog.DiscardHandler)))
	router := gin.New()
	router.GET("/health", h.HealthCheck)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHealthCheck_HealthyStore(t *testing.T) {
	recorder := performHealthCheck(t, &stubRepository{})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"healthy"`)
}

func TestHealthCheck_UnreachableStore(t *testing.T) {
	recorder := performHealthCheck(t, &stubRepository{pingErr: errors.New("connection refused")})

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"unhealthy"`)
}
