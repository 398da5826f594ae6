package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhngo-dev/movie-catalog-be/internal/api/dto"
	"github.com/minhngo-dev/movie-catalog-be/internal/jobs"
)

func newJobTestRouter(t *testing.T) (*gin.Engine, *jobs.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := jobs.NewManager(&jobs.Config{
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		RetentionWindow: time.Hour,
		SweepInterval:   time.Hour,
	})

	h := NewJobHandler(&Dependencies{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Jobs:   manager,
	})

	r := gin.New()
	r.GET("/jobs", h.ListJobs)
	r.GET("/jobs/statistics", h.GetJobStatistics)
	r.GET("/jobs/:job_id", h.GetJob)
	r.DELETE("/jobs/:job_id", h.CancelJob)

	return r, manager
}

func TestGetJob(t *testing.T) {
	r, manager := newJobTestRouter(t)

	jobID := manager.CreateJob("poster_validation", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/jobs/"+jobID, nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body dto.JobDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, jobID, body.JobID)
	assert.Equal(t, jobs.StatusQueued, body.Status)
	assert.Zero(t, body.ProgressPercentage)
}

func TestGetJob_NotFound(t *testing.T) {
	r, _ := newJobTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/jobs/1b671a64-40d5-491e-99b0-da01ff1f3341", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetJob_InvalidID(t *testing.T) {
	r, _ := newJobTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/jobs/not-a-uuid", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelJob(t *testing.T) {
	r, manager := newJobTestRouter(t)

	jobID := manager.CreateJob("poster_validation", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/jobs/"+jobID, nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	status, err := manager.GetJobStatus(jobID)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusCancelled, status.Status)
}

func TestCancelJob_AlreadyTerminal(t *testing.T) {
	r, manager := newJobTestRouter(t)

	jobID := manager.CreateJob("poster_validation", nil)
	manager.CompleteJob(jobID, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/jobs/"+jobID, nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListJobs_FilterByType(t *testing.T) {
	r, manager := newJobTestRouter(t)

	manager.CreateJob("poster_validation", nil)
	manager.CreateJob("poster_validation", nil)
	manager.CreateJob("reindex", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/jobs?job_type=poster_validation", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body dto.ListJobsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Jobs, 2)
	for _, job := range body.Jobs {
		assert.Equal(t, "poster_validation", job.JobType)
	}
}

func TestGetJobStatistics(t *testing.T) {
	r, manager := newJobTestRouter(t)

	completed := manager.CreateJob("poster_validation", nil)
	manager.CompleteJob(completed, nil)
	manager.CreateJob("poster_validation", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/jobs/statistics", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["total"])
	assert.Equal(t, float64(1), body["completed"])
	assert.Equal(t, float64(1), body["queued"])
}
