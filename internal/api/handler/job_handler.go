package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/minhngo-dev/movie-catalog-be/internal/api/dto"
	"github.com/minhngo-dev/movie-catalog-be/internal/jobs"
)

// JobHandler exposes the background job control surface
type JobHandler struct {
	logger *slog.Logger
	jobs   *jobs.Manager
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger: deps.Logger,
		jobs:   deps.Jobs,
	}
}

// GetJob handles GET /api/v1/admin/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "job_id must be a valid UUID",
		})
		return
	}

	job, err := h.jobs.GetJobStatus(jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Job not found",
			})
			return
		}
		h.logger.Error("Failed to get job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get job",
		})
		return
	}

	c.JSON(http.StatusOK, toJobDTO(job))
}

// ListJobs handles GET /api/v1/admin/jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobType := c.Query("job_type")

	allJobs := h.jobs.ListJobs(jobType)

	response := dto.ListJobsResponse{
		Jobs: make([]dto.JobDTO, len(allJobs)),
	}
	for i, job := range allJobs {
		response.Jobs[i] = toJobDTO(job)
	}

	c.JSON(http.StatusOK, response)
}

// CancelJob handles DELETE /api/v1/admin/jobs/:job_id
// Cancellation of a finished or unknown job is reported as not found, not
// as a server error.
func (h *JobHandler) CancelJob(c *gin.Context) {
	jobID := c.Param("job_id")

	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "job_id must be a valid UUID",
		})
		return
	}

	if !h.jobs.CancelJob(jobID) {
		h.logger.Warn("Job not found or not cancellable",
			slog.String("job_id", jobID),
		)
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Job not found or cannot be cancelled",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Job cancelled successfully",
		"job_id":  jobID,
	})
}

// GetJobStatistics handles GET /api/v1/admin/jobs/statistics
func (h *JobHandler) GetJobStatistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.jobs.GetStatistics())
}
