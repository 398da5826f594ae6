package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minhngo-dev/movie-catalog-be/internal/api/dto"
	"github.com/minhngo-dev/movie-catalog-be/internal/catalog"
	"github.com/minhngo-dev/movie-catalog-be/internal/config"
	"github.com/minhngo-dev/movie-catalog-be/internal/jobs"
	"github.com/minhngo-dev/movie-catalog-be/internal/tasks"
	"github.com/minhngo-dev/movie-catalog-be/internal/validation"
)

// AdminHandler exposes poster validation runs and poster maintenance endpoints
type AdminHandler struct {
	logger       *slog.Logger
	catalog      *catalog.Storage
	jobs         *jobs.Manager
	orchestrator *validation.Orchestrator
	supervisor   *tasks.Supervisor
	cfg          config.ValidationConfig
}

// NewAdminHandler creates a new AdminHandler instance
func NewAdminHandler(deps *Dependencies) *AdminHandler {
	return &AdminHandler{
		logger:       deps.Logger,
		catalog:      deps.Catalog,
		jobs:         deps.Jobs,
		orchestrator: deps.Orchestrator,
		supervisor:   deps.Supervisor,
		cfg:          deps.Validation,
	}
}

// StartPosterValidation handles POST /api/v1/admin/movies/validate-posters.
// It registers a job and launches the validation run in the background,
// returning immediately with the job id for polling.
func (h *AdminHandler) StartPosterValidation(c *gin.Context) {
	var req dto.StartValidationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters: " + err.Error(),
		})
		return
	}

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = h.cfg.DefaultBatchSize
	}
	if h.cfg.MaxBatchSize > 0 && batchSize > h.cfg.MaxBatchSize {
		batchSize = h.cfg.MaxBatchSize
	}

	concurrency := req.ConcurrentRequests
	if concurrency <= 0 {
		concurrency = h.cfg.DefaultConcurrency
	}
	if h.cfg.MaxConcurrency > 0 && concurrency > h.cfg.MaxConcurrency {
		concurrency = h.cfg.MaxConcurrency
	}

	persistResults := true
	if req.UpdateDatabase != nil {
		persistResults = *req.UpdateDatabase
	}

	jobID := h.jobs.CreateJob("poster_validation", map[string]interface{}{
		"batch_size":          batchSize,
		"concurrent_requests": concurrency,
		"update_database":     persistResults,
	})

	h.supervisor.Go("poster-validation-"+jobID, func(ctx context.Context) {
		h.orchestrator.Run(ctx, jobID, batchSize, concurrency, persistResults)
	})

	h.logger.Info("Poster validation job started",
		slog.String("job_id", jobID),
		slog.Int("batch_size", batchSize),
		slog.Int("concurrent_requests", concurrency),
		slog.Bool("update_database", persistResults),
	)

	c.JSON(http.StatusAccepted, dto.JobCreatedResponse{
		JobID:     jobID,
		Status:    jobs.StatusQueued,
		Message:   "Poster validation job started. Poll the job endpoint for progress.",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// GetPosterStats handles GET /api/v1/admin/movies/poster-stats
func (h *AdminHandler) GetPosterStats(c *gin.Context) {
	stats, err := h.catalog.GetPosterStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get poster stats", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get poster statistics",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListInvalidPosters handles GET /api/v1/admin/movies/invalid-posters
func (h *AdminHandler) ListInvalidPosters(c *gin.Context) {
	limit := parseLimit(c.DefaultQuery("limit", "50"), 50, maxPageSize)

	movies, err := h.catalog.ListInvalidPosters(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list invalid posters", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list invalid posters",
		})
		return
	}

	out := make([]dto.MovieDTO, len(movies))
	for i := range movies {
		out[i] = toMovieDTO(&movies[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"movies": out,
		"count":  len(out),
	})
}

// ValidatePoster handles POST /api/v1/admin/movies/:movie_id/validate-poster.
// It probes a single movie's poster synchronously without touching the database.
func (h *AdminHandler) ValidatePoster(c *gin.Context) {
	movie, ok := h.loadMovie(c)
	if !ok {
		return
	}

	result := h.orchestrator.ValidateOne(c.Request.Context(), workItemFor(movie))
	c.JSON(http.StatusOK, result)
}

// RevalidatePoster handles POST /api/v1/admin/movies/:movie_id/revalidate-poster.
// Unlike ValidatePoster it writes the outcome back to the movie record.
func (h *AdminHandler) RevalidatePoster(c *gin.Context) {
	movie, ok := h.loadMovie(c)
	if !ok {
		return
	}

	result, err := h.orchestrator.RevalidateOne(c.Request.Context(), workItemFor(movie))
	if err != nil {
		h.logger.Error("Failed to persist revalidation result",
			slog.String("movie_id", movie.MovieID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update poster validity",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) loadMovie(c *gin.Context) (*catalog.Movie, bool) {
	movieID := c.Param("movie_id")

	movie, err := h.catalog.GetMovieByID(c.Request.Context(), movieID)
	if err != nil {
		if errors.Is(err, catalog.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Movie not found",
			})
			return nil, false
		}
		h.logger.Error("Failed to get movie",
			slog.String("movie_id", movieID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get movie",
		})
		return nil, false
	}

	return movie, true
}

func parseLimit(raw string, fallback, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	if n > max {
		return max
	}
	return n
}

func workItemFor(movie *catalog.Movie) validation.WorkItem {
	item := validation.WorkItem{ItemID: movie.MovieID}
	if movie.PosterURL != nil {
		item.PosterURL = *movie.PosterURL
	}
	return item
}
