package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/minhngo-dev/movie-catalog-be/internal/api/dto"
	"github.com/minhngo-dev/movie-catalog-be/internal/catalog"
	"github.com/minhngo-dev/movie-catalog-be/internal/config"
	"github.com/minhngo-dev/movie-catalog-be/internal/jobs"
	"github.com/minhngo-dev/movie-catalog-be/internal/tasks"
	"github.com/minhngo-dev/movie-catalog-be/internal/validation"
)

// HealthChecker reports whether a backing dependency is reachable.
// Implemented by postgresql.Client.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger       *slog.Logger
	Catalog      *catalog.Storage
	Comments     CommentStore
	Jobs         *jobs.Manager
	Orchestrator *validation.Orchestrator
	Supervisor   *tasks.Supervisor
	Validation   config.ValidationConfig
	Health       HealthChecker
}

func toMovieDTO(movie *catalog.Movie) dto.MovieDTO {
	return dto.MovieDTO{
		MovieID:     movie.MovieID,
		Title:       movie.Title,
		Year:        movie.Year,
		Plot:        movie.Plot,
		Genres:      movie.Genres,
		Runtime:     movie.Runtime,
		PosterURL:   movie.PosterURL,
		ValidPoster: movie.ValidPoster,
		Type:        movie.Type,
		IMDBRating:  movie.IMDBRating,
		CreatedAt:   movie.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   movie.UpdatedAt.Format(time.RFC3339),
	}
}

func toJobDTO(job *jobs.Job) dto.JobDTO {
	out := dto.JobDTO{
		JobID:                     job.JobID,
		JobType:                   job.JobType,
		Status:                    job.Status,
		ProgressPercentage:        job.ProgressPercentage,
		TotalItems:                job.TotalItems,
		ProcessedItems:            job.ProcessedItems,
		SuccessCount:              job.SuccessCount,
		ErrorCount:                job.ErrorCount,
		Errors:                    job.Errors,
		CreatedAt:                 job.CreatedAt.Format(time.RFC3339),
		EstimatedRemainingMinutes: job.EstimatedRemainingMinutes,
		Result:                    job.Result,
	}

	if job.StartedAt != nil {
		startedAt := job.StartedAt.Format(time.RFC3339)
		out.StartedAt = &startedAt
	}
	if job.CompletedAt != nil {
		completedAt := job.CompletedAt.Format(time.RFC3339)
		out.CompletedAt = &completedAt
	}

	return out
}
