package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minhngo-dev/movie-catalog-be/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		if deps.Health != nil {
			if err := deps.Health.HealthCheck(c.Request.Context()); err != nil {
				deps.Logger.Error("Health check failed", slog.String("error", err.Error()))
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": "movie-catalog-api",
					"error":   "database unreachable",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "movie-catalog-api",
		})
	})

	movieHandler := handler.NewMovieHandler(deps)
	adminHandler := handler.NewAdminHandler(deps)
	jobHandler := handler.NewJobHandler(deps)
	commentHandler := handler.NewCommentHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		movies := v1.Group("/movies")
		{
			// POST /api/v1/movies - Create a new movie
			movies.POST("", movieHandler.CreateMovie)

			// GET /api/v1/movies - List movies with filtering and pagination
			movies.GET("", movieHandler.ListMovies)

			// GET /api/v1/movies/genres - List distinct genres
			movies.GET("/genres", movieHandler.ListGenres)

			// GET /api/v1/movies/:movie_id - Get movie details
			movies.GET("/:movie_id", movieHandler.GetMovie)

			// PUT /api/v1/movies/:movie_id - Update a movie
			movies.PUT("/:movie_id", movieHandler.UpdateMovie)

			// DELETE /api/v1/movies/:movie_id - Delete a movie
			movies.DELETE("/:movie_id", movieHandler.DeleteMovie)

			// POST /api/v1/movies/:movie_id/comments - Add a comment to a movie
			movies.POST("/:movie_id/comments", commentHandler.CreateComment)

			// GET /api/v1/movies/:movie_id/comments - List a movie's comments
			movies.GET("/:movie_id/comments", commentHandler.ListMovieComments)
		}

		comments := v1.Group("/comments")
		{
			// GET /api/v1/comments - List comments with optional filters
			comments.GET("", commentHandler.ListComments)

			// GET /api/v1/comments/:comment_id - Get a single comment
			comments.GET("/:comment_id", commentHandler.GetComment)

			// PUT /api/v1/comments/:comment_id - Update a comment's text
			comments.PUT("/:comment_id", commentHandler.UpdateComment)

			// DELETE /api/v1/comments/:comment_id - Delete a comment
			comments.DELETE("/:comment_id", commentHandler.DeleteComment)
		}

		admin := v1.Group("/admin")
		{
			adminMovies := admin.Group("/movies")
			{
				// POST /api/v1/admin/movies/validate-posters - Start a validation run
				adminMovies.POST("/validate-posters", adminHandler.StartPosterValidation)

				// GET /api/v1/admin/movies/poster-stats - Poster validity breakdown
				adminMovies.GET("/poster-stats", adminHandler.GetPosterStats)

				// GET /api/v1/admin/movies/invalid-posters - Movies with broken posters
				adminMovies.GET("/invalid-posters", adminHandler.ListInvalidPosters)

				// POST /api/v1/admin/movies/:movie_id/validate-poster - Probe one poster
				adminMovies.POST("/:movie_id/validate-poster", adminHandler.ValidatePoster)

				// POST /api/v1/admin/movies/:movie_id/revalidate-poster - Probe and persist
				adminMovies.POST("/:movie_id/revalidate-poster", adminHandler.RevalidatePoster)
			}

			adminJobs := admin.Group("/jobs")
			{
				// GET /api/v1/admin/jobs - List jobs with optional type filter
				adminJobs.GET("", jobHandler.ListJobs)

				// GET /api/v1/admin/jobs/statistics - Aggregate job counts
				adminJobs.GET("/statistics", jobHandler.GetJobStatistics)

				// GET /api/v1/admin/jobs/:job_id - Get job status
				adminJobs.GET("/:job_id", jobHandler.GetJob)

				// DELETE /api/v1/admin/jobs/:job_id - Cancel a job
				adminJobs.DELETE("/:job_id", jobHandler.CancelJob)
			}
		}
	}

	return r
}
