package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/minhngo-dev/movie-catalog-be/internal/api/dto"
	"github.com/minhngo-dev/movie-catalog-be/internal/catalog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// MovieHandler handles movie catalog HTTP requests
type MovieHandler struct {
	logger  *slog.Logger
	catalog *catalog.Storage
}

// NewMovieHandler creates a new MovieHandler instance
func NewMovieHandler(deps *Dependencies) *MovieHandler {
	return &MovieHandler{
		logger:  deps.Logger,
		catalog: deps.Catalog,
	}
}

// CreateMovie handles POST /api/v1/movies
func (h *MovieHandler) CreateMovie(c *gin.Context) {
	var req dto.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	now := time.Now().UTC()
	movie := catalog.Movie{
		MovieID:    uuid.New().String(),
		Title:      req.Title,
		Year:       req.Year,
		Plot:       req.Plot,
		Genres:     req.Genres,
		Runtime:    req.Runtime,
		PosterURL:  req.PosterURL,
		Type:       req.Type,
		IMDBRating: req.IMDBRating,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.catalog.CreateMovie(c.Request.Context(), &movie); err != nil {
		h.logger.Error("Failed to create movie", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create movie",
		})
		return
	}

	c.JSON(http.StatusCreated, toMovieDTO(&movie))
}

// GetMovie handles GET /api/v1/movies/:movie_id
func (h *MovieHandler) GetMovie(c *gin.Context) {
	movieID := c.Param("movie_id")

	movie, err := h.catalog.GetMovieByID(c.Request.Context(), movieID)
	if err != nil {
		if errors.Is(err, catalog.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Movie not found",
			})
			return
		}
		h.logger.Error("Failed to get movie", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get movie",
		})
		return
	}

	c.JSON(http.StatusOK, toMovieDTO(movie))
}

// ListMovies handles GET /api/v1/movies
func (h *MovieHandler) ListMovies(c *gin.Context) {
	var req dto.ListMoviesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if req.Limit <= 0 {
		req.Limit = defaultPageSize
	}
	if req.Limit > maxPageSize {
		req.Limit = maxPageSize
	}
	if req.Skip < 0 {
		req.Skip = 0
	}

	filter := catalog.MovieFilter{
		Title:                 req.Title,
		Genre:                 req.Genre,
		Year:                  req.Year,
		Type:                  req.Type,
		Search:                req.Search,
		IncludeInvalidPosters: req.IncludeInvalidPosters,
		SortBy:                req.SortBy,
		SortOrder:             req.SortOrder,
		Limit:                 req.Limit,
		Skip:                  req.Skip,
	}

	movies, err := h.catalog.ListMovies(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list movies", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list movies",
		})
		return
	}

	response := dto.ListMoviesResponse{
		Movies: make([]dto.MovieDTO, len(movies)),
	}
	for i := range movies {
		response.Movies[i] = toMovieDTO(&movies[i])
	}

	c.JSON(http.StatusOK, response)
}

// ListGenres handles GET /api/v1/movies/genres
func (h *MovieHandler) ListGenres(c *gin.Context) {
	genres, err := h.catalog.ListGenres(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list genres", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list genres",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

// UpdateMovie handles PUT /api/v1/movies/:movie_id
func (h *MovieHandler) UpdateMovie(c *gin.Context) {
	movieID := c.Param("movie_id")

	var req dto.UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	movie := catalog.Movie{
		MovieID:    movieID,
		Title:      req.Title,
		Year:       req.Year,
		Plot:       req.Plot,
		Genres:     req.Genres,
		Runtime:    req.Runtime,
		PosterURL:  req.PosterURL,
		Type:       req.Type,
		IMDBRating: req.IMDBRating,
	}

	if err := h.catalog.UpdateMovie(c.Request.Context(), &movie); err != nil {
		if errors.Is(err, catalog.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Movie not found",
			})
			return
		}
		h.logger.Error("Failed to update movie", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update movie",
		})
		return
	}

	updated, err := h.catalog.GetMovieByID(c.Request.Context(), movieID)
	if err != nil {
		h.logger.Error("Failed to reload movie", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load updated movie",
		})
		return
	}

	c.JSON(http.StatusOK, toMovieDTO(updated))
}

// DeleteMovie handles DELETE /api/v1/movies/:movie_id
func (h *MovieHandler) DeleteMovie(c *gin.Context) {
	movieID := c.Param("movie_id")

	if err := h.catalog.DeleteMovie(c.Request.Context(), movieID); err != nil {
		if errors.Is(err, catalog.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Movie not found",
			})
			return
		}
		h.logger.Error("Failed to delete movie", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete movie",
		})
		return
	}

	c.Status(http.StatusNoContent)
}
