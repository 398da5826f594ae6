package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/minhngo-dev/movie-catalog-be/internal/api/dto"
	"github.com/minhngo-dev/movie-catalog-be/internal/catalog"
)

// CommentStore is the comment persistence surface the handler needs.
// Implemented by catalog.Storage.
type CommentStore interface {
	CreateComment(ctx context.Context, comment *catalog.Comment) error
	GetCommentByID(ctx context.Context, commentID string) (*catalog.Comment, error)
	ListComments(ctx context.Context, filter catalog.CommentFilter) ([]catalog.Comment, error)
	UpdateComment(ctx context.Context, commentID, text string) error
	DeleteComment(ctx context.Context, commentID string) error
	GetMovieByID(ctx context.Context, movieID string) (*catalog.Movie, error)
}

// CommentHandler handles movie comment HTTP requests
type CommentHandler struct {
	logger *slog.Logger
	store  CommentStore
}

// NewCommentHandler creates a new CommentHandler instance
func NewCommentHandler(deps *Dependencies) *CommentHandler {
	return &CommentHandler{
		logger: deps.Logger,
		store:  deps.Comments,
	}
}

// CreateComment handles POST /api/v1/movies/:movie_id/comments.
// The target movie must exist; a comment never outlives its movie.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	movieID := c.Param("movie_id")

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	if _, err := h.store.GetMovieByID(c.Request.Context(), movieID); err != nil {
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

	now := time.Now().UTC()
	comment := catalog.Comment{
		CommentID: uuid.New().String(),
		MovieID:   movieID,
		Name:      req.Name,
		Email:     req.Email,
		Text:      req.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateComment(c.Request.Context(), &comment); err != nil {
		h.logger.Error("Failed to create comment", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create comment",
		})
		return
	}

	c.JSON(http.StatusCreated, toCommentDTO(&comment))
}

// GetComment handles GET /api/v1/comments/:comment_id
func (h *CommentHandler) GetComment(c *gin.Context) {
	commentID := c.Param("comment_id")

	comment, err := h.store.GetCommentByID(c.Request.Context(), commentID)
	if err != nil {
		if errors.Is(err, catalog.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Comment not found",
			})
			return
		}
		h.logger.Error("Failed to get comment", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get comment",
		})
		return
	}

	c.JSON(http.StatusOK, toCommentDTO(comment))
}

// ListComments handles GET /api/v1/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	var req dto.ListCommentsRequest
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

	comments, err := h.store.ListComments(c.Request.Context(), catalog.CommentFilter{
		MovieID: req.MovieID,
		Name:    req.Name,
		Email:   req.Email,
		Limit:   req.Limit,
		Skip:    req.Skip,
	})
	if err != nil {
		h.logger.Error("Failed to list comments", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list comments",
		})
		return
	}

	response := dto.ListCommentsResponse{
		Comments: make([]dto.CommentDTO, len(comments)),
	}
	for i := range comments {
		response.Comments[i] = toCommentDTO(&comments[i])
	}

	c.JSON(http.StatusOK, response)
}

// ListMovieComments handles GET /api/v1/movies/:movie_id/comments
func (h *CommentHandler) ListMovieComments(c *gin.Context) {
	limit := parseLimit(c.DefaultQuery("limit", "20"), defaultPageSize, maxPageSize)
	skip := parseLimit(c.DefaultQuery("skip", "0"), 0, 1<<31-1)

	comments, err := h.store.ListComments(c.Request.Context(), catalog.CommentFilter{
		MovieID: c.Param("movie_id"),
		Limit:   limit,
		Skip:    skip,
	})
	if err != nil {
		h.logger.Error("Failed to list comments", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list comments",
		})
		return
	}

	response := dto.ListCommentsResponse{
		Comments: make([]dto.CommentDTO, len(comments)),
	}
	for i := range comments {
		response.Comments[i] = toCommentDTO(&comments[i])
	}

	c.JSON(http.StatusOK, response)
}

// UpdateComment handles PUT /api/v1/comments/:comment_id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID := c.Param("comment_id")

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	if err := h.store.UpdateComment(c.Request.Context(), commentID, req.Text); err != nil {
		if errors.Is(err, catalog.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Comment not found",
			})
			return
		}
		h.logger.Error("Failed to update comment", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update comment",
		})
		return
	}

	updated, err := h.store.GetCommentByID(c.Request.Context(), commentID)
	if err != nil {
		h.logger.Error("Failed to reload comment", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load updated comment",
		})
		return
	}

	c.JSON(http.StatusOK, toCommentDTO(updated))
}

// DeleteComment handles DELETE /api/v1/comments/:comment_id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID := c.Param("comment_id")

	if err := h.store.DeleteComment(c.Request.Context(), commentID); err != nil {
		if errors.Is(err, catalog.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Comment not found",
			})
			return
		}
		h.logger.Error("Failed to delete comment", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete comment",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func toCommentDTO(comment *catalog.Comment) dto.CommentDTO {
	return dto.CommentDTO{
		CommentID: comment.CommentID,
		MovieID:   comment.MovieID,
		Name:      comment.Name,
		Email:     comment.Email,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
		UpdatedAt: comment.UpdatedAt.Format(time.RFC3339),
	}
}
