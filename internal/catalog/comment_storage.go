package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateComment inserts a new comment.
func (s *Storage) CreateComment(ctx context.Context, comment *Comment) error {
	query := `
		INSERT INTO comments (
			comment_id, movie_id, name, email, text, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		comment.CommentID,
		comment.MovieID,
		comment.Name,
		comment.Email,
		comment.Text,
		comment.CreatedAt,
		comment.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// GetCommentByID retrieves a single comment.
func (s *Storage) GetCommentByID(ctx context.Context, commentID string) (*Comment, error) {
	query := `
		SELECT comment_id, movie_id, name, email, text, created_at, updated_at
		FROM comments
		WHERE comment_id = $1
	`

	var comment Comment
	err := s.db.GetContext(ctx, &comment, query, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return &comment, nil
}

// ListComments returns comments matching the filter, newest first,
// paginated by limit/skip.
func (s *Storage) ListComments(ctx context.Context, filter CommentFilter) ([]Comment, error) {
	query := `
		SELECT comment_id, movie_id, name, email, text, created_at, updated_at
		FROM comments
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.MovieID != "" {
		query += fmt.Sprintf(" AND movie_id = $%d", argIdx)
		args = append(args, filter.MovieID)
		argIdx++
	}

	if filter.Name != "" {
		query += fmt.Sprintf(" AND name = $%d", argIdx)
		args = append(args, filter.Name)
		argIdx++
	}

	if filter.Email != "" {
		query += fmt.Sprintf(" AND email = $%d", argIdx)
		args = append(args, filter.Email)
		argIdx++
	}

	query += " ORDER BY created_at DESC, comment_id ASC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Skip)

	var comments []Comment
	if err := s.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// UpdateComment overwrites the text of a comment.
func (s *Storage) UpdateComment(ctx context.Context, commentID, text string) error {
	query := `
		UPDATE comments
		SET text = $2, updated_at = $3
		WHERE comment_id = $1
	`

	result, err := s.db.ExecContext(ctx, query, commentID, text, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return ErrCommentNotFound
	}

	return nil
}

// DeleteComment removes a comment.
func (s *Storage) DeleteComment(ctx context.Context, commentID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE comment_id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if rows == 0 {
		return ErrCommentNotFound
	}

	return nil
}
