package catalog

import (
	"errors"
	"time"
)

var (
	// ErrCommentNotFound is returned when a comment cannot be found in the database
	ErrCommentNotFound = errors.New("comment not found")
)

// Comment is a viewer comment attached to a movie.
type Comment struct {
	CommentID string    `db:"comment_id"`
	MovieID   string    `db:"movie_id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CommentFilter narrows a comment listing.
type CommentFilter struct {
	MovieID string
	Name    string
	Email   string
	Limit   int
	Skip    int
}
