package dto

// CreateCommentRequest is the body of POST /movies/:movie_id/comments.
type CreateCommentRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Text  string `json:"text" binding:"required"`
}

// UpdateCommentRequest is the body of PUT /comments/:comment_id.
type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ListCommentsRequest holds the query parameters of GET /comments.
type ListCommentsRequest struct {
	MovieID string `form:"movie_id"`
	Name    string `form:"name"`
	Email   string `form:"email"`
	Limit   int    `form:"limit"`
	Skip    int    `form:"skip"`
}

// CommentDTO is the comment payload returned by the API.
type CommentDTO struct {
	CommentID string `json:"comment_id"`
	MovieID   string `json:"movie_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListCommentsResponse wraps a comment listing.
type ListCommentsResponse struct {
	Comments []CommentDTO `json:"comments"`
}
