package dto

// CreateMovieRequest is the body of POST /movies.
type CreateMovieRequest struct {
	Title      string   `json:"title" binding:"required"`
	Year       *int     `json:"year"`
	Plot       *string  `json:"plot"`
	Genres     []string `json:"genres"`
	Runtime    *int     `json:"runtime"`
	PosterURL  *string  `json:"poster_url"`
	Type       string   `json:"type"`
	IMDBRating *float64 `json:"imdb_rating"`
}

// UpdateMovieRequest is the body of PUT /movies/:movie_id.
type UpdateMovieRequest struct {
	Title      string   `json:"title" binding:"required"`
	Year       *int     `json:"year"`
	Plot       *string  `json:"plot"`
	Genres     []string `json:"genres"`
	Runtime    *int     `json:"runtime"`
	PosterURL  *string  `json:"poster_url"`
	Type       string   `json:"type"`
	IMDBRating *float64 `json:"imdb_rating"`
}

// ListMoviesRequest holds the query parameters of GET /movies.
type ListMoviesRequest struct {
	Title                 string `form:"title"`
	Genre                 string `form:"genre"`
	Year                  int    `form:"year"`
	Type                  string `form:"type"`
	Search                string `form:"search"`
	IncludeInvalidPosters bool   `form:"include_invalid_posters"`
	SortBy                string `form:"sort_by"`
	SortOrder             string `form:"sort_order"`
	Limit                 int    `form:"limit"`
	Skip                  int    `form:"skip"`
}

// MovieDTO is the movie payload returned by the API.
type MovieDTO struct {
	MovieID     string   `json:"movie_id"`
	Title       string   `json:"title"`
	Year        *int     `json:"year,omitempty"`
	Plot        *string  `json:"plot,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Runtime     *int     `json:"runtime,omitempty"`
	PosterURL   *string  `json:"poster_url,omitempty"`
	ValidPoster *bool    `json:"valid_poster,omitempty"`
	Type        string   `json:"type,omitempty"`
	IMDBRating  *float64 `json:"imdb_rating,omitempty"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// ListMoviesResponse wraps a movie listing.
type ListMoviesResponse struct {
	Movies []MovieDTO `json:"movies"`
}
