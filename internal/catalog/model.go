package catalog

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

var (
	// ErrMovieNotFound is returned when a movie cannot be found in the database
	ErrMovieNotFound = errors.New("movie not found")
)

// Movie is a catalog record. PosterURL and ValidPoster drive the poster
// validation job: ValidPoster is nil until a validation run has checked
// the record.
type Movie struct {
	MovieID     string         `db:"movie_id"`
	Title       string         `db:"title"`
	Year        *int           `db:"year"`
	Plot        *string        `db:"plot"`
	Genres      pq.StringArray `db:"genres"`
	Runtime     *int           `db:"runtime"`
	PosterURL   *string        `db:"poster_url"`
	ValidPoster *bool          `db:"valid_poster"`
	Type        string         `db:"type"`
	IMDBRating  *float64       `db:"imdb_rating"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// PosterStats aggregates catalog-wide poster validation state.
type PosterStats struct {
	TotalMovies       int     `json:"total_movies"`
	MoviesWithPosters int     `json:"movies_with_posters"`
	ValidPosters      int     `json:"valid_posters"`
	InvalidPosters    int     `json:"invalid_posters"`
	SuccessRate       float64 `json:"validation_success_rate"`
}

// MovieFilter narrows a movie listing.
type MovieFilter struct {
	Title                 string
	Genre                 string
	Year                  int
	Type                  string
	Search                string
	IncludeInvalidPosters bool
	SortBy                string
	SortOrder             string
	Limit                 int
	Skip                  int
}
