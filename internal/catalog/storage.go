package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/minhngo-dev/movie-catalog-be/internal/validation"
	"github.com/minhngo-dev/movie-catalog-be/shared/postgresql"
)

// Fields a movie listing may sort on. Anything else falls back to title.
var allowedSortFields = map[string]string{
	"title":       "title",
	"year":        "year",
	"runtime":     "runtime",
	"imdb_rating": "imdb_rating",
	"created_at":  "created_at",
}

// Storage handles all movie catalog database operations. It also serves the
// validation orchestrator as its dataset cursor and result sink.
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new catalog storage instance.
func NewStorage(pg *postgresql.Client, logger *slog.Logger) *Storage {
	return &Storage{
		db:     pg.GetDB(),
		logger: logger,
	}
}

// CreateMovie inserts a new catalog record.
func (s *Storage) CreateMovie(ctx context.Context, movie *Movie) error {
	query := `
		INSERT INTO movies (
			movie_id, title, year, plot, genres, runtime,
			poster_url, valid_poster, type, imdb_rating, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		movie.MovieID,
		movie.Title,
		movie.Year,
		movie.Plot,
		movie.Genres,
		movie.Runtime,
		movie.PosterURL,
		movie.ValidPoster,
		movie.Type,
		movie.IMDBRating,
		movie.CreatedAt,
		movie.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}

	return nil
}

// GetMovieByID retrieves a single movie.
func (s *Storage) GetMovieByID(ctx context.Context, movieID string) (*Movie, error) {
	query := `
		SELECT movie_id, title, year, plot, genres, runtime,
		       poster_url, valid_poster, type, imdb_rating, created_at, updated_at
		FROM movies
		WHERE movie_id = $1
	`

	var movie Movie
	err := s.db.GetContext(ctx, &movie, query, movieID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	return &movie, nil
}

// UpdateMovie overwrites the mutable fields of a catalog record.
func (s *Storage) UpdateMovie(ctx context.Context, movie *Movie) error {
	query := `
		UPDATE movies
		SET title = $2, year = $3, plot = $4, genres = $5, runtime = $6,
		    poster_url = $7, type = $8, imdb_rating = $9, updated_at = $10
		WHERE movie_id = $1
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		movie.MovieID,
		movie.Title,
		movie.Year,
		movie.Plot,
		movie.Genres,
		movie.Runtime,
		movie.PosterURL,
		movie.Type,
		movie.IMDBRating,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return ErrMovieNotFound
	}

	return nil
}

// DeleteMovie removes a catalog record.
func (s *Storage) DeleteMovie(ctx context.Context, movieID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM movies WHERE movie_id = $1`, movieID)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if rows == 0 {
		return ErrMovieNotFound
	}

	return nil
}

// ListMovies returns movies matching the filter, paginated by limit/skip.
// Unless IncludeInvalidPosters is set, records whose poster failed
// validation are excluded.
func (s *Storage) ListMovies(ctx context.Context, filter MovieFilter) ([]Movie, error) {
	query := `
		SELECT movie_id, title, year, plot, genres, runtime,
		       poster_url, valid_poster, type, imdb_rating, created_at, updated_at
		FROM movies
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.Title != "" {
		query += fmt.Sprintf(" AND title = $%d", argIdx)
		args = append(args, filter.Title)
		argIdx++
	}

	if filter.Genre != "" {
		query += fmt.Sprintf(" AND $%d = ANY(genres)", argIdx)
		args = append(args, filter.Genre)
		argIdx++
	}

	if filter.Year > 0 {
		query += fmt.Sprintf(" AND year = $%d", argIdx)
		args = append(args, filter.Year)
		argIdx++
	}

	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, filter.Type)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR plot ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	if !filter.IncludeInvalidPosters {
		query += " AND (valid_poster IS NULL OR valid_poster = TRUE)"
	}

	sortColumn, ok := allowedSortFields[filter.SortBy]
	if !ok {
		sortColumn = "title"
	}
	sortOrder := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		sortOrder = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, movie_id ASC", sortColumn, sortOrder)

	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Skip)

	var movies []Movie
	if err := s.db.SelectContext(ctx, &movies, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	return movies, nil
}

// ListGenres returns every distinct genre in the catalog.
func (s *Storage) ListGenres(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT unnest(genres) AS genre
		FROM movies
		ORDER BY genre
	`

	var genres []string
	if err := s.db.SelectContext(ctx, &genres, query); err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}

	return genres, nil
}

// ListInvalidPosters returns movies that have a poster URL but whose last
// validation marked it invalid, or that have never been validated.
func (s *Storage) ListInvalidPosters(ctx context.Context, limit int) ([]Movie, error) {
	query := `
		SELECT movie_id, title, year, plot, genres, runtime,
		       poster_url, valid_poster, type, imdb_rating, created_at, updated_at
		FROM movies
		WHERE poster_url IS NOT NULL
		  AND (valid_poster = FALSE OR valid_poster IS NULL)
		ORDER BY title ASC, movie_id ASC
		LIMIT $1
	`

	var movies []Movie
	if err := s.db.SelectContext(ctx, &movies, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list invalid posters: %w", err)
	}

	return movies, nil
}

// GetPosterStats aggregates catalog-wide poster validation counts.
func (s *Storage) GetPosterStats(ctx context.Context) (*PosterStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(poster_url) AS with_posters,
			COUNT(*) FILTER (WHERE valid_poster = TRUE) AS valid
		FROM movies
	`

	var row struct {
		Total       int `db:"total"`
		WithPosters int `db:"with_posters"`
		Valid       int `db:"valid"`
	}
	if err := s.db.GetContext(ctx, &row, query); err != nil {
		return nil, fmt.Errorf("failed to get poster stats: %w", err)
	}

	stats := &PosterStats{
		TotalMovies:       row.Total,
		MoviesWithPosters: row.WithPosters,
		ValidPosters:      row.Valid,
		InvalidPosters:    row.WithPosters - row.Valid,
	}
	if row.WithPosters > 0 {
		stats.SuccessRate = float64(row.Valid) / float64(row.WithPosters) * 100
	}

	return stats, nil
}

// FetchBatch implements validation.Cursor. Batches are served in stable
// movie_id order so a run walks the catalog with monotonically increasing
// offsets.
func (s *Storage) FetchBatch(ctx context.Context, skip, limit int) ([]validation.WorkItem, error) {
	query := `
		SELECT movie_id, poster_url
		FROM movies
		ORDER BY movie_id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movie batch: %w", err)
	}
	defer rows.Close()

	var items []validation.WorkItem
	for rows.Next() {
		var movieID string
		var posterURL sql.NullString
		if err := rows.Scan(&movieID, &posterURL); err != nil {
			return nil, fmt.Errorf("failed to scan movie batch row: %w", err)
		}
		items = append(items, validation.WorkItem{
			ItemID:    movieID,
			PosterURL: posterURL.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read movie batch: %w", err)
	}

	return items, nil
}

// CountItems implements validation.Cursor.
func (s *Storage) CountItems(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM movies`); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

// SetValidity implements validation.Sink.
func (s *Storage) SetValidity(ctx context.Context, movieID string, isValid bool) error {
	query := `
		UPDATE movies
		SET valid_poster = $2, updated_at = $3
		WHERE movie_id = $1
	`

	if _, err := s.db.ExecContext(ctx, query, movieID, isValid, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to update valid_poster: %w", err)
	}

	s.logger.Debug("Updated poster validity",
		slog.String("movie_id", movieID),
		slog.Bool("is_valid", isValid),
	)
	return nil
}
