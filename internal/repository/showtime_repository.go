package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/model"
)

// ShowtimeRepo manages persistence for movies and their showtimes.  It
// is the sole owner of available_seats mutation: reservations and
// releases go through guarded single-statement updates so the check and
// the change are one atomic unit at the database.  Requests against
// different showtimes never block each other.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo returns a new ShowtimeRepo bound to the given database.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need to begin
// transactions spanning multiple repositories.
func (r *ShowtimeRepo) DB() *sql.DB { return r.db }

const showtimeColumns = `id, movie_id, show_date, show_time, hall, total_seats, available_seats, price_cents, created_at, updated_at`

func scanShowtime(row *sql.Row) (model.Showtime, error) {
	var s model.Showtime
	err := row.Scan(&s.ID, &s.MovieID, &s.ShowDate, &s.ShowTime, &s.Hall,
		&s.TotalSeats, &s.AvailableSeats, &s.PriceCents, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Showtime{}, ErrShowtimeNotFound
	}
	if err != nil {
		return model.Showtime{}, err
	}
	return s, nil
}

// GetShowtime loads a showtime by id, verifying it belongs to the given
// movie.  A showtime that exists under a different movie is reported as
// not found so callers cannot book across a mismatched pair.
func (r *ShowtimeRepo) GetShowtime(ctx context.Context, movieID, showtimeID uint64) (model.Showtime, error) {
	const q = `SELECT ` + showtimeColumns + ` FROM showtimes WHERE id = ? AND movie_id = ?`
	return scanShowtime(r.db.QueryRowContext(ctx, q, showtimeID, movieID))
}

// Reserve atomically decrements available_seats by seats, failing when
// fewer than seats are free.  The floor guard lives in the WHERE clause
// so a concurrent reservation can never observe a stale count between
// check and decrement.
func (r *ShowtimeRepo) Reserve(ctx context.Context, showtimeID uint64, seats uint32) error {
	const q = `UPDATE showtimes
	           SET available_seats = available_seats - ?, updated_at = UTC_TIMESTAMP()
	           WHERE id = ? AND available_seats >= ?`
	res, err := r.db.ExecContext(ctx, q, seats, showtimeID, seats)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	// Distinguish a missing showtime from an exhausted pool.
	exists, err := r.showtimeExists(ctx, showtimeID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrShowtimeNotFound
	}
	return ErrInsufficientSeats
}

// Release reverses a prior reservation.  The ceiling guard in the WHERE
// clause keeps available_seats from exceeding total_seats, so a double
// release surfaces as an error instead of corrupting the pool.
func (r *ShowtimeRepo) Release(ctx context.Context, showtimeID uint64, seats uint32) error {
	const q = `UPDATE showtimes
	           SET available_seats = available_seats + ?, updated_at = UTC_TIMESTAMP()
	           WHERE id = ? AND available_seats + ? <= total_seats`
	res, err := r.db.ExecContext(ctx, q, seats, showtimeID, seats)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	exists, err := r.showtimeExists(ctx, showtimeID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrShowtimeNotFound
	}
	return ErrReleaseExceedsCapacity
}

func (r *ShowtimeRepo) showtimeExists(ctx context.Context, showtimeID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM showtimes WHERE id = ?`, showtimeID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListActiveMovies returns all active movies with their showtimes
// attached, ordered by title.  Inactive movies are omitted entirely.
func (r *ShowtimeRepo) ListActiveMovies(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT id, title, description, duration_min, genre, language, rating, is_active, created_at, updated_at
	           FROM movies WHERE is_active = 1 ORDER BY title`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []model.Movie
	index := make(map[uint64]int)
	for rows.Next() {
		var m model.Movie
		var genre string
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.DurationMin, &genre,
			&m.Language, &m.Rating, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.Genre = splitGenre(genre)
		index[m.ID] = len(movies)
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return []model.Movie{}, nil
	}

	const sq = `SELECT st.id, st.movie_id, st.show_date, st.show_time, st.hall,
	                   st.total_seats, st.available_seats, st.price_cents, st.created_at, st.updated_at
	            FROM showtimes st JOIN movies m ON m.id = st.movie_id
	            WHERE m.is_active = 1
	            ORDER BY st.show_date, st.show_time`
	srows, err := r.db.QueryContext(ctx, sq)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var s model.Showtime
		if err := srows.Scan(&s.ID, &s.MovieID, &s.ShowDate, &s.ShowTime, &s.Hall,
			&s.TotalSeats, &s.AvailableSeats, &s.PriceCents, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if i, ok := index[s.MovieID]; ok {
			movies[i].ShowTimes = append(movies[i].ShowTimes, s)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

func splitGenre(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
