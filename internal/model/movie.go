package model

import "time"

// Showtime is a single scheduled screening of a movie.  Each showtime
// owns its own finite seat pool and ticket price.  AvailableSeats is
// mutated exclusively through the showtime repository's atomic
// reserve/release operations and always satisfies
// 0 <= AvailableSeats <= TotalSeats.
//
// Fields:
//  ID             – primary key identifier.
//  MovieID        – movie this screening belongs to.
//  ShowDate       – calendar date of the screening (midnight UTC).
//  ShowTime       – wall-clock start time in "HH:MM" format.
//  Hall           – hall identifier within the cinema.
//  TotalSeats     – size of the seat pool.
//  AvailableSeats – seats currently free for booking.
//  PriceCents     – price per seat in cents.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Showtime struct {
	ID             uint64    // showtimes.id
	MovieID        uint64    // showtimes.movie_id
	ShowDate       time.Time // showtimes.show_date
	ShowTime       string    // showtimes.show_time ("HH:MM")
	Hall           string    // showtimes.hall
	TotalSeats     uint32    // showtimes.total_seats
	AvailableSeats uint32    // showtimes.available_seats
	PriceCents     int64     // showtimes.price_cents
	CreatedAt      time.Time // showtimes.created_at
	UpdatedAt      time.Time // showtimes.updated_at
}

// StartsAt combines ShowDate and ShowTime into the full start instant in
// UTC.  A malformed ShowTime yields the bare ShowDate so that a corrupt
// row is treated as already started rather than bookable forever.
func (s Showtime) StartsAt() time.Time {
	t, err := time.Parse("15:04", s.ShowTime)
	if err != nil {
		return s.ShowDate
	}
	d := s.ShowDate.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

// Movie groups a film's catalogue data together with its scheduled
// showtimes.  Only active movies are exposed through the browse
// endpoints.
type Movie struct {
	ID          uint64     // movies.id
	Title       string     // movies.title
	Description string     // movies.description
	DurationMin uint32     // movies.duration_min (running time in minutes)
	Genre       []string   // movies.genre (comma-separated in storage)
	Language    string     // movies.language
	Rating      float64    // movies.rating (0-10)
	IsActive    bool       // movies.is_active
	ShowTimes   []Showtime // showtimes rows referencing this movie
	CreatedAt   time.Time  // movies.created_at
	UpdatedAt   time.Time  // movies.updated_at
}
