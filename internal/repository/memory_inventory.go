package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/model"
)

// MemoryInventory is an in-memory implementation of the showtime store.
// A single mutex serialises seat mutations, giving the same
// check-and-decrement atomicity as the guarded SQL updates.  It backs
// the test suite and local development without a database.
type MemoryInventory struct {
	mu        sync.RWMutex
	movies    map[uint64]model.Movie
	showtimes map[uint64]*model.Showtime
}

// NewMemoryInventory returns an empty in-memory inventory.
func NewMemoryInventory() *MemoryInventory {
	return &MemoryInventory{
		movies:    make(map[uint64]model.Movie),
		showtimes: make(map[uint64]*model.Showtime),
	}
}

// Add stores a movie and its showtimes.  Identifiers must be set by the
// caller and unique across the store.
func (s *MemoryInventory) Add(m model.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range m.ShowTimes {
		st := st
		st.MovieID = m.ID
		s.showtimes[st.ID] = &st
	}
	m.ShowTimes = nil
	s.movies[m.ID] = m
}

// GetShowtime returns a copy of the showtime when it exists under the
// given movie.
func (s *MemoryInventory) GetShowtime(ctx context.Context, movieID, showtimeID uint64) (model.Showtime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.showtimes[showtimeID]
	if !ok || st.MovieID != movieID {
		return model.Showtime{}, ErrShowtimeNotFound
	}
	return *st, nil
}

// Reserve atomically decrements the available seat count, failing when
// fewer than seats are free.
func (s *MemoryInventory) Reserve(ctx context.Context, showtimeID uint64, seats uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.showtimes[showtimeID]
	if !ok {
		return ErrShowtimeNotFound
	}
	if st.AvailableSeats < seats {
		return ErrInsufficientSeats
	}
	st.AvailableSeats -= seats
	return nil
}

// Release returns seats to the pool, never past the showtime's total.
func (s *MemoryInventory) Release(ctx context.Context, showtimeID uint64, seats uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.showtimes[showtimeID]
	if !ok {
		return ErrShowtimeNotFound
	}
	if st.AvailableSeats+seats > st.TotalSeats {
		return ErrReleaseExceedsCapacity
	}
	st.AvailableSeats += seats
	return nil
}

// ListActiveMovies returns active movies with showtimes attached,
// ordered by title.
func (s *MemoryInventory) ListActiveMovies(ctx context.Context) ([]model.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	movies := []model.Movie{}
	for _, m := range s.movies {
		if !m.IsActive {
			continue
		}
		for _, st := range s.showtimes {
			if st.MovieID == m.ID {
				m.ShowTimes = append(m.ShowTimes, *st)
			}
		}
		sort.Slice(m.ShowTimes, func(i, j int) bool {
			a, b := m.ShowTimes[i], m.ShowTimes[j]
			if !a.ShowDate.Equal(b.ShowDate) {
				return a.ShowDate.Before(b.ShowDate)
			}
			return a.ShowTime < b.ShowTime
		})
		movies = append(movies, m)
	}
	sort.Slice(movies, func(i, j int) bool { return movies[i].Title < movies[j].Title })
	return movies, nil
}
