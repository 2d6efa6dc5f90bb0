package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/model"
)

// MemoryBookingStore is an in-memory booking store.  It enforces ticket
// code uniqueness and the conditional status transition the SQL store
// provides.
type MemoryBookingStore struct {
	mu          sync.Mutex
	nextID      uint64
	bookings    map[uint64]*model.Booking
	ticketCodes map[string]struct{}
}

// NewMemoryBookingStore returns an empty in-memory booking store.
func NewMemoryBookingStore() *MemoryBookingStore {
	return &MemoryBookingStore{
		bookings:    make(map[uint64]*model.Booking),
		ticketCodes: make(map[string]struct{}),
	}
}

// Create assigns an id and stores the booking.  Duplicate ticket codes
// are rejected with ErrDuplicateTicketCode.
func (s *MemoryBookingStore) Create(ctx context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ticketCodes[b.TicketCode]; exists {
		return ErrDuplicateTicketCode
	}
	s.nextID++
	b.ID = s.nextID
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	s.ticketCodes[b.TicketCode] = struct{}{}
	stored := *b
	s.bookings[b.ID] = &stored
	return nil
}

// GetByID returns a copy of the booking.
func (s *MemoryBookingStore) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return model.Booking{}, ErrBookingNotFound
	}
	return *b, nil
}

// GetByIDForUser returns the booking and enforces ownership.
func (s *MemoryBookingStore) GetByIDForUser(ctx context.Context, id, userID uint64) (model.Booking, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if b.UserID != userID {
		return model.Booking{}, ErrForbidden
	}
	return b, nil
}

// ListByUser returns all bookings for a user, newest first.
func (s *MemoryBookingStore) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Booking{}
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out, nil
}

// Transition moves a booking between statuses atomically with respect
// to other Transition calls.
func (s *MemoryBookingStore) Transition(ctx context.Context, id uint64, from, to model.BookingStatus, reason *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	if b.Status != from {
		return ErrAlreadyTransitioned
	}
	b.Status = to
	b.CancellationReason = reason
	b.UpdatedAt = time.Now().UTC()
	return nil
}
