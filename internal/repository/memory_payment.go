package repository

import (
	"context"
	"sync"
	"time"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/model"
)

// MemoryPaymentStore is an in-memory payment store enforcing the
// 1:1 booking link and transaction id uniqueness.
type MemoryPaymentStore struct {
	mu           sync.Mutex
	nextID       uint64
	byBooking    map[uint64]*model.Payment
	transactions map[string]struct{}
}

// NewMemoryPaymentStore returns an empty in-memory payment store.
func NewMemoryPaymentStore() *MemoryPaymentStore {
	return &MemoryPaymentStore{
		byBooking:    make(map[uint64]*model.Payment),
		transactions: make(map[string]struct{}),
	}
}

// Create assigns an id and stores the payment.
func (s *MemoryPaymentStore) Create(ctx context.Context, p *model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.transactions[p.TransactionID]; exists {
		return ErrDuplicateTransaction
	}
	s.nextID++
	p.ID = s.nextID
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.transactions[p.TransactionID] = struct{}{}
	stored := *p
	s.byBooking[p.BookingID] = &stored
	return nil
}

// GetByBookingID returns the payment for a booking, or nil when none
// has been recorded.
func (s *MemoryPaymentStore) GetByBookingID(ctx context.Context, bookingID uint64) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byBooking[bookingID]
	if !ok {
		return nil, nil
	}
	out := *p
	return &out, nil
}
