package repository

import (
	"context"
	"sync"
	"time"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/model"
)

// MemoryCouponStore is an in-memory coupon ledger with the same
// validate-and-increment atomicity as the SQL implementation.
type MemoryCouponStore struct {
	mu      sync.Mutex
	coupons map[string]*model.Coupon
}

// NewMemoryCouponStore returns an empty in-memory coupon store.
func NewMemoryCouponStore() *MemoryCouponStore {
	return &MemoryCouponStore{coupons: make(map[string]*model.Coupon)}
}

// Add stores a coupon keyed by its code.
func (s *MemoryCouponStore) Add(c model.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons[c.Code] = &c
}

// Get returns a copy of the coupon for inspection in tests.
func (s *MemoryCouponStore) Get(code string) (model.Coupon, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[code]
	if !ok {
		return model.Coupon{}, false
	}
	return *c, true
}

// Redeem validates the coupon and increments its used count under one
// lock acquisition, mirroring the guarded UPDATE of the SQL store.
func (s *MemoryCouponStore) Redeem(ctx context.Context, code string, purchaseCents int64, now time.Time) (model.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[code]
	if !ok {
		return model.Coupon{}, ErrCouponNotFound
	}
	switch {
	case !c.IsActive:
		return model.Coupon{}, ErrCouponInactive
	case now.UTC().Before(c.ValidFrom) || now.UTC().After(c.ValidTo):
		return model.Coupon{}, ErrCouponExpired
	case c.UsedCount >= c.UsageLimit:
		return model.Coupon{}, ErrCouponLimitReached
	case purchaseCents < c.MinPurchaseCents:
		return model.Coupon{}, ErrCouponBelowMinimum
	}
	c.UsedCount++
	c.UpdatedAt = now.UTC()
	return *c, nil
}
