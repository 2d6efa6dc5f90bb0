package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/model"
)

func seedCoupon(limit, used uint32) *MemoryCouponStore {
	store := NewMemoryCouponStore()
	store.Add(model.Coupon{
		ID:               1,
		Code:             "COUPLE50",
		DiscountPercent:  50,
		MaxDiscountCents: 100000,
		MinPurchaseCents: 1000,
		ValidFrom:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:          time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
		IsActive:         true,
		UsageLimit:       limit,
		UsedCount:        used,
	})
	return store
}

var couponNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func TestMemoryCouponStore_Redeem(t *testing.T) {
	store := seedCoupon(10, 0)

	c, err := store.Redeem(context.Background(), "COUPLE50", 20000, couponNow)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), c.UsedCount)

	stored, ok := store.Get("COUPLE50")
	require.True(t, ok)
	assert.Equal(t, uint32(1), stored.UsedCount)
}

func TestMemoryCouponStore_RedeemRejections(t *testing.T) {
	ctx := context.Background()

	_, err := seedCoupon(10, 0).Redeem(ctx, "NOPE", 20000, couponNow)
	assert.ErrorIs(t, err, ErrCouponNotFound)

	inactive := seedCoupon(10, 0)
	c, _ := inactive.Get("COUPLE50")
	c.IsActive = false
	inactive.Add(c)
	_, err = inactive.Redeem(ctx, "COUPLE50", 20000, couponNow)
	assert.ErrorIs(t, err, ErrCouponInactive)

	_, err = seedCoupon(10, 0).Redeem(ctx, "COUPLE50", 20000, couponNow.AddDate(1, 0, 0))
	assert.ErrorIs(t, err, ErrCouponExpired)

	_, err = seedCoupon(10, 10).Redeem(ctx, "COUPLE50", 20000, couponNow)
	assert.ErrorIs(t, err, ErrCouponLimitReached)

	_, err = seedCoupon(10, 0).Redeem(ctx, "COUPLE50", 500, couponNow)
	assert.ErrorIs(t, err, ErrCouponBelowMinimum)
}

func TestMemoryCouponStore_RejectionLeavesCountUntouched(t *testing.T) {
	store := seedCoupon(10, 0)

	_, err := store.Redeem(context.Background(), "COUPLE50", 500, couponNow)
	assert.ErrorIs(t, err, ErrCouponBelowMinimum)

	c, ok := store.Get("COUPLE50")
	require.True(t, ok)
	assert.Equal(t, uint32(0), c.UsedCount)
}

func TestMemoryCouponStore_ConcurrentLastUse(t *testing.T) {
	// Two concurrent redemptions of a coupon at its last remaining use:
	// exactly one succeeds, the other hits the limit.
	store := seedCoupon(1, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes, limited := 0, 0
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Redeem(ctx, "COUPLE50", 20000, couponNow)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case err == ErrCouponLimitReached:
				limited++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, limited)

	c, ok := store.Get("COUPLE50")
	require.True(t, ok)
	assert.Equal(t, uint32(1), c.UsedCount)
}
