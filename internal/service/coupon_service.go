package service

import (
	"context"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/clock"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/metrics"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/pricing"
)

// CouponService applies coupon codes to purchase amounts.  Apply
// consumes a redemption, so a successful call counts against the
// coupon's usage limit.
type CouponService struct {
	coupons CouponLedger
	clock   clock.Clock
}

// NewCouponService wires a coupon service over the given ledger.
func NewCouponService(coupons CouponLedger, clk clock.Clock) *CouponService {
	return &CouponService{coupons: coupons, clock: clk}
}

// Apply redeems the coupon against the purchase amount and returns the
// discount in cents.  Rejections are returned as *model.Failure values
// with kind CouponInvalid.
func (s *CouponService) Apply(ctx context.Context, code string, purchaseCents int64) (int64, error) {
	c, err := s.coupons.Redeem(ctx, code, purchaseCents, s.clock.Now())
	if err != nil {
		metrics.CouponRedemptions.WithLabelValues("rejected").Inc()
		return 0, couponFailure(err)
	}
	metrics.CouponRedemptions.WithLabelValues("accepted").Inc()
	return pricing.Discount(purchaseCents, c.DiscountPercent, c.MaxDiscountCents), nil
}
