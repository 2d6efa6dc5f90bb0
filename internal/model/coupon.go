package model

import "time"

// Coupon is a discount code with a bounded number of redemptions.
// UsedCount is mutated exclusively through the coupon repository's
// atomic redeem operation and never exceeds UsageLimit.  A redemption
// is valid only while the coupon is active, the current time lies in
// [ValidFrom, ValidTo] and the purchase meets MinPurchaseCents.
type Coupon struct {
	ID               uint64    // coupons.id
	Code             string    // coupons.code (unique)
	DiscountPercent  uint32    // coupons.discount_percent
	MaxDiscountCents int64     // coupons.max_discount_cents
	MinPurchaseCents int64     // coupons.min_purchase_cents
	ValidFrom        time.Time // coupons.valid_from
	ValidTo          time.Time // coupons.valid_to
	IsActive         bool      // coupons.is_active
	UsageLimit       uint32    // coupons.usage_limit
	UsedCount        uint32    // coupons.used_count
	CreatedAt        time.Time // coupons.created_at
	UpdatedAt        time.Time // coupons.updated_at
}
