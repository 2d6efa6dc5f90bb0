package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/model"
)

// CouponRepo manages persistence for coupons.  It is the sole owner of
// used_count mutation: validation and increment happen inside a single
// guarded UPDATE so that two concurrent redemptions of a coupon at its
// last remaining use resolve to exactly one winner.
type CouponRepo struct {
	db *sql.DB
}

// NewCouponRepo returns a new CouponRepo bound to the given database.
func NewCouponRepo(db *sql.DB) *CouponRepo { return &CouponRepo{db: db} }

const couponColumns = `id, code, discount_percent, max_discount_cents, min_purchase_cents,
	valid_from, valid_to, is_active, usage_limit, used_count, created_at, updated_at`

func (r *CouponRepo) getByCode(ctx context.Context, code string) (model.Coupon, error) {
	const q = `SELECT ` + couponColumns + ` FROM coupons WHERE code = ?`
	var c model.Coupon
	err := r.db.QueryRowContext(ctx, q, code).Scan(&c.ID, &c.Code, &c.DiscountPercent,
		&c.MaxDiscountCents, &c.MinPurchaseCents, &c.ValidFrom, &c.ValidTo,
		&c.IsActive, &c.UsageLimit, &c.UsedCount, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Coupon{}, ErrCouponNotFound
	}
	if err != nil {
		return model.Coupon{}, err
	}
	return c, nil
}

// Redeem validates the coupon and increments used_count as one atomic
// operation.  All preconditions (active flag, validity window, usage
// limit, minimum purchase) live in the WHERE clause of the increment;
// when it matches no row a follow-up read classifies the rejection.  On
// success the returned coupon reflects the state after the increment.
func (r *CouponRepo) Redeem(ctx context.Context, code string, purchaseCents int64, now time.Time) (model.Coupon, error) {
	const q = `UPDATE coupons
	           SET used_count = used_count + 1, updated_at = UTC_TIMESTAMP()
	           WHERE code = ?
	             AND is_active = 1
	             AND valid_from <= ?
	             AND valid_to >= ?
	             AND used_count < usage_limit
	             AND min_purchase_cents <= ?`
	res, err := r.db.ExecContext(ctx, q, code, now.UTC(), now.UTC(), purchaseCents)
	if err != nil {
		return model.Coupon{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Coupon{}, err
	}
	if n == 1 {
		return r.getByCode(ctx, code)
	}

	c, err := r.getByCode(ctx, code)
	if err != nil {
		return model.Coupon{}, err
	}
	return model.Coupon{}, classifyRejection(c, purchaseCents, now)
}

// classifyRejection explains why a guarded redeem matched no row.  The
// order follows the validation order: active flag, validity window,
// usage limit, minimum purchase.
func classifyRejection(c model.Coupon, purchaseCents int64, now time.Time) error {
	switch {
	case !c.IsActive:
		return ErrCouponInactive
	case now.UTC().Before(c.ValidFrom) || now.UTC().After(c.ValidTo):
		return ErrCouponExpired
	case c.UsedCount >= c.UsageLimit:
		return ErrCouponLimitReached
	case purchaseCents < c.MinPurchaseCents:
		return ErrCouponBelowMinimum
	default:
		// The coupon became redeemable between the UPDATE and the read;
		// report the limit as the conservative answer.
		return ErrCouponLimitReached
	}
}
