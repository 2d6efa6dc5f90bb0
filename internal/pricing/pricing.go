// Package pricing computes booking totals.  All amounts are integer
// cents; the only rounding happens when a percentage discount is
// derived, and it always rounds half up so the same inputs produce the
// same output on every run.
package pricing

import "errors"

var (
	ErrInvalidSeatCount = errors.New("seat count must be greater than zero")
	ErrNegativePrice    = errors.New("unit price must not be negative")
	ErrInvalidDiscount  = errors.New("discount must be between zero and the subtotal")
)

// Subtotal returns seatCount * unitPriceCents with input validation.
func Subtotal(unitPriceCents int64, seatCount uint32) (int64, error) {
	if seatCount == 0 {
		return 0, ErrInvalidSeatCount
	}
	if unitPriceCents < 0 {
		return 0, ErrNegativePrice
	}
	return unitPriceCents * int64(seatCount), nil
}

// Total returns the subtotal minus the discount.  The discount must be
// non-negative and must not exceed the subtotal.
func Total(unitPriceCents int64, seatCount uint32, discountCents int64) (int64, error) {
	subtotal, err := Subtotal(unitPriceCents, seatCount)
	if err != nil {
		return 0, err
	}
	if discountCents < 0 || discountCents > subtotal {
		return 0, ErrInvalidDiscount
	}
	return subtotal - discountCents, nil
}

// Discount returns min(amountCents * percent / 100, maxDiscountCents)
// with the percentage term rounded half up to a whole cent.
func Discount(amountCents int64, percent uint32, maxDiscountCents int64) int64 {
	if amountCents <= 0 || percent == 0 {
		return 0
	}
	d := (amountCents*int64(percent) + 50) / 100
	if d > maxDiscountCents {
		d = maxDiscountCents
	}
	return d
}
