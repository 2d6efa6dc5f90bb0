// Package repository defines the data access layer and the sentinel
// errors shared by its implementations.  Services compare against these
// values with errors.Is to translate storage-level rejections into the
// typed failures returned to callers.
package repository

import "errors"

// ErrShowtimeNotFound is returned when no showtime matches the given
// movie and showtime identifiers.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrInsufficientSeats is returned when a reservation would push a
// showtime's available seat count below zero.  The check and the
// decrement are a single atomic unit, so two concurrent reservations
// can never both win the same seats.
var ErrInsufficientSeats = errors.New("insufficient seats")

// ErrReleaseExceedsCapacity is returned when releasing seats would push
// the available count above the showtime's total.  It indicates a
// double release rather than a transient condition.
var ErrReleaseExceedsCapacity = errors.New("release exceeds total seats")

// Coupon redemption rejections.  Classification happens after the
// atomic guarded increment fails, so exactly one of these explains why.
var (
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponInactive     = errors.New("coupon is not active")
	ErrCouponExpired      = errors.New("coupon is outside its validity window")
	ErrCouponBelowMinimum = errors.New("purchase amount below coupon minimum")
	ErrCouponLimitReached = errors.New("coupon usage limit reached")
)

// ErrBookingNotFound is returned when a booking id does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrDuplicateTicketCode is returned when the unique constraint on
// bookings.ticket_code rejects an insert.  Callers may regenerate the
// code and retry.
var ErrDuplicateTicketCode = errors.New("duplicate ticket code")

// ErrAlreadyTransitioned is returned by conditional status updates when
// the booking was no longer in the expected source status.  It lets
// concurrent payment confirmations resolve to exactly one winner.
var ErrAlreadyTransitioned = errors.New("booking already transitioned")

// ErrDuplicateTransaction is returned when the unique constraint on
// payments.transaction_id rejects an insert.
var ErrDuplicateTransaction = errors.New("duplicate transaction id")

// ErrForbidden is returned when the caller attempts an operation on a
// booking owned by another user.  Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")
