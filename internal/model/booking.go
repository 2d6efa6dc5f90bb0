package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.  A booking
// is created as pending and transitions exactly once to confirmed (on
// payment success) or cancelled (on payment failure or explicit
// cancellation).  Confirmed and cancelled are terminal.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Terminal reports whether the status admits no further transition.
func (s BookingStatus) Terminal() bool {
	return s == BookingConfirmed || s == BookingCancelled
}

// Booking records a user's purchase of seats for a showtime.  It is
// created atomically with the showtime's seat decrement: either both
// take effect or the reservation is released again.  ShowDate and
// ShowTime are denormalised from the showtime at booking time so that a
// ticket remains printable after schedule edits.
type Booking struct {
	ID                 uint64        // bookings.id
	UserID             uint64        // bookings.user_id
	MovieID            uint64        // bookings.movie_id
	ShowtimeID         uint64        // bookings.showtime_id
	Seats              uint32        // bookings.seats (number of seats booked)
	TicketCode         string        // bookings.ticket_code (unique, human-legible)
	TotalAmountCents   int64         // bookings.total_amount_cents
	DiscountCents      int64         // bookings.discount_cents
	CouponCode         *string       // bookings.coupon_code (nullable)
	Status             BookingStatus // bookings.status
	ShowDate           time.Time     // bookings.show_date
	ShowTime           string        // bookings.show_time
	BookingDate        time.Time     // bookings.booking_date
	CancellationReason *string       // bookings.cancellation_reason (nullable)
	CreatedAt          time.Time     // bookings.created_at
	UpdatedAt          time.Time     // bookings.updated_at
}
