// Package service implements the booking core: seat reservation with
// compensation, coupon application, payment recording and booking
// lifecycle management.  Services depend on narrow store interfaces so
// the same logic runs against MySQL in production and the in-memory
// stores in tests.
package service

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/clock"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/metrics"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/model"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/pricing"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/repository"
)

// SeatInventory is the showtime store as seen by the booking engine.
// Reserve and Release must be atomic with respect to concurrent calls
// on the same showtime.
type SeatInventory interface {
	GetShowtime(ctx context.Context, movieID, showtimeID uint64) (model.Showtime, error)
	Reserve(ctx context.Context, showtimeID uint64, seats uint32) error
	Release(ctx context.Context, showtimeID uint64, seats uint32) error
	ListActiveMovies(ctx context.Context) ([]model.Movie, error)
}

// CouponLedger validates and consumes coupon redemptions atomically.
type CouponLedger interface {
	Redeem(ctx context.Context, code string, purchaseCents int64, now time.Time) (model.Coupon, error)
}

// BookingStore persists bookings and their status transitions.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	GetByIDForUser(ctx context.Context, id, userID uint64) (model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	Transition(ctx context.Context, id uint64, from, to model.BookingStatus, reason *string) error
}

// defaultMaxSeatsPerBooking caps a single booking's seat count.
const defaultMaxSeatsPerBooking = 6

// ticketCodeRetries bounds regeneration attempts when a generated
// ticket code collides with an existing one.
const ticketCodeRetries = 3

// BookingService is the booking engine.  It orders a booking's steps so
// that seats are reserved first and every later failure compensates by
// releasing them: the seat pool never leaks on a rejected or failed
// booking.
type BookingService struct {
	inventory SeatInventory
	coupons   CouponLedger
	bookings  BookingStore
	clock     clock.Clock
	maxSeats  uint32
}

// BookingOption customises a BookingService.
type BookingOption func(*BookingService)

// WithMaxSeatsPerBooking overrides the per-booking seat cap.
func WithMaxSeatsPerBooking(n uint32) BookingOption {
	return func(s *BookingService) {
		if n > 0 {
			s.maxSeats = n
		}
	}
}

// NewBookingService wires a booking engine over the given stores.
func NewBookingService(inventory SeatInventory, coupons CouponLedger, bookings BookingStore, clk clock.Clock, opts ...BookingOption) *BookingService {
	s := &BookingService{
		inventory: inventory,
		coupons:   coupons,
		bookings:  bookings,
		clock:     clk,
		maxSeats:  defaultMaxSeatsPerBooking,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BookingRequest carries the caller's intent to book seats.
type BookingRequest struct {
	UserID     uint64
	MovieID    uint64
	ShowtimeID uint64
	Seats      uint32
	CouponCode *string
}

// ReserveAndBook reserves seats, prices the booking, redeems the coupon
// when one is given, and persists the pending booking.  On any failure
// after the reservation the seats are released before the error is
// returned, so a rejected request leaves the pool exactly as it found
// it.  Rejections are returned as *model.Failure values.
func (s *BookingService) ReserveAndBook(ctx context.Context, req BookingRequest) (model.Booking, error) {
	b, err := s.reserveAndBook(ctx, req)
	s.recordOutcome("reserve_and_book", err)
	return b, err
}

func (s *BookingService) reserveAndBook(ctx context.Context, req BookingRequest) (model.Booking, error) {
	if req.Seats == 0 {
		return model.Booking{}, model.NewFailure(model.FailureInvalidSeatCount, "Number of seats must be greater than 0")
	}
	if req.Seats > s.maxSeats {
		return model.Booking{}, model.NewFailure(model.FailureInvalidSeatCount, "Cannot book more than %d seats at once", s.maxSeats)
	}

	now := s.clock.Now()
	st, err := s.inventory.GetShowtime(ctx, req.MovieID, req.ShowtimeID)
	if errors.Is(err, repository.ErrShowtimeNotFound) {
		return model.Booking{}, model.NewFailure(model.FailureShowtimeUnavailable, "Movie or showtime not found")
	}
	if err != nil {
		return model.Booking{}, model.NewFailure(model.FailurePersistence, "failed to load showtime: %v", err)
	}
	if !st.StartsAt().After(now) {
		return model.Booking{}, model.NewFailure(model.FailureShowtimeUnavailable, "Showtime has already passed")
	}

	if err := s.inventory.Reserve(ctx, st.ID, req.Seats); err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientSeats):
			return model.Booking{}, model.NewFailure(model.FailureSeatsUnavailable, "Only %d seats available", st.AvailableSeats)
		case errors.Is(err, repository.ErrShowtimeNotFound):
			return model.Booking{}, model.NewFailure(model.FailureShowtimeUnavailable, "Movie or showtime not found")
		default:
			return model.Booking{}, model.NewFailure(model.FailurePersistence, "failed to reserve seats: %v", err)
		}
	}
	metrics.SeatsReserved.Add(float64(req.Seats))

	subtotal, err := pricing.Subtotal(st.PriceCents, req.Seats)
	if err != nil {
		s.release(ctx, st.ID, req.Seats)
		return model.Booking{}, model.NewFailure(model.FailureInvalidSeatCount, "%v", err)
	}

	var discount int64
	var couponCode *string
	if req.CouponCode != nil && *req.CouponCode != "" {
		c, err := s.coupons.Redeem(ctx, *req.CouponCode, subtotal, now)
		if err != nil {
			s.release(ctx, st.ID, req.Seats)
			metrics.CouponRedemptions.WithLabelValues("rejected").Inc()
			return model.Booking{}, couponFailure(err)
		}
		metrics.CouponRedemptions.WithLabelValues("accepted").Inc()
		discount = pricing.Discount(subtotal, c.DiscountPercent, c.MaxDiscountCents)
		couponCode = &c.Code
	}

	total, err := pricing.Total(st.PriceCents, req.Seats, discount)
	if err != nil {
		s.release(ctx, st.ID, req.Seats)
		return model.Booking{}, model.NewFailure(model.FailurePersistence, "failed to price booking: %v", err)
	}

	booking := model.Booking{
		UserID:           req.UserID,
		MovieID:          req.MovieID,
		ShowtimeID:       st.ID,
		Seats:            req.Seats,
		TotalAmountCents: total,
		DiscountCents:    discount,
		CouponCode:       couponCode,
		Status:           model.BookingPending,
		ShowDate:         st.ShowDate,
		ShowTime:         st.ShowTime,
		BookingDate:      now,
	}

	for attempt := 0; ; attempt++ {
		booking.TicketCode = newTicketCode(req.MovieID, st.ID, now)
		err = s.bookings.Create(ctx, &booking)
		if err == nil {
			return booking, nil
		}
		if !errors.Is(err, repository.ErrDuplicateTicketCode) || attempt+1 >= ticketCodeRetries {
			break
		}
	}
	s.release(ctx, st.ID, req.Seats)
	return model.Booking{}, model.NewFailure(model.FailurePersistence, "failed to persist booking: %v", err)
}

// CancelBooking cancels a pending booking owned by the caller and
// returns its seats to the pool.  A booking that already reached a
// terminal status yields repository.ErrAlreadyTransitioned.
func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID uint64, reason string) (model.Booking, error) {
	b, err := s.bookings.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		s.recordOutcome("cancel", err)
		return model.Booking{}, err
	}
	if reason == "" {
		reason = "cancelled by user"
	}
	if err := s.bookings.Transition(ctx, b.ID, model.BookingPending, model.BookingCancelled, &reason); err != nil {
		s.recordOutcome("cancel", err)
		return model.Booking{}, err
	}
	// A cancelled booking must have its seats back in the pool.  When
	// the release fails the transition is reverted so the caller can
	// retry instead of being stuck behind a terminal status.
	if err := s.inventory.Release(ctx, b.ShowtimeID, b.Seats); err != nil {
		log.WithError(err).WithField("booking_id", b.ID).
			Error("booking: failed to release seats on cancellation")
		if rbErr := s.bookings.Transition(ctx, b.ID, model.BookingCancelled, model.BookingPending, nil); rbErr != nil {
			log.WithError(rbErr).WithField("booking_id", b.ID).
				Error("booking: failed to revert cancellation after release failure")
		}
		failure := model.NewFailure(model.FailurePersistence, "failed to release seats: %v", err)
		s.recordOutcome("cancel", failure)
		return model.Booking{}, failure
	}
	metrics.SeatsReleased.Add(float64(b.Seats))
	b.Status = model.BookingCancelled
	b.CancellationReason = &reason
	s.recordOutcome("cancel", nil)
	return b, nil
}

// GetBooking returns a booking owned by the caller.
func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID uint64) (model.Booking, error) {
	return s.bookings.GetByIDForUser(ctx, bookingID, userID)
}

// ListBookings returns the caller's bookings, newest first.
func (s *BookingService) ListBookings(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// release returns seats to the pool during compensation.  A failed
// release is logged rather than returned: the caller is already
// propagating the original error.
func (s *BookingService) release(ctx context.Context, showtimeID uint64, seats uint32) {
	if err := s.inventory.Release(ctx, showtimeID, seats); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"showtime_id": showtimeID,
			"seats":       seats,
		}).Error("booking: failed to release seats during compensation")
		return
	}
	metrics.SeatsReleased.Add(float64(seats))
}

func (s *BookingService) recordOutcome(operation string, err error) {
	status := "success"
	if err != nil {
		var f *model.Failure
		if errors.As(err, &f) && f.Kind == model.FailurePersistence {
			status = "error"
		} else {
			status = "rejected"
		}
	}
	metrics.BookingOperations.WithLabelValues(operation, status).Inc()
}

// couponFailure maps a ledger rejection to the caller-facing failure.
func couponFailure(err error) *model.Failure {
	switch {
	case errors.Is(err, repository.ErrCouponNotFound),
		errors.Is(err, repository.ErrCouponInactive),
		errors.Is(err, repository.ErrCouponExpired):
		return model.NewFailure(model.FailureCouponInvalid, "Invalid or expired coupon")
	case errors.Is(err, repository.ErrCouponBelowMinimum):
		return model.NewFailure(model.FailureCouponInvalid, "Purchase amount below coupon minimum")
	case errors.Is(err, repository.ErrCouponLimitReached):
		return model.NewFailure(model.FailureCouponInvalid, "Coupon usage limit reached")
	default:
		return model.NewFailure(model.FailurePersistence, "failed to redeem coupon: %v", err)
	}
}
