package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/clock"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/metrics"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/model"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/queue"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/repository"
)

// PaymentStore persists payment records.
type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	GetByBookingID(ctx context.Context, bookingID uint64) (*model.Payment, error)
}

// EventPublisher emits domain events after a booking is confirmed.
// Publishing is best-effort; a broker outage never fails a payment.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error
}

// PaymentService records payment outcomes and drives the booking status
// machine.  A completed payment confirms the booking; a failed one
// cancels it and returns its seats to the pool.  Repeating the same
// outcome for a finalised booking is a no-op, so gateway callbacks can
// safely be delivered more than once.
type PaymentService struct {
	bookings  BookingStore
	payments  PaymentStore
	inventory SeatInventory
	publisher EventPublisher
	clock     clock.Clock
	currency  string
}

// NewPaymentService wires a payment recorder over the given stores.
// publisher may be nil when no broker is configured.
func NewPaymentService(bookings BookingStore, payments PaymentStore, inventory SeatInventory, publisher EventPublisher, clk clock.Clock, currency string) *PaymentService {
	return &PaymentService{
		bookings:  bookings,
		payments:  payments,
		inventory: inventory,
		publisher: publisher,
		clock:     clk,
		currency:  currency,
	}
}

// PaymentRequest carries a payment outcome reported for a booking.
type PaymentRequest struct {
	UserID    uint64
	BookingID uint64
	Method    string
	Success   bool
}

const failedPaymentReason = "payment failed"

// Confirm records the outcome of a payment attempt against a booking.
//
// On success the booking transitions pending -> confirmed, a completed
// payment is recorded and a booking-confirmed event is published.  On
// failure the booking transitions pending -> cancelled, a failed
// payment is recorded and the reserved seats are released.
//
// Reporting the same outcome again for a finalised booking returns the
// recorded payment unchanged.  Reporting the opposite outcome yields
// repository.ErrAlreadyTransitioned.
func (s *PaymentService) Confirm(ctx context.Context, req PaymentRequest) (model.Payment, error) {
	b, err := s.bookings.GetByIDForUser(ctx, req.BookingID, req.UserID)
	if err != nil {
		return model.Payment{}, err
	}

	if b.Status.Terminal() {
		return s.replayOutcome(ctx, b, req)
	}

	if req.Success {
		return s.recordSuccess(ctx, b, req)
	}
	return s.recordFailure(ctx, b, req)
}

// replayOutcome handles a payment report for a booking that is already
// finalised.  A matching outcome returns the stored payment; a
// conflicting one is rejected.
func (s *PaymentService) replayOutcome(ctx context.Context, b model.Booking, req PaymentRequest) (model.Payment, error) {
	matches := (req.Success && b.Status == model.BookingConfirmed) ||
		(!req.Success && b.Status == model.BookingCancelled)
	if !matches {
		return model.Payment{}, repository.ErrAlreadyTransitioned
	}
	p, err := s.payments.GetByBookingID(ctx, b.ID)
	if err != nil {
		return model.Payment{}, err
	}
	if p == nil {
		// Finalised booking without a payment row: record it now so the
		// ledger is complete, but leave the status alone.
		return s.insertPayment(ctx, b, req)
	}
	return *p, nil
}

func (s *PaymentService) recordSuccess(ctx context.Context, b model.Booking, req PaymentRequest) (model.Payment, error) {
	if err := s.bookings.Transition(ctx, b.ID, model.BookingPending, model.BookingConfirmed, nil); err != nil {
		metrics.BookingOperations.WithLabelValues("confirm", "rejected").Inc()
		return model.Payment{}, err
	}
	p, err := s.insertPayment(ctx, b, req)
	if err != nil {
		metrics.BookingOperations.WithLabelValues("confirm", "error").Inc()
		return model.Payment{}, err
	}
	s.publishConfirmed(ctx, b, p)
	metrics.BookingOperations.WithLabelValues("confirm", "success").Inc()
	return p, nil
}

func (s *PaymentService) recordFailure(ctx context.Context, b model.Booking, req PaymentRequest) (model.Payment, error) {
	reason := failedPaymentReason
	if err := s.bookings.Transition(ctx, b.ID, model.BookingPending, model.BookingCancelled, &reason); err != nil {
		metrics.BookingOperations.WithLabelValues("fail", "rejected").Inc()
		return model.Payment{}, err
	}

	// Release before recording the payment row: once the booking is
	// cancelled its seats must be back in the pool, and the payment row
	// can still be repaired by a replayed callback.  A failed release
	// rolls the transition back so the caller can retry the whole step.
	if err := s.inventory.Release(ctx, b.ShowtimeID, b.Seats); err != nil {
		log.WithError(err).WithField("booking_id", b.ID).
			Error("payment: failed to release seats after failed payment")
		if rbErr := s.bookings.Transition(ctx, b.ID, model.BookingCancelled, model.BookingPending, nil); rbErr != nil {
			log.WithError(rbErr).WithField("booking_id", b.ID).
				Error("payment: failed to revert cancellation after release failure")
		}
		metrics.BookingOperations.WithLabelValues("fail", "error").Inc()
		return model.Payment{}, err
	}
	metrics.SeatsReleased.Add(float64(b.Seats))

	p, err := s.insertPayment(ctx, b, req)
	if err != nil {
		metrics.BookingOperations.WithLabelValues("fail", "error").Inc()
		return model.Payment{}, err
	}
	metrics.BookingOperations.WithLabelValues("fail", "success").Inc()
	return p, nil
}

func (s *PaymentService) insertPayment(ctx context.Context, b model.Booking, req PaymentRequest) (model.Payment, error) {
	status := model.PaymentCompleted
	if !req.Success {
		status = model.PaymentFailed
	}
	p := model.Payment{
		UserID:        b.UserID,
		BookingID:     b.ID,
		AmountCents:   b.TotalAmountCents,
		Currency:      s.currency,
		Status:        status,
		Method:        req.Method,
		TransactionID: uuid.NewString(),
		PaymentDate:   s.clock.Now(),
	}
	if err := s.payments.Create(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrDuplicateTransaction) {
			// UUID collision is vanishingly rare; one retry covers it.
			p.TransactionID = uuid.NewString()
			if err := s.payments.Create(ctx, &p); err != nil {
				return model.Payment{}, err
			}
			return p, nil
		}
		return model.Payment{}, err
	}
	return p, nil
}

func (s *PaymentService) publishConfirmed(ctx context.Context, b model.Booking, p model.Payment) {
	if s.publisher == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:        b.ID,
		UserID:           b.UserID,
		MovieID:          b.MovieID,
		ShowtimeID:       b.ShowtimeID,
		TicketCode:       b.TicketCode,
		Seats:            b.Seats,
		TotalAmountCents: b.TotalAmountCents,
		Currency:         p.Currency,
		TransactionID:    p.TransactionID,
		ConfirmedAt:      p.PaymentDate.UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		log.WithError(err).WithField("booking_id", b.ID).
			Warn("payment: failed to publish booking confirmed event")
	}
}
