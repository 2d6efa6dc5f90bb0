package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/clock"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/model"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/queue"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/repository"
)

type fakePublisher struct {
	events []queue.BookingConfirmedEvent
}

func (p *fakePublisher) PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error {
	p.events = append(p.events, event)
	return nil
}

type paymentFixture struct {
	bookingFixture
	payments  *repository.MemoryPaymentStore
	publisher *fakePublisher
	svc       *PaymentService
	booking   model.Booking
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	bf := newBookingFixture(t, 100)
	b, err := bf.svc.ReserveAndBook(context.Background(), BookingRequest{
		UserID: 7, MovieID: 1, ShowtimeID: 10, Seats: 3,
	})
	require.NoError(t, err)

	f := &paymentFixture{
		bookingFixture: *bf,
		payments:       repository.NewMemoryPaymentStore(),
		publisher:      &fakePublisher{},
		booking:        b,
	}
	f.svc = NewPaymentService(f.bookings, f.payments, f.inventory,
		f.publisher, clock.NewFixed(bookingNow), "INR")
	return f
}

func TestConfirm_Success(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	p, err := f.svc.Confirm(ctx, PaymentRequest{
		UserID: 7, BookingID: f.booking.ID, Method: model.PaymentMethodUPI, Success: true,
	})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentCompleted, p.Status)
	assert.Equal(t, f.booking.TotalAmountCents, p.AmountCents)
	assert.Equal(t, "INR", p.Currency)
	assert.NotEmpty(t, p.TransactionID)

	b, err := f.bookings.GetByID(ctx, f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, b.Status)

	// Confirmed bookings keep their seats.
	assert.Equal(t, uint32(97), f.availableSeats(t))

	require.Len(t, f.publisher.events, 1)
	ev := f.publisher.events[0]
	assert.Equal(t, f.booking.ID, ev.BookingID)
	assert.Equal(t, f.booking.TicketCode, ev.TicketCode)
	assert.Equal(t, p.TransactionID, ev.TransactionID)
	assert.Equal(t, bookingNow.Format(time.RFC3339), ev.ConfirmedAt)
}

func TestConfirm_Failure(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	p, err := f.svc.Confirm(ctx, PaymentRequest{
		UserID: 7, BookingID: f.booking.ID, Method: model.PaymentMethodCreditCard, Success: false,
	})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentFailed, p.Status)

	b, err := f.bookings.GetByID(ctx, f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, b.Status)
	require.NotNil(t, b.CancellationReason)
	assert.Equal(t, "payment failed", *b.CancellationReason)

	// Failed payments return the seats to the pool.
	assert.Equal(t, uint32(100), f.availableSeats(t))
	assert.Empty(t, f.publisher.events)
}

func TestConfirm_RepeatedOutcomeIsIdempotent(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	req := PaymentRequest{UserID: 7, BookingID: f.booking.ID, Method: model.PaymentMethodUPI, Success: true}

	first, err := f.svc.Confirm(ctx, req)
	require.NoError(t, err)

	second, err := f.svc.Confirm(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.TransactionID, second.TransactionID)
	assert.Equal(t, uint32(97), f.availableSeats(t))
	assert.Len(t, f.publisher.events, 1, "replay must not publish again")
}

func TestConfirm_ConflictingOutcomeRejected(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	_, err := f.svc.Confirm(ctx, PaymentRequest{
		UserID: 7, BookingID: f.booking.ID, Method: model.PaymentMethodUPI, Success: true,
	})
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, PaymentRequest{
		UserID: 7, BookingID: f.booking.ID, Method: model.PaymentMethodUPI, Success: false,
	})
	assert.ErrorIs(t, err, repository.ErrAlreadyTransitioned)

	b, err := f.bookings.GetByID(ctx, f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, b.Status)
	assert.Equal(t, uint32(97), f.availableSeats(t))
}

// flakyPaymentStore fails a number of inserts before recovering, to
// exercise the retry path of a half-applied payment outcome.
type flakyPaymentStore struct {
	*repository.MemoryPaymentStore
	failures int
}

func (s *flakyPaymentStore) Create(ctx context.Context, p *model.Payment) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("connection reset")
	}
	return s.MemoryPaymentStore.Create(ctx, p)
}

func TestConfirm_FailureRetryAfterPaymentWriteError(t *testing.T) {
	f := newPaymentFixture(t)
	flaky := &flakyPaymentStore{MemoryPaymentStore: f.payments, failures: 1}
	f.svc = NewPaymentService(f.bookings, flaky, f.inventory,
		f.publisher, clock.NewFixed(bookingNow), "INR")
	ctx := context.Background()
	req := PaymentRequest{UserID: 7, BookingID: f.booking.ID, Method: model.PaymentMethodUPI, Success: false}

	_, err := f.svc.Confirm(ctx, req)
	require.Error(t, err)

	// The booking is cancelled and its seats are already back in the
	// pool even though the payment row write failed.
	b, err := f.bookings.GetByID(ctx, f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, b.Status)
	assert.Equal(t, uint32(100), f.availableSeats(t))

	// The replayed callback repairs the missing payment row without
	// releasing the seats a second time.
	p, err := f.svc.Confirm(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, p.Status)
	assert.Equal(t, uint32(100), f.availableSeats(t))
}

func TestConfirm_Ownership(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.Confirm(context.Background(), PaymentRequest{
		UserID: 8, BookingID: f.booking.ID, Method: model.PaymentMethodUPI, Success: true,
	})
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestCouponService_Apply(t *testing.T) {
	f := newBookingFixture(t, 100)
	svc := NewCouponService(f.coupons, clock.NewFixed(bookingNow))
	ctx := context.Background()

	discount, err := svc.Apply(ctx, "COUPLE50", 38997)
	require.NoError(t, err)
	assert.Equal(t, int64(19499), discount)

	c, ok := f.coupons.Get("COUPLE50")
	require.True(t, ok)
	assert.Equal(t, uint32(1), c.UsedCount)

	_, err = svc.Apply(ctx, "COUPLE50", 500)
	var fail *model.Failure
	require.ErrorAs(t, err, &fail)
	assert.Equal(t, model.FailureCouponInvalid, fail.Kind)
	assert.Equal(t, "Purchase amount below coupon minimum", fail.Message)
}
