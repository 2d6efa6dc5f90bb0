package repository

import (
	"context"
	"database/sql"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/model"
)

// PaymentRepo manages persistence for payments.  Each payment is linked
// 1:1 to a booking; the unique constraint on transaction_id backs the
// idempotency of the payment recorder.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `id, user_id, booking_id, amount_cents, currency, status, method,
	transaction_id, payment_date, created_at, updated_at`

// Create inserts a new payment and populates its generated id.  A
// violated unique constraint on transaction_id is reported as
// ErrDuplicateTransaction.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments
	           (user_id, booking_id, amount_cents, currency, status, method, transaction_id, payment_date)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.UserID, p.BookingID, p.AmountCents,
		p.Currency, p.Status, p.Method, p.TransactionID, p.PaymentDate.UTC())
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicateTransaction
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM payments WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByBookingID returns the payment recorded for a booking, or nil
// when none exists yet.
func (r *PaymentRepo) GetByBookingID(ctx context.Context, bookingID uint64) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = ?`
	var p model.Payment
	err := r.db.QueryRowContext(ctx, q, bookingID).Scan(&p.ID, &p.UserID, &p.BookingID,
		&p.AmountCents, &p.Currency, &p.Status, &p.Method, &p.TransactionID,
		&p.PaymentDate, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
