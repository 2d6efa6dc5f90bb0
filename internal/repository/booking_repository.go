package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/model"
)

// mysqlDuplicateEntry is the server error number for a violated unique
// constraint.
const mysqlDuplicateEntry = 1062

func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// BookingRepo manages persistence for bookings.  Status changes go
// through Transition, a conditional update that enforces the
// pending -> confirmed / pending -> cancelled state machine even under
// concurrent confirmations.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, movie_id, showtime_id, seats, ticket_code,
	total_amount_cents, discount_cents, coupon_code, status, show_date, show_time,
	booking_date, cancellation_reason, created_at, updated_at`

func scanBooking(scan func(dest ...interface{}) error) (model.Booking, error) {
	var b model.Booking
	var coupon, reason sql.NullString
	err := scan(&b.ID, &b.UserID, &b.MovieID, &b.ShowtimeID, &b.Seats, &b.TicketCode,
		&b.TotalAmountCents, &b.DiscountCents, &coupon, &b.Status, &b.ShowDate, &b.ShowTime,
		&b.BookingDate, &reason, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	if coupon.Valid {
		b.CouponCode = &coupon.String
	}
	if reason.Valid {
		b.CancellationReason = &reason.String
	}
	return b, nil
}

// Create inserts a new booking and populates its generated id and
// timestamps.  A unique-constraint violation on ticket_code is reported
// as ErrDuplicateTicketCode so the caller can regenerate and retry.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings
	           (user_id, movie_id, showtime_id, seats, ticket_code, total_amount_cents,
	            discount_cents, coupon_code, status, show_date, show_time, booking_date)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var coupon interface{}
	if b.CouponCode != nil {
		coupon = *b.CouponCode
	}
	res, err := r.db.ExecContext(ctx, q, b.UserID, b.MovieID, b.ShowtimeID, b.Seats,
		b.TicketCode, b.TotalAmountCents, b.DiscountCents, coupon, b.Status,
		b.ShowDate, b.ShowTime, b.BookingDate.UTC())
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicateTicketCode
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// GetByID loads a booking by id.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id).Scan)
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrBookingNotFound
	}
	if err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

// GetByIDForUser loads a booking and enforces ownership.  A booking
// owned by a different user yields ErrForbidden.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (model.Booking, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if b.UserID != userID {
		return model.Booking{}, ErrForbidden
	}
	return b, nil
}

// ListByUser returns all bookings for a user, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY booking_date DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Transition moves a booking from one status to another atomically.
// The source status is part of the WHERE clause, so when two callers
// race to finalise the same booking only one update takes effect; the
// loser gets ErrAlreadyTransitioned and should re-read the row.
func (r *BookingRepo) Transition(ctx context.Context, id uint64, from, to model.BookingStatus, reason *string) error {
	const q = `UPDATE bookings
	           SET status = ?, cancellation_reason = ?, updated_at = UTC_TIMESTAMP()
	           WHERE id = ? AND status = ?`
	var rv interface{}
	if reason != nil {
		rv = *reason
	}
	res, err := r.db.ExecContext(ctx, q, to, rv, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrAlreadyTransitioned
}
