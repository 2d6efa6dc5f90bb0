package model

import "time"

// PaymentStatus enumerates the states of a recorded payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment methods accepted at the payment boundary.  The gateway
// integration itself lives outside this service; only the confirmed
// outcome is recorded here.
const (
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodDebitCard  = "debit_card"
	PaymentMethodUPI        = "upi"
	PaymentMethodNetBanking = "net_banking"
)

// Payment is linked 1:1 to a booking.  Its status drives the booking's
// status transition: a completed payment confirms the booking, a failed
// one cancels it and returns the seats to the pool.
type Payment struct {
	ID            uint64        // payments.id
	UserID        uint64        // payments.user_id
	BookingID     uint64        // payments.booking_id
	AmountCents   int64         // payments.amount_cents
	Currency      string        // payments.currency
	Status        PaymentStatus // payments.status
	Method        string        // payments.method
	TransactionID string        // payments.transaction_id (unique)
	PaymentDate   time.Time     // payments.payment_date
	CreatedAt     time.Time     // payments.created_at
	UpdatedAt     time.Time     // payments.updated_at
}
