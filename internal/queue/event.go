// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a payment completes and its
// booking transitions to confirmed.  It carries enough information for
// downstream consumers to log or notify without querying the primary
// database.
type BookingConfirmedEvent struct {
	BookingID        uint64 `json:"booking_id"`
	UserID           uint64 `json:"user_id"`
	MovieID          uint64 `json:"movie_id"`
	ShowtimeID       uint64 `json:"showtime_id"`
	TicketCode       string `json:"ticket_code"`
	Seats            uint32 `json:"seats"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	Currency         string `json:"currency"`
	TransactionID    string `json:"transaction_id"`
	ConfirmedAt      string `json:"confirmed_at"`
}
