package model

import "fmt"

// FailureKind classifies a booking-flow rejection.  Kinds are stable
// identifiers returned on the wire; the accompanying message is
// human-readable and safe to display directly.
type FailureKind string

const (
	FailureShowtimeUnavailable FailureKind = "ShowtimeUnavailable"
	FailureSeatsUnavailable    FailureKind = "SeatsUnavailable"
	FailureInvalidSeatCount    FailureKind = "InvalidSeatCount"
	FailureCouponInvalid       FailureKind = "CouponInvalid"
	FailurePersistence         FailureKind = "PersistenceFailure"
)

// Failure is a typed rejection returned by the booking engine and the
// payment recorder.  It is always returned as a value, never thrown;
// handlers translate the kind into an HTTP status and serialise the
// message as-is.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// NewFailure builds a Failure with a formatted message.
func NewFailure(kind FailureKind, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
