package service

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const ticketCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newTicketCode builds a human-legible unique ticket code of the form
// TIX-<movie>-<showtime>-<timestamp>-<random>.  The timestamp is the
// current unix millisecond in base 36 and the suffix adds three random
// characters so that two bookings created in the same millisecond still
// differ.  Uniqueness is ultimately enforced by the booking store.
func newTicketCode(movieID, showtimeID uint64, now time.Time) string {
	code := fmt.Sprintf("TIX-%04d-%04d-%s-%s",
		movieID%10000,
		showtimeID%10000,
		strconv.FormatInt(now.UnixMilli(), 36),
		randomSuffix(3),
	)
	return strings.ToUpper(code)
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is effectively fatal elsewhere; fall back
		// to a constant so code generation itself never errors.
		return strings.Repeat("0", n)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = ticketCodeAlphabet[int(b)%len(ticketCodeAlphabet)]
	}
	return string(out)
}
