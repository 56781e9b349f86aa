package booking

import "time"

// CompareStart is the total order over bookings: ascending start instant,
// no secondary key. Equal starts keep their storage order, which is why the
// in-memory sorts below are stable. Listing SQL expresses the same order as
// ORDER BY start_at; only the owner-merge fallback sorts in memory.
func CompareStart(a, b time.Time) int {
	switch {
	case a.Equal(b):
		return 0
	case a.Before(b):
		return -1
	default:
		return 1
	}
}

// StartsBefore orders two bookings by CompareStart.
func StartsBefore(a, b *Booking) bool {
	return CompareStart(a.period.start, b.period.start) < 0
}
