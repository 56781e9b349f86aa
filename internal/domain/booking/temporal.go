package booking

import "time"

// Interval classifies a booking relative to a "now" snapshot. It is a pure
// query-time classification and is never persisted.
type Interval string

const (
	IntervalCurrent Interval = "CURRENT"
	IntervalPast    Interval = "PAST"
	IntervalFuture  Interval = "FUTURE"
)

// Classify places the interval [start, end] relative to now.
//
// CURRENT wins at both boundaries: start == now and end == now are CURRENT,
// not FUTURE or PAST. PAST means end <= now, matching the "ended at or before
// now" policy used by comment eligibility and last-booking lookups. Callers
// must pass the same now for every booking in one request.
func Classify(start, end, now time.Time) Interval {
	if !start.After(now) && !end.Before(now) {
		return IntervalCurrent
	}
	if !end.After(now) {
		return IntervalPast
	}
	return IntervalFuture
}

// ClassifyBooking is Classify applied to an entity.
func ClassifyBooking(b *Booking, now time.Time) Interval {
	return Classify(b.period.start, b.period.end, now)
}
