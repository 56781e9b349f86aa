//go:build unit

package booking_test

import (
	"testing"
	"time"

	"lendloop/internal/domain/booking"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	hour := time.Hour

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  booking.Interval
	}{
		{
			name:  "strictly inside the interval",
			start: now.Add(-hour),
			end:   now.Add(hour),
			want:  booking.IntervalCurrent,
		},
		{
			name:  "ended before now",
			start: now.Add(-3 * hour),
			end:   now.Add(-hour),
			want:  booking.IntervalPast,
		},
		{
			name:  "starts after now",
			start: now.Add(hour),
			end:   now.Add(2 * hour),
			want:  booking.IntervalFuture,
		},
		{
			name:  "start exactly at now is CURRENT not FUTURE",
			start: now,
			end:   now.Add(hour),
			want:  booking.IntervalCurrent,
		},
		{
			name:  "end exactly at now is CURRENT not PAST",
			start: now.Add(-hour),
			end:   now,
			want:  booking.IntervalCurrent,
		},
		{
			name:  "zero-length interval at now is CURRENT",
			start: now,
			end:   now,
			want:  booking.IntervalCurrent,
		},
		{
			name:  "zero-length interval before now is PAST",
			start: now.Add(-hour),
			end:   now.Add(-hour),
			want:  booking.IntervalPast,
		},
		{
			name:  "zero-length interval after now is FUTURE",
			start: now.Add(hour),
			end:   now.Add(hour),
			want:  booking.IntervalFuture,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, booking.Classify(tc.start, tc.end, now))
		})
	}
}

func TestClassifyIsExhaustive(t *testing.T) {
	// Every (start, end) pair with start <= end lands in exactly one class.
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	offsets := []time.Duration{-2 * time.Hour, -time.Hour, 0, time.Hour, 2 * time.Hour}

	for _, so := range offsets {
		for _, eo := range offsets {
			if eo < so {
				continue
			}
			got := booking.Classify(now.Add(so), now.Add(eo), now)
			assert.Contains(t,
				[]booking.Interval{booking.IntervalCurrent, booking.IntervalPast, booking.IntervalFuture},
				got)
		}
	}
}
