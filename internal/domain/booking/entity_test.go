//go:build unit

package booking_test

import (
	"testing"
	"time"

	"lendloop/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func availableItem(ownerID uuid.UUID) booking.ItemSpec {
	return booking.ItemSpec{ID: uuid.New(), OwnerID: ownerID, Available: true}
}

func TestNewBooking(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ownerID := uuid.New()
	renterID := uuid.New()

	t.Run("basic success case", func(t *testing.T) {
		b, err := booking.New(now, availableItem(ownerID), renterID, now.Add(time.Hour), now.Add(2*time.Hour))
		require.NoError(t, err)
		require.NotNil(t, b)

		assert.NotEqual(t, uuid.Nil, b.ID())
		assert.Equal(t, booking.StatusWaiting, b.Status())
		assert.Equal(t, renterID, b.RenterID())
		assert.Equal(t, now, b.CreatedAt())
	})

	t.Run("unavailable item", func(t *testing.T) {
		item := availableItem(ownerID)
		item.Available = false

		_, err := booking.New(now, item, renterID, now.Add(time.Hour), now.Add(2*time.Hour))
		assert.ErrorIs(t, err, booking.ErrItemUnavailable)
	})

	t.Run("booking own item", func(t *testing.T) {
		_, err := booking.New(now, availableItem(ownerID), ownerID, now.Add(time.Hour), now.Add(2*time.Hour))
		assert.ErrorIs(t, err, booking.ErrOwnItemBooking)
	})

	t.Run("booking own item fails the same way when it is unavailable", func(t *testing.T) {
		item := availableItem(ownerID)
		item.Available = false

		_, err := booking.New(now, item, ownerID, now.Add(time.Hour), now.Add(2*time.Hour))
		assert.ErrorIs(t, err, booking.ErrOwnItemBooking)
	})

	t.Run("period validation", func(t *testing.T) {
		cases := []struct {
			name  string
			start time.Time
			end   time.Time
			errIs error
		}{
			{name: "start before now", start: now.Add(-time.Minute), end: now.Add(time.Hour), errIs: booking.ErrPeriodInPast},
			{name: "end before now", start: now.Add(time.Hour), end: now.Add(-time.Minute), errIs: booking.ErrPeriodInPast},
			{name: "end before start", start: now.Add(2 * time.Hour), end: now.Add(time.Hour), errIs: booking.ErrEndBeforeStart},
			{name: "start equals now", start: now, end: now.Add(time.Hour)},
			{name: "start equals end", start: now.Add(time.Hour), end: now.Add(time.Hour)},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := booking.New(now, availableItem(ownerID), renterID, tc.start, tc.end)
				if tc.errIs != nil {
					assert.ErrorIs(t, err, tc.errIs)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})
}

func TestDecide(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ownerID := uuid.New()
	renterID := uuid.New()

	newWaiting := func(t *testing.T) *booking.Booking {
		t.Helper()
		b, err := booking.New(now, availableItem(ownerID), renterID, now.Add(time.Hour), now.Add(2*time.Hour))
		require.NoError(t, err)
		return b
	}

	t.Run("owner approves", func(t *testing.T) {
		b := newWaiting(t)
		require.NoError(t, b.Decide(ownerID, ownerID, true))
		assert.Equal(t, booking.StatusApproved, b.Status())
	})

	t.Run("owner rejects", func(t *testing.T) {
		b := newWaiting(t)
		require.NoError(t, b.Decide(ownerID, ownerID, false))
		assert.Equal(t, booking.StatusRejected, b.Status())
	})

	t.Run("non-owner may not decide", func(t *testing.T) {
		b := newWaiting(t)
		err := b.Decide(renterID, ownerID, true)
		assert.ErrorIs(t, err, booking.ErrNotItemOwner)
		assert.Equal(t, booking.StatusWaiting, b.Status())
	})

	t.Run("second decision fails regardless of direction", func(t *testing.T) {
		b := newWaiting(t)
		require.NoError(t, b.Decide(ownerID, ownerID, true))

		err := b.Decide(ownerID, ownerID, false)
		assert.ErrorIs(t, err, booking.ErrAlreadyDecided)
		assert.Equal(t, booking.StatusApproved, b.Status())
	})

	t.Run("non-owner on a decided booking is still a permission error", func(t *testing.T) {
		// ownership is refused before the terminal-state check, so a
		// stranger never learns whether the booking was decided
		b := newWaiting(t)
		require.NoError(t, b.Decide(ownerID, ownerID, false))

		err := b.Decide(renterID, ownerID, true)
		assert.ErrorIs(t, err, booking.ErrNotItemOwner)
	})
}

func TestCanBeReadBy(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ownerID := uuid.New()
	renterID := uuid.New()

	b, err := booking.New(now, availableItem(ownerID), renterID, now.Add(time.Hour), now.Add(2*time.Hour))
	require.NoError(t, err)

	assert.True(t, b.CanBeReadBy(renterID, ownerID))
	assert.True(t, b.CanBeReadBy(ownerID, ownerID))
	assert.False(t, b.CanBeReadBy(uuid.New(), ownerID))
}
