package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPeriodInPast     = errors.New("booking period is in the past")
	ErrEndBeforeStart   = errors.New("booking end is before start")
	ErrItemUnavailable  = errors.New("item is not available")
	ErrOwnItemBooking   = errors.New("cannot book own item")
	ErrAlreadyDecided   = errors.New("booking is already decided")
	ErrNotItemOwner     = errors.New("only the item owner may decide a booking")
	ErrInvalidStatusVal = errors.New("invalid booking status")
)

// ItemSpec is the slice of item state the booking rules need: availability
// and ownership. The item itself is owned elsewhere.
type ItemSpec struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Available bool
}

type Booking struct {
	id        uuid.UUID
	itemID    uuid.UUID
	renterID  uuid.UUID
	period    Period
	status    Status
	createdAt time.Time
}

// New creates a WAITING booking of item by renterID for [start, end].
// now is the caller's request-time snapshot. The self-booking guard comes
// first: an owner is refused their own item whether or not it is available.
func New(now time.Time, item ItemSpec, renterID uuid.UUID, start, end time.Time) (*Booking, error) {
	if renterID == item.OwnerID {
		return nil, ErrOwnItemBooking
	}
	if !item.Available {
		return nil, ErrItemUnavailable
	}
	period, err := NewPeriod(start, end, now)
	if err != nil {
		return nil, err
	}

	return &Booking{
		id:        uuid.New(),
		itemID:    item.ID,
		renterID:  renterID,
		period:    period,
		status:    StatusWaiting,
		createdAt: now,
	}, nil
}

// Reconstruct rehydrates a booking from storage without re-running the
// creation guards.
func Reconstruct(id, itemID, renterID uuid.UUID, start, end time.Time, status Status, createdAt time.Time) *Booking {
	return &Booking{
		id:        id,
		itemID:    itemID,
		renterID:  renterID,
		period:    Period{start: start, end: end},
		status:    status,
		createdAt: createdAt,
	}
}

// Decide moves a WAITING booking to APPROVED or REJECTED. Both outcomes are
// terminal; a second decision always fails, it never silently no-ops.
// Ownership is checked first, so a non-owner is refused the same way whether
// the booking is still WAITING or already decided.
func (b *Booking) Decide(actorID uuid.UUID, ownerID uuid.UUID, approved bool) error {
	if actorID != ownerID {
		return ErrNotItemOwner
	}
	if b.status != StatusWaiting {
		return ErrAlreadyDecided
	}
	if approved {
		b.status = StatusApproved
	} else {
		b.status = StatusRejected
	}
	return nil
}

// CanBeReadBy reports whether userID is the renter or ownerID.
func (b *Booking) CanBeReadBy(userID, ownerID uuid.UUID) bool {
	return userID == b.renterID || userID == ownerID
}

func (b *Booking) ID() uuid.UUID        { return b.id }
func (b *Booking) ItemID() uuid.UUID    { return b.itemID }
func (b *Booking) RenterID() uuid.UUID  { return b.renterID }
func (b *Booking) Period() Period       { return b.period }
func (b *Booking) Status() Status       { return b.status }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// Period is a closed booking interval [start, end].
type Period struct {
	start time.Time
	end   time.Time
}

// NewPeriod validates a requested interval against the request-time snapshot.
// Both instants must be at or after now, and end must not precede start.
// start == end is accepted.
func NewPeriod(start, end, now time.Time) (Period, error) {
	if start.Before(now) || end.Before(now) {
		return Period{}, ErrPeriodInPast
	}
	if end.Before(start) {
		return Period{}, ErrEndBeforeStart
	}
	return Period{start: start, end: end}, nil
}

func (p Period) Start() time.Time { return p.start }
func (p Period) End() time.Time   { return p.end }

func (p Period) Duration() time.Duration {
	return p.end.Sub(p.start)
}
