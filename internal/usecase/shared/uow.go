package shared

import (
	"context"
	"time"

	"lendloop/internal/domain/booking"
	"lendloop/internal/domain/item"
	"lendloop/internal/domain/user"

	"github.com/google/uuid"
)

// UnitOfWork runs command flows in one storage transaction. Every mutation
// in this module touches a single aggregate, so Within is the only shape
// needed; the interesting guarantee is that Reads().BookingByIDForUpdate
// locks the row, which serializes racing decide calls.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Items() ItemRepository
	Users() UserRepository
	Comments() CommentRepository
	Reads() CommandReads
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error
}

type ItemRepository interface {
	Create(ctx context.Context, it *item.Item) error
	Update(ctx context.Context, it *item.Item) error
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	Update(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentRepository interface {
	Create(ctx context.Context, c *item.Comment) error
}

// CommandReads are the write-side lookups commands validate against. They
// return snapshots, not read-model views, to keep the command side off the
// query DTOs.
type CommandReads interface {
	UserByID(ctx context.Context, id uuid.UUID) (*UserSnapshot, error)
	ItemByID(ctx context.Context, id uuid.UUID) (*ItemSnapshot, error)
	// BookingByIDForUpdate reads the booking row with a row lock so the
	// caller's status guard and the subsequent write are atomic.
	BookingByIDForUpdate(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	// FinishedBookingExists reports whether bookerID had a booking of itemID
	// that ended before now.
	FinishedBookingExists(ctx context.Context, itemID, bookerID uuid.UUID, now time.Time) (bool, error)
}
