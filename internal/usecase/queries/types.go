package queries

import (
	"context"
	"time"

	"lendloop/internal/pkg/errs"
	"lendloop/internal/pkg/paging"

	"github.com/google/uuid"
)

// StateFilter selects a listing predicate. It is a query-time filter,
// distinct from the persisted booking status: CURRENT/PAST/FUTURE are
// temporal windows, WAITING/REJECTED are status equality.
type StateFilter string

const (
	StateAll      StateFilter = "ALL"
	StateCurrent  StateFilter = "CURRENT"
	StatePast     StateFilter = "PAST"
	StateFuture   StateFilter = "FUTURE"
	StateWaiting  StateFilter = "WAITING"
	StateRejected StateFilter = "REJECTED"
)

var ErrUnsupportedState = errs.Mark(errs.New("unsupported state"), errs.ErrInvalidArgument)

// ParseStateFilter rejects unknown values before any query executes. An
// absent value defaults to ALL.
func ParseStateFilter(s string) (StateFilter, error) {
	if s == "" {
		return StateAll, nil
	}
	switch StateFilter(s) {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return StateFilter(s), nil
	default:
		return "", ErrUnsupportedState
	}
}

// Read models (DTO for read side)

type ItemRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type UserRef struct {
	ID uuid.UUID `json:"id"`
}

type BookingView struct {
	ID          uuid.UUID `json:"id"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Status      string    `json:"status"`
	Item        ItemRef   `json:"item"`
	Booker      UserRef   `json:"booker"`
	ItemOwnerID uuid.UUID `json:"-"`
}

// BookingRef is the compact last/next booking decoration on owner item views.
type BookingRef struct {
	ID       uuid.UUID `json:"id"`
	BookerID uuid.UUID `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

type CommentView struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"created"`
}

type ItemView struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Available   bool           `json:"available"`
	Comments    []*CommentView `json:"comments"`
	LastBooking *BookingRef    `json:"lastBooking,omitempty"`
	NextBooking *BookingRef    `json:"nextBooking,omitempty"`
	OwnerID     uuid.UUID      `json:"-"`
}

type UserView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// BookingPredicate is a resolved state filter: at most one of the fields is
// set, all derived from a single "now" snapshot taken per request.
type BookingPredicate struct {
	CurrentAt  *time.Time
	EndBefore  *time.Time
	StartAfter *time.Time
	Status     *string
}

// PredicateFor resolves a state filter against one now snapshot.
func PredicateFor(state StateFilter, now time.Time) (BookingPredicate, error) {
	switch state {
	case StateAll:
		return BookingPredicate{}, nil
	case StateCurrent:
		return BookingPredicate{CurrentAt: &now}, nil
	case StatePast:
		return BookingPredicate{EndBefore: &now}, nil
	case StateFuture:
		return BookingPredicate{StartAfter: &now}, nil
	case StateWaiting, StateRejected:
		s := string(state)
		return BookingPredicate{Status: &s}, nil
	default:
		return BookingPredicate{}, ErrUnsupportedState
	}
}

// Read-store ports implemented by internal/infra/readstore.

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByRenter(ctx context.Context, renterID uuid.UUID, pred BookingPredicate, page paging.PageRequest) ([]*BookingView, error)
	ListByItem(ctx context.Context, itemID uuid.UUID, pred BookingPredicate, page paging.PageRequest) ([]*BookingView, error)
	// LastForItem returns the latest booking of the item that ended at or
	// before now, NextForItem the earliest starting at or after now; both
	// return nil when there is none.
	LastForItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*BookingRef, error)
	NextForItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*BookingRef, error)
}

// OwnerBookingStore is an optional capability: stores that can express the
// bookings-join-items-by-owner query in one round trip implement it, and the
// booking queries prefer it over the per-item merge fallback.
type OwnerBookingStore interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID, pred BookingPredicate, page paging.PageRequest) ([]*BookingView, error)
}

type ItemReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ItemView, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page paging.PageRequest) ([]*ItemView, error)
	Search(ctx context.Context, text string, page paging.PageRequest) ([]*ItemView, error)
	IDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
}

type CommentReadStore interface {
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*CommentView, error)
}

type UserReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UserView, error)
	List(ctx context.Context, page paging.PageRequest) ([]*UserView, error)
}
