package queries

import (
	"context"
	"sort"

	"lendloop/internal/domain/booking"
	"lendloop/internal/infra"
	"lendloop/internal/pkg/clock"
	"lendloop/internal/pkg/errs"
	"lendloop/internal/pkg/paging"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound     = errs.Mark(errs.New("booking not found"), errs.ErrNotFound)
	ErrUserNotFound        = errs.Mark(errs.New("user not found"), errs.ErrNotFound)
	ErrBookingAccessDenied = errs.Mark(errs.New("booking can only be read by the booker or the item owner"), errs.ErrForbidden)
)

type BookingQueries interface {
	GetByID(ctx context.Context, bookingID, actorID uuid.UUID) (*BookingView, error)
	ListForRenter(ctx context.Context, renterID uuid.UUID, state StateFilter, page paging.PageRequest) ([]*BookingView, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID, state StateFilter, page paging.PageRequest) ([]*BookingView, error)
}

type bookingQueriesImpl struct {
	bookings BookingReadStore
	items    ItemReadStore
	users    UserReadStore
	clock    clock.Clock
}

func NewBookingQueries(bookings BookingReadStore, items ItemReadStore, users UserReadStore, clk clock.Clock) BookingQueries {
	return &bookingQueriesImpl{bookings: bookings, items: items, users: users, clock: clk}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, bookingID, actorID uuid.UUID) (*BookingView, error) {
	if err := q.requireUser(ctx, actorID); err != nil {
		return nil, err
	}

	view, err := q.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if actorID != view.Booker.ID && actorID != view.ItemOwnerID {
		return nil, ErrBookingAccessDenied
	}
	return view, nil
}

// ListForRenter answers "what did this user book": one predicate query over
// the renter's bookings, newest start first, paged in the store.
func (q *bookingQueriesImpl) ListForRenter(ctx context.Context, renterID uuid.UUID, state StateFilter, page paging.PageRequest) ([]*BookingView, error) {
	if err := q.requireUser(ctx, renterID); err != nil {
		return nil, err
	}

	pred, err := PredicateFor(state, q.clock.Now())
	if err != nil {
		return nil, err
	}

	views, err := q.bookings.ListByRenter(ctx, renterID, pred, page.Sorted(startDesc()))
	if err != nil {
		return nil, err
	}
	return nonNil(views), nil
}

// ListForOwner answers "what is booked on this user's items". Owners hold
// bookings only indirectly through items, so the store either joins in one
// query (preferred) or the result is merged per item here.
func (q *bookingQueriesImpl) ListForOwner(ctx context.Context, ownerID uuid.UUID, state StateFilter, page paging.PageRequest) ([]*BookingView, error) {
	if err := q.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	pred, err := PredicateFor(state, q.clock.Now())
	if err != nil {
		return nil, err
	}

	if store, ok := q.bookings.(OwnerBookingStore); ok {
		views, err := store.ListByOwner(ctx, ownerID, pred, page.Sorted(startDesc()))
		if err != nil {
			return nil, err
		}
		return nonNil(views), nil
	}

	return q.listForOwnerMerged(ctx, ownerID, pred, page)
}

// listForOwnerMerged is the fallback for stores without the owner join.
// Each per-item result is only locally ordered, so concatenating is not
// enough: the merged set is re-sorted globally by start before the page
// window is applied.
func (q *bookingQueriesImpl) listForOwnerMerged(ctx context.Context, ownerID uuid.UUID, pred BookingPredicate, page paging.PageRequest) ([]*BookingView, error) {
	itemIDs, err := q.items.IDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var merged []*BookingView
	for _, itemID := range itemIDs {
		views, err := q.bookings.ListByItem(ctx, itemID, pred, paging.Unpaged(startDesc()))
		if err != nil {
			return nil, err
		}
		merged = append(merged, views...)
	}

	// Stable: equal starts keep their per-store order, there is no
	// secondary sort key.
	sort.SliceStable(merged, func(i, j int) bool {
		return booking.CompareStart(merged[j].Start, merged[i].Start) < 0
	})

	lo, hi := page.Bounds(len(merged))
	return nonNil(merged[lo:hi]), nil
}

func (q *bookingQueriesImpl) requireUser(ctx context.Context, id uuid.UUID) error {
	if _, err := q.users.FindByID(ctx, id); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func startDesc() paging.Sort {
	return paging.SortBy(paging.FieldStart, paging.Desc)
}

// nonNil keeps the "empty result is an empty sequence" contract.
func nonNil(views []*BookingView) []*BookingView {
	if views == nil {
		return []*BookingView{}
	}
	return views
}
