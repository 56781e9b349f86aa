package queries

import (
	"context"
	"strings"

	"lendloop/internal/infra"
	"lendloop/internal/pkg/clock"
	"lendloop/internal/pkg/errs"
	"lendloop/internal/pkg/paging"

	"github.com/google/uuid"
)

var ErrItemNotFound = errs.Mark(errs.New("item not found"), errs.ErrNotFound)

type ItemQueries interface {
	GetByID(ctx context.Context, itemID, callerID uuid.UUID) (*ItemView, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page paging.PageRequest) ([]*ItemView, error)
	Search(ctx context.Context, text string, page paging.PageRequest) ([]*ItemView, error)
}

type itemQueriesImpl struct {
	items    ItemReadStore
	comments CommentReadStore
	bookings BookingReadStore
	users    UserReadStore
	clock    clock.Clock
}

func NewItemQueries(items ItemReadStore, comments CommentReadStore, bookings BookingReadStore, users UserReadStore, clk clock.Clock) ItemQueries {
	return &itemQueriesImpl{items: items, comments: comments, bookings: bookings, users: users, clock: clk}
}

func (q *itemQueriesImpl) GetByID(ctx context.Context, itemID, callerID uuid.UUID) (*ItemView, error) {
	view, err := q.items.FindByID(ctx, itemID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if err := q.decorate(ctx, view, callerID); err != nil {
		return nil, err
	}
	return view, nil
}

func (q *itemQueriesImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID, page paging.PageRequest) ([]*ItemView, error) {
	if _, err := q.users.FindByID(ctx, ownerID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	views, err := q.items.ListByOwner(ctx, ownerID, page.Sorted(paging.SortBy(paging.FieldCreated, paging.Asc)))
	if err != nil {
		return nil, err
	}
	for _, view := range views {
		if err := q.decorate(ctx, view, ownerID); err != nil {
			return nil, err
		}
	}
	return views, nil
}

func (q *itemQueriesImpl) Search(ctx context.Context, text string, page paging.PageRequest) ([]*ItemView, error) {
	if strings.TrimSpace(text) == "" {
		return []*ItemView{}, nil
	}

	views, err := q.items.Search(ctx, strings.ToLower(text), page.Sorted(paging.SortBy(paging.FieldCreated, paging.Asc)))
	if err != nil {
		return nil, err
	}
	for _, view := range views {
		if err := q.attachComments(ctx, view); err != nil {
			return nil, err
		}
	}
	return views, nil
}

// decorate attaches comments to every view and, for the owner only, the
// last/next booking of the item. One now snapshot covers both lookups.
func (q *itemQueriesImpl) decorate(ctx context.Context, view *ItemView, callerID uuid.UUID) error {
	if err := q.attachComments(ctx, view); err != nil {
		return err
	}
	if callerID != view.OwnerID {
		return nil
	}

	now := q.clock.Now()
	last, err := q.bookings.LastForItem(ctx, view.ID, now)
	if err != nil {
		return err
	}
	next, err := q.bookings.NextForItem(ctx, view.ID, now)
	if err != nil {
		return err
	}
	view.LastBooking = last
	view.NextBooking = next
	return nil
}

func (q *itemQueriesImpl) attachComments(ctx context.Context, view *ItemView) error {
	comments, err := q.comments.ListByItem(ctx, view.ID)
	if err != nil {
		return err
	}
	if comments == nil {
		comments = []*CommentView{}
	}
	view.Comments = comments
	return nil
}
