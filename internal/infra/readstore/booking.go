package readstore

import (
	"context"
	"errors"
	"time"

	"lendloop/internal/infra"
	"lendloop/internal/pkg/paging"
	"lendloop/internal/usecase/queries"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type BookingReadStore struct {
	db infra.Querier
}

func NewBookingReadStore(db infra.Querier) *BookingReadStore {
	return &BookingReadStore{db: db}
}

var bookingColumns = []string{
	"b.id", "b.start_at", "b.end_at", "b.status",
	"i.id", "i.name", "i.owner_id", "b.renter_id",
}

func (s *BookingReadStore) baseSelect() squirrel.SelectBuilder {
	return psql.Select(bookingColumns...).
		From("bookings b").
		Join("items i ON i.id = b.item_id")
}

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	query, args, err := s.baseSelect().Where(squirrel.Eq{"b.id": id}).ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build booking query", err, infra.KindDBFailure)
	}

	view, err := scanBooking(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return view, nil
}

func (s *BookingReadStore) ListByRenter(ctx context.Context, renterID uuid.UUID, pred queries.BookingPredicate, page paging.PageRequest) ([]*queries.BookingView, error) {
	sb := s.baseSelect().Where(squirrel.Eq{"b.renter_id": renterID})
	return s.list(ctx, sb, pred, page)
}

func (s *BookingReadStore) ListByItem(ctx context.Context, itemID uuid.UUID, pred queries.BookingPredicate, page paging.PageRequest) ([]*queries.BookingView, error) {
	sb := s.baseSelect().Where(squirrel.Eq{"b.item_id": itemID})
	return s.list(ctx, sb, pred, page)
}

// ListByOwner is the one-round-trip owner listing: bookings joined to items
// filtered on the owner column. It makes BookingReadStore satisfy the optional
// owner-capable port.
func (s *BookingReadStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, pred queries.BookingPredicate, page paging.PageRequest) ([]*queries.BookingView, error) {
	sb := s.baseSelect().Where(squirrel.Eq{"i.owner_id": ownerID})
	return s.list(ctx, sb, pred, page)
}

func (s *BookingReadStore) LastForItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*queries.BookingRef, error) {
	sb := psql.Select("b.id", "b.renter_id", "b.start_at", "b.end_at").
		From("bookings b").
		Where(squirrel.Eq{"b.item_id": itemID, "b.status": "APPROVED"}).
		Where(squirrel.LtOrEq{"b.end_at": now}).
		OrderBy("b.end_at DESC").
		Limit(1)
	return s.findRef(ctx, sb)
}

func (s *BookingReadStore) NextForItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*queries.BookingRef, error) {
	sb := psql.Select("b.id", "b.renter_id", "b.start_at", "b.end_at").
		From("bookings b").
		Where(squirrel.Eq{"b.item_id": itemID, "b.status": "APPROVED"}).
		Where(squirrel.GtOrEq{"b.start_at": now}).
		OrderBy("b.start_at ASC").
		Limit(1)
	return s.findRef(ctx, sb)
}

func (s *BookingReadStore) findRef(ctx context.Context, sb squirrel.SelectBuilder) (*queries.BookingRef, error) {
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build booking ref query", err, infra.KindDBFailure)
	}

	var ref queries.BookingRef
	row := s.db.QueryRow(ctx, query, args...)
	if err := row.Scan(&ref.ID, &ref.BookerID, &ref.Start, &ref.End); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to find booking ref", err)
	}
	return &ref, nil
}

func (s *BookingReadStore) list(ctx context.Context, sb squirrel.SelectBuilder, pred queries.BookingPredicate, page paging.PageRequest) ([]*queries.BookingView, error) {
	sb = applyPredicate(sb, pred)
	sb = applyPage(sb, page, "b.")

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build booking list query", err, infra.KindDBFailure)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	views := make([]*queries.BookingView, 0)
	for rows.Next() {
		view, err := scanBooking(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err, infra.KindDBFailure)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking rows", err)
	}
	return views, nil
}

func applyPredicate(sb squirrel.SelectBuilder, pred queries.BookingPredicate) squirrel.SelectBuilder {
	switch {
	case pred.CurrentAt != nil:
		sb = sb.Where(squirrel.LtOrEq{"b.start_at": *pred.CurrentAt}).
			Where(squirrel.GtOrEq{"b.end_at": *pred.CurrentAt})
	case pred.EndBefore != nil:
		sb = sb.Where(squirrel.LtOrEq{"b.end_at": *pred.EndBefore})
	case pred.StartAfter != nil:
		sb = sb.Where(squirrel.GtOrEq{"b.start_at": *pred.StartAfter})
	case pred.Status != nil:
		sb = sb.Where(squirrel.Eq{"b.status": *pred.Status})
	}
	return sb
}

// applyPage translates a page request into ORDER BY / OFFSET / LIMIT. The sort
// field comes from a closed enum, never from user input, so interpolating it is
// safe. Unpaged requests skip the window clauses entirely.
func applyPage(sb squirrel.SelectBuilder, page paging.PageRequest, prefix string) squirrel.SelectBuilder {
	sort := page.Sort()
	if sort.Field != "" {
		sb = sb.OrderBy(prefix + string(sort.Field) + " " + string(sort.Direction))
	}
	if page.IsUnpaged() {
		return sb
	}
	return sb.Offset(uint64(page.Offset())).Limit(uint64(page.Limit()))
}

func scanBooking(row pgx.Row) (*queries.BookingView, error) {
	var v queries.BookingView
	err := row.Scan(
		&v.ID, &v.Start, &v.End, &v.Status,
		&v.Item.ID, &v.Item.Name, &v.ItemOwnerID, &v.Booker.ID,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
