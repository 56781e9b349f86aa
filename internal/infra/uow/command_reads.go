package uow

import (
	"context"
	"time"

	"lendloop/internal/infra"
	"lendloop/internal/usecase/shared"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type commandReads struct {
	db infra.Querier
}

func newCommandReads(db infra.Querier) *commandReads {
	return &commandReads{db: db}
}

func (r *commandReads) UserByID(ctx context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	query, args, err := psql.Select("id", "name", "email").
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build user lookup query", err, infra.KindDBFailure)
	}

	var snap shared.UserSnapshot
	row := r.db.QueryRow(ctx, query, args...)
	if err := row.Scan(&snap.ID, &snap.Name, &snap.Email); err != nil {
		return nil, infra.WrapRepoErr("failed to find user", err)
	}
	return &snap, nil
}

func (r *commandReads) ItemByID(ctx context.Context, id uuid.UUID) (*shared.ItemSnapshot, error) {
	query, args, err := psql.Select("id", "owner_id", "name", "description", "available", "created_at").
		From("items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build item lookup query", err, infra.KindDBFailure)
	}

	var snap shared.ItemSnapshot
	row := r.db.QueryRow(ctx, query, args...)
	if err := row.Scan(&snap.ID, &snap.OwnerID, &snap.Name, &snap.Description, &snap.Available, &snap.CreatedAt); err != nil {
		return nil, infra.WrapRepoErr("failed to find item", err)
	}
	return &snap, nil
}

// BookingByIDForUpdate locks the booking row for the rest of the transaction.
// The item join resolves the owner without a second round trip; the items row
// itself is not locked.
func (r *commandReads) BookingByIDForUpdate(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	query, args, err := psql.Select(
		"b.id", "b.item_id", "i.owner_id", "b.renter_id",
		"b.start_at", "b.end_at", "b.status", "b.created_at",
	).
		From("bookings b").
		Join("items i ON i.id = b.item_id").
		Where(squirrel.Eq{"b.id": id}).
		Suffix("FOR UPDATE OF b").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build booking lock query", err, infra.KindDBFailure)
	}

	var snap shared.BookingSnapshot
	row := r.db.QueryRow(ctx, query, args...)
	if err := row.Scan(
		&snap.ID, &snap.ItemID, &snap.OwnerID, &snap.RenterID,
		&snap.StartAt, &snap.EndAt, &snap.Status, &snap.CreatedAt,
	); err != nil {
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return &snap, nil
}

func (r *commandReads) FinishedBookingExists(ctx context.Context, itemID, bookerID uuid.UUID, now time.Time) (bool, error) {
	sub := psql.Select("1").
		From("bookings").
		Where(squirrel.Eq{"item_id": itemID, "renter_id": bookerID, "status": "APPROVED"}).
		Where(squirrel.Lt{"end_at": now})
	subSQL, args, err := sub.ToSql()
	if err != nil {
		return false, infra.WrapRepoErr("failed to build finished booking query", err, infra.KindDBFailure)
	}

	var exists bool
	row := r.db.QueryRow(ctx, "SELECT EXISTS ("+subSQL+")", args...)
	if err := row.Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check finished booking", err)
	}
	return exists, nil
}
