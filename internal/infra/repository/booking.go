package repository

import (
	"context"

	"lendloop/internal/domain/booking"
	"lendloop/internal/infra"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type BookingRepository struct {
	db infra.Querier
}

func NewBookingRepository(db infra.Querier) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	query, args, err := psql.Insert("bookings").
		Columns("id", "item_id", "renter_id", "start_at", "end_at", "status", "created_at").
		Values(b.ID(), b.ItemID(), b.RenterID(), b.Period().Start(), b.Period().End(), b.Status().String(), b.CreatedAt()).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build create booking query", err, infra.KindDBFailure)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error {
	query, args, err := psql.Update("bookings").
		Set("status", status.String()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build update booking status query", err, infra.KindDBFailure)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if ct.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}
