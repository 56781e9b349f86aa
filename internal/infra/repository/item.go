package repository

import (
	"context"

	"lendloop/internal/domain/item"
	"lendloop/internal/infra"

	"github.com/Masterminds/squirrel"
)

type ItemRepository struct {
	db infra.Querier
}

func NewItemRepository(db infra.Querier) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(ctx context.Context, i *item.Item) error {
	query, args, err := psql.Insert("items").
		Columns("id", "owner_id", "name", "description", "available", "created_at").
		Values(i.ID(), i.OwnerID(), i.Name(), i.Description(), i.Available(), i.CreatedAt()).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build create item query", err, infra.KindDBFailure)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to create item", err)
	}
	return nil
}

func (r *ItemRepository) Update(ctx context.Context, i *item.Item) error {
	query, args, err := psql.Update("items").
		Set("name", i.Name()).
		Set("description", i.Description()).
		Set("available", i.Available()).
		Where(squirrel.Eq{"id": i.ID()}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build update item query", err, infra.KindDBFailure)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update item", err)
	}
	if ct.RowsAffected() == 0 {
		return infra.WrapRepoErr("item not found", nil, infra.KindNotFound)
	}
	return nil
}
