package readstore

import (
	"context"

	"lendloop/internal/infra"
	"lendloop/internal/pkg/paging"
	"lendloop/internal/usecase/queries"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ItemReadStore struct {
	db infra.Querier
}

func NewItemReadStore(db infra.Querier) *ItemReadStore {
	return &ItemReadStore{db: db}
}

var itemColumns = []string{"id", "owner_id", "name", "description", "available"}

func (s *ItemReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ItemView, error) {
	query, args, err := psql.Select(itemColumns...).
		From("items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build item query", err, infra.KindDBFailure)
	}

	view, err := scanItem(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find item", err)
	}
	return view, nil
}

func (s *ItemReadStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, page paging.PageRequest) ([]*queries.ItemView, error) {
	sb := psql.Select(itemColumns...).
		From("items").
		Where(squirrel.Eq{"owner_id": ownerID})
	return s.list(ctx, applyPage(sb, page, ""))
}

// Search matches the text against name and description of available items.
// Callers pass the text already lowercased; ILIKE keeps the match
// case-insensitive regardless.
func (s *ItemReadStore) Search(ctx context.Context, text string, page paging.PageRequest) ([]*queries.ItemView, error) {
	pattern := "%" + text + "%"
	sb := psql.Select(itemColumns...).
		From("items").
		Where(squirrel.Eq{"available": true}).
		Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
		})
	return s.list(ctx, applyPage(sb, page, ""))
}

func (s *ItemReadStore) IDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	query, args, err := psql.Select("id").
		From("items").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build item ids query", err, infra.KindDBFailure)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list item ids", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan item id", err, infra.KindDBFailure)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read item id rows", err)
	}
	return ids, nil
}

func (s *ItemReadStore) list(ctx context.Context, sb squirrel.SelectBuilder) ([]*queries.ItemView, error) {
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build item list query", err, infra.KindDBFailure)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list items", err)
	}
	defer rows.Close()

	views := make([]*queries.ItemView, 0)
	for rows.Next() {
		view, err := scanItem(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan item row", err, infra.KindDBFailure)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read item rows", err)
	}
	return views, nil
}

func scanItem(row pgx.Row) (*queries.ItemView, error) {
	var v queries.ItemView
	if err := row.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Description, &v.Available); err != nil {
		return nil, err
	}
	return &v, nil
}
