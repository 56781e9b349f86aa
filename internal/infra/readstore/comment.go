package readstore

import (
	"context"

	"lendloop/internal/infra"
	"lendloop/internal/usecase/queries"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type CommentReadStore struct {
	db infra.Querier
}

func NewCommentReadStore(db infra.Querier) *CommentReadStore {
	return &CommentReadStore{db: db}
}

func (s *CommentReadStore) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*queries.CommentView, error) {
	query, args, err := psql.Select("c.id", "c.text", "u.name", "c.created_at").
		From("comments c").
		Join("users u ON u.id = c.author_id").
		Where(squirrel.Eq{"c.item_id": itemID}).
		OrderBy("c.created_at ASC").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build comment list query", err, infra.KindDBFailure)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list comments", err)
	}
	defer rows.Close()

	views := make([]*queries.CommentView, 0)
	for rows.Next() {
		var v queries.CommentView
		if err := rows.Scan(&v.ID, &v.Text, &v.AuthorName, &v.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan comment row", err, infra.KindDBFailure)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read comment rows", err)
	}
	return views, nil
}
