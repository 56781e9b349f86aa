package repository

import (
	"context"

	"lendloop/internal/domain/item"
	"lendloop/internal/infra"
)

type CommentRepository struct {
	db infra.Querier
}

func NewCommentRepository(db infra.Querier) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *item.Comment) error {
	query, args, err := psql.Insert("comments").
		Columns("id", "item_id", "author_id", "text", "created_at").
		Values(c.ID(), c.ItemID(), c.AuthorID(), c.Text(), c.CreatedAt()).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build create comment query", err, infra.KindDBFailure)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to create comment", err)
	}
	return nil
}
