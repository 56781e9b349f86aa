package repository

import (
	"context"

	"lendloop/internal/domain/user"
	"lendloop/internal/infra"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type UserRepository struct {
	db infra.Querier
}

func NewUserRepository(db infra.Querier) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query, args, err := psql.Insert("users").
		Columns("id", "name", "email", "created_at").
		Values(u.ID(), u.Name(), u.Email(), u.CreatedAt()).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build create user query", err, infra.KindDBFailure)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query, args, err := psql.Update("users").
		Set("name", u.Name()).
		Set("email", u.Email()).
		Where(squirrel.Eq{"id": u.ID()}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build update user query", err, infra.KindDBFailure)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update user", err)
	}
	if ct.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build delete user query", err, infra.KindDBFailure)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to delete user", err)
	}
	if ct.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}
