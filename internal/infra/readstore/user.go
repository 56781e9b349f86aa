package readstore

import (
	"context"

	"lendloop/internal/infra"
	"lendloop/internal/pkg/paging"
	"lendloop/internal/usecase/queries"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type UserReadStore struct {
	db infra.Querier
}

func NewUserReadStore(db infra.Querier) *UserReadStore {
	return &UserReadStore{db: db}
}

func (s *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	query, args, err := psql.Select("id", "name", "email").
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build user query", err, infra.KindDBFailure)
	}

	var v queries.UserView
	row := s.db.QueryRow(ctx, query, args...)
	if err := row.Scan(&v.ID, &v.Name, &v.Email); err != nil {
		return nil, infra.WrapRepoErr("failed to find user", err)
	}
	return &v, nil
}

func (s *UserReadStore) List(ctx context.Context, page paging.PageRequest) ([]*queries.UserView, error) {
	sb := psql.Select("id", "name", "email").From("users")
	query, args, err := applyPage(sb, page, "").ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build user list query", err, infra.KindDBFailure)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list users", err)
	}
	defer rows.Close()

	views := make([]*queries.UserView, 0)
	for rows.Next() {
		var v queries.UserView
		if err := rows.Scan(&v.ID, &v.Name, &v.Email); err != nil {
			return nil, infra.WrapRepoErr("failed to scan user row", err, infra.KindDBFailure)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read user rows", err)
	}
	return views, nil
}
