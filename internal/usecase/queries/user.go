package queries

import (
	"context"

	"lendloop/internal/infra"
	"lendloop/internal/pkg/paging"

	"github.com/google/uuid"
)

type UserQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*UserView, error)
	List(ctx context.Context, page paging.PageRequest) ([]*UserView, error)
}

type userQueriesImpl struct {
	users UserReadStore
}

func NewUserQueries(users UserReadStore) UserQueries {
	return &userQueriesImpl{users: users}
}

func (q *userQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*UserView, error) {
	view, err := q.users.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *userQueriesImpl) List(ctx context.Context, page paging.PageRequest) ([]*UserView, error) {
	views, err := q.users.List(ctx, page.Sorted(paging.SortBy(paging.FieldCreated, paging.Asc)))
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []*UserView{}
	}
	return views, nil
}
