package commands

import (
	"context"
	"errors"

	"lendloop/internal/domain/user"
	"lendloop/internal/infra"
	"lendloop/internal/pkg/clock"
	"lendloop/internal/pkg/errs"
	"lendloop/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrEmailTaken = errs.Mark(errs.New("email already in use"), errs.ErrInvalidState)

type CreateUserRequest struct {
	Name  string
	Email string
}

type PatchUserRequest struct {
	Name  *string
	Email *string
}

type UserCommands interface {
	Create(ctx context.Context, req CreateUserRequest) (uuid.UUID, error)
	Patch(ctx context.Context, userID uuid.UUID, req PatchUserRequest) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type userCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewUserCommands(uow shared.UnitOfWork, clk clock.Clock) UserCommands {
	return &userCommandsImpl{uow: uow, clock: clk}
}

func (uc *userCommandsImpl) Create(ctx context.Context, req CreateUserRequest) (uuid.UUID, error) {
	now := uc.clock.Now()

	var createdID uuid.UUID
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		u, err := user.New(now, req.Name, req.Email)
		if err != nil {
			return markUserRule(err)
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrEmailTaken
			}
			return err
		}
		createdID = u.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return createdID, nil
}

func (uc *userCommandsImpl) Patch(ctx context.Context, userID uuid.UUID, req PatchUserRequest) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().UserByID(ctx, userID)
		if err != nil {
			return asNotFound(err, ErrUserNotFound)
		}

		u := user.Reconstruct(snap.ID, snap.Name, snap.Email, uc.clock.Now())
		if err := u.Patch(req.Name, req.Email); err != nil {
			return markUserRule(err)
		}
		if err := tx.Users().Update(ctx, u); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
}

func (uc *userCommandsImpl) Delete(ctx context.Context, userID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reads().UserByID(ctx, userID); err != nil {
			return asNotFound(err, ErrUserNotFound)
		}
		return tx.Users().Delete(ctx, userID)
	})
}

func markUserRule(err error) error {
	switch {
	case errors.Is(err, user.ErrBlankName), errors.Is(err, user.ErrInvalidEmail):
		return errs.Mark(err, errs.ErrInvalidArgument)
	default:
		return err
	}
}
