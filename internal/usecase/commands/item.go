package commands

import (
	"context"
	"errors"

	"lendloop/internal/domain/item"
	"lendloop/internal/pkg/clock"
	"lendloop/internal/pkg/errs"
	"lendloop/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateItemRequest struct {
	Name        string
	Description string
	Available   bool
}

type PatchItemRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type PostCommentRequest struct {
	Text string
}

type ItemCommands interface {
	Create(ctx context.Context, req CreateItemRequest, ownerID uuid.UUID) (uuid.UUID, error)
	Patch(ctx context.Context, itemID uuid.UUID, req PatchItemRequest, actorID uuid.UUID) error
	PostComment(ctx context.Context, itemID uuid.UUID, req PostCommentRequest, authorID uuid.UUID) (uuid.UUID, error)
}

type itemCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewItemCommands(uow shared.UnitOfWork, clk clock.Clock) ItemCommands {
	return &itemCommandsImpl{uow: uow, clock: clk}
}

func (uc *itemCommandsImpl) Create(ctx context.Context, req CreateItemRequest, ownerID uuid.UUID) (uuid.UUID, error) {
	now := uc.clock.Now()

	var createdID uuid.UUID
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reads().UserByID(ctx, ownerID); err != nil {
			return asNotFound(err, ErrUserNotFound)
		}
		it, err := item.New(now, ownerID, req.Name, req.Description, req.Available)
		if err != nil {
			return markItemRule(err)
		}
		if err := tx.Items().Create(ctx, it); err != nil {
			return err
		}
		createdID = it.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return createdID, nil
}

func (uc *itemCommandsImpl) Patch(ctx context.Context, itemID uuid.UUID, req PatchItemRequest, actorID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reads().UserByID(ctx, actorID); err != nil {
			return asNotFound(err, ErrUserNotFound)
		}
		snap, err := tx.Reads().ItemByID(ctx, itemID)
		if err != nil {
			return asNotFound(err, ErrItemNotFound)
		}

		it := item.Reconstruct(snap.ID, snap.OwnerID, snap.Name, snap.Description, snap.Available, snap.CreatedAt)
		if err := it.Patch(actorID, req.Name, req.Description, req.Available); err != nil {
			return markItemRule(err)
		}
		return tx.Items().Update(ctx, it)
	})
}

func (uc *itemCommandsImpl) PostComment(ctx context.Context, itemID uuid.UUID, req PostCommentRequest, authorID uuid.UUID) (uuid.UUID, error) {
	now := uc.clock.Now()

	var createdID uuid.UUID
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reads().ItemByID(ctx, itemID); err != nil {
			return asNotFound(err, ErrItemNotFound)
		}
		if _, err := tx.Reads().UserByID(ctx, authorID); err != nil {
			return asNotFound(err, ErrUserNotFound)
		}
		finished, err := tx.Reads().FinishedBookingExists(ctx, itemID, authorID, now)
		if err != nil {
			return err
		}

		c, err := item.NewComment(now, itemID, authorID, req.Text, finished)
		if err != nil {
			return markItemRule(err)
		}
		if err := tx.Comments().Create(ctx, c); err != nil {
			return err
		}
		createdID = c.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return createdID, nil
}

func markItemRule(err error) error {
	switch {
	case errors.Is(err, item.ErrNotOwner):
		return errs.Mark(err, errs.ErrForbidden)
	case errors.Is(err, item.ErrBlankName),
		errors.Is(err, item.ErrBlankDescription),
		errors.Is(err, item.ErrBlankComment),
		errors.Is(err, item.ErrNoFinishedBooking):
		return errs.Mark(err, errs.ErrInvalidArgument)
	default:
		return err
	}
}
