package commands

import (
	"context"
	"errors"
	"time"

	"lendloop/internal/domain/booking"
	"lendloop/internal/infra"
	"lendloop/internal/pkg/clock"
	"lendloop/internal/pkg/errs"
	"lendloop/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound    = errs.Mark(errs.New("user not found"), errs.ErrNotFound)
	ErrItemNotFound    = errs.Mark(errs.New("item not found"), errs.ErrNotFound)
	ErrBookingNotFound = errs.Mark(errs.New("booking not found"), errs.ErrNotFound)
)

type CreateBookingRequest struct {
	ItemID uuid.UUID
	Start  time.Time
	End    time.Time
}

type BookingCommands interface {
	Create(ctx context.Context, req CreateBookingRequest, renterID uuid.UUID) (uuid.UUID, error)
	Decide(ctx context.Context, bookingID, actorID uuid.UUID, approved bool) error
}

type bookingCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewBookingCommands(uow shared.UnitOfWork, clk clock.Clock) BookingCommands {
	return &bookingCommandsImpl{uow: uow, clock: clk}
}

func (uc *bookingCommandsImpl) Create(ctx context.Context, req CreateBookingRequest, renterID uuid.UUID) (uuid.UUID, error) {
	now := uc.clock.Now()

	var createdID uuid.UUID
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		itemSnap, err := tx.Reads().ItemByID(ctx, req.ItemID)
		if err != nil {
			return asNotFound(err, ErrItemNotFound)
		}
		if _, err := tx.Reads().UserByID(ctx, renterID); err != nil {
			return asNotFound(err, ErrUserNotFound)
		}

		b, err := booking.New(now, booking.ItemSpec{
			ID:        itemSnap.ID,
			OwnerID:   itemSnap.OwnerID,
			Available: itemSnap.Available,
		}, renterID, req.Start, req.End)
		if err != nil {
			return markBookingRule(err)
		}

		if err := tx.Bookings().Create(ctx, b); err != nil {
			// Persistence failures surface as not-found; existing clients
			// depend on this status, so it stays.
			return errs.Mark(err, errs.ErrNotFound)
		}
		createdID = b.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return createdID, nil
}

func (uc *bookingCommandsImpl) Decide(ctx context.Context, bookingID, actorID uuid.UUID, approved bool) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reads().UserByID(ctx, actorID); err != nil {
			return asNotFound(err, ErrUserNotFound)
		}

		// Row lock: of two racing decisions exactly one passes the WAITING
		// guard, the other observes the terminal status.
		snap, err := tx.Reads().BookingByIDForUpdate(ctx, bookingID)
		if err != nil {
			return asNotFound(err, ErrBookingNotFound)
		}

		b := booking.Reconstruct(
			snap.ID, snap.ItemID, snap.RenterID,
			snap.StartAt, snap.EndAt,
			booking.Status(snap.Status), snap.CreatedAt,
		)
		if err := b.Decide(actorID, snap.OwnerID, approved); err != nil {
			return markBookingRule(err)
		}

		return tx.Bookings().UpdateStatus(ctx, b.ID(), b.Status())
	})
}

// markBookingRule maps domain rule violations onto the caller-facing error
// categories.
func markBookingRule(err error) error {
	switch {
	case errors.Is(err, booking.ErrItemUnavailable):
		return errs.Mark(err, errs.ErrInvalidState)
	case errors.Is(err, booking.ErrAlreadyDecided):
		return errs.Mark(err, errs.ErrInvalidState)
	case errors.Is(err, booking.ErrOwnItemBooking), errors.Is(err, booking.ErrNotItemOwner):
		return errs.Mark(err, errs.ErrForbidden)
	case errors.Is(err, booking.ErrPeriodInPast), errors.Is(err, booking.ErrEndBeforeStart):
		return errs.Mark(err, errs.ErrInvalidArgument)
	default:
		return err
	}
}

// asNotFound converts a repository NOT_FOUND into the given sentinel and
// passes everything else through.
func asNotFound(err error, sentinel error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return sentinel
	}
	return err
}
