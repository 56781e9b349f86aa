//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"lendloop/internal/domain/booking"
	"lendloop/internal/domain/item"
	"lendloop/internal/domain/user"
	"lendloop/internal/infra"
	"lendloop/internal/pkg/clock"
	"lendloop/internal/pkg/errs"
	"lendloop/internal/usecase/commands"
	"lendloop/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ---- testify mocks over the shared ports ----

type mockReads struct{ mock.Mock }

func (m *mockReads) UserByID(ctx context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	args := m.Called(ctx, id)
	if snap, ok := args.Get(0).(*shared.UserSnapshot); ok {
		return snap, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReads) ItemByID(ctx context.Context, id uuid.UUID) (*shared.ItemSnapshot, error) {
	args := m.Called(ctx, id)
	if snap, ok := args.Get(0).(*shared.ItemSnapshot); ok {
		return snap, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReads) BookingByIDForUpdate(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	args := m.Called(ctx, id)
	if snap, ok := args.Get(0).(*shared.BookingSnapshot); ok {
		return snap, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReads) FinishedBookingExists(ctx context.Context, itemID, bookerID uuid.UUID, now time.Time) (bool, error) {
	args := m.Called(ctx, itemID, bookerID, now)
	return args.Bool(0), args.Error(1)
}

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) Create(ctx context.Context, b *booking.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type mockItemRepo struct{ mock.Mock }

func (m *mockItemRepo) Create(ctx context.Context, it *item.Item) error {
	return m.Called(ctx, it).Error(0)
}

func (m *mockItemRepo) Update(ctx context.Context, it *item.Item) error {
	return m.Called(ctx, it).Error(0)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) Update(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockCommentRepo struct{ mock.Mock }

func (m *mockCommentRepo) Create(ctx context.Context, c *item.Comment) error {
	return m.Called(ctx, c).Error(0)
}

// stubTx hands the mocks out as a shared.Tx; stubUoW runs the function
// directly, transactionality itself is covered by the e2e suite.
type stubTx struct {
	reads    *mockReads
	bookings *mockBookingRepo
	items    *mockItemRepo
	users    *mockUserRepo
	comments *mockCommentRepo
}

func (t *stubTx) Bookings() shared.BookingRepository { return t.bookings }
func (t *stubTx) Items() shared.ItemRepository       { return t.items }
func (t *stubTx) Users() shared.UserRepository       { return t.users }
func (t *stubTx) Comments() shared.CommentRepository { return t.comments }
func (t *stubTx) Reads() shared.CommandReads         { return t.reads }

type stubUoW struct{ tx *stubTx }

func (u *stubUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

func newFixture() (*stubUoW, *stubTx, *clock.MockClock) {
	tx := &stubTx{
		reads:    &mockReads{},
		bookings: &mockBookingRepo{},
		items:    &mockItemRepo{},
		users:    &mockUserRepo{},
		comments: &mockCommentRepo{},
	}
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	return &stubUoW{tx: tx}, tx, clock.NewMockClock(now)
}

func repoNotFound() error {
	return infra.WrapRepoErr("no rows", nil, infra.KindNotFound)
}

// ---- Create ----

func TestBookingCreate(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	renterID := uuid.New()
	itemID := uuid.New()

	itemSnap := &shared.ItemSnapshot{ID: itemID, OwnerID: ownerID, Available: true}
	userSnap := &shared.UserSnapshot{ID: renterID}

	t.Run("success leaves the booking WAITING", func(t *testing.T) {
		uow, tx, clk := newFixture()
		now := clk.Now()

		tx.reads.On("ItemByID", ctx, itemID).Return(itemSnap, nil)
		tx.reads.On("UserByID", ctx, renterID).Return(userSnap, nil)
		tx.bookings.On("Create", ctx, mock.MatchedBy(func(b *booking.Booking) bool {
			return b.Status() == booking.StatusWaiting && b.RenterID() == renterID
		})).Return(nil)

		uc := commands.NewBookingCommands(uow, clk)
		id, err := uc.Create(ctx, commands.CreateBookingRequest{
			ItemID: itemID,
			Start:  now.Add(time.Hour),
			End:    now.Add(2 * time.Hour),
		}, renterID)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
		tx.bookings.AssertExpectations(t)
	})

	t.Run("missing item", func(t *testing.T) {
		uow, tx, clk := newFixture()

		tx.reads.On("ItemByID", ctx, itemID).Return(nil, repoNotFound())

		uc := commands.NewBookingCommands(uow, clk)
		_, err := uc.Create(ctx, commands.CreateBookingRequest{
			ItemID: itemID,
			Start:  clk.Now().Add(time.Hour),
			End:    clk.Now().Add(2 * time.Hour),
		}, renterID)

		assert.ErrorIs(t, err, commands.ErrItemNotFound)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("missing renter", func(t *testing.T) {
		uow, tx, clk := newFixture()

		tx.reads.On("ItemByID", ctx, itemID).Return(itemSnap, nil)
		tx.reads.On("UserByID", ctx, renterID).Return(nil, repoNotFound())

		uc := commands.NewBookingCommands(uow, clk)
		_, err := uc.Create(ctx, commands.CreateBookingRequest{
			ItemID: itemID,
			Start:  clk.Now().Add(time.Hour),
			End:    clk.Now().Add(2 * time.Hour),
		}, renterID)

		assert.ErrorIs(t, err, commands.ErrUserNotFound)
	})

	t.Run("booking own item is forbidden even when the item is unavailable", func(t *testing.T) {
		uow, tx, clk := newFixture()
		ownUnavailable := &shared.ItemSnapshot{ID: itemID, OwnerID: ownerID, Available: false}

		tx.reads.On("ItemByID", ctx, itemID).Return(ownUnavailable, nil)
		tx.reads.On("UserByID", ctx, ownerID).Return(&shared.UserSnapshot{ID: ownerID}, nil)

		uc := commands.NewBookingCommands(uow, clk)
		_, err := uc.Create(ctx, commands.CreateBookingRequest{
			ItemID: itemID,
			Start:  clk.Now().Add(time.Hour),
			End:    clk.Now().Add(2 * time.Hour),
		}, ownerID)

		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("unavailable item is an invalid state", func(t *testing.T) {
		uow, tx, clk := newFixture()
		unavailable := &shared.ItemSnapshot{ID: itemID, OwnerID: ownerID, Available: false}

		tx.reads.On("ItemByID", ctx, itemID).Return(unavailable, nil)
		tx.reads.On("UserByID", ctx, renterID).Return(userSnap, nil)

		uc := commands.NewBookingCommands(uow, clk)
		_, err := uc.Create(ctx, commands.CreateBookingRequest{
			ItemID: itemID,
			Start:  clk.Now().Add(time.Hour),
			End:    clk.Now().Add(2 * time.Hour),
		}, renterID)

		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("end before start is an invalid argument", func(t *testing.T) {
		uow, tx, clk := newFixture()

		tx.reads.On("ItemByID", ctx, itemID).Return(itemSnap, nil)
		tx.reads.On("UserByID", ctx, renterID).Return(userSnap, nil)

		uc := commands.NewBookingCommands(uow, clk)
		_, err := uc.Create(ctx, commands.CreateBookingRequest{
			ItemID: itemID,
			Start:  clk.Now().Add(2 * time.Hour),
			End:    clk.Now().Add(time.Hour),
		}, renterID)

		assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	})

	t.Run("persistence failure keeps the historical not-found shape", func(t *testing.T) {
		uow, tx, clk := newFixture()

		tx.reads.On("ItemByID", ctx, itemID).Return(itemSnap, nil)
		tx.reads.On("UserByID", ctx, renterID).Return(userSnap, nil)
		tx.bookings.On("Create", ctx, mock.Anything).
			Return(infra.WrapRepoErr("insert failed", assert.AnError, infra.KindDBFailure))

		uc := commands.NewBookingCommands(uow, clk)
		_, err := uc.Create(ctx, commands.CreateBookingRequest{
			ItemID: itemID,
			Start:  clk.Now().Add(time.Hour),
			End:    clk.Now().Add(2 * time.Hour),
		}, renterID)

		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

// ---- Decide ----

func TestBookingDecide(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	renterID := uuid.New()
	bookingID := uuid.New()
	itemID := uuid.New()

	waitingSnap := func(now time.Time) *shared.BookingSnapshot {
		return &shared.BookingSnapshot{
			ID:       bookingID,
			ItemID:   itemID,
			OwnerID:  ownerID,
			RenterID: renterID,
			StartAt:  now.Add(time.Hour),
			EndAt:    now.Add(2 * time.Hour),
			Status:   "WAITING",
		}
	}

	t.Run("owner approves", func(t *testing.T) {
		uow, tx, clk := newFixture()

		tx.reads.On("UserByID", ctx, ownerID).Return(&shared.UserSnapshot{ID: ownerID}, nil)
		tx.reads.On("BookingByIDForUpdate", ctx, bookingID).Return(waitingSnap(clk.Now()), nil)
		tx.bookings.On("UpdateStatus", ctx, bookingID, booking.StatusApproved).Return(nil)

		uc := commands.NewBookingCommands(uow, clk)
		require.NoError(t, uc.Decide(ctx, bookingID, ownerID, true))
		tx.bookings.AssertExpectations(t)
	})

	t.Run("owner rejects", func(t *testing.T) {
		uow, tx, clk := newFixture()

		tx.reads.On("UserByID", ctx, ownerID).Return(&shared.UserSnapshot{ID: ownerID}, nil)
		tx.reads.On("BookingByIDForUpdate", ctx, bookingID).Return(waitingSnap(clk.Now()), nil)
		tx.bookings.On("UpdateStatus", ctx, bookingID, booking.StatusRejected).Return(nil)

		uc := commands.NewBookingCommands(uow, clk)
		require.NoError(t, uc.Decide(ctx, bookingID, ownerID, false))
	})

	t.Run("renter may not decide", func(t *testing.T) {
		uow, tx, clk := newFixture()

		tx.reads.On("UserByID", ctx, renterID).Return(&shared.UserSnapshot{ID: renterID}, nil)
		tx.reads.On("BookingByIDForUpdate", ctx, bookingID).Return(waitingSnap(clk.Now()), nil)

		uc := commands.NewBookingCommands(uow, clk)
		err := uc.Decide(ctx, bookingID, renterID, true)

		assert.ErrorIs(t, err, errs.ErrForbidden)
		tx.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("second decision always fails", func(t *testing.T) {
		uow, tx, clk := newFixture()
		decided := waitingSnap(clk.Now())
		decided.Status = "APPROVED"

		tx.reads.On("UserByID", ctx, ownerID).Return(&shared.UserSnapshot{ID: ownerID}, nil)
		tx.reads.On("BookingByIDForUpdate", ctx, bookingID).Return(decided, nil)

		uc := commands.NewBookingCommands(uow, clk)
		err := uc.Decide(ctx, bookingID, ownerID, false)

		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("non-owner on a decided booking gets the permission error", func(t *testing.T) {
		uow, tx, clk := newFixture()
		decided := waitingSnap(clk.Now())
		decided.Status = "APPROVED"

		tx.reads.On("UserByID", ctx, renterID).Return(&shared.UserSnapshot{ID: renterID}, nil)
		tx.reads.On("BookingByIDForUpdate", ctx, bookingID).Return(decided, nil)

		uc := commands.NewBookingCommands(uow, clk)
		err := uc.Decide(ctx, bookingID, renterID, true)

		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("missing booking", func(t *testing.T) {
		uow, tx, clk := newFixture()

		tx.reads.On("UserByID", ctx, ownerID).Return(&shared.UserSnapshot{ID: ownerID}, nil)
		tx.reads.On("BookingByIDForUpdate", ctx, bookingID).Return(nil, repoNotFound())

		uc := commands.NewBookingCommands(uow, clk)
		err := uc.Decide(ctx, bookingID, ownerID, true)

		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}
