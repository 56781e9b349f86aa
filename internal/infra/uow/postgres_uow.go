package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"lendloop/internal/infra"
	"lendloop/internal/infra/repository"
	"lendloop/internal/pkg/errs"
	"lendloop/internal/usecase/shared"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxTxAttempts = 4
	backoffBase   = 100 * time.Millisecond
)

var (
	errTxBegin     = errs.New("begin transaction")
	errTxCommit    = errs.New("commit transaction")
	errTxExhausted = errs.New("transaction retries exhausted")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// Within runs fn in a ReadCommitted transaction, retrying serialization
// failures and deadlocks with exponential backoff. The loop rolls back
// explicitly rather than with defer, so retried attempts do not pile up
// open transactions.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
		if err != nil {
			return errs.Mark(err, errTxBegin)
		}

		err = fn(ctx, &pgTx{db: pgxTx})
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTxCommit)
		}

		if rbErr := pgxTx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.Warn("transaction rollback failed", "attempt", attempt, "error", rbErr.Error())
		}

		if !retryable(err) {
			return err
		}
		if attempt == maxTxAttempts {
			slog.Error("transaction abandoned", "attempts", attempt, "error", err.Error())
			return errs.Mark(err, errTxExhausted)
		}

		wait := backoff(attempt)
		slog.Warn("transaction conflict, retrying",
			"attempt", attempt, "wait_ms", wait.Milliseconds(), "error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return errTxExhausted
}

func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.SerializationFailure ||
		pgErr.Code == pgerrcode.DeadlockDetected
}

// backoff doubles per attempt with up to 20% crypto-rand jitter so
// conflicting callers do not retry in lockstep.
func backoff(attempt int) time.Duration {
	wait := backoffBase << (attempt - 1)
	return wait + time.Duration(randBelow(int64(wait/5)))
}

func randBelow(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(buf[:])&(1<<63-1)) % n
}

// pgTx exposes the repositories bound to one open transaction. They are
// built on first use; most command flows touch one or two of them.
type pgTx struct {
	db infra.Querier

	bookingRepo  shared.BookingRepository
	itemRepo     shared.ItemRepository
	userRepo     shared.UserRepository
	commentRepo  shared.CommentRepository
	commandReads shared.CommandReads
}

func (t *pgTx) Bookings() shared.BookingRepository {
	if t.bookingRepo == nil {
		t.bookingRepo = repository.NewBookingRepository(t.db)
	}
	return t.bookingRepo
}

func (t *pgTx) Items() shared.ItemRepository {
	if t.itemRepo == nil {
		t.itemRepo = repository.NewItemRepository(t.db)
	}
	return t.itemRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository(t.db)
	}
	return t.userRepo
}

func (t *pgTx) Comments() shared.CommentRepository {
	if t.commentRepo == nil {
		t.commentRepo = repository.NewCommentRepository(t.db)
	}
	return t.commentRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = newCommandReads(t.db)
	}
	return t.commandReads
}
