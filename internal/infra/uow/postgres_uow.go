package uow

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"parking-reservation/internal/infra/repository"
	sqlc "parking-reservation/internal/infra/sqlc/generated"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

// RetryPolicy bounds how often a transaction is replayed after a serialization
// failure or deadlock. Waits double from Base with up to 20% jitter.
type RetryPolicy struct {
	MaxRetries int
	Base       time.Duration
}

var DefaultRetryPolicy = RetryPolicy{MaxRetries: 3, Base: 100 * time.Millisecond}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	wait := time.Duration(1<<attempt) * p.Base
	if jitter := int64(wait / 5); jitter > 0 {
		wait += time.Duration(rand.Int64N(jitter))
	}
	return wait
}

type PostgresUoW struct {
	pool   *pgxpool.Pool
	q      *sqlc.Queries
	policy RetryPolicy
}

func NewPostgresUoW(pool *pgxpool.Pool, q *sqlc.Queries) shared.UnitOfWork {
	return &PostgresUoW{
		pool:   pool,
		q:      q,
		policy: DefaultRetryPolicy,
	}
}

// Within uses ReadCommitted; bookings serialize on the spot row lock instead of the isolation level.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	options := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

	var err error
	for attempt := 0; attempt <= u.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := u.policy.backoff(attempt - 1)
			slog.Warn("retrying transaction",
				"attempt", attempt+1,
				"wait_ms", wait.Milliseconds(),
				"error", err.Error())

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		err = u.attempt(ctx, options, fn)
		if err == nil || !isRetryableError(err) {
			return err
		}
	}

	slog.Error("transaction failed after max retries",
		"attempts", u.policy.MaxRetries+1,
		"error", err.Error())
	return errs.Mark(err, errMaxRetriesExceeded)
}

// attempt runs fn in one transaction; rollback is explicit so retries do not stack defers.
func (u *PostgresUoW) attempt(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	err = fn(ctx, &pgTx{dbtx: pgxTx, uow: u})
	if err == nil {
		if err = pgxTx.Commit(ctx); err == nil {
			return nil
		}
		err = errs.Mark(err, errTransactionCommit)
	}

	if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
		slog.Warn("rollback failed", "error", rollbackErr.Error())
	}
	return err
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx sqlc.DBTX
	uow  *PostgresUoW

	// Lazy-initialized repositories
	spotRepo         shared.SpotRepository
	locationRepo     shared.LocationRepository
	reservationRepo  shared.ReservationRepository
	chargeRepo       shared.ChargeRepository
	idempotencyRepo  shared.IdempotencyRepository
	notificationRepo shared.NotificationRepository
	userRepo         shared.UserRepository
}

func (t *pgTx) Spots() shared.SpotRepository {
	if t.spotRepo == nil {
		t.spotRepo = repository.NewSpotRepository(t.uow.q, t.dbtx)
	}
	return t.spotRepo
}

func (t *pgTx) Locations() shared.LocationRepository {
	if t.locationRepo == nil {
		t.locationRepo = repository.NewLocationRepository(t.uow.q, t.dbtx)
	}
	return t.locationRepo
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	if t.reservationRepo == nil {
		t.reservationRepo = repository.NewReservationRepository(t.uow.q, t.dbtx)
	}
	return t.reservationRepo
}

func (t *pgTx) Charges() shared.ChargeRepository {
	if t.chargeRepo == nil {
		t.chargeRepo = repository.NewChargeRepository(t.uow.q, t.dbtx)
	}
	return t.chargeRepo
}

func (t *pgTx) Idempotency() shared.IdempotencyRepository {
	if t.idempotencyRepo == nil {
		t.idempotencyRepo = repository.NewIdempotencyRepository(t.uow.q, t.dbtx)
	}
	return t.idempotencyRepo
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notificationRepo == nil {
		t.notificationRepo = repository.NewNotificationRepository(t.uow.q, t.dbtx)
	}
	return t.notificationRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository(t.uow.q, t.dbtx)
	}
	return t.userRepo
}
