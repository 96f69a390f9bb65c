package shared

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rentyard/internal/infra/db"
	"rentyard/internal/pkg/errs"
	"rentyard/internal/pkg/retry"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"

	maxTxAttempts = 3
	txBackoffBase = 100 * time.Millisecond
)

var (
	ErrTransactionBegin  = errs.New("failed to begin transaction")
	ErrTransactionCommit = errs.New("failed to commit transaction")
)

// TxManager runs a function inside one atomic transaction. Booking writes go
// through WithinSerializable so the overlap re-check and the insert cannot be
// interleaved with another writer; serialization aborts are retried because
// re-running the same function against fresh state is safe.
type TxManager interface {
	WithinSerializable(ctx context.Context, fn func(ctx context.Context, q db.Queryer) error) error
	Within(ctx context.Context, fn func(ctx context.Context, q db.Queryer) error) error
}

type PgxTxManager struct {
	pool *pgxpool.Pool
}

func NewPgxTxManager(pool *pgxpool.Pool) TxManager {
	return &PgxTxManager{pool: pool}
}

func (m *PgxTxManager) WithinSerializable(ctx context.Context, fn func(ctx context.Context, q db.Queryer) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.Serializable}

	attempt := 0
	return retry.Do(ctx, maxTxAttempts, retry.ExponentialBackoff(txBackoffBase), isRetryableTxError, func(ctx context.Context) error {
		attempt++
		err := m.runInTx(ctx, opts, fn)
		if err != nil && isRetryableTxError(err) {
			slog.Warn("retrying transaction after transient abort",
				"attempt", attempt,
				"error", err.Error())
		}
		return err
	})
}

func (m *PgxTxManager) Within(ctx context.Context, fn func(ctx context.Context, q db.Queryer) error) error {
	return m.runInTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (m *PgxTxManager) runInTx(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, q db.Queryer) error) error {
	tx, err := m.pool.BeginTx(ctx, opts)
	if err != nil {
		return errs.Mark(err, ErrTransactionBegin)
	}

	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback transaction", "error", rollbackErr.Error())
			}
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.Mark(err, ErrTransactionCommit)
	}
	return nil
}

func isRetryableTxError(err error) bool {
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
