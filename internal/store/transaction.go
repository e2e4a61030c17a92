package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/acressity/acressity-api/internal/platform/logger"
)

// TxFn is a unit of work run inside a transaction. Returning an error rolls
// the transaction back; returning nil commits it.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// StoresFn is a unit of work run against transaction-bound stores.
type StoresFn func(ctx context.Context, stores Stores) error

// Atomically runs fn with every store bound to one transaction. Row locks
// taken through the bound stores (GetForUpdate and friends) are held until
// fn returns.
func Atomically(ctx context.Context, db *sql.DB, stores Stores, fn StoresFn) error {
	return RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, stores.WithTx(tx))
	})
}

// RunInTransaction runs fn inside a new transaction on db.
//
// A panic in fn rolls back and is re-raised. A rollback the driver already
// performed, because ctx was cancelled, is not reported as a second failure.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx).With(slog.String("component", "tx"))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	finished := false
	defer func() {
		if finished {
			return
		}
		p := recover()
		_ = rollback(log, tx, fmt.Errorf("panic: %v", p))
		// ALLOW-PANIC: re-raise after the rollback
		panic(p)
	}()

	if err := fn(ctx, tx); err != nil {
		finished = true
		return rollback(log, tx, err)
	}
	finished = true

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// rollback aborts tx on behalf of cause and returns the error to report.
func rollback(log *slog.Logger, tx *sql.Tx, cause error) error {
	err := tx.Rollback()
	if err == nil || errors.Is(err, sql.ErrTxDone) {
		log.Debug("transaction rolled back", slog.Any("cause", cause))
		return cause
	}
	log.Error("failed to roll back transaction",
		slog.Any("rollback_error", err), slog.Any("cause", cause))
	return fmt.Errorf("roll back transaction: %v (cause: %w)", err, cause)
}
