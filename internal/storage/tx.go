package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	txMaxAttempts = 3
	txBaseBackoff = 10 * time.Millisecond
)

// PgxTxRunner выполняет функции в рамках транзакций PostgreSQL.
// При конфликте сериализации транзакция повторяется целиком, поэтому
// переданная функция не должна иметь побочных эффектов вне транзакции.
type PgxTxRunner struct {
	pool *pgxpool.Pool
}

// NewPgxTxRunner создаёт новый PgxTxRunner.
func NewPgxTxRunner(pool *pgxpool.Pool) *PgxTxRunner {
	return &PgxTxRunner{pool: pool}
}

// WithTx выполняет fn в транзакции: commit при nil, rollback при ошибке.
func (r *PgxTxRunner) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var lastErr error
	backoff := txBaseBackoff

	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isRetriable(err) {
			return err
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return fmt.Errorf("transaction retries exhausted: %w", lastErr)
}

func (r *PgxTxRunner) runOnce(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// isRetriable распознаёт коды PostgreSQL, при которых транзакцию можно повторить.
func isRetriable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
