package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/boostly-hq/boostly/internal/application/command"
	"github.com/boostly-hq/boostly/internal/domain/shared"
	"github.com/boostly-hq/boostly/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// TRANSACTOR
// Выполняет команду в одной транзакции Postgres, выдавая ей tx-scoped
// репозитории. Row-level блокировки берут GetByIDForUpdate репозиториев;
// сериализационные сбои и deadlock'и прозрачно повторяются.
// ══════════════════════════════════════════════════════════════════════════════

// Transactor implements command.Transactor for PostgreSQL.
type Transactor struct {
	conn    *Connection
	retrier *retry.Retrier
}

// NewTransactor creates a new Transactor.
func NewTransactor(conn *Connection) *Transactor {
	return &Transactor{
		conn:    conn,
		retrier: retry.DatabaseRetrier(),
	}
}

// WithinTransaction runs fn inside a transaction. The fn sees repositories
// bound to that transaction; commit happens only when fn returns nil.
//
// Serialization failures and deadlocks are retried with backoff; the whole
// fn re-executes, so it must not have side effects outside the repositories.
// If retries are exhausted, the caller gets shared.ErrTransactionConflict.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos command.Repositories) error) error {
	operation := func(ctx context.Context) error {
		err := t.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
			repos := command.Repositories{
				Students:     newStudentRepositoryWithQuerier(tx),
				Recognitions: newRecognitionRepositoryWithQuerier(tx),
				Endorsements: newEndorsementRepositoryWithQuerier(tx),
				Redemptions:  newRedemptionRepositoryWithQuerier(tx),
				ResetLogs:    newResetLogRepositoryWithQuerier(tx),
			}
			return fn(ctx, repos)
		})
		if err == nil {
			return nil
		}

		if IsSerializationFailure(err) {
			return retry.Retryable(shared.WrapError(
				"postgres", "WithinTransaction",
				shared.ErrTransactionConflict,
				"transaction conflict",
				err,
			))
		}

		return retry.Permanent(err)
	}

	return t.retrier.Do(ctx, operation)
}
