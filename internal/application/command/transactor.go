// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"

	"github.com/boostly-hq/boostly/internal/domain/ledger"
	"github.com/boostly-hq/boostly/internal/domain/recognition"
	"github.com/boostly-hq/boostly/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// TRANSACTION BOUNDARY
// Команды, меняющие несколько строк (перевод кредитов, redemption, месячный
// сброс), выполняются в одной транзакции хранилища. Transactor выдаёт
// обработчику набор репозиториев, привязанных к этой транзакции.
// ══════════════════════════════════════════════════════════════════════════════

// Repositories - набор репозиториев, разделяющих одну транзакцию.
type Repositories struct {
	Students     student.Repository
	Recognitions recognition.Repository
	Endorsements recognition.EndorsementRepository
	Redemptions  ledger.RedemptionRepository
	ResetLogs    ledger.ResetLogRepository
}

// Transactor выполняет fn в рамках одной транзакции хранилища.
// Транзакция коммитится, если fn вернула nil, и откатывается иначе.
// Реализация (infrastructure/persistence/postgres) ретраит транзакцию
// при конфликтах сериализации и мапит их в shared.ErrTransactionConflict.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
