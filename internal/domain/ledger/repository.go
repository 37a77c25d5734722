package ledger

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// RedemptionRepository определяет операции для работы с redemption'ами.
type RedemptionRepository interface {
	// Create сохраняет новый redemption.
	Create(ctx context.Context, redemption *Redemption) error

	// GetByID возвращает redemption по идентификатору.
	// Возвращает shared.ErrNotFound, если запись не найдена.
	GetByID(ctx context.Context, id string) (*Redemption, error)

	// GetByStudent возвращает redemption'ы студента, новые первыми.
	GetByStudent(ctx context.Context, studentID string, limit int) ([]*Redemption, error)

	// TotalRedeemed возвращает суммарное число списанных кредитов студента.
	TotalRedeemed(ctx context.Context, studentID string) (int, error)
}

// ResetLogRepository определяет операции для журнала месячных сбросов.
type ResetLogRepository interface {
	// Create сохраняет запись о выполненном сбросе.
	Create(ctx context.Context, log *MonthlyResetLog) error

	// GetByStudent возвращает историю сбросов студента, новые первыми.
	GetByStudent(ctx context.Context, studentID string, limit int) ([]*MonthlyResetLog, error)

	// GetByCycle возвращает все сбросы за указанный цикл (год, месяц).
	GetByCycle(ctx context.Context, year int, month time.Month) ([]*MonthlyResetLog, error)

	// CountByCycle возвращает число сбросов за указанный цикл.
	CountByCycle(ctx context.Context, year int, month time.Month) (int, error)
}
