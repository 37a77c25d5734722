package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/boostly-hq/boostly/internal/domain/ledger"
	"github.com/boostly-hq/boostly/internal/domain/shared"
	"github.com/boostly-hq/boostly/internal/domain/student"
	"github.com/boostly-hq/boostly/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MONTHLY RESET (per student)
// Сброс запускается фоновой задачей первого числа месяца или административным
// триггером. Оба пути сходятся сюда; повторный вызов в том же месяце - no-op.
// ══════════════════════════════════════════════════════════════════════════════

// ensureMonthlyReset применяет месячный сброс к заблокированному студенту,
// если его цикл устарел. Возвращает событие сброса или nil, если сброс
// не требовался. Сущность студента меняется in-place; сохранить её обязан
// вызывающий (в той же транзакции, что и запись журнала).
func ensureMonthlyReset(
	ctx context.Context,
	repos Repositories,
	stud *student.Student,
	now time.Time,
) (shared.Event, error) {
	if !stud.NeedsMonthlyReset(now) {
		return nil, nil
	}

	carried := stud.ApplyMonthlyReset(now)

	resetLog, err := ledger.NewMonthlyResetLog(ledger.NewMonthlyResetLogParams{
		ID:             uuid.NewString(),
		StudentID:      stud.ID,
		Month:          int(timeutil.ToKolkata(now).Month()),
		Year:           timeutil.ToKolkata(now).Year(),
		CarriedForward: carried,
	})
	if err != nil {
		return nil, fmt.Errorf("monthly_reset: invalid reset log: %w", err)
	}

	if err := repos.ResetLogs.Create(ctx, resetLog); err != nil {
		return nil, fmt.Errorf("monthly_reset: failed to save reset log: %w", err)
	}

	event := shared.NewMonthlyResetAppliedEvent(
		stud.ID,
		resetLog.Month,
		resetLog.Year,
		carried,
		stud.CurrentBalance.Int(),
	)

	return event, nil
}
