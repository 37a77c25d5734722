package eventhandler

import (
	"context"
	"log/slog"
	"time"

	"github.com/boostly-hq/boostly/internal/domain/shared"
	"github.com/boostly-hq/boostly/internal/domain/student"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON MONTHLY RESET APPLIED HANDLER
// Сброс обновляет баланс и месячный счётчик студента. Событие приходит
// по одному на студента, так что инвалидация точечная.
// ═══════════════════════════════════════════════════════════════════════════

// OnMonthlyResetAppliedHandler обрабатывает событие месячного сброса.
type OnMonthlyResetAppliedHandler struct {
	studentCache student.Cache
	logger       *slog.Logger
	timeout      time.Duration
}

// NewOnMonthlyResetAppliedHandler создаёт новый обработчик.
func NewOnMonthlyResetAppliedHandler(studentCache student.Cache, logger *slog.Logger) *OnMonthlyResetAppliedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnMonthlyResetAppliedHandler{
		studentCache: studentCache,
		logger:       logger.With("handler", "on_monthly_reset_applied"),
		timeout:      5 * time.Second,
	}
}

// Handle обрабатывает событие месячного сброса.
// Реализует интерфейс shared.EventHandler.
func (h *OnMonthlyResetAppliedHandler) Handle(event shared.Event) error {
	resetEvent, ok := event.(shared.MonthlyResetAppliedEvent)
	if !ok {
		h.logger.Warn("received non-MonthlyResetAppliedEvent",
			"event_type", event.EventType(),
		)
		return nil
	}

	if h.studentCache == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.studentCache.Invalidate(ctx, resetEvent.StudentID); err != nil {
		h.logger.Warn("failed to invalidate student cache",
			"student_id", resetEvent.StudentID,
			"error", err,
		)
	}

	h.logger.Debug("student cache invalidated after monthly reset",
		"student_id", resetEvent.StudentID,
		"carried_forward", resetEvent.CarriedForward,
		"new_balance", resetEvent.NewBalance,
	)

	return nil
}
