package eventhandler

import (
	"context"
	"log/slog"
	"time"

	"github.com/boostly-hq/boostly/internal/domain/shared"
	"github.com/boostly-hq/boostly/internal/domain/student"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON CREDITS REDEEMED HANDLER
// Погашение списывает только расходуемый баланс, пожизненный счёт не меняется,
// поэтому лидерборд не трогаем - устаревает только карточка студента.
// ═══════════════════════════════════════════════════════════════════════════

// OnCreditsRedeemedHandler обрабатывает событие погашения кредитов.
type OnCreditsRedeemedHandler struct {
	studentCache student.Cache
	logger       *slog.Logger
	timeout      time.Duration
}

// NewOnCreditsRedeemedHandler создаёт новый обработчик.
func NewOnCreditsRedeemedHandler(studentCache student.Cache, logger *slog.Logger) *OnCreditsRedeemedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnCreditsRedeemedHandler{
		studentCache: studentCache,
		logger:       logger.With("handler", "on_credits_redeemed"),
		timeout:      5 * time.Second,
	}
}

// Handle обрабатывает событие погашения кредитов.
// Реализует интерфейс shared.EventHandler.
func (h *OnCreditsRedeemedHandler) Handle(event shared.Event) error {
	redeemEvent, ok := event.(shared.CreditsRedeemedEvent)
	if !ok {
		h.logger.Warn("received non-CreditsRedeemedEvent",
			"event_type", event.EventType(),
		)
		return nil
	}

	if h.studentCache == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.studentCache.Invalidate(ctx, redeemEvent.StudentID); err != nil {
		h.logger.Warn("failed to invalidate student cache",
			"student_id", redeemEvent.StudentID,
			"error", err,
		)
	}

	h.logger.Debug("student cache invalidated after redemption",
		"student_id", redeemEvent.StudentID,
		"credits_redeemed", redeemEvent.CreditsRedeemed,
		"voucher_value_inr", redeemEvent.VoucherValueINR,
	)

	return nil
}
