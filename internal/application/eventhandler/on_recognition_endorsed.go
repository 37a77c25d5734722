package eventhandler

import (
	"context"
	"log/slog"
	"time"

	"github.com/boostly-hq/boostly/internal/domain/leaderboard"
	"github.com/boostly-hq/boostly/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON RECOGNITION ENDORSED HANDLER
// Подтверждение не трогает балансы, но увеличивает endorsement_count
// в строке лидерборда получателя - устаревает только снапшот.
// ═══════════════════════════════════════════════════════════════════════════

// OnRecognitionEndorsedHandler обрабатывает событие подтверждения признания.
type OnRecognitionEndorsedHandler struct {
	leaderboardCache leaderboard.Cache
	logger           *slog.Logger
	timeout          time.Duration
}

// NewOnRecognitionEndorsedHandler создаёт новый обработчик.
// Кеш может быть nil - тогда инвалидация пропускается.
func NewOnRecognitionEndorsedHandler(
	leaderboardCache leaderboard.Cache,
	logger *slog.Logger,
) *OnRecognitionEndorsedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnRecognitionEndorsedHandler{
		leaderboardCache: leaderboardCache,
		logger:           logger.With("handler", "on_recognition_endorsed"),
		timeout:          5 * time.Second,
	}
}

// Handle обрабатывает событие подтверждения признания.
// Реализует интерфейс shared.EventHandler.
func (h *OnRecognitionEndorsedHandler) Handle(event shared.Event) error {
	endEvent, ok := event.(shared.RecognitionEndorsedEvent)
	if !ok {
		h.logger.Warn("received non-RecognitionEndorsedEvent",
			"event_type", event.EventType(),
		)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if h.leaderboardCache != nil {
		if err := h.leaderboardCache.Invalidate(ctx); err != nil {
			h.logger.Warn("failed to invalidate leaderboard cache",
				"error", err,
			)
		}
	}

	h.logger.Debug("leaderboard cache invalidated after endorsement",
		"endorsement_id", endEvent.EndorsementID,
		"recognition_id", endEvent.RecognitionID,
		"endorser_id", endEvent.EndorserID,
	)

	return nil
}
