// Package eventhandler содержит обработчики доменных событий.
//
// Обработчики подписываются на внутреннюю шину событий и выполняют
// побочные эффекты, которые не должны жить в транзакции команды:
// инвалидацию кешей и сопутствующее логирование. События публикуются
// только после коммита, поэтому обработчики никогда не видят перевод,
// который позже откатился.
package eventhandler

import (
	"context"
	"log/slog"
	"time"

	"github.com/boostly-hq/boostly/internal/domain/leaderboard"
	"github.com/boostly-hq/boostly/internal/domain/shared"
	"github.com/boostly-hq/boostly/internal/domain/student"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON RECOGNITION CREATED HANDLER
// Перевод меняет баланс обеих сторон и пожизненный счёт получателя,
// значит устаревают карточки обоих студентов и снапшот лидерборда.
// ═══════════════════════════════════════════════════════════════════════════

// OnRecognitionCreatedHandler обрабатывает событие создания признания.
type OnRecognitionCreatedHandler struct {
	studentCache     student.Cache
	leaderboardCache leaderboard.Cache
	logger           *slog.Logger
	timeout          time.Duration
}

// NewOnRecognitionCreatedHandler создаёт новый обработчик.
// Любой из кешей может быть nil - соответствующая инвалидация пропускается.
func NewOnRecognitionCreatedHandler(
	studentCache student.Cache,
	leaderboardCache leaderboard.Cache,
	logger *slog.Logger,
) *OnRecognitionCreatedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnRecognitionCreatedHandler{
		studentCache:     studentCache,
		leaderboardCache: leaderboardCache,
		logger:           logger.With("handler", "on_recognition_created"),
		timeout:          5 * time.Second,
	}
}

// Handle обрабатывает событие создания признания.
// Реализует интерфейс shared.EventHandler.
func (h *OnRecognitionCreatedHandler) Handle(event shared.Event) error {
	recEvent, ok := event.(shared.RecognitionCreatedEvent)
	if !ok {
		h.logger.Warn("received non-RecognitionCreatedEvent",
			"event_type", event.EventType(),
		)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if h.studentCache != nil {
		for _, id := range []string{recEvent.SenderID, recEvent.ReceiverID} {
			if err := h.studentCache.Invalidate(ctx, id); err != nil {
				h.logger.Warn("failed to invalidate student cache",
					"student_id", id,
					"error", err,
				)
			}
		}
	}

	if h.leaderboardCache != nil {
		if err := h.leaderboardCache.Invalidate(ctx); err != nil {
			h.logger.Warn("failed to invalidate leaderboard cache",
				"error", err,
			)
		}
	}

	h.logger.Debug("recognition caches invalidated",
		"recognition_id", recEvent.RecognitionID,
		"sender_id", recEvent.SenderID,
		"receiver_id", recEvent.ReceiverID,
		"credits", recEvent.Credits,
	)

	return nil
}
