package command

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/boostly-hq/boostly/internal/domain/shared"
	"github.com/boostly-hq/boostly/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// RUN MONTHLY RESET COMMAND
// Обходит всех студентов и выполняет каждому месячный сброс, если его цикл
// устарел. Каждый студент обрабатывается в собственной транзакции: ошибка
// на одном не откатывает остальных. Повторный запуск в том же месяце
// идемпотентен - второй проход сбрасывает 0 студентов.
// ══════════════════════════════════════════════════════════════════════════════

// RunMonthlyResetCommand contains the data to run the monthly reset sweep.
type RunMonthlyResetCommand struct {
	// Now is the reset instant. Zero means time.Now().UTC().
	// Injected for tests and for replaying a missed cycle boundary.
	Now time.Time

	// CorrelationID for tracing.
	CorrelationID string
}

// RunMonthlyResetResult contains the outcome of the sweep.
type RunMonthlyResetResult struct {
	// TotalStudents is the number of students examined.
	TotalStudents int

	// ResetCount is the number of students actually reset.
	ResetCount int

	// SkippedCount is the number of students already in the current cycle.
	SkippedCount int

	// FailedCount is the number of students whose reset failed.
	FailedCount int

	// Errors maps student ID to the error that stopped their reset.
	Errors map[string]error

	// Duration is how long the sweep took.
	Duration time.Duration
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RunMonthlyResetHandler handles the RunMonthlyResetCommand.
type RunMonthlyResetHandler struct {
	studentRepo    student.Repository
	tx             Transactor
	eventPublisher shared.EventPublisher
	logger         *slog.Logger
}

// NewRunMonthlyResetHandler creates a new RunMonthlyResetHandler.
func NewRunMonthlyResetHandler(
	studentRepo student.Repository,
	tx Transactor,
	eventPublisher shared.EventPublisher,
	logger *slog.Logger,
) *RunMonthlyResetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if eventPublisher == nil {
		eventPublisher = shared.NoopPublisher{}
	}

	return &RunMonthlyResetHandler{
		studentRepo:    studentRepo,
		tx:             tx,
		eventPublisher: eventPublisher,
		logger:         logger.With("handler", "run_monthly_reset"),
	}
}

// Handle executes the monthly reset sweep.
func (h *RunMonthlyResetHandler) Handle(ctx context.Context, cmd RunMonthlyResetCommand) (*RunMonthlyResetResult, error) {
	start := time.Now()

	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	ids, err := h.studentRepo.GetAllIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("run_monthly_reset: failed to list students: %w", err)
	}

	result := &RunMonthlyResetResult{
		TotalStudents: len(ids),
		Errors:        make(map[string]error),
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		event, err := h.resetOne(ctx, id, now)
		if err != nil {
			result.FailedCount++
			result.Errors[id] = err
			h.logger.Error("monthly reset failed for student",
				"student_id", id,
				"error", err,
			)
			continue
		}

		if event == nil {
			result.SkippedCount++
			continue
		}

		result.ResetCount++

		if cmd.CorrelationID != "" {
			if resetEvent, ok := event.(shared.MonthlyResetAppliedEvent); ok {
				resetEvent.BaseEvent = resetEvent.BaseEvent.WithCorrelationID(cmd.CorrelationID)
				event = resetEvent
			}
		}
		_ = h.eventPublisher.Publish(event)
	}

	result.Duration = time.Since(start)

	h.logger.Info("monthly reset sweep finished",
		"total", result.TotalStudents,
		"reset", result.ResetCount,
		"skipped", result.SkippedCount,
		"failed", result.FailedCount,
		"duration", result.Duration,
	)

	return result, nil
}

// resetOne выполняет сброс одного студента в отдельной транзакции.
// Возвращает событие сброса или nil, если цикл студента уже текущий.
func (h *RunMonthlyResetHandler) resetOne(ctx context.Context, studentID string, now time.Time) (shared.Event, error) {
	var event shared.Event

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context, repos Repositories) error {
		stud, err := repos.Students.GetByIDForUpdate(ctx, studentID)
		if err != nil {
			return err
		}

		event, err = ensureMonthlyReset(ctx, repos, stud, now)
		if err != nil {
			return err
		}
		if event == nil {
			return nil
		}

		return repos.Students.Update(ctx, stud)
	})
	if err != nil {
		return nil, err
	}

	return event, nil
}
