// Package jobs contains implementations of scheduled jobs for Boostly.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/boostly-hq/boostly/internal/application/command"
	"github.com/boostly-hq/boostly/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MONTHLY RESET JOB
// Единственный штатный триггер месячного сброса балансов. Сброс никогда
// не выполняется лениво при чтении: либо этот job, либо admin-эндпоинт.
// ══════════════════════════════════════════════════════════════════════════════

// Locker acquires a named lock so that only one process runs the sweep.
// Implemented by the Redis cache client.
type Locker interface {
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// MonthlyResetJob runs the monthly balance reset sweep.
//
// The sweep itself is idempotent per cycle, so a second run in the same
// month is harmless, but the lock keeps the server and the worker from
// doing the same work twice.
type MonthlyResetJob struct {
	handler *command.RunMonthlyResetHandler
	locker  Locker
	logger  *slog.Logger
	config  MonthlyResetConfig

	lastRunStats atomic.Value // *MonthlyResetStats
}

// MonthlyResetConfig contains configuration for the reset job.
type MonthlyResetConfig struct {
	// LockKey is the distributed lock key. Empty disables locking.
	LockKey string

	// LockTTL bounds how long a crashed holder keeps the lock.
	LockTTL time.Duration

	// Timeout is the maximum duration for the whole sweep.
	Timeout time.Duration
}

// DefaultMonthlyResetConfig returns sensible defaults.
func DefaultMonthlyResetConfig() MonthlyResetConfig {
	return MonthlyResetConfig{
		LockKey: "lock:monthly-reset",
		LockTTL: 10 * time.Minute,
		Timeout: 5 * time.Minute,
	}
}

// MonthlyResetStats contains statistics from a sweep run.
type MonthlyResetStats struct {
	StartedAt     time.Time
	CompletedAt   time.Time
	Duration      time.Duration
	TotalStudents int
	ResetCount    int
	SkippedCount  int
	FailedCount   int
}

// NewMonthlyResetJob creates a new monthly reset job.
// locker may be nil for single-instance deployments.
func NewMonthlyResetJob(
	handler *command.RunMonthlyResetHandler,
	locker Locker,
	logger *slog.Logger,
	config MonthlyResetConfig,
) *MonthlyResetJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &MonthlyResetJob{
		handler: handler,
		locker:  locker,
		logger:  logger,
		config:  config,
	}
}

// Name returns the job name.
func (j *MonthlyResetJob) Name() string {
	return "monthly_reset"
}

// Description returns a human-readable description.
func (j *MonthlyResetJob) Description() string {
	return "Resets student balances to the monthly allowance plus carry-forward"
}

// Run executes the reset sweep.
func (j *MonthlyResetJob) Run(ctx context.Context) error {
	startedAt := time.Now()

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	// Take the distributed lock. Losing the race is not an error: the
	// other instance is doing the work.
	if j.locker != nil && j.config.LockKey != "" {
		acquired, err := j.locker.SetNX(ctx, j.config.LockKey, startedAt.Format(time.RFC3339), j.config.LockTTL)
		if err != nil {
			j.logger.Warn("monthly reset lock unavailable, proceeding without it", "error", err)
		} else if !acquired {
			j.logger.Info("monthly reset already running elsewhere, skipping")
			return nil
		} else {
			defer func() {
				if err := j.locker.Delete(context.Background(), j.config.LockKey); err != nil {
					j.logger.Warn("failed to release monthly reset lock", "error", err)
				}
			}()
		}
	}

	j.logger.Info("starting monthly_reset job", "cycle", timeutil.CycleKey(startedAt))

	result, err := j.handler.Handle(ctx, command.RunMonthlyResetCommand{})
	if err != nil {
		return fmt.Errorf("monthly reset sweep failed: %w", err)
	}

	stats := &MonthlyResetStats{
		StartedAt:     startedAt,
		CompletedAt:   time.Now(),
		TotalStudents: result.TotalStudents,
		ResetCount:    result.ResetCount,
		SkippedCount:  result.SkippedCount,
		FailedCount:   result.FailedCount,
	}
	stats.Duration = stats.CompletedAt.Sub(stats.StartedAt)
	j.lastRunStats.Store(stats)

	j.logger.Info("monthly_reset job completed",
		"duration", stats.Duration.String(),
		"total_students", stats.TotalStudents,
		"reset", stats.ResetCount,
		"skipped", stats.SkippedCount,
		"failed", stats.FailedCount,
	)

	if result.FailedCount > 0 {
		return fmt.Errorf("monthly reset completed with %d failures", result.FailedCount)
	}

	return nil
}

// LastRunStats returns statistics from the last sweep.
func (j *MonthlyResetJob) LastRunStats() *MonthlyResetStats {
	stats := j.lastRunStats.Load()
	if stats == nil {
		return nil
	}
	return stats.(*MonthlyResetStats)
}
