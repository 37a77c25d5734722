package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/boostly-hq/boostly/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// REFRESH LEADERBOARD JOB
// ══════════════════════════════════════════════════════════════════════════════

// RefreshLeaderboardJob rebuilds the leaderboard snapshot from Postgres
// and stores it in the cache. HTTP reads then come from Redis instead of
// running the aggregate query on every request.
type RefreshLeaderboardJob struct {
	leaderboardRepo  leaderboard.Repository
	leaderboardCache leaderboard.Cache
	logger           *slog.Logger
	config           RefreshLeaderboardConfig

	lastRefreshStats atomic.Value // *RefreshStats
}

// RefreshLeaderboardConfig contains configuration for the refresh job.
type RefreshLeaderboardConfig struct {
	// SnapshotSize is the number of top entries in the snapshot.
	SnapshotSize int

	// CacheTTL is the snapshot TTL. Slightly longer than the refresh
	// interval, so a single failed run does not empty the cache.
	CacheTTL time.Duration

	// Timeout is the maximum duration for the refresh operation.
	Timeout time.Duration
}

// DefaultRefreshLeaderboardConfig returns sensible defaults.
func DefaultRefreshLeaderboardConfig() RefreshLeaderboardConfig {
	return RefreshLeaderboardConfig{
		SnapshotSize: 100,
		CacheTTL:     5 * time.Minute,
		Timeout:      time.Minute,
	}
}

// RefreshStats contains statistics from a refresh run.
type RefreshStats struct {
	StartedAt     time.Time
	CompletedAt   time.Time
	Duration      time.Duration
	TotalStudents int
	EntriesCached int
}

// NewRefreshLeaderboardJob creates a new refresh leaderboard job.
func NewRefreshLeaderboardJob(
	leaderboardRepo leaderboard.Repository,
	leaderboardCache leaderboard.Cache,
	logger *slog.Logger,
	config RefreshLeaderboardConfig,
) *RefreshLeaderboardJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &RefreshLeaderboardJob{
		leaderboardRepo:  leaderboardRepo,
		leaderboardCache: leaderboardCache,
		logger:           logger,
		config:           config,
	}
}

// Name returns the job name.
func (j *RefreshLeaderboardJob) Name() string {
	return "refresh_leaderboard"
}

// Description returns a human-readable description.
func (j *RefreshLeaderboardJob) Description() string {
	return "Rebuilds the leaderboard snapshot and stores it in the cache"
}

// Run executes the refresh job.
func (j *RefreshLeaderboardJob) Run(ctx context.Context) error {
	startedAt := time.Now()

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	entries, err := j.leaderboardRepo.GetTop(ctx, j.config.SnapshotSize)
	if err != nil {
		return fmt.Errorf("failed to read leaderboard: %w", err)
	}

	total, err := j.leaderboardRepo.GetTotalCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count students: %w", err)
	}

	snapshot := leaderboard.NewSnapshot(entries)
	snapshot.TotalStudents = total

	if err := j.leaderboardCache.SetSnapshot(ctx, snapshot, j.config.CacheTTL); err != nil {
		return fmt.Errorf("failed to cache snapshot: %w", err)
	}

	stats := &RefreshStats{
		StartedAt:     startedAt,
		CompletedAt:   time.Now(),
		TotalStudents: total,
		EntriesCached: len(entries),
	}
	stats.Duration = stats.CompletedAt.Sub(stats.StartedAt)
	j.lastRefreshStats.Store(stats)

	j.logger.Debug("refresh_leaderboard job completed",
		"duration", stats.Duration.String(),
		"entries", stats.EntriesCached,
		"total_students", stats.TotalStudents,
	)

	return nil
}

// LastRefreshStats returns statistics from the last refresh.
func (j *RefreshLeaderboardJob) LastRefreshStats() *RefreshStats {
	stats := j.lastRefreshStats.Load()
	if stats == nil {
		return nil
	}
	return stats.(*RefreshStats)
}
