package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boostly-hq/boostly/internal/domain/leaderboard"
	"github.com/boostly-hq/boostly/pkg/circuitbreaker"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE
// Снапшот лидерборда хранится одним JSON-значением. Доступ к Redis идёт
// через circuit breaker: если Redis лежит, чтения сразу возвращают
// промах и запрос уходит в Postgres, вместо того чтобы ждать таймаутов
// на каждом запросе лидерборда.
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardCache implements leaderboard.Cache on top of the generic
// Redis Cache.
type LeaderboardCache struct {
	cache   *Cache
	breaker *circuitbreaker.CircuitBreaker
}

// NewLeaderboardCache creates a new LeaderboardCache.
// onStateChange may be nil; it is called when the breaker trips or recovers.
func NewLeaderboardCache(cache *Cache, onStateChange func(name string, from, to circuitbreaker.State)) *LeaderboardCache {
	breaker := circuitbreaker.New(
		"redis-leaderboard",
		circuitbreaker.WithFailureThreshold(3),
		circuitbreaker.WithSuccessThreshold(1),
		circuitbreaker.WithTimeout(15*time.Second),
		circuitbreaker.WithOnStateChange(onStateChange),
		// A miss is a normal answer, not a Redis failure.
		circuitbreaker.WithIsFailure(func(err error) bool {
			return !errors.Is(err, ErrCacheMiss)
		}),
	)

	return &LeaderboardCache{
		cache:   cache,
		breaker: breaker,
	}
}

// GetSnapshot returns the cached leaderboard snapshot.
//
// Returns leaderboard.ErrSnapshotNotFound both on a plain cache miss and
// when the circuit is open: either way the caller falls through to storage.
func (c *LeaderboardCache) GetSnapshot(ctx context.Context) (*leaderboard.Snapshot, error) {
	var snapshot leaderboard.Snapshot

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.cache.Get(ctx, LeaderboardSnapshotKey(), &snapshot)
	})
	if err != nil {
		if errors.Is(err, ErrCacheMiss) ||
			errors.Is(err, circuitbreaker.ErrCircuitOpen) ||
			errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			return nil, leaderboard.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read leaderboard snapshot: %w", err)
	}

	return &snapshot, nil
}

// SetSnapshot stores the snapshot with the given TTL.
// Uses TTLSnapshotCache when ttl is zero.
func (c *LeaderboardCache) SetSnapshot(ctx context.Context, snapshot *leaderboard.Snapshot, ttl time.Duration) error {
	if snapshot == nil {
		return ErrCacheNilValue
	}
	if ttl <= 0 {
		ttl = TTLSnapshotCache
	}

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.cache.Set(ctx, LeaderboardSnapshotKey(), snapshot, ttl)
	})
	if err != nil {
		return fmt.Errorf("failed to store leaderboard snapshot: %w", err)
	}

	return nil
}

// Invalidate drops the cached snapshot.
func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.cache.Delete(ctx, LeaderboardSnapshotKey())
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate leaderboard snapshot: %w", err)
	}

	return nil
}
