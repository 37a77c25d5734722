package redis

import (
	"context"
	"time"

	"github.com/boostly-hq/boostly/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT CACHE
// Кеш карточек студентов. Инвалидируется обработчиками событий после
// каждой операции, меняющей баланс; TTL страхует от пропущенной
// инвалидации.
// ══════════════════════════════════════════════════════════════════════════════

// StudentCache implements student.Cache on top of the generic Redis Cache.
type StudentCache struct {
	cache *Cache
}

// NewStudentCache creates a new StudentCache.
func NewStudentCache(cache *Cache) *StudentCache {
	return &StudentCache{cache: cache}
}

// Get returns a cached student. Returns ErrCacheMiss if absent.
func (c *StudentCache) Get(ctx context.Context, studentID string) (*student.Student, error) {
	var s student.Student
	if err := c.cache.Get(ctx, StudentKey(studentID), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Set stores a student with the given TTL.
// Uses TTLStudentCache when ttl is zero.
func (c *StudentCache) Set(ctx context.Context, s *student.Student, ttl time.Duration) error {
	if s == nil {
		return ErrCacheNilValue
	}
	if ttl <= 0 {
		ttl = TTLStudentCache
	}
	return c.cache.Set(ctx, StudentKey(s.ID), s, ttl)
}

// Invalidate removes a student's cache entry.
func (c *StudentCache) Invalidate(ctx context.Context, studentID string) error {
	return c.cache.Delete(ctx, StudentKey(studentID))
}

// InvalidateAll clears the whole student cache.
// Used after the monthly reset, when every balance changes at once.
func (c *StudentCache) InvalidateAll(ctx context.Context) error {
	return c.cache.DeleteByPattern(ctx, PrefixStudent+"*")
}
