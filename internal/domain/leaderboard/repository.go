// Package leaderboard содержит доменную модель лидерборда Boostly.
package leaderboard

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD REPOSITORY INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет контракт для чтения лидерборда.
// Реализация находится в infrastructure слое (PostgreSQL).
//
// Лидерборд - чистая read-модель: он агрегирует данные студентов,
// признаний и endorsement'ов, но сам ничего не записывает.
type Repository interface {
	// GetTop возвращает топ-N студентов по полученным кредитам.
	// Порядок: credits_received_total DESC, id ASC. Студенты без
	// признаний включаются с нулевыми счётчиками.
	GetTop(ctx context.Context, limit int) ([]*Entry, error)

	// GetStudentEntry возвращает запись конкретного студента с его рангом.
	// Возвращает shared.ErrStudentNotFound, если студент не найден.
	GetStudentEntry(ctx context.Context, studentID string) (*Entry, error)

	// GetTotalCount возвращает общее количество студентов в лидерборде.
	GetTotalCount(ctx context.Context) (int, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Cache определяет контракт для кеширования лидерборда.
// Отделён от основного репозитория для гибкости (Redis, in-memory).
type Cache interface {
	// GetSnapshot возвращает закешированный снапшот лидерборда.
	// Возвращает ErrSnapshotNotFound, если кеш пуст или устарел.
	GetSnapshot(ctx context.Context) (*Snapshot, error)

	// SetSnapshot сохраняет снапшот в кеш с TTL.
	SetSnapshot(ctx context.Context, snapshot *Snapshot, ttl time.Duration) error

	// Invalidate сбрасывает кеш лидерборда.
	Invalidate(ctx context.Context) error
}
