// Package leaderboard содержит доменную модель лидерборда Boostly.
package leaderboard

import (
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD SNAPSHOT
// ══════════════════════════════════════════════════════════════════════════════

// Snapshot представляет состояние лидерборда в определённый момент времени.
// Снапшоты используются как кешируемая read-модель: фоновая задача
// пересобирает снапшот из Postgres и кладёт его в Redis, откуда его
// читает HTTP-слой.
type Snapshot struct {
	// GeneratedAt - время сборки снапшота.
	GeneratedAt string `json:"generated_at"`

	// TotalStudents - общее количество студентов в снапшоте.
	TotalStudents int `json:"total_students"`

	// Entries - список записей лидерборда (отсортирован по рангу).
	Entries []*Entry `json:"entries"`
}

// NewSnapshot создаёт новый снапшот из отсортированного списка записей.
func NewSnapshot(entries []*Entry) *Snapshot {
	if entries == nil {
		entries = make([]*Entry, 0)
	}

	return &Snapshot{
		GeneratedAt:   timeNow().Format("2006-01-02T15:04:05Z07:00"),
		TotalStudents: len(entries),
		Entries:       entries,
	}
}

// GetByID возвращает запись по ID студента.
func (s *Snapshot) GetByID(studentID string) *Entry {
	for _, entry := range s.Entries {
		if entry.StudentID == studentID {
			return entry
		}
	}
	return nil
}

// GetRank возвращает ранг студента по его ID.
// Возвращает 0, если студент не найден.
func (s *Snapshot) GetRank(studentID string) Rank {
	entry := s.GetByID(studentID)
	if entry == nil {
		return 0
	}
	return entry.Rank
}

// Top возвращает топ-N записей снапшота.
func (s *Snapshot) Top(n int) []*Entry {
	if n <= 0 {
		return nil
	}
	if n > len(s.Entries) {
		n = len(s.Entries)
	}
	result := make([]*Entry, n)
	copy(result, s.Entries[:n])
	return result
}

// String возвращает строковое представление для логирования.
func (s *Snapshot) String() string {
	return fmt.Sprintf("Snapshot{Students: %d, GeneratedAt: %s}", s.TotalStudents, s.GeneratedAt)
}
