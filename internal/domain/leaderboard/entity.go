// Package leaderboard содержит доменную модель лидерборда Boostly.
// Лидерборд ранжирует студентов по пожизненному счёту полученного признания,
// а не по расходуемому балансу: потраченные и обменянные кредиты позицию
// не уменьшают.
package leaderboard

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Rank представляет позицию студента в лидерборде.
// Rank начинается с 1 (первое место).
type Rank int

// IsValid проверяет, что ранг положительный.
func (r Rank) IsValid() bool {
	return r > 0
}

// IsTop10 возвращает true, если студент в топ-10.
func (r Rank) IsTop10() bool {
	return r >= 1 && r <= 10
}

// String возвращает строковое представление ранга.
func (r Rank) String() string {
	return fmt.Sprintf("#%d", r)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD ENTRY
// ══════════════════════════════════════════════════════════════════════════════

// Entry представляет одну запись в лидерборде.
// Содержит всю информацию для отображения студента в рейтинге.
type Entry struct {
	// Rank - текущая позиция в рейтинге.
	Rank Rank

	// StudentID - внутренний идентификатор студента.
	StudentID string

	// Name - отображаемое имя студента.
	Name string

	// CreditsReceivedTotal - пожизненный счёт полученного признания.
	CreditsReceivedTotal int

	// RecognitionCount - число полученных признаний.
	RecognitionCount int

	// EndorsementCount - суммарное число endorsement'ов по всем
	// полученным признаниям студента.
	EndorsementCount int
}

// NewEntry создаёт новую запись лидерборда с валидацией.
func NewEntry(rank Rank, studentID, name string, creditsReceived, recognitions, endorsements int) (*Entry, error) {
	if !rank.IsValid() {
		return nil, ErrInvalidRank
	}
	if studentID == "" {
		return nil, ErrInvalidStudentID
	}
	if creditsReceived < 0 || recognitions < 0 || endorsements < 0 {
		return nil, ErrNegativeCount
	}

	return &Entry{
		Rank:                 rank,
		StudentID:            studentID,
		Name:                 name,
		CreditsReceivedTotal: creditsReceived,
		RecognitionCount:     recognitions,
		EndorsementCount:     endorsements,
	}, nil
}

// Clone создаёт копию записи.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}

// String возвращает строковое представление для логирования.
func (e *Entry) String() string {
	return fmt.Sprintf(
		"Entry{Rank: %d, Name: %s, Received: %d, Recognitions: %d, Endorsements: %d}",
		e.Rank, e.Name, e.CreditsReceivedTotal, e.RecognitionCount, e.EndorsementCount,
	)
}

// ══════════════════════════════════════════════════════════════════════════════
// RANKING (Ranked List)
// ══════════════════════════════════════════════════════════════════════════════

// Ranking представляет полный отсортированный список студентов.
// Это вспомогательная структура для построения лидерборда в памяти;
// основной путь чтения идёт напрямую из SQL с тем же порядком сортировки.
type Ranking struct {
	entries []*Entry
	byID    map[string]*Entry
}

// NewRanking создаёт пустой Ranking.
func NewRanking() *Ranking {
	return &Ranking{
		entries: make([]*Entry, 0),
		byID:    make(map[string]*Entry),
	}
}

// Add добавляет запись в рейтинг (без автоматической сортировки).
func (r *Ranking) Add(entry *Entry) error {
	if entry == nil {
		return ErrNilEntry
	}
	if _, exists := r.byID[entry.StudentID]; exists {
		return ErrDuplicateStudent
	}

	r.entries = append(r.entries, entry)
	r.byID[entry.StudentID] = entry
	return nil
}

// Sort сортирует записи по полученным кредитам (по убыванию) и присваивает
// ранги. При равном счёте порядок детерминированный: по возрастанию ID.
// Ранги строгие, без разделения мест.
func (r *Ranking) Sort() {
	sort.Slice(r.entries, func(i, j int) bool {
		if r.entries[i].CreditsReceivedTotal != r.entries[j].CreditsReceivedTotal {
			return r.entries[i].CreditsReceivedTotal > r.entries[j].CreditsReceivedTotal
		}
		return r.entries[i].StudentID < r.entries[j].StudentID
	})

	for i, entry := range r.entries {
		entry.Rank = Rank(i + 1)
	}
}

// GetByID возвращает запись по ID студента.
func (r *Ranking) GetByID(studentID string) *Entry {
	return r.byID[studentID]
}

// Top возвращает топ-N записей.
func (r *Ranking) Top(n int) []*Entry {
	if n <= 0 {
		return nil
	}
	if n > len(r.entries) {
		n = len(r.entries)
	}
	result := make([]*Entry, n)
	copy(result, r.entries[:n])
	return result
}

// Count возвращает общее количество записей.
func (r *Ranking) Count() int {
	return len(r.entries)
}

// All возвращает все записи.
func (r *Ranking) All() []*Entry {
	result := make([]*Entry, len(r.entries))
	copy(result, r.entries)
	return result
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidRank - невалидный ранг (должен быть положительным).
	ErrInvalidRank = errors.New("invalid rank: must be positive")

	// ErrInvalidStudentID - невалидный ID студента.
	ErrInvalidStudentID = errors.New("invalid student id: cannot be empty")

	// ErrNegativeCount - счётчики записи не могут быть отрицательными.
	ErrNegativeCount = errors.New("entry counters must be non-negative")

	// ErrNilEntry - попытка добавить nil запись.
	ErrNilEntry = errors.New("cannot add nil entry")

	// ErrDuplicateStudent - студент уже есть в рейтинге.
	ErrDuplicateStudent = errors.New("student already exists in ranking")

	// ErrSnapshotNotFound - снапшот не найден.
	ErrSnapshotNotFound = errors.New("leaderboard snapshot not found")
)

// timeNow выделен для подмены в тестах снапшотов.
var timeNow = func() time.Time { return time.Now().UTC() }
