// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"errors"
	"time"

	"github.com/boostly-hq/boostly/internal/domain/leaderboard"
	"github.com/boostly-hq/boostly/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Получает топ-N студентов по пожизненному счёту полученного признания.
// Порядок: credits_received_total DESC, id ASC. Студенты без признаний
// включаются с нулевыми счётчиками.
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery содержит параметры запроса лидерборда.
type GetLeaderboardQuery struct {
	// Limit - количество записей (по умолчанию 10, максимум 100).
	Limit int

	// BypassCache - читать напрямую из хранилища, минуя кеш.
	BypassCache bool
}

// DefaultLeaderboardLimit - лимит по умолчанию.
const DefaultLeaderboardLimit = 10

// Validate проверяет корректность параметров запроса.
func (q *GetLeaderboardQuery) Validate() error {
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = DefaultLeaderboardLimit
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	return nil
}

// LeaderboardEntryDTO - DTO для записи лидерборда (Data Transfer Object).
type LeaderboardEntryDTO struct {
	// Rank - позиция в рейтинге (начиная с 1).
	Rank int `json:"rank"`

	// StudentID - внутренний ID студента.
	StudentID string `json:"student_id"`

	// Name - отображаемое имя.
	Name string `json:"name"`

	// CreditsReceivedTotal - пожизненный счёт полученного признания.
	CreditsReceivedTotal int `json:"credits_received_total"`

	// RecognitionCount - число полученных признаний.
	RecognitionCount int `json:"recognition_count"`

	// EndorsementCount - число endorsement'ов по полученным признаниям.
	EndorsementCount int `json:"endorsement_count"`
}

// GetLeaderboardResult содержит результат запроса лидерборда.
type GetLeaderboardResult struct {
	// Entries - записи лидерборда.
	Entries []LeaderboardEntryDTO `json:"entries"`

	// TotalCount - общее количество студентов в лидерборде.
	TotalCount int `json:"total_count"`

	// FromCache - получен ли результат из кеша.
	FromCache bool `json:"from_cache"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetLeaderboardHandler обрабатывает запросы на получение лидерборда.
type GetLeaderboardHandler struct {
	leaderboardRepo  leaderboard.Repository
	leaderboardCache leaderboard.Cache
}

// NewGetLeaderboardHandler создаёт новый обработчик запроса лидерборда.
func NewGetLeaderboardHandler(
	leaderboardRepo leaderboard.Repository,
	leaderboardCache leaderboard.Cache,
) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{
		leaderboardRepo:  leaderboardRepo,
		leaderboardCache: leaderboardCache,
	}
}

// Handle выполняет запрос на получение лидерборда.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, query GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrValidation, err.Error(), err)
	}

	// Попытка получить из кеша: снапшот пригоден, если покрывает лимит.
	if !query.BypassCache && h.leaderboardCache != nil {
		if snapshot, err := h.leaderboardCache.GetSnapshot(ctx); err == nil {
			if len(snapshot.Entries) >= query.Limit || snapshot.TotalStudents <= len(snapshot.Entries) {
				return &GetLeaderboardResult{
					Entries:     toDTOs(snapshot.Top(query.Limit)),
					TotalCount:  snapshot.TotalStudents,
					FromCache:   true,
					GeneratedAt: time.Now().UTC(),
				}, nil
			}
		}
	}

	entries, err := h.leaderboardRepo.GetTop(ctx, query.Limit)
	if err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrStorageUnavailable, "failed to get leaderboard", err)
	}

	totalCount, err := h.leaderboardRepo.GetTotalCount(ctx)
	if err != nil {
		totalCount = len(entries)
	}

	return &GetLeaderboardResult{
		Entries:     toDTOs(entries),
		TotalCount:  totalCount,
		FromCache:   false,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// toDTOs конвертирует доменные записи в DTO.
func toDTOs(entries []*leaderboard.Entry) []LeaderboardEntryDTO {
	dtos := make([]LeaderboardEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = LeaderboardEntryDTO{
			Rank:                 int(e.Rank),
			StudentID:            e.StudentID,
			Name:                 e.Name,
			CreditsReceivedTotal: e.CreditsReceivedTotal,
			RecognitionCount:     e.RecognitionCount,
			EndorsementCount:     e.EndorsementCount,
		}
	}
	return dtos
}
