package postgres

import (
	"context"
	"fmt"

	"github.com/boostly-hq/boostly/internal/domain/leaderboard"
	"github.com/boostly-hq/boostly/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD REPOSITORY IMPLEMENTATION
// Лидерборд собирается агрегирующим запросом поверх students/recognitions/
// endorsements. Внешние JOIN'ы обязательны: студент без единого признания
// всё равно попадает в рейтинг с нулевыми счётчиками.
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardRepository implements leaderboard.Repository for PostgreSQL.
type LeaderboardRepository struct {
	q Querier
}

// NewLeaderboardRepository creates a new LeaderboardRepository.
func NewLeaderboardRepository(conn *Connection) *LeaderboardRepository {
	return &LeaderboardRepository{q: conn}
}

// leaderboardBaseQuery aggregates per-student counters. DISTINCT matters:
// joining endorsements through recognitions multiplies rows, and a plain
// COUNT would inflate recognition_count for students with endorsed posts.
const leaderboardBaseQuery = `
	SELECT s.id,
		   s.name,
		   s.credits_received_total,
		   COUNT(DISTINCT r.id) AS recognition_count,
		   COUNT(DISTINCT e.id) AS endorsement_count
	FROM students s
	LEFT JOIN recognitions r ON r.receiver_id = s.id
	LEFT JOIN endorsements e ON e.recognition_id = r.id
	GROUP BY s.id, s.name, s.credits_received_total
`

// GetTop returns the top-N students by lifetime received credits.
// Order: credits_received_total DESC, id ASC. Ranks are strict (no ties).
func (r *LeaderboardRepository) GetTop(ctx context.Context, limit int) ([]*leaderboard.Entry, error) {
	query := leaderboardBaseQuery + `
		ORDER BY s.credits_received_total DESC, s.id ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*leaderboard.Entry
	rank := 0
	for rows.Next() {
		rank++

		var entry leaderboard.Entry
		err := rows.Scan(
			&entry.StudentID,
			&entry.Name,
			&entry.CreditsReceivedTotal,
			&entry.RecognitionCount,
			&entry.EndorsementCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}

		entry.Rank = leaderboard.Rank(rank)
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

// GetStudentEntry returns a single student's entry with their global rank.
func (r *LeaderboardRepository) GetStudentEntry(ctx context.Context, studentID string) (*leaderboard.Entry, error) {
	query := `
		SELECT ranked.id, ranked.name, ranked.credits_received_total,
			   ranked.recognition_count, ranked.endorsement_count, ranked.rank
		FROM (
			SELECT agg.*,
				   ROW_NUMBER() OVER (ORDER BY agg.credits_received_total DESC, agg.id ASC) AS rank
			FROM (` + leaderboardBaseQuery + `) agg
		) ranked
		WHERE ranked.id = $1
	`

	var entry leaderboard.Entry
	var rank int
	err := r.q.QueryRow(ctx, query, studentID).Scan(
		&entry.StudentID,
		&entry.Name,
		&entry.CreditsReceivedTotal,
		&entry.RecognitionCount,
		&entry.EndorsementCount,
		&rank,
	)

	if IsNoRows(err) {
		return nil, shared.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan student leaderboard entry: %w", err)
	}

	entry.Rank = leaderboard.Rank(rank)
	return &entry, nil
}

// GetTotalCount returns the total number of students in the leaderboard.
func (r *LeaderboardRepository) GetTotalCount(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, "SELECT COUNT(*) FROM students").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count leaderboard students: %w", err)
	}
	return count, nil
}
