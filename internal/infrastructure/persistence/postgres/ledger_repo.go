package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/boostly-hq/boostly/internal/domain/ledger"
	"github.com/boostly-hq/boostly/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REDEMPTION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// RedemptionRepository implements ledger.RedemptionRepository for PostgreSQL.
type RedemptionRepository struct {
	q Querier
}

// NewRedemptionRepository creates a new RedemptionRepository on the pool.
func NewRedemptionRepository(conn *Connection) *RedemptionRepository {
	return &RedemptionRepository{q: conn}
}

// newRedemptionRepositoryWithQuerier creates a tx-scoped RedemptionRepository.
func newRedemptionRepositoryWithQuerier(q Querier) *RedemptionRepository {
	return &RedemptionRepository{q: q}
}

// Create saves a new redemption.
func (r *RedemptionRepository) Create(ctx context.Context, redemption *ledger.Redemption) error {
	query := `
		INSERT INTO redemptions (id, student_id, credits_redeemed, voucher_value_inr, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.Exec(ctx, query,
		redemption.ID,
		redemption.StudentID,
		redemption.CreditsRedeemed,
		redemption.VoucherValueINR,
		redemption.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrStudentNotFound
		}
		return fmt.Errorf("failed to create redemption: %w", err)
	}

	return nil
}

// GetByID returns a redemption by ID.
func (r *RedemptionRepository) GetByID(ctx context.Context, id string) (*ledger.Redemption, error) {
	query := `
		SELECT id, student_id, credits_redeemed, voucher_value_inr, created_at
		FROM redemptions
		WHERE id = $1
	`

	var red ledger.Redemption
	err := r.q.QueryRow(ctx, query, id).Scan(
		&red.ID,
		&red.StudentID,
		&red.CreditsRedeemed,
		&red.VoucherValueINR,
		&red.CreatedAt,
	)

	if IsNoRows(err) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan redemption: %w", err)
	}

	return &red, nil
}

// GetByStudent returns a student's redemptions, newest first.
func (r *RedemptionRepository) GetByStudent(ctx context.Context, studentID string, limit int) ([]*ledger.Redemption, error) {
	query := `
		SELECT id, student_id, credits_redeemed, voucher_value_inr, created_at
		FROM redemptions
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query redemptions: %w", err)
	}
	defer rows.Close()

	var redemptions []*ledger.Redemption
	for rows.Next() {
		var red ledger.Redemption
		err := rows.Scan(
			&red.ID,
			&red.StudentID,
			&red.CreditsRedeemed,
			&red.VoucherValueINR,
			&red.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan redemption: %w", err)
		}
		redemptions = append(redemptions, &red)
	}

	return redemptions, rows.Err()
}

// TotalRedeemed returns the total credits a student has ever redeemed.
func (r *RedemptionRepository) TotalRedeemed(ctx context.Context, studentID string) (int, error) {
	var total int
	err := r.q.QueryRow(ctx,
		"SELECT COALESCE(SUM(credits_redeemed), 0) FROM redemptions WHERE student_id = $1",
		studentID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum redemptions: %w", err)
	}
	return total, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RESET LOG REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ResetLogRepository implements ledger.ResetLogRepository for PostgreSQL.
type ResetLogRepository struct {
	q Querier
}

// NewResetLogRepository creates a new ResetLogRepository on the pool.
func NewResetLogRepository(conn *Connection) *ResetLogRepository {
	return &ResetLogRepository{q: conn}
}

// newResetLogRepositoryWithQuerier creates a tx-scoped ResetLogRepository.
func newResetLogRepositoryWithQuerier(q Querier) *ResetLogRepository {
	return &ResetLogRepository{q: q}
}

// Create saves a reset journal entry. UNIQUE(student_id, year, month) makes
// a second reset of the same student in the same cycle fail loudly instead
// of silently double-crediting.
func (r *ResetLogRepository) Create(ctx context.Context, log *ledger.MonthlyResetLog) error {
	query := `
		INSERT INTO monthly_reset_logs (id, student_id, month, year, carried_forward, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.Exec(ctx, query,
		log.ID,
		log.StudentID,
		log.Month,
		log.Year,
		log.CarriedForward,
		log.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		if IsForeignKeyViolation(err) {
			return shared.ErrStudentNotFound
		}
		return fmt.Errorf("failed to create reset log: %w", err)
	}

	return nil
}

// GetByStudent returns a student's reset history, newest first.
func (r *ResetLogRepository) GetByStudent(ctx context.Context, studentID string, limit int) ([]*ledger.MonthlyResetLog, error) {
	query := `
		SELECT id, student_id, month, year, carried_forward, created_at
		FROM monthly_reset_logs
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reset logs: %w", err)
	}
	defer rows.Close()

	return scanResetLogs(rows)
}

// GetByCycle returns all resets of the given cycle.
func (r *ResetLogRepository) GetByCycle(ctx context.Context, year int, month time.Month) ([]*ledger.MonthlyResetLog, error) {
	query := `
		SELECT id, student_id, month, year, carried_forward, created_at
		FROM monthly_reset_logs
		WHERE year = $1 AND month = $2
		ORDER BY created_at ASC
	`

	rows, err := r.q.Query(ctx, query, year, int(month))
	if err != nil {
		return nil, fmt.Errorf("failed to query reset logs by cycle: %w", err)
	}
	defer rows.Close()

	return scanResetLogs(rows)
}

// CountByCycle returns the number of resets in the given cycle.
func (r *ResetLogRepository) CountByCycle(ctx context.Context, year int, month time.Month) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		"SELECT COUNT(*) FROM monthly_reset_logs WHERE year = $1 AND month = $2",
		year,
		int(month),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reset logs: %w", err)
	}
	return count, nil
}

// scanResetLogs scans reset log entries from rows.
func scanResetLogs(rows pgx.Rows) ([]*ledger.MonthlyResetLog, error) {
	var logs []*ledger.MonthlyResetLog

	for rows.Next() {
		var log ledger.MonthlyResetLog
		err := rows.Scan(
			&log.ID,
			&log.StudentID,
			&log.Month,
			&log.Year,
			&log.CarriedForward,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reset log: %w", err)
		}
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
