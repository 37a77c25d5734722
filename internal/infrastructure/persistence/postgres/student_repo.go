package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/boostly-hq/boostly/internal/domain/shared"
	"github.com/boostly-hq/boostly/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const studentColumns = `id, name, current_balance, credits_received_total,
	   monthly_sent_this_month, last_credit_reset, created_at, updated_at`

// StudentRepository implements student.Repository for PostgreSQL.
// It runs against any Querier: the pool for standalone reads, a pgx.Tx
// when created by the Transactor.
type StudentRepository struct {
	q Querier
}

// NewStudentRepository creates a new StudentRepository on the connection pool.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{q: conn}
}

// newStudentRepositoryWithQuerier creates a tx-scoped StudentRepository.
func newStudentRepositoryWithQuerier(q Querier) *StudentRepository {
	return &StudentRepository{q: q}
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new student.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (
			id, name, current_balance, credits_received_total,
			monthly_sent_this_month, last_credit_reset, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.Exec(ctx, query,
		s.ID,
		s.Name,
		s.CurrentBalance.Int(),
		s.CreditsReceivedTotal,
		s.MonthlySentThisMonth,
		s.LastCreditReset,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetByID returns a student by internal ID.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)

	row := r.q.QueryRow(ctx, query, id)
	return scanStudent(row)
}

// GetByIDForUpdate returns a student holding a row lock until the end of the
// current transaction. Concurrent transfers touching the same student queue
// behind this lock instead of interleaving.
func (r *StudentRepository) GetByIDForUpdate(ctx context.Context, id string) (*student.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1 FOR UPDATE`, studentColumns)

	row := r.q.QueryRow(ctx, query, id)
	return scanStudent(row)
}

// Update saves the student's mutable fields.
func (r *StudentRepository) Update(ctx context.Context, s *student.Student) error {
	query := `
		UPDATE students SET
			name = $1,
			current_balance = $2,
			credits_received_total = $3,
			monthly_sent_this_month = $4,
			last_credit_reset = $5,
			updated_at = $6
		WHERE id = $7
	`

	result, err := r.q.Exec(ctx, query,
		s.Name,
		s.CurrentBalance.Int(),
		s.CreditsReceivedTotal,
		s.MonthlySentThisMonth,
		s.LastCreditReset,
		time.Now().UTC(),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Bulk Operations
// ─────────────────────────────────────────────────────────────────────────────

// GetAll returns all students with pagination.
func (r *StudentRepository) GetAll(ctx context.Context, opts student.ListOptions) ([]*student.Student, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM students%s LIMIT $1 OFFSET $2`,
		studentColumns,
		buildStudentOrderBy(opts),
	)

	rows, err := r.q.Query(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// GetAllIDs returns the IDs of all students, oldest registrations first.
func (r *StudentRepository) GetAllIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, "SELECT id FROM students ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query student ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan student id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Count returns the total number of students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, "SELECT COUNT(*) FROM students").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Existence Checks
// ─────────────────────────────────────────────────────────────────────────────

// Exists checks if a student exists by ID.
func (r *StudentRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)",
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check student existence: %w", err)
	}
	return exists, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER METHODS
// ══════════════════════════════════════════════════════════════════════════════

// scanStudent scans a single student from a row.
func scanStudent(row pgx.Row) (*student.Student, error) {
	var s student.Student
	var currentBalance int
	var lastReset *time.Time

	err := row.Scan(
		&s.ID,
		&s.Name,
		&currentBalance,
		&s.CreditsReceivedTotal,
		&s.MonthlySentThisMonth,
		&lastReset,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if IsNoRows(err) {
		return nil, shared.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	s.CurrentBalance = student.Balance(currentBalance)
	s.LastCreditReset = lastReset

	return &s, nil
}

// scanStudents scans multiple students from rows.
func scanStudents(rows pgx.Rows) ([]*student.Student, error) {
	var students []*student.Student

	for rows.Next() {
		var s student.Student
		var currentBalance int
		var lastReset *time.Time

		err := rows.Scan(
			&s.ID,
			&s.Name,
			&currentBalance,
			&s.CreditsReceivedTotal,
			&s.MonthlySentThisMonth,
			&lastReset,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}

		s.CurrentBalance = student.Balance(currentBalance)
		s.LastCreditReset = lastReset

		students = append(students, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return students, nil
}

// buildStudentOrderBy builds the ORDER BY clause from whitelisted fields.
func buildStudentOrderBy(opts student.ListOptions) string {
	orderField := "created_at"
	validFields := map[string]string{
		"name":                   "name",
		"created_at":             "created_at",
		"current_balance":        "current_balance",
		"credits_received_total": "credits_received_total",
	}

	if field, ok := validFields[opts.SortBy]; ok {
		orderField = field
	}

	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}

	return fmt.Sprintf(" ORDER BY %s %s", orderField, direction)
}
