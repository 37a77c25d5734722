package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/boostly-hq/boostly/internal/domain/recognition"
	"github.com/boostly-hq/boostly/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECOGNITION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const recognitionColumns = `id, sender_id, receiver_id, credits, message, created_at`

// RecognitionRepository implements recognition.Repository for PostgreSQL.
type RecognitionRepository struct {
	q Querier
}

// NewRecognitionRepository creates a new RecognitionRepository on the pool.
func NewRecognitionRepository(conn *Connection) *RecognitionRepository {
	return &RecognitionRepository{q: conn}
}

// newRecognitionRepositoryWithQuerier creates a tx-scoped RecognitionRepository.
func newRecognitionRepositoryWithQuerier(q Querier) *RecognitionRepository {
	return &RecognitionRepository{q: q}
}

// Create saves a new recognition.
func (r *RecognitionRepository) Create(ctx context.Context, rec *recognition.Recognition) error {
	query := `
		INSERT INTO recognitions (id, sender_id, receiver_id, credits, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.Exec(ctx, query,
		rec.ID,
		rec.SenderID,
		rec.ReceiverID,
		rec.Credits,
		rec.Message,
		rec.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create recognition: %w", err)
	}

	return nil
}

// GetByID returns a recognition by ID.
func (r *RecognitionRepository) GetByID(ctx context.Context, id string) (*recognition.Recognition, error) {
	query := fmt.Sprintf(`SELECT %s FROM recognitions WHERE id = $1`, recognitionColumns)

	row := r.q.QueryRow(ctx, query, id)
	return scanRecognition(row)
}

// GetBySender returns recognitions sent by a student, newest first.
func (r *RecognitionRepository) GetBySender(ctx context.Context, senderID string, limit int) ([]*recognition.Recognition, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM recognitions
		WHERE sender_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, recognitionColumns)

	rows, err := r.q.Query(ctx, query, senderID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recognitions by sender: %w", err)
	}
	defer rows.Close()

	return scanRecognitions(rows)
}

// GetByReceiver returns recognitions received by a student, newest first.
func (r *RecognitionRepository) GetByReceiver(ctx context.Context, receiverID string, limit int) ([]*recognition.Recognition, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM recognitions
		WHERE receiver_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, recognitionColumns)

	rows, err := r.q.Query(ctx, query, receiverID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recognitions by receiver: %w", err)
	}
	defer rows.Close()

	return scanRecognitions(rows)
}

// CountByReceiver returns the number of recognitions received by a student.
func (r *RecognitionRepository) CountByReceiver(ctx context.Context, receiverID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		"SELECT COUNT(*) FROM recognitions WHERE receiver_id = $1",
		receiverID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recognitions: %w", err)
	}
	return count, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ENDORSEMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// EndorsementRepository implements recognition.EndorsementRepository for PostgreSQL.
type EndorsementRepository struct {
	q Querier
}

// NewEndorsementRepository creates a new EndorsementRepository on the pool.
func NewEndorsementRepository(conn *Connection) *EndorsementRepository {
	return &EndorsementRepository{q: conn}
}

// newEndorsementRepositoryWithQuerier creates a tx-scoped EndorsementRepository.
func newEndorsementRepositoryWithQuerier(q Querier) *EndorsementRepository {
	return &EndorsementRepository{q: q}
}

// Create saves a new endorsement. The UNIQUE(recognition_id, endorser_id)
// index decides duplicates, including the race of two concurrent endorsements.
func (r *EndorsementRepository) Create(ctx context.Context, e *recognition.Endorsement) error {
	query := `
		INSERT INTO endorsements (id, recognition_id, endorser_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.q.Exec(ctx, query,
		e.ID,
		e.RecognitionID,
		e.EndorserID,
		e.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrDuplicateEndorsement
		}
		if IsForeignKeyViolation(err) {
			return shared.ErrRecognitionNotFound
		}
		return fmt.Errorf("failed to create endorsement: %w", err)
	}

	return nil
}

// GetByRecognition returns endorsements of a recognition, oldest first.
func (r *EndorsementRepository) GetByRecognition(ctx context.Context, recognitionID string) ([]*recognition.Endorsement, error) {
	query := `
		SELECT id, recognition_id, endorser_id, created_at
		FROM endorsements
		WHERE recognition_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.q.Query(ctx, query, recognitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query endorsements: %w", err)
	}
	defer rows.Close()

	var endorsements []*recognition.Endorsement
	for rows.Next() {
		var e recognition.Endorsement
		if err := rows.Scan(&e.ID, &e.RecognitionID, &e.EndorserID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan endorsement: %w", err)
		}
		endorsements = append(endorsements, &e)
	}

	return endorsements, rows.Err()
}

// Exists checks whether a student has endorsed a recognition.
func (r *EndorsementRepository) Exists(ctx context.Context, recognitionID, endorserID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM endorsements WHERE recognition_id = $1 AND endorser_id = $2)",
		recognitionID,
		endorserID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check endorsement existence: %w", err)
	}
	return exists, nil
}

// CountByRecognition returns the number of endorsements of a recognition.
func (r *EndorsementRepository) CountByRecognition(ctx context.Context, recognitionID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		"SELECT COUNT(*) FROM endorsements WHERE recognition_id = $1",
		recognitionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count endorsements: %w", err)
	}
	return count, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER METHODS
// ══════════════════════════════════════════════════════════════════════════════

// scanRecognition scans a single recognition from a row.
func scanRecognition(row pgx.Row) (*recognition.Recognition, error) {
	var rec recognition.Recognition

	err := row.Scan(
		&rec.ID,
		&rec.SenderID,
		&rec.ReceiverID,
		&rec.Credits,
		&rec.Message,
		&rec.CreatedAt,
	)

	if IsNoRows(err) {
		return nil, shared.ErrRecognitionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan recognition: %w", err)
	}

	return &rec, nil
}

// scanRecognitions scans multiple recognitions from rows.
func scanRecognitions(rows pgx.Rows) ([]*recognition.Recognition, error) {
	var recognitions []*recognition.Recognition

	for rows.Next() {
		var rec recognition.Recognition
		err := rows.Scan(
			&rec.ID,
			&rec.SenderID,
			&rec.ReceiverID,
			&rec.Credits,
			&rec.Message,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recognition: %w", err)
		}
		recognitions = append(recognitions, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return recognitions, nil
}
