package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/boostly-hq/boostly/internal/domain/recognition"
	"github.com/boostly-hq/boostly/internal/domain/shared"
	"github.com/boostly-hq/boostly/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENDORSE RECOGNITION COMMAND
// Endorsement - подтверждение чужого признания. Кредиты не двигает.
// Один студент может endorse'ить признание один раз; endorsement своего
// собственного признания (как отправитель или получатель) разрешён.
// ══════════════════════════════════════════════════════════════════════════════

// EndorseRecognitionCommand contains the data to endorse a recognition.
type EndorseRecognitionCommand struct {
	// RecognitionID is the recognition being endorsed.
	RecognitionID string

	// EndorserID is the student endorsing.
	EndorserID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c EndorseRecognitionCommand) Validate() error {
	if c.RecognitionID == "" {
		return errors.New("endorse_recognition: recognition_id is required")
	}
	if c.EndorserID == "" {
		return errors.New("endorse_recognition: endorser_id is required")
	}
	return nil
}

// EndorseRecognitionResult contains the result of an endorsement.
type EndorseRecognitionResult struct {
	// EndorsementID is the ID of the created endorsement.
	EndorsementID string

	// RecognitionID is the endorsed recognition.
	RecognitionID string

	// EndorserID is the endorsing student.
	EndorserID string

	// EndorsementCount is the recognition's endorsement count after this one.
	EndorsementCount int

	// CreatedAt is when the endorsement was created.
	CreatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// EndorseRecognitionHandler handles the EndorseRecognitionCommand.
type EndorseRecognitionHandler struct {
	recognitionRepo recognition.Repository
	endorsementRepo recognition.EndorsementRepository
	studentRepo     student.Repository
	eventPublisher  shared.EventPublisher
}

// NewEndorseRecognitionHandler creates a new EndorseRecognitionHandler.
func NewEndorseRecognitionHandler(
	recognitionRepo recognition.Repository,
	endorsementRepo recognition.EndorsementRepository,
	studentRepo student.Repository,
	eventPublisher shared.EventPublisher,
) *EndorseRecognitionHandler {
	if eventPublisher == nil {
		eventPublisher = shared.NoopPublisher{}
	}

	return &EndorseRecognitionHandler{
		recognitionRepo: recognitionRepo,
		endorsementRepo: endorsementRepo,
		studentRepo:     studentRepo,
		eventPublisher:  eventPublisher,
	}
}

// Handle executes the endorse recognition command.
// Проверки в фиксированном порядке: признание существует, endorser
// существует, дубликата нет. Гонку двух одновременных endorsement'ов
// закрывает уникальный индекс хранилища, а не предварительная проверка.
func (h *EndorseRecognitionHandler) Handle(ctx context.Context, cmd EndorseRecognitionCommand) (*EndorseRecognitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("recognition", "Endorse", shared.ErrValidation, "validation failed", err)
	}

	if _, err := h.recognitionRepo.GetByID(ctx, cmd.RecognitionID); err != nil {
		return nil, err
	}

	exists, err := h.studentRepo.Exists(ctx, cmd.EndorserID)
	if err != nil {
		return nil, fmt.Errorf("endorse_recognition: failed to check endorser: %w", err)
	}
	if !exists {
		return nil, shared.ErrEndorserNotFound
	}

	endorsement, err := recognition.NewEndorsement(recognition.NewEndorsementParams{
		ID:            uuid.NewString(),
		RecognitionID: cmd.RecognitionID,
		EndorserID:    cmd.EndorserID,
	})
	if err != nil {
		return nil, err
	}

	if err := h.endorsementRepo.Create(ctx, endorsement); err != nil {
		return nil, err
	}

	count, err := h.endorsementRepo.CountByRecognition(ctx, cmd.RecognitionID)
	if err != nil {
		// The endorsement is already committed; the count is cosmetic.
		count = 0
	}

	event := shared.NewRecognitionEndorsedEvent(endorsement.ID, cmd.RecognitionID, cmd.EndorserID)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	_ = h.eventPublisher.Publish(event)

	return &EndorseRecognitionResult{
		EndorsementID:    endorsement.ID,
		RecognitionID:    endorsement.RecognitionID,
		EndorserID:       endorsement.EndorserID,
		EndorsementCount: count,
		CreatedAt:        endorsement.CreatedAt,
	}, nil
}
