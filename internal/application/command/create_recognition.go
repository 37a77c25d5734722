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
// CREATE RECOGNITION COMMAND
// Атомарный перевод кредитов признания от отправителя получателю.
// Порядок проверок фиксирован: отправитель существует, получатель существует,
// не самоперевод, хватает баланса, не превышен месячный лимит.
// ══════════════════════════════════════════════════════════════════════════════

// CreateRecognitionCommand contains the data to create a recognition.
type CreateRecognitionCommand struct {
	// SenderID is the student sending credits.
	SenderID string

	// ReceiverID is the student receiving credits.
	ReceiverID string

	// Credits is the amount to transfer (strictly positive).
	Credits int

	// Message is an optional note attached to the recognition.
	Message string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command shape. Business rules that need current
// student state (balance, monthly limit) are checked inside the transaction.
func (c CreateRecognitionCommand) Validate() error {
	if c.SenderID == "" {
		return errors.New("create_recognition: sender_id is required")
	}
	if c.ReceiverID == "" {
		return errors.New("create_recognition: receiver_id is required")
	}
	if c.Credits <= 0 {
		return shared.ErrInvalidCreditAmount
	}
	if len(c.Message) > recognition.MaxMessageLength {
		return recognition.ErrMessageTooLong
	}
	return nil
}

// CreateRecognitionResult contains the result of a completed transfer.
type CreateRecognitionResult struct {
	// RecognitionID is the ID of the created recognition.
	RecognitionID string

	// Credits is the transferred amount.
	Credits int

	// Message is the normalized message.
	Message string

	// SenderBalance is the sender's balance after the transfer.
	SenderBalance int

	// SenderMonthlySent is the sender's monthly counter after the transfer.
	SenderMonthlySent int

	// ReceiverBalance is the receiver's balance after the transfer.
	ReceiverBalance int

	// ReceiverCreditsTotal is the receiver's lifetime received total.
	ReceiverCreditsTotal int

	// CreatedAt is when the recognition was created.
	CreatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// CreateRecognitionHandler handles the CreateRecognitionCommand.
type CreateRecognitionHandler struct {
	tx             Transactor
	eventPublisher shared.EventPublisher
}

// NewCreateRecognitionHandler creates a new CreateRecognitionHandler.
func NewCreateRecognitionHandler(tx Transactor, eventPublisher shared.EventPublisher) *CreateRecognitionHandler {
	if eventPublisher == nil {
		eventPublisher = shared.NoopPublisher{}
	}

	return &CreateRecognitionHandler{
		tx:             tx,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the create recognition command.
func (h *CreateRecognitionHandler) Handle(ctx context.Context, cmd CreateRecognitionCommand) (*CreateRecognitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("recognition", "Create", shared.ErrValidation, "validation failed", err)
	}

	var result *CreateRecognitionResult

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context, repos Repositories) error {
		sender, receiver, err := lockTransferParties(ctx, repos, cmd.SenderID, cmd.ReceiverID)
		if err != nil {
			return err
		}

		// Проверка самоперевода идёт строго после проверок существования:
		// несуществующий ID в обеих ролях - это NotFound, а не SelfTransfer.
		if cmd.SenderID == cmd.ReceiverID {
			return shared.ErrSelfTransfer
		}

		if err := sender.SendCredits(cmd.Credits); err != nil {
			return err
		}
		if err := receiver.ReceiveCredits(cmd.Credits); err != nil {
			return err
		}

		rec, err := recognition.NewRecognition(recognition.NewRecognitionParams{
			ID:         uuid.NewString(),
			SenderID:   cmd.SenderID,
			ReceiverID: cmd.ReceiverID,
			Credits:    cmd.Credits,
			Message:    cmd.Message,
		})
		if err != nil {
			return err
		}

		if err := repos.Recognitions.Create(ctx, rec); err != nil {
			return fmt.Errorf("create_recognition: failed to save recognition: %w", err)
		}
		if err := repos.Students.Update(ctx, sender); err != nil {
			return fmt.Errorf("create_recognition: failed to update sender: %w", err)
		}
		if err := repos.Students.Update(ctx, receiver); err != nil {
			return fmt.Errorf("create_recognition: failed to update receiver: %w", err)
		}

		result = &CreateRecognitionResult{
			RecognitionID:        rec.ID,
			Credits:              rec.Credits,
			Message:              rec.Message,
			SenderBalance:        sender.CurrentBalance.Int(),
			SenderMonthlySent:    sender.MonthlySentThisMonth,
			ReceiverBalance:      receiver.CurrentBalance.Int(),
			ReceiverCreditsTotal: receiver.CreditsReceivedTotal,
			CreatedAt:            rec.CreatedAt,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Publish only after commit: subscribers must never observe a transfer
	// that later rolled back.
	event := shared.NewRecognitionCreatedEvent(result.RecognitionID, cmd.SenderID, cmd.ReceiverID, cmd.Credits)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	_ = h.eventPublisher.Publish(event)

	return result, nil
}

// lockTransferParties блокирует строки обеих сторон перевода в
// детерминированном порядке ID (защита от deadlock'а встречных переводов),
// после чего сообщает об отсутствии в порядке, ожидаемом вызывающим:
// сначала отправитель, затем получатель.
func lockTransferParties(
	ctx context.Context,
	repos Repositories,
	senderID, receiverID string,
) (sender, receiver *student.Student, err error) {
	first, second := senderID, receiverID
	if second < first {
		first, second = second, first
	}

	locked := make(map[string]*student.Student, 2)
	missing := make(map[string]bool, 2)

	for _, id := range []string{first, second} {
		stud, err := repos.Students.GetByIDForUpdate(ctx, id)
		if err != nil {
			if shared.IsNotFound(err) {
				missing[id] = true
				continue
			}
			return nil, nil, err
		}
		locked[id] = stud
	}

	if missing[senderID] {
		return nil, nil, shared.ErrSenderNotFound
	}
	if missing[receiverID] {
		return nil, nil, shared.ErrReceiverNotFound
	}

	return locked[senderID], locked[receiverID], nil
}
