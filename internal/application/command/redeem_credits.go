package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/boostly-hq/boostly/internal/domain/ledger"
	"github.com/boostly-hq/boostly/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REDEEM CREDITS COMMAND
// Обмен кредитов на ваучер по фиксированному курсу. Списывает баланс
// навсегда; пожизненный счёт и месячный лимит отправки не трогает.
// ══════════════════════════════════════════════════════════════════════════════

// RedeemCreditsCommand contains the data to redeem credits.
type RedeemCreditsCommand struct {
	// StudentID is the student redeeming credits.
	StudentID string

	// Credits is the amount to redeem (strictly positive).
	Credits int

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command shape. Позитивность суммы проверяется
// внутри транзакции после поиска студента: несуществующий студент - это
// NotFound, какой бы ни была сумма.
func (c RedeemCreditsCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("redeem_credits: student_id is required")
	}
	return nil
}

// RedeemCreditsResult contains the result of a redemption.
type RedeemCreditsResult struct {
	// RedemptionID is the ID of the created redemption.
	RedemptionID string

	// CreditsRedeemed is the redeemed amount.
	CreditsRedeemed int

	// VoucherValueINR is the voucher value at the fixed rate.
	VoucherValueINR int

	// RemainingBalance is the student's balance after the redemption.
	RemainingBalance int

	// CreatedAt is when the redemption happened.
	CreatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RedeemCreditsHandler handles the RedeemCreditsCommand.
type RedeemCreditsHandler struct {
	tx             Transactor
	eventPublisher shared.EventPublisher
}

// NewRedeemCreditsHandler creates a new RedeemCreditsHandler.
func NewRedeemCreditsHandler(tx Transactor, eventPublisher shared.EventPublisher) *RedeemCreditsHandler {
	if eventPublisher == nil {
		eventPublisher = shared.NoopPublisher{}
	}

	return &RedeemCreditsHandler{
		tx:             tx,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the redeem credits command.
func (h *RedeemCreditsHandler) Handle(ctx context.Context, cmd RedeemCreditsCommand) (*RedeemCreditsResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("ledger", "Redeem", shared.ErrValidation, "validation failed", err)
	}

	var result *RedeemCreditsResult

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context, repos Repositories) error {
		stud, err := repos.Students.GetByIDForUpdate(ctx, cmd.StudentID)
		if err != nil {
			return err
		}

		if err := stud.RedeemCredits(cmd.Credits); err != nil {
			return err
		}

		redemption, err := ledger.NewRedemption(ledger.NewRedemptionParams{
			ID:        uuid.NewString(),
			StudentID: cmd.StudentID,
			Credits:   cmd.Credits,
		})
		if err != nil {
			return err
		}

		if err := repos.Redemptions.Create(ctx, redemption); err != nil {
			return fmt.Errorf("redeem_credits: failed to save redemption: %w", err)
		}
		if err := repos.Students.Update(ctx, stud); err != nil {
			return fmt.Errorf("redeem_credits: failed to update student: %w", err)
		}

		result = &RedeemCreditsResult{
			RedemptionID:     redemption.ID,
			CreditsRedeemed:  redemption.CreditsRedeemed,
			VoucherValueINR:  redemption.VoucherValueINR,
			RemainingBalance: stud.CurrentBalance.Int(),
			CreatedAt:        redemption.CreatedAt,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	event := shared.NewCreditsRedeemedEvent(result.RedemptionID, cmd.StudentID, result.CreditsRedeemed, result.VoucherValueINR)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	_ = h.eventPublisher.Publish(event)

	return result, nil
}
