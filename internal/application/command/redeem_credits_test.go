package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostly-hq/boostly/internal/domain/shared"
)

func TestRedeemCredits_Success(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	f := newTestFixture(alice)
	handler := NewRedeemCreditsHandler(f.tx, f.publisher)

	result, err := handler.Handle(context.Background(), RedeemCreditsCommand{
		StudentID: "student-a",
		Credits:   50,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.RedemptionID)
	assert.Equal(t, 50, result.CreditsRedeemed)
	assert.Equal(t, 250, result.VoucherValueINR)
	assert.Equal(t, 50, result.RemainingBalance)

	stored, err := f.students.GetByID(context.Background(), "student-a")
	require.NoError(t, err)
	assert.Equal(t, 50, stored.CurrentBalance.Int())
	// Redemption не учитывается в месячном лимите и не трогает пожизненный счёт.
	assert.Equal(t, 0, stored.MonthlySentThisMonth)
	assert.Equal(t, 0, stored.CreditsReceivedTotal)

	total, err := f.redemptions.TotalRedeemed(context.Background(), "student-a")
	require.NoError(t, err)
	assert.Equal(t, 50, total)

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, shared.EventCreditsRedeemed, events[0].EventType())
}

func TestRedeemCredits_FullBalance(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	f := newTestFixture(alice)
	handler := NewRedeemCreditsHandler(f.tx, f.publisher)

	result, err := handler.Handle(context.Background(), RedeemCreditsCommand{
		StudentID: "student-a",
		Credits:   100,
	})

	require.NoError(t, err)
	assert.Equal(t, 500, result.VoucherValueINR)
	assert.Equal(t, 0, result.RemainingBalance)
}

func TestRedeemCredits_StudentNotFound(t *testing.T) {
	f := newTestFixture()
	handler := NewRedeemCreditsHandler(f.tx, f.publisher)

	_, err := handler.Handle(context.Background(), RedeemCreditsCommand{
		StudentID: "ghost",
		Credits:   10,
	})

	assert.ErrorIs(t, err, shared.ErrStudentNotFound)
}

func TestRedeemCredits_StudentNotFoundBeforeAmountCheck(t *testing.T) {
	f := newTestFixture()
	handler := NewRedeemCreditsHandler(f.tx, f.publisher)

	// Существование студента проверяется раньше позитивности суммы.
	_, err := handler.Handle(context.Background(), RedeemCreditsCommand{
		StudentID: "ghost",
		Credits:   -5,
	})

	assert.ErrorIs(t, err, shared.ErrStudentNotFound)
}

func TestRedeemCredits_InvalidAmount(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	f := newTestFixture(alice)
	handler := NewRedeemCreditsHandler(f.tx, f.publisher)

	for _, credits := range []int{0, -10} {
		_, err := handler.Handle(context.Background(), RedeemCreditsCommand{
			StudentID: "student-a",
			Credits:   credits,
		})
		assert.ErrorIs(t, err, shared.ErrInvalidCreditAmount)
	}
}

func TestRedeemCredits_InsufficientBalance(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	f := newTestFixture(alice)
	handler := NewRedeemCreditsHandler(f.tx, f.publisher)

	_, err := handler.Handle(context.Background(), RedeemCreditsCommand{
		StudentID: "student-a",
		Credits:   101,
	})

	assert.ErrorIs(t, err, shared.ErrInsufficientBalance)

	stored, err := f.students.GetByID(context.Background(), "student-a")
	require.NoError(t, err)
	assert.Equal(t, 100, stored.CurrentBalance.Int())
}
