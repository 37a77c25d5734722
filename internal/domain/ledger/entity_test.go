package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarryForward(t *testing.T) {
	assert.Equal(t, 0, CarryForward(0))
	assert.Equal(t, 0, CarryForward(-10))
	assert.Equal(t, 30, CarryForward(30))
	assert.Equal(t, 50, CarryForward(50))
	assert.Equal(t, 50, CarryForward(120))
}

func TestVoucherValue(t *testing.T) {
	assert.Equal(t, 5, VoucherValue(1))
	assert.Equal(t, 200, VoucherValue(40))
}

func TestNewRedemption(t *testing.T) {
	r, err := NewRedemption(NewRedemptionParams{
		ID:        "red-1",
		StudentID: "stu-1",
		Credits:   40,
	})
	require.NoError(t, err)

	assert.Equal(t, 40, r.CreditsRedeemed)
	assert.Equal(t, 200, r.VoucherValueINR)
	assert.False(t, r.CreatedAt.IsZero())
}

func TestNewRedemption_Validation(t *testing.T) {
	_, err := NewRedemption(NewRedemptionParams{StudentID: "stu-1", Credits: 10})
	assert.ErrorIs(t, err, ErrMissingID)

	_, err = NewRedemption(NewRedemptionParams{ID: "red-1", Credits: 10})
	assert.ErrorIs(t, err, ErrMissingStudentID)

	_, err = NewRedemption(NewRedemptionParams{ID: "red-1", StudentID: "stu-1", Credits: 0})
	assert.ErrorIs(t, err, ErrInvalidCredits)
}

func TestNewMonthlyResetLog(t *testing.T) {
	log, err := NewMonthlyResetLog(NewMonthlyResetLogParams{
		ID:             "log-1",
		StudentID:      "stu-1",
		Month:          8,
		Year:           2026,
		CarriedForward: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, log.CarriedForward)

	_, err = NewMonthlyResetLog(NewMonthlyResetLogParams{
		ID: "log-2", StudentID: "stu-1", Month: 13, Year: 2026,
	})
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = NewMonthlyResetLog(NewMonthlyResetLogParams{
		ID: "log-3", StudentID: "stu-1", Month: 8, Year: 2026, CarriedForward: 51,
	})
	assert.ErrorIs(t, err, ErrInvalidCarriedForward)
}
