package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMonthlyReset_FirstRunResetsEveryone(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	bob := mustStudent("student-b", "Bob")
	f := newTestFixture(alice, bob)
	handler := NewRunMonthlyResetHandler(f.students, f.tx, f.publisher, nil)

	now := time.Date(2026, time.March, 1, 0, 5, 0, 0, time.UTC)
	result, err := handler.Handle(context.Background(), RunMonthlyResetCommand{Now: now})

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalStudents)
	assert.Equal(t, 2, result.ResetCount)
	assert.Equal(t, 0, result.SkippedCount)
	assert.Equal(t, 0, result.FailedCount)

	stored, err := f.students.GetByID(context.Background(), "student-a")
	require.NoError(t, err)
	require.NotNil(t, stored.LastCreditReset)
	assert.Equal(t, now, stored.LastCreditReset.UTC())

	assert.Len(t, f.publisher.Events(), 2)
}

func TestRunMonthlyReset_CarryForward(t *testing.T) {
	// Баланс 80 на момент сброса: переносится максимум 50.
	alice := mustStudent("student-a", "Alice")
	require.NoError(t, alice.RedeemCredits(20)) // balance 80
	f := newTestFixture(alice)
	handler := NewRunMonthlyResetHandler(f.students, f.tx, f.publisher, nil)

	now := time.Date(2026, time.March, 1, 0, 5, 0, 0, time.UTC)
	_, err := handler.Handle(context.Background(), RunMonthlyResetCommand{Now: now})
	require.NoError(t, err)

	stored, err := f.students.GetByID(context.Background(), "student-a")
	require.NoError(t, err)
	assert.Equal(t, 150, stored.CurrentBalance.Int())
	assert.Equal(t, 0, stored.MonthlySentThisMonth)

	logs, err := f.resetLogs.GetByCycle(context.Background(), 2026, time.March)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 50, logs[0].CarriedForward)
}

func TestRunMonthlyReset_IdempotentWithinMonth(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	f := newTestFixture(alice)
	handler := NewRunMonthlyResetHandler(f.students, f.tx, f.publisher, nil)

	now := time.Date(2026, time.March, 1, 0, 5, 0, 0, time.UTC)

	first, err := handler.Handle(context.Background(), RunMonthlyResetCommand{Now: now})
	require.NoError(t, err)
	assert.Equal(t, 1, first.ResetCount)

	// Повторный запуск в том же месяце никого не сбрасывает.
	second, err := handler.Handle(context.Background(), RunMonthlyResetCommand{Now: now.Add(48 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, 0, second.ResetCount)
	assert.Equal(t, 1, second.SkippedCount)

	count, err := f.resetLogs.CountByCycle(context.Background(), 2026, time.March)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRunMonthlyReset_NextMonthResetsAgain(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	f := newTestFixture(alice)
	handler := NewRunMonthlyResetHandler(f.students, f.tx, f.publisher, nil)

	march := time.Date(2026, time.March, 1, 0, 5, 0, 0, time.UTC)
	_, err := handler.Handle(context.Background(), RunMonthlyResetCommand{Now: march})
	require.NoError(t, err)

	april := time.Date(2026, time.April, 1, 0, 5, 0, 0, time.UTC)
	result, err := handler.Handle(context.Background(), RunMonthlyResetCommand{Now: april})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ResetCount)

	// Баланс 150 в марте: в апреле снова переносится кап.
	stored, err := f.students.GetByID(context.Background(), "student-a")
	require.NoError(t, err)
	assert.Equal(t, 150, stored.CurrentBalance.Int())
}

func TestRunMonthlyReset_FailureIsolatedPerStudent(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	bob := mustStudent("student-b", "Bob")
	f := newTestFixture(alice, bob)
	f.students.failUpdateID = "student-a"
	handler := NewRunMonthlyResetHandler(f.students, f.tx, f.publisher, nil)

	now := time.Date(2026, time.March, 1, 0, 5, 0, 0, time.UTC)
	result, err := handler.Handle(context.Background(), RunMonthlyResetCommand{Now: now})

	require.NoError(t, err)
	assert.Equal(t, 1, result.ResetCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Contains(t, result.Errors, "student-a")

	// Второй студент сброшен несмотря на ошибку первого.
	stored, err := f.students.GetByID(context.Background(), "student-b")
	require.NoError(t, err)
	require.NotNil(t, stored.LastCreditReset)
}

func TestRunMonthlyReset_EmptyLedger(t *testing.T) {
	f := newTestFixture()
	handler := NewRunMonthlyResetHandler(f.students, f.tx, f.publisher, nil)

	result, err := handler.Handle(context.Background(), RunMonthlyResetCommand{})

	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalStudents)
	assert.Equal(t, 0, result.ResetCount)
}
