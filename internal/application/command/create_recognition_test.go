package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostly-hq/boostly/internal/domain/shared"
)

func TestCreateRecognition_Success(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	bob := mustStudent("student-b", "Bob")
	f := newTestFixture(alice, bob)
	handler := NewCreateRecognitionHandler(f.tx, f.publisher)

	result, err := handler.Handle(context.Background(), CreateRecognitionCommand{
		SenderID:   "student-a",
		ReceiverID: "student-b",
		Credits:    30,
		Message:    "great code review",
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.RecognitionID)
	assert.Equal(t, 30, result.Credits)
	assert.Equal(t, 70, result.SenderBalance)
	assert.Equal(t, 30, result.SenderMonthlySent)
	assert.Equal(t, 130, result.ReceiverBalance)
	assert.Equal(t, 30, result.ReceiverCreditsTotal)

	// Хранилище отражает обе стороны перевода.
	sender, err := f.students.GetByID(context.Background(), "student-a")
	require.NoError(t, err)
	assert.Equal(t, 70, sender.CurrentBalance.Int())
	assert.Equal(t, 30, sender.MonthlySentThisMonth)
	assert.Equal(t, 0, sender.CreditsReceivedTotal)

	receiver, err := f.students.GetByID(context.Background(), "student-b")
	require.NoError(t, err)
	assert.Equal(t, 130, receiver.CurrentBalance.Int())
	assert.Equal(t, 30, receiver.CreditsReceivedTotal)
	assert.Equal(t, 0, receiver.MonthlySentThisMonth)

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, shared.EventRecognitionCreated, events[0].EventType())
}

func TestCreateRecognition_SenderNotFound(t *testing.T) {
	bob := mustStudent("student-b", "Bob")
	f := newTestFixture(bob)
	handler := NewCreateRecognitionHandler(f.tx, f.publisher)

	_, err := handler.Handle(context.Background(), CreateRecognitionCommand{
		SenderID:   "ghost",
		ReceiverID: "student-b",
		Credits:    10,
	})

	assert.ErrorIs(t, err, shared.ErrSenderNotFound)
	assert.Empty(t, f.publisher.Events())
}

func TestCreateRecognition_ReceiverNotFound(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	f := newTestFixture(alice)
	handler := NewCreateRecognitionHandler(f.tx, f.publisher)

	_, err := handler.Handle(context.Background(), CreateRecognitionCommand{
		SenderID:   "student-a",
		ReceiverID: "ghost",
		Credits:    10,
	})

	assert.ErrorIs(t, err, shared.ErrReceiverNotFound)
}

func TestCreateRecognition_BothMissingReportsSenderFirst(t *testing.T) {
	f := newTestFixture()
	handler := NewCreateRecognitionHandler(f.tx, f.publisher)

	_, err := handler.Handle(context.Background(), CreateRecognitionCommand{
		SenderID:   "ghost-z",
		ReceiverID: "ghost-a",
		Credits:    10,
	})

	assert.ErrorIs(t, err, shared.ErrSenderNotFound)
}

func TestCreateRecognition_SelfTransfer(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	f := newTestFixture(alice)
	handler := NewCreateRecognitionHandler(f.tx, f.publisher)

	_, err := handler.Handle(context.Background(), CreateRecognitionCommand{
		SenderID:   "student-a",
		ReceiverID: "student-a",
		Credits:    10,
	})

	assert.ErrorIs(t, err, shared.ErrSelfTransfer)
}

func TestCreateRecognition_SelfTransferUnknownStudent(t *testing.T) {
	f := newTestFixture()
	handler := NewCreateRecognitionHandler(f.tx, f.publisher)

	// Несуществующий ID в обеих ролях: проверки существования идут раньше
	// проверки самоперевода, значит ошибка - NotFound отправителя.
	_, err := handler.Handle(context.Background(), CreateRecognitionCommand{
		SenderID:   "ghost",
		ReceiverID: "ghost",
		Credits:    10,
	})

	assert.ErrorIs(t, err, shared.ErrSenderNotFound)
}

func TestCreateRecognition_InvalidCredits(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	bob := mustStudent("student-b", "Bob")
	f := newTestFixture(alice, bob)
	handler := NewCreateRecognitionHandler(f.tx, f.publisher)

	for _, credits := range []int{0, -5} {
		_, err := handler.Handle(context.Background(), CreateRecognitionCommand{
			SenderID:   "student-a",
			ReceiverID: "student-b",
			Credits:    credits,
		})
		assert.ErrorIs(t, err, shared.ErrInvalidCreditAmount)
	}
}

func TestCreateRecognition_InsufficientBalance(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	bob := mustStudent("student-b", "Bob")
	f := newTestFixture(alice, bob)
	handler := NewCreateRecognitionHandler(f.tx, f.publisher)

	_, err := handler.Handle(context.Background(), CreateRecognitionCommand{
		SenderID:   "student-a",
		ReceiverID: "student-b",
		Credits:    101,
	})

	assert.ErrorIs(t, err, shared.ErrInsufficientBalance)

	// Неудавшийся перевод не оставляет следов.
	sender, err := f.students.GetByID(context.Background(), "student-a")
	require.NoError(t, err)
	assert.Equal(t, 100, sender.CurrentBalance.Int())
	assert.Equal(t, 0, sender.MonthlySentThisMonth)
}

func TestCreateRecognition_MonthlyLimitBoundary(t *testing.T) {
	// Баланс выше лимита, чтобы проверка лимита срабатывала раньше баланса.
	alice := mustStudent("student-a", "Alice")
	require.NoError(t, alice.ReceiveCredits(100)) // balance 200
	bob := mustStudent("student-b", "Bob")
	f := newTestFixture(alice, bob)
	handler := NewCreateRecognitionHandler(f.tx, f.publisher)

	// Отправка ровно до лимита разрешена.
	result, err := handler.Handle(context.Background(), CreateRecognitionCommand{
		SenderID:   "student-a",
		ReceiverID: "student-b",
		Credits:    100,
	})
	require.NoError(t, err)
	assert.Equal(t, 100, result.SenderMonthlySent)

	// Следующий кредит превышает лимит.
	_, err = handler.Handle(context.Background(), CreateRecognitionCommand{
		SenderID:   "student-a",
		ReceiverID: "student-b",
		Credits:    1,
	})
	assert.ErrorIs(t, err, shared.ErrMonthlyLimitExceeded)
}

func TestCreateRecognition_MessageTooLong(t *testing.T) {
	f := newTestFixture()
	handler := NewCreateRecognitionHandler(f.tx, f.publisher)

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}

	_, err := handler.Handle(context.Background(), CreateRecognitionCommand{
		SenderID:   "student-a",
		ReceiverID: "student-b",
		Credits:    10,
		Message:    string(long),
	})

	require.Error(t, err)
}

func TestCreateRecognition_ReceivedCreditsSpendableSameMonth(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	bob := mustStudent("student-b", "Bob")
	f := newTestFixture(alice, bob)
	handler := NewCreateRecognitionHandler(f.tx, f.publisher)

	_, err := handler.Handle(context.Background(), CreateRecognitionCommand{
		SenderID:   "student-a",
		ReceiverID: "student-b",
		Credits:    40,
	})
	require.NoError(t, err)

	// Полученные кредиты сразу расходуемы: баланс Bob 140, лимит не тронут.
	result, err := handler.Handle(context.Background(), CreateRecognitionCommand{
		SenderID:   "student-b",
		ReceiverID: "student-a",
		Credits:    120,
	})
	require.ErrorIs(t, err, shared.ErrMonthlyLimitExceeded)
	assert.Nil(t, result)

	result, err = handler.Handle(context.Background(), CreateRecognitionCommand{
		SenderID:   "student-b",
		ReceiverID: "student-a",
		Credits:    100,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, result.SenderBalance)
}
