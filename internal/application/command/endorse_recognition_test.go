package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostly-hq/boostly/internal/domain/shared"
)

// createRecognitionForTest прогоняет перевод и возвращает ID признания.
func createRecognitionForTest(t *testing.T, f *testFixture, senderID, receiverID string, credits int) string {
	t.Helper()

	handler := NewCreateRecognitionHandler(f.tx, f.publisher)
	result, err := handler.Handle(context.Background(), CreateRecognitionCommand{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Credits:    credits,
	})
	require.NoError(t, err)
	return result.RecognitionID
}

func TestEndorseRecognition_Success(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	bob := mustStudent("student-b", "Bob")
	carol := mustStudent("student-c", "Carol")
	f := newTestFixture(alice, bob, carol)
	recID := createRecognitionForTest(t, f, "student-a", "student-b", 10)

	handler := NewEndorseRecognitionHandler(f.recognitions, f.endorsements, f.students, f.publisher)

	result, err := handler.Handle(context.Background(), EndorseRecognitionCommand{
		RecognitionID: recID,
		EndorserID:    "student-c",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.EndorsementID)
	assert.Equal(t, recID, result.RecognitionID)
	assert.Equal(t, "student-c", result.EndorserID)
	assert.Equal(t, 1, result.EndorsementCount)

	// Endorsement не двигает кредиты.
	receiver, err := f.students.GetByID(context.Background(), "student-b")
	require.NoError(t, err)
	assert.Equal(t, 110, receiver.CurrentBalance.Int())
	assert.Equal(t, 10, receiver.CreditsReceivedTotal)
}

func TestEndorseRecognition_Duplicate(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	bob := mustStudent("student-b", "Bob")
	carol := mustStudent("student-c", "Carol")
	f := newTestFixture(alice, bob, carol)
	recID := createRecognitionForTest(t, f, "student-a", "student-b", 10)

	handler := NewEndorseRecognitionHandler(f.recognitions, f.endorsements, f.students, f.publisher)

	_, err := handler.Handle(context.Background(), EndorseRecognitionCommand{
		RecognitionID: recID,
		EndorserID:    "student-c",
	})
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), EndorseRecognitionCommand{
		RecognitionID: recID,
		EndorserID:    "student-c",
	})
	assert.ErrorIs(t, err, shared.ErrDuplicateEndorsement)

	count, err := f.endorsements.CountByRecognition(context.Background(), recID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEndorseRecognition_RecognitionNotFound(t *testing.T) {
	carol := mustStudent("student-c", "Carol")
	f := newTestFixture(carol)

	handler := NewEndorseRecognitionHandler(f.recognitions, f.endorsements, f.students, f.publisher)

	_, err := handler.Handle(context.Background(), EndorseRecognitionCommand{
		RecognitionID: "missing-recognition",
		EndorserID:    "student-c",
	})

	assert.ErrorIs(t, err, shared.ErrRecognitionNotFound)
}

func TestEndorseRecognition_EndorserNotFound(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	bob := mustStudent("student-b", "Bob")
	f := newTestFixture(alice, bob)
	recID := createRecognitionForTest(t, f, "student-a", "student-b", 10)

	handler := NewEndorseRecognitionHandler(f.recognitions, f.endorsements, f.students, f.publisher)

	_, err := handler.Handle(context.Background(), EndorseRecognitionCommand{
		RecognitionID: recID,
		EndorserID:    "ghost",
	})

	assert.ErrorIs(t, err, shared.ErrEndorserNotFound)
}

func TestEndorseRecognition_SelfEndorsementAllowed(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	bob := mustStudent("student-b", "Bob")
	f := newTestFixture(alice, bob)
	recID := createRecognitionForTest(t, f, "student-a", "student-b", 10)

	handler := NewEndorseRecognitionHandler(f.recognitions, f.endorsements, f.students, f.publisher)

	// Отправитель и получатель могут endorse'ить собственное признание.
	for _, endorser := range []string{"student-a", "student-b"} {
		_, err := handler.Handle(context.Background(), EndorseRecognitionCommand{
			RecognitionID: recID,
			EndorserID:    endorser,
		})
		require.NoError(t, err)
	}

	count, err := f.endorsements.CountByRecognition(context.Background(), recID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestEndorseRecognition_PublishesEvent(t *testing.T) {
	alice := mustStudent("student-a", "Alice")
	bob := mustStudent("student-b", "Bob")
	f := newTestFixture(alice, bob)
	recID := createRecognitionForTest(t, f, "student-a", "student-b", 10)

	publisher := &capturePublisher{}
	handler := NewEndorseRecognitionHandler(f.recognitions, f.endorsements, f.students, publisher)

	_, err := handler.Handle(context.Background(), EndorseRecognitionCommand{
		RecognitionID: recID,
		EndorserID:    "student-b",
	})
	require.NoError(t, err)

	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, shared.EventRecognitionEndorsed, events[0].EventType())
}
