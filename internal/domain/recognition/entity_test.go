package recognition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostly-hq/boostly/internal/domain/shared"
)

func TestNewRecognition(t *testing.T) {
	r, err := NewRecognition(NewRecognitionParams{
		ID:         "rec-1",
		SenderID:   "stu-1",
		ReceiverID: "stu-2",
		Credits:    20,
		Message:    "  помог разобраться с goroutine leak  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "stu-1", r.SenderID)
	assert.Equal(t, "stu-2", r.ReceiverID)
	assert.Equal(t, 20, r.Credits)
	assert.Equal(t, "помог разобраться с goroutine leak", r.Message)
}

func TestNewRecognition_SelfTransfer(t *testing.T) {
	_, err := NewRecognition(NewRecognitionParams{
		ID:         "rec-1",
		SenderID:   "stu-1",
		ReceiverID: "stu-1",
		Credits:    10,
	})
	assert.ErrorIs(t, err, shared.ErrSelfTransfer)
}

func TestNewRecognition_Validation(t *testing.T) {
	_, err := NewRecognition(NewRecognitionParams{SenderID: "a", ReceiverID: "b", Credits: 1})
	assert.ErrorIs(t, err, ErrMissingID)

	_, err = NewRecognition(NewRecognitionParams{ID: "rec-1", ReceiverID: "b", Credits: 1})
	assert.ErrorIs(t, err, ErrMissingSender)

	_, err = NewRecognition(NewRecognitionParams{ID: "rec-1", SenderID: "a", Credits: 1})
	assert.ErrorIs(t, err, ErrMissingReceiver)

	_, err = NewRecognition(NewRecognitionParams{ID: "rec-1", SenderID: "a", ReceiverID: "b", Credits: 0})
	assert.ErrorIs(t, err, shared.ErrInvalidCreditAmount)
}

func TestNewEndorsement(t *testing.T) {
	e, err := NewEndorsement(NewEndorsementParams{
		ID:            "end-1",
		RecognitionID: "rec-1",
		EndorserID:    "stu-3",
	})
	require.NoError(t, err)
	assert.Equal(t, "rec-1", e.RecognitionID)

	// Endorsing a recognition you sent or received yourself is allowed;
	// the entity does not know the participants, so no check here.
	_, err = NewEndorsement(NewEndorsementParams{ID: "end-2", RecognitionID: "rec-1", EndorserID: "stu-1"})
	assert.NoError(t, err)

	_, err = NewEndorsement(NewEndorsementParams{ID: "end-3", EndorserID: "stu-3"})
	assert.ErrorIs(t, err, ErrMissingRecognition)
}
