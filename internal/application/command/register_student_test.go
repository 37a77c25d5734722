package command

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostly-hq/boostly/internal/domain/shared"
)

func TestRegisterStudent_Success(t *testing.T) {
	f := newTestFixture()
	handler := NewRegisterStudentHandler(f.students, f.publisher)

	result, err := handler.Handle(context.Background(), RegisterStudentCommand{Name: "  Alice  "})

	require.NoError(t, err)
	assert.NotEmpty(t, result.StudentID)
	assert.Equal(t, "Alice", result.Name)
	assert.Equal(t, 100, result.CurrentBalance)

	stored, err := f.students.GetByID(context.Background(), result.StudentID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.CurrentBalance.Int())
	assert.Equal(t, 0, stored.CreditsReceivedTotal)
	assert.Nil(t, stored.LastCreditReset)

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, shared.EventStudentRegistered, events[0].EventType())
}

func TestRegisterStudent_EmptyName(t *testing.T) {
	f := newTestFixture()
	handler := NewRegisterStudentHandler(f.students, f.publisher)

	for _, name := range []string{"", "   "} {
		_, err := handler.Handle(context.Background(), RegisterStudentCommand{Name: name})
		assert.ErrorIs(t, err, shared.ErrValidation)
	}
}

func TestRegisterStudent_NameTooLong(t *testing.T) {
	f := newTestFixture()
	handler := NewRegisterStudentHandler(f.students, f.publisher)

	_, err := handler.Handle(context.Background(), RegisterStudentCommand{
		Name: strings.Repeat("x", 101),
	})

	assert.ErrorIs(t, err, shared.ErrValidation)
}
