package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/boostly-hq/boostly/internal/domain/shared"
	"github.com/boostly-hq/boostly/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER STUDENT COMMAND
// Registers a new student in the ledger with the initial credit balance.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentCommand contains the data to register a student.
type RegisterStudentCommand struct {
	// Name is the display name of the student.
	Name string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RegisterStudentCommand) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return errors.New("register_student: name is required")
	}
	if len(name) > 100 {
		return errors.New("register_student: name must be at most 100 chars")
	}
	return nil
}

// RegisterStudentResult contains the result of registering a student.
type RegisterStudentResult struct {
	// StudentID is the generated internal ID.
	StudentID string

	// Name is the normalized display name.
	Name string

	// CurrentBalance is the starting balance.
	CurrentBalance int

	// CreatedAt is when the student was registered.
	CreatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentHandler handles the RegisterStudentCommand.
type RegisterStudentHandler struct {
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewRegisterStudentHandler creates a new RegisterStudentHandler.
func NewRegisterStudentHandler(
	studentRepo student.Repository,
	eventPublisher shared.EventPublisher,
) *RegisterStudentHandler {
	if eventPublisher == nil {
		eventPublisher = shared.NoopPublisher{}
	}

	return &RegisterStudentHandler{
		studentRepo:    studentRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the register student command.
func (h *RegisterStudentHandler) Handle(ctx context.Context, cmd RegisterStudentCommand) (*RegisterStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("student", "Register", shared.ErrValidation, "validation failed", err)
	}

	stud, err := student.NewStudent(student.NewStudentParams{
		ID:   uuid.NewString(),
		Name: cmd.Name,
	})
	if err != nil {
		return nil, shared.WrapError("student", "Register", shared.ErrValidation, "invalid student", err)
	}

	if err := h.studentRepo.Create(ctx, stud); err != nil {
		return nil, fmt.Errorf("register_student: failed to create student: %w", err)
	}

	event := shared.NewStudentRegisteredEvent(stud.ID, stud.Name, stud.CurrentBalance.Int())
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	_ = h.eventPublisher.Publish(event)

	return &RegisterStudentResult{
		StudentID:      stud.ID,
		Name:           stud.Name,
		CurrentBalance: stud.CurrentBalance.Int(),
		CreatedAt:      stud.CreatedAt,
	}, nil
}
