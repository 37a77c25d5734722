// Package shared contains common domain types, errors, and events that are
// used across all domain packages.
package shared

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event represents a committed ledger state change;
// events are published only after the owning transaction has committed.
const (
	// Student events
	EventStudentRegistered EventType = "student.registered"

	// Recognition events
	EventRecognitionCreated  EventType = "recognition.created"
	EventRecognitionEndorsed EventType = "recognition.endorsed"

	// Ledger events
	EventCreditsRedeemed     EventType = "ledger.credits_redeemed"
	EventMonthlyResetApplied EventType = "ledger.monthly_reset_applied"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Student Events
// ═══════════════════════════════════════════════════════════════════════════

// StudentRegisteredEvent is emitted when a new student joins the ledger.
type StudentRegisteredEvent struct {
	BaseEvent
	StudentID      string `json:"student_id"`
	Name           string `json:"name"`
	InitialBalance int    `json:"initial_balance"`
}

// Payload implements Event interface.
func (e StudentRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":      e.StudentID,
		"name":            e.Name,
		"initial_balance": e.InitialBalance,
	}
}

// NewStudentRegisteredEvent creates a new StudentRegisteredEvent.
func NewStudentRegisteredEvent(studentID, name string, initialBalance int) StudentRegisteredEvent {
	return StudentRegisteredEvent{
		BaseEvent:      NewBaseEvent(EventStudentRegistered, studentID),
		StudentID:      studentID,
		Name:           name,
		InitialBalance: initialBalance,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Recognition Events
// ═══════════════════════════════════════════════════════════════════════════

// RecognitionCreatedEvent is emitted after a credit transfer has committed.
type RecognitionCreatedEvent struct {
	BaseEvent
	RecognitionID string `json:"recognition_id"`
	SenderID      string `json:"sender_id"`
	ReceiverID    string `json:"receiver_id"`
	Credits       int    `json:"credits"`
}

// Payload implements Event interface.
func (e RecognitionCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"recognition_id": e.RecognitionID,
		"sender_id":      e.SenderID,
		"receiver_id":    e.ReceiverID,
		"credits":        e.Credits,
	}
}

// NewRecognitionCreatedEvent creates a new RecognitionCreatedEvent.
func NewRecognitionCreatedEvent(recognitionID, senderID, receiverID string, credits int) RecognitionCreatedEvent {
	return RecognitionCreatedEvent{
		BaseEvent:     NewBaseEvent(EventRecognitionCreated, recognitionID),
		RecognitionID: recognitionID,
		SenderID:      senderID,
		ReceiverID:    receiverID,
		Credits:       credits,
	}
}

// RecognitionEndorsedEvent is emitted after an endorsement has committed.
type RecognitionEndorsedEvent struct {
	BaseEvent
	EndorsementID string `json:"endorsement_id"`
	RecognitionID string `json:"recognition_id"`
	EndorserID    string `json:"endorser_id"`
}

// Payload implements Event interface.
func (e RecognitionEndorsedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"endorsement_id": e.EndorsementID,
		"recognition_id": e.RecognitionID,
		"endorser_id":    e.EndorserID,
	}
}

// NewRecognitionEndorsedEvent creates a new RecognitionEndorsedEvent.
func NewRecognitionEndorsedEvent(endorsementID, recognitionID, endorserID string) RecognitionEndorsedEvent {
	return RecognitionEndorsedEvent{
		BaseEvent:     NewBaseEvent(EventRecognitionEndorsed, recognitionID),
		EndorsementID: endorsementID,
		RecognitionID: recognitionID,
		EndorserID:    endorserID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Ledger Events
// ═══════════════════════════════════════════════════════════════════════════

// CreditsRedeemedEvent is emitted after a redemption has committed.
type CreditsRedeemedEvent struct {
	BaseEvent
	RedemptionID    string `json:"redemption_id"`
	StudentID       string `json:"student_id"`
	CreditsRedeemed int    `json:"credits_redeemed"`
	VoucherValueINR int    `json:"voucher_value_inr"`
}

// Payload implements Event interface.
func (e CreditsRedeemedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"redemption_id":     e.RedemptionID,
		"student_id":        e.StudentID,
		"credits_redeemed":  e.CreditsRedeemed,
		"voucher_value_inr": e.VoucherValueINR,
	}
}

// NewCreditsRedeemedEvent creates a new CreditsRedeemedEvent.
func NewCreditsRedeemedEvent(redemptionID, studentID string, creditsRedeemed, voucherValueINR int) CreditsRedeemedEvent {
	return CreditsRedeemedEvent{
		BaseEvent:       NewBaseEvent(EventCreditsRedeemed, studentID),
		RedemptionID:    redemptionID,
		StudentID:       studentID,
		CreditsRedeemed: creditsRedeemed,
		VoucherValueINR: voucherValueINR,
	}
}

// MonthlyResetAppliedEvent is emitted after a student's monthly reset has
// committed. One event per student per cycle, never for skipped students.
type MonthlyResetAppliedEvent struct {
	BaseEvent
	StudentID      string `json:"student_id"`
	Month          int    `json:"month"`
	Year           int    `json:"year"`
	CarriedForward int    `json:"carried_forward"`
	NewBalance     int    `json:"new_balance"`
}

// Payload implements Event interface.
func (e MonthlyResetAppliedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":      e.StudentID,
		"month":           e.Month,
		"year":            e.Year,
		"carried_forward": e.CarriedForward,
		"new_balance":     e.NewBalance,
	}
}

// NewMonthlyResetAppliedEvent creates a new MonthlyResetAppliedEvent.
func NewMonthlyResetAppliedEvent(studentID string, month, year, carriedForward, newBalance int) MonthlyResetAppliedEvent {
	return MonthlyResetAppliedEvent{
		BaseEvent:      NewBaseEvent(EventMonthlyResetApplied, studentID),
		StudentID:      studentID,
		Month:          month,
		Year:           year,
		CarriedForward: carriedForward,
		NewBalance:     newBalance,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// NoopPublisher is an EventPublisher that discards all events.
// Useful for tests and for wiring code paths where eventing is disabled.
type NoopPublisher struct{}

// Publish implements EventPublisher.
func (NoopPublisher) Publish(Event) error { return nil }
