// Package recognition содержит доменную модель признания - перевода кредитов
// от одного студента другому - и endorsement'ов (подтверждений признания).
package recognition

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/boostly-hq/boostly/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrMissingID - не указан идентификатор записи.
	ErrMissingID = errors.New("recognition id is required")

	// ErrMissingSender - не указан отправитель.
	ErrMissingSender = errors.New("sender id is required")

	// ErrMissingReceiver - не указан получатель.
	ErrMissingReceiver = errors.New("receiver id is required")

	// ErrMissingEndorser - не указан endorser.
	ErrMissingEndorser = errors.New("endorser id is required")

	// ErrMissingRecognition - не указано признание для endorsement'а.
	ErrMissingRecognition = errors.New("recognition id is required for endorsement")

	// ErrMessageTooLong - сообщение превышает допустимую длину.
	ErrMessageTooLong = errors.New("recognition message is too long")
)

// MaxMessageLength - максимальная длина сопроводительного сообщения.
const MaxMessageLength = 500

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: RECOGNITION
// ══════════════════════════════════════════════════════════════════════════════

// Recognition - факт передачи кредитов признания между студентами.
// Запись неизменяема: после создания её нельзя отредактировать или отозвать.
type Recognition struct {
	// ID - уникальный идентификатор признания (UUID).
	ID string

	// SenderID - студент, отправивший кредиты.
	SenderID string

	// ReceiverID - студент, получивший кредиты.
	ReceiverID string

	// Credits - количество переданных кредитов.
	Credits int

	// Message - необязательное сопроводительное сообщение.
	Message string

	// CreatedAt - время создания признания.
	CreatedAt time.Time
}

// NewRecognitionParams содержит параметры для создания признания.
type NewRecognitionParams struct {
	ID         string
	SenderID   string
	ReceiverID string
	Credits    int
	Message    string
}

// NewRecognition создаёт признание с валидацией инвариантов самой записи.
// Проверки баланса и месячного лимита отправителя выполняет application-слой:
// они требуют состояния студента, которого у этой сущности нет.
func NewRecognition(params NewRecognitionParams) (*Recognition, error) {
	if params.ID == "" {
		return nil, ErrMissingID
	}
	if params.SenderID == "" {
		return nil, ErrMissingSender
	}
	if params.ReceiverID == "" {
		return nil, ErrMissingReceiver
	}
	if params.SenderID == params.ReceiverID {
		return nil, shared.ErrSelfTransfer
	}
	if params.Credits <= 0 {
		return nil, shared.ErrInvalidCreditAmount
	}

	message := strings.TrimSpace(params.Message)
	if len(message) > MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	return &Recognition{
		ID:         params.ID,
		SenderID:   params.SenderID,
		ReceiverID: params.ReceiverID,
		Credits:    params.Credits,
		Message:    message,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// String возвращает строковое представление для логирования.
func (r *Recognition) String() string {
	return fmt.Sprintf(
		"Recognition{ID: %s, %s -> %s, Credits: %d}",
		r.ID, r.SenderID, r.ReceiverID, r.Credits,
	)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENDORSEMENT
// ══════════════════════════════════════════════════════════════════════════════

// Endorsement - подтверждение чужого признания ("я тоже это видел").
// Кредиты не передаёт. Один студент может endorse'ить признание один раз;
// endorsement собственного признания разрешён.
type Endorsement struct {
	// ID - уникальный идентификатор endorsement'а (UUID).
	ID string

	// RecognitionID - подтверждаемое признание.
	RecognitionID string

	// EndorserID - студент, подтвердивший признание.
	EndorserID string

	// CreatedAt - время endorsement'а.
	CreatedAt time.Time
}

// NewEndorsementParams содержит параметры для создания endorsement'а.
type NewEndorsementParams struct {
	ID            string
	RecognitionID string
	EndorserID    string
}

// NewEndorsement создаёт endorsement с валидацией.
// Уникальность пары (recognition, endorser) обеспечивает хранилище.
func NewEndorsement(params NewEndorsementParams) (*Endorsement, error) {
	if params.ID == "" {
		return nil, ErrMissingID
	}
	if params.RecognitionID == "" {
		return nil, ErrMissingRecognition
	}
	if params.EndorserID == "" {
		return nil, ErrMissingEndorser
	}

	return &Endorsement{
		ID:            params.ID,
		RecognitionID: params.RecognitionID,
		EndorserID:    params.EndorserID,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// String возвращает строковое представление для логирования.
func (e *Endorsement) String() string {
	return fmt.Sprintf(
		"Endorsement{ID: %s, Recognition: %s, Endorser: %s}",
		e.ID, e.RecognitionID, e.EndorserID,
	)
}
