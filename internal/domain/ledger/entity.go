package ledger

import (
	"errors"
	"fmt"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrMissingID - не указан идентификатор записи.
	ErrMissingID = errors.New("ledger entry id is required")

	// ErrMissingStudentID - не указан студент.
	ErrMissingStudentID = errors.New("student id is required")

	// ErrInvalidCredits - сумма кредитов должна быть положительной.
	ErrInvalidCredits = errors.New("credits must be positive")

	// ErrInvalidMonth - месяц вне диапазона 1-12.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")

	// ErrInvalidYear - подозрительное значение года.
	ErrInvalidYear = errors.New("year is out of range")

	// ErrInvalidCarriedForward - перенос вне диапазона 0..CarryForwardCap.
	ErrInvalidCarriedForward = errors.New("carried forward amount is out of range")
)

// ══════════════════════════════════════════════════════════════════════════════
// REDEMPTION
// ══════════════════════════════════════════════════════════════════════════════

// Redemption - факт обмена кредитов на ваучер. Запись неизменяема:
// после создания redemption нельзя отменить или отредактировать.
type Redemption struct {
	// ID - уникальный идентификатор redemption'а (UUID).
	ID string

	// StudentID - студент, списавший кредиты.
	StudentID string

	// CreditsRedeemed - сколько кредитов списано с баланса.
	CreditsRedeemed int

	// VoucherValueINR - стоимость выданного ваучера в INR.
	VoucherValueINR int

	// CreatedAt - время операции.
	CreatedAt time.Time
}

// NewRedemptionParams содержит параметры для создания redemption'а.
type NewRedemptionParams struct {
	ID        string
	StudentID string
	Credits   int
}

// NewRedemption создаёт redemption с валидацией и вычисляет стоимость
// ваучера по фиксированному курсу VoucherRatePerCredit.
func NewRedemption(params NewRedemptionParams) (*Redemption, error) {
	if params.ID == "" {
		return nil, ErrMissingID
	}
	if params.StudentID == "" {
		return nil, ErrMissingStudentID
	}
	if params.Credits <= 0 {
		return nil, ErrInvalidCredits
	}

	return &Redemption{
		ID:              params.ID,
		StudentID:       params.StudentID,
		CreditsRedeemed: params.Credits,
		VoucherValueINR: VoucherValue(params.Credits),
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// String возвращает строковое представление для логирования.
func (r *Redemption) String() string {
	return fmt.Sprintf(
		"Redemption{ID: %s, Student: %s, Credits: %d, Voucher: %d INR}",
		r.ID, r.StudentID, r.CreditsRedeemed, r.VoucherValueINR,
	)
}

// ══════════════════════════════════════════════════════════════════════════════
// MONTHLY RESET LOG
// ══════════════════════════════════════════════════════════════════════════════

// MonthlyResetLog - журнальная запись одного месячного сброса баланса.
// Ровно одна запись на студента за цикл; пропущенные сбросы записей не создают.
type MonthlyResetLog struct {
	// ID - уникальный идентификатор записи (UUID).
	ID string

	// StudentID - студент, чей баланс сброшен.
	StudentID string

	// Month - месяц цикла (1-12).
	Month int

	// Year - год цикла.
	Year int

	// CarriedForward - сколько кредитов перенесено из прошлого месяца.
	CarriedForward int

	// CreatedAt - время выполнения сброса.
	CreatedAt time.Time
}

// NewMonthlyResetLogParams содержит параметры для создания записи сброса.
type NewMonthlyResetLogParams struct {
	ID             string
	StudentID      string
	Month          int
	Year           int
	CarriedForward int
}

// NewMonthlyResetLog создаёт запись журнала сброса с валидацией.
func NewMonthlyResetLog(params NewMonthlyResetLogParams) (*MonthlyResetLog, error) {
	if params.ID == "" {
		return nil, ErrMissingID
	}
	if params.StudentID == "" {
		return nil, ErrMissingStudentID
	}
	if params.Month < 1 || params.Month > 12 {
		return nil, ErrInvalidMonth
	}
	if params.Year < 2000 || params.Year > 9999 {
		return nil, ErrInvalidYear
	}
	if params.CarriedForward < 0 || params.CarriedForward > CarryForwardCap {
		return nil, ErrInvalidCarriedForward
	}

	return &MonthlyResetLog{
		ID:             params.ID,
		StudentID:      params.StudentID,
		Month:          params.Month,
		Year:           params.Year,
		CarriedForward: params.CarriedForward,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// String возвращает строковое представление для логирования.
func (l *MonthlyResetLog) String() string {
	return fmt.Sprintf(
		"MonthlyResetLog{Student: %s, Cycle: %04d-%02d, Carried: %d}",
		l.StudentID, l.Year, l.Month, l.CarriedForward,
	)
}
