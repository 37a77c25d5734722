package student

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/boostly-hq/boostly/internal/domain/ledger"
	"github.com/boostly-hq/boostly/internal/domain/shared"
	"github.com/boostly-hq/boostly/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Balance представляет расходуемый остаток кредитов студента.
type Balance int

// IsValid проверяет, что баланс неотрицательный.
func (b Balance) IsValid() bool {
	return b >= 0
}

// Int возвращает числовое значение баланса.
func (b Balance) Int() int {
	return int(b)
}

// CanCover проверяет, хватает ли баланса на списание указанной суммы.
func (b Balance) CanCover(credits int) bool {
	return int(b) >= credits
}

// Name представляет отображаемое имя студента.
type Name string

// IsValid проверяет корректность имени: 1-100 символов после обрезки пробелов.
func (n Name) IsValid() bool {
	s := strings.TrimSpace(string(n))
	return len(s) >= 1 && len(s) <= 100
}

// String возвращает строковое представление имени.
func (n Name) String() string {
	return string(n)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student - центральная сущность системы, представляющая участника ledger'а.
//
// Студент хранит два независимых счётчика кредитов:
//   - CurrentBalance - расходуемый остаток (тратится на признания и ваучеры);
//   - CreditsReceivedTotal - пожизненный счёт полученного признания
//     (только растёт, определяет позицию в лидерборде).
type Student struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// Name - отображаемое имя студента.
	Name string

	// CurrentBalance - текущий расходуемый баланс кредитов.
	CurrentBalance Balance

	// CreditsReceivedTotal - сумма всех когда-либо полученных кредитов.
	// Никогда не уменьшается: ни сброс, ни redemption его не трогают.
	CreditsReceivedTotal int

	// MonthlySentThisMonth - сколько кредитов отправлено в текущем цикле.
	MonthlySentThisMonth int

	// LastCreditReset - время последнего месячного сброса.
	// nil означает, что сброс ещё ни разу не выполнялся.
	LastCreditReset *time.Time

	// CreatedAt - время регистрации студента.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrMissingID - не указан идентификатор студента.
	ErrMissingID = errors.New("student id is required")

	// ErrInvalidName - невалидное имя студента.
	ErrInvalidName = errors.New("invalid student name: must be 1-100 chars")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewStudentParams содержит параметры для создания нового студента.
type NewStudentParams struct {
	ID   string
	Name string
}

// NewStudent создаёт нового студента с валидацией всех полей.
// Новый студент получает стартовый баланс ledger.InitialBalance.
func NewStudent(params NewStudentParams) (*Student, error) {
	if params.ID == "" {
		return nil, ErrMissingID
	}

	name := strings.TrimSpace(params.Name)
	if !Name(name).IsValid() {
		return nil, ErrInvalidName
	}

	now := time.Now().UTC()

	return &Student{
		ID:                   params.ID,
		Name:                 name,
		CurrentBalance:       Balance(ledger.InitialBalance),
		CreditsReceivedTotal: 0,
		MonthlySentThisMonth: 0,
		LastCreditReset:      nil,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// SendCredits списывает кредиты с баланса отправителя.
// Проверки выполняются в фиксированном порядке: сумма, баланс, месячный лимит.
// Отправка ровно до лимита (monthly_sent == 100) разрешена.
func (s *Student) SendCredits(credits int) error {
	if credits <= 0 {
		return shared.ErrInvalidCreditAmount
	}

	if !s.CurrentBalance.CanCover(credits) {
		return shared.ErrInsufficientBalance
	}

	if s.MonthlySentThisMonth+credits > ledger.MonthlyAllowance {
		return shared.ErrMonthlyLimitExceeded
	}

	s.CurrentBalance -= Balance(credits)
	s.MonthlySentThisMonth += credits
	s.UpdatedAt = time.Now().UTC()

	return nil
}

// ReceiveCredits зачисляет полученные кредиты: на расходуемый баланс
// и на пожизненный счёт признания одновременно. Перевод net-zero:
// баланс получателя растёт ровно на столько, на сколько упал у отправителя.
func (s *Student) ReceiveCredits(credits int) error {
	if credits <= 0 {
		return shared.ErrInvalidCreditAmount
	}

	s.CurrentBalance += Balance(credits)
	s.CreditsReceivedTotal += credits
	s.UpdatedAt = time.Now().UTC()

	return nil
}

// RedeemCredits списывает кредиты с баланса в обмен на ваучер.
// Redemption не учитывается в месячном лимите отправки.
func (s *Student) RedeemCredits(credits int) error {
	if credits <= 0 {
		return shared.ErrInvalidCreditAmount
	}

	if !s.CurrentBalance.CanCover(credits) {
		return shared.ErrInsufficientBalance
	}

	s.CurrentBalance -= Balance(credits)
	s.UpdatedAt = time.Now().UTC()

	return nil
}

// RemainingAllowance возвращает, сколько кредитов ещё можно отправить
// в текущем месячном цикле.
func (s *Student) RemainingAllowance() int {
	remaining := ledger.MonthlyAllowance - s.MonthlySentThisMonth
	if remaining < 0 {
		return 0
	}
	return remaining
}

// NeedsMonthlyReset проверяет, нужен ли студенту месячный сброс на момент now.
// Сравнение идёт по календарному месяцу программной таймзоны (IST),
// а не по 30 дням: цикл переключается в полночь первого числа по IST.
func (s *Student) NeedsMonthlyReset(now time.Time) bool {
	if s.LastCreditReset == nil {
		return true
	}

	last := timeutil.ToKolkata(*s.LastCreditReset)
	now = timeutil.ToKolkata(now)

	if last.Year() != now.Year() {
		return last.Year() < now.Year()
	}
	return last.Month() < now.Month()
}

// ApplyMonthlyReset выполняет месячный сброс баланса и возвращает
// количество перенесённых кредитов.
//
// Правила:
//   - переносится min(ledger.CarryForwardCap, CurrentBalance);
//   - новый баланс = ledger.InitialBalance + перенос;
//   - месячный счётчик отправки обнуляется.
//
// Вызывающий обязан сначала проверить NeedsMonthlyReset.
func (s *Student) ApplyMonthlyReset(now time.Time) (carriedForward int) {
	carriedForward = ledger.CarryForward(s.CurrentBalance.Int())

	s.CurrentBalance = Balance(ledger.InitialBalance + carriedForward)
	s.MonthlySentThisMonth = 0

	resetAt := now.UTC()
	s.LastCreditReset = &resetAt
	s.UpdatedAt = resetAt

	return carriedForward
}

// String возвращает строковое представление студента для логирования.
func (s *Student) String() string {
	return fmt.Sprintf(
		"Student{ID: %s, Name: %s, Balance: %d, Received: %d, SentThisMonth: %d}",
		s.ID, s.Name, s.CurrentBalance, s.CreditsReceivedTotal, s.MonthlySentThisMonth,
	)
}

// Clone создаёт глубокую копию студента.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}

	clone := *s
	if s.LastCreditReset != nil {
		t := *s.LastCreditReset
		clone.LastCreditReset = &t
	}
	return &clone
}
