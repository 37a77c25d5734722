package query

import (
	"context"
	"errors"
	"time"

	"github.com/boostly-hq/boostly/internal/domain/ledger"
	"github.com/boostly-hq/boostly/internal/domain/shared"
	"github.com/boostly-hq/boostly/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDENT QUERY
// Возвращает карточку студента: баланс, пожизненный счёт, остаток месячного
// лимита. Читает через кеш; промах кеша прозрачно уходит в хранилище.
// ══════════════════════════════════════════════════════════════════════════════

// GetStudentQuery содержит параметры запроса студента.
type GetStudentQuery struct {
	// StudentID - внутренний ID студента.
	StudentID string
}

// Validate проверяет корректность параметров запроса.
func (q GetStudentQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("student_id is required")
	}
	return nil
}

// StudentDTO - DTO карточки студента.
type StudentDTO struct {
	// ID - внутренний ID студента.
	ID string `json:"id"`

	// Name - отображаемое имя.
	Name string `json:"name"`

	// CurrentBalance - текущий расходуемый баланс.
	CurrentBalance int `json:"current_balance"`

	// CreditsReceivedTotal - пожизненный счёт полученного признания.
	CreditsReceivedTotal int `json:"credits_received_total"`

	// MonthlySentThisMonth - отправлено в текущем цикле.
	MonthlySentThisMonth int `json:"monthly_sent_this_month"`

	// RemainingAllowance - сколько ещё можно отправить в этом цикле.
	RemainingAllowance int `json:"remaining_allowance"`

	// MonthlyAllowance - месячный лимит отправки (константа политики).
	MonthlyAllowance int `json:"monthly_allowance"`

	// LastCreditReset - время последнего месячного сброса (nil = не было).
	LastCreditReset *time.Time `json:"last_credit_reset"`

	// CreatedAt - время регистрации.
	CreatedAt time.Time `json:"created_at"`
}

// GetStudentResult содержит результат запроса студента.
type GetStudentResult struct {
	// Student - карточка студента.
	Student StudentDTO `json:"student"`

	// FromCache - получен ли результат из кеша.
	FromCache bool `json:"from_cache"`
}

// GetStudentHandler обрабатывает запросы карточки студента.
type GetStudentHandler struct {
	studentRepo  student.Repository
	studentCache student.Cache
	cacheTTL     time.Duration
}

// DefaultStudentCacheTTL - TTL кеша карточки студента. Короткий: баланс
// меняется каждым переводом, а инвалидацию делают обработчики событий.
const DefaultStudentCacheTTL = 30 * time.Second

// NewGetStudentHandler создаёт новый обработчик запроса студента.
// studentCache может быть nil - тогда все чтения идут в хранилище.
func NewGetStudentHandler(studentRepo student.Repository, studentCache student.Cache) *GetStudentHandler {
	return &GetStudentHandler{
		studentRepo:  studentRepo,
		studentCache: studentCache,
		cacheTTL:     DefaultStudentCacheTTL,
	}
}

// Handle выполняет запрос карточки студента.
func (h *GetStudentHandler) Handle(ctx context.Context, query GetStudentQuery) (*GetStudentResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetStudent", shared.ErrValidation, err.Error(), err)
	}

	if h.studentCache != nil {
		if cached, err := h.studentCache.Get(ctx, query.StudentID); err == nil && cached != nil {
			return &GetStudentResult{Student: toStudentDTO(cached), FromCache: true}, nil
		}
	}

	stud, err := h.studentRepo.GetByID(ctx, query.StudentID)
	if err != nil {
		return nil, err
	}

	if h.studentCache != nil {
		_ = h.studentCache.Set(ctx, stud, h.cacheTTL)
	}

	return &GetStudentResult{Student: toStudentDTO(stud), FromCache: false}, nil
}

// toStudentDTO конвертирует доменную сущность в DTO.
func toStudentDTO(s *student.Student) StudentDTO {
	return StudentDTO{
		ID:                   s.ID,
		Name:                 s.Name,
		CurrentBalance:       s.CurrentBalance.Int(),
		CreditsReceivedTotal: s.CreditsReceivedTotal,
		MonthlySentThisMonth: s.MonthlySentThisMonth,
		RemainingAllowance:   s.RemainingAllowance(),
		MonthlyAllowance:     ledger.MonthlyAllowance,
		LastCreditReset:      s.LastCreditReset,
		CreatedAt:            s.CreatedAt,
	}
}
