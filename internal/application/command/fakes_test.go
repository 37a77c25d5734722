package command

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/boostly-hq/boostly/internal/domain/ledger"
	"github.com/boostly-hq/boostly/internal/domain/recognition"
	"github.com/boostly-hq/boostly/internal/domain/shared"
	"github.com/boostly-hq/boostly/internal/domain/student"
)

// In-memory репозитории для тестов обработчиков команд. Студенты отдаются
// клонами, а в хранилище попадают только через Update - это воспроизводит
// транзакционную семантику: упавшая команда не оставляет следов.

type memStudentRepo struct {
	mu           sync.Mutex
	students     map[string]*student.Student
	failUpdateID string
}

func newMemStudentRepo(students ...*student.Student) *memStudentRepo {
	repo := &memStudentRepo{students: make(map[string]*student.Student)}
	for _, s := range students {
		repo.students[s.ID] = s.Clone()
	}
	return repo
}

func (r *memStudentRepo) Create(_ context.Context, s *student.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[s.ID]; ok {
		return shared.ErrAlreadyExists
	}
	r.students[s.ID] = s.Clone()
	return nil
}

func (r *memStudentRepo) GetByID(_ context.Context, id string) (*student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.students[id]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return s.Clone(), nil
}

func (r *memStudentRepo) GetByIDForUpdate(ctx context.Context, id string) (*student.Student, error) {
	return r.GetByID(ctx, id)
}

func (r *memStudentRepo) Update(_ context.Context, s *student.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == r.failUpdateID {
		return errors.New("storage failure")
	}
	if _, ok := r.students[s.ID]; !ok {
		return shared.ErrStudentNotFound
	}
	r.students[s.ID] = s.Clone()
	return nil
}

func (r *memStudentRepo) GetAll(_ context.Context, _ student.ListOptions) ([]*student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*student.Student, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, s.Clone())
	}
	return out, nil
}

func (r *memStudentRepo) GetAllIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.students))
	for id := range r.students {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memStudentRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.students), nil
}

func (r *memStudentRepo) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.students[id]
	return ok, nil
}

type memRecognitionRepo struct {
	mu           sync.Mutex
	recognitions map[string]*recognition.Recognition
}

func newMemRecognitionRepo() *memRecognitionRepo {
	return &memRecognitionRepo{recognitions: make(map[string]*recognition.Recognition)}
}

func (r *memRecognitionRepo) Create(_ context.Context, rec *recognition.Recognition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recognitions[rec.ID]; ok {
		return shared.ErrAlreadyExists
	}
	r.recognitions[rec.ID] = rec
	return nil
}

func (r *memRecognitionRepo) GetByID(_ context.Context, id string) (*recognition.Recognition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recognitions[id]
	if !ok {
		return nil, shared.ErrRecognitionNotFound
	}
	return rec, nil
}

func (r *memRecognitionRepo) GetBySender(_ context.Context, senderID string, limit int) ([]*recognition.Recognition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*recognition.Recognition
	for _, rec := range r.recognitions {
		if rec.SenderID == senderID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memRecognitionRepo) GetByReceiver(_ context.Context, receiverID string, limit int) ([]*recognition.Recognition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*recognition.Recognition
	for _, rec := range r.recognitions {
		if rec.ReceiverID == receiverID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memRecognitionRepo) CountByReceiver(ctx context.Context, receiverID string) (int, error) {
	recs, _ := r.GetByReceiver(ctx, receiverID, 0)
	return len(recs), nil
}

type memEndorsementRepo struct {
	mu           sync.Mutex
	endorsements map[string]*recognition.Endorsement
}

func newMemEndorsementRepo() *memEndorsementRepo {
	return &memEndorsementRepo{endorsements: make(map[string]*recognition.Endorsement)}
}

func endorsementKey(recognitionID, endorserID string) string {
	return recognitionID + "|" + endorserID
}

func (r *memEndorsementRepo) Create(_ context.Context, e *recognition.Endorsement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := endorsementKey(e.RecognitionID, e.EndorserID)
	if _, ok := r.endorsements[key]; ok {
		return shared.ErrDuplicateEndorsement
	}
	r.endorsements[key] = e
	return nil
}

func (r *memEndorsementRepo) GetByRecognition(_ context.Context, recognitionID string) ([]*recognition.Endorsement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*recognition.Endorsement
	for _, e := range r.endorsements {
		if e.RecognitionID == recognitionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEndorsementRepo) Exists(_ context.Context, recognitionID, endorserID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.endorsements[endorsementKey(recognitionID, endorserID)]
	return ok, nil
}

func (r *memEndorsementRepo) CountByRecognition(ctx context.Context, recognitionID string) (int, error) {
	list, _ := r.GetByRecognition(ctx, recognitionID)
	return len(list), nil
}

type memRedemptionRepo struct {
	mu          sync.Mutex
	redemptions []*ledger.Redemption
}

func newMemRedemptionRepo() *memRedemptionRepo {
	return &memRedemptionRepo{}
}

func (r *memRedemptionRepo) Create(_ context.Context, redemption *ledger.Redemption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redemptions = append(r.redemptions, redemption)
	return nil
}

func (r *memRedemptionRepo) GetByID(_ context.Context, id string) (*ledger.Redemption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, red := range r.redemptions {
		if red.ID == id {
			return red, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memRedemptionRepo) GetByStudent(_ context.Context, studentID string, limit int) ([]*ledger.Redemption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ledger.Redemption
	for _, red := range r.redemptions {
		if red.StudentID == studentID {
			out = append(out, red)
		}
	}
	return out, nil
}

func (r *memRedemptionRepo) TotalRedeemed(_ context.Context, studentID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, red := range r.redemptions {
		if red.StudentID == studentID {
			total += red.CreditsRedeemed
		}
	}
	return total, nil
}

type memResetLogRepo struct {
	mu   sync.Mutex
	logs []*ledger.MonthlyResetLog
}

func newMemResetLogRepo() *memResetLogRepo {
	return &memResetLogRepo{}
}

func (r *memResetLogRepo) Create(_ context.Context, log *ledger.MonthlyResetLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return nil
}

func (r *memResetLogRepo) GetByStudent(_ context.Context, studentID string, limit int) ([]*ledger.MonthlyResetLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ledger.MonthlyResetLog
	for _, log := range r.logs {
		if log.StudentID == studentID {
			out = append(out, log)
		}
	}
	return out, nil
}

func (r *memResetLogRepo) GetByCycle(_ context.Context, year int, month time.Month) ([]*ledger.MonthlyResetLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ledger.MonthlyResetLog
	for _, log := range r.logs {
		if log.Year == year && log.Month == int(month) {
			out = append(out, log)
		}
	}
	return out, nil
}

func (r *memResetLogRepo) CountByCycle(ctx context.Context, year int, month time.Month) (int, error) {
	logs, _ := r.GetByCycle(ctx, year, month)
	return len(logs), nil
}

// memTransactor просто выполняет функцию с набором in-memory репозиториев.
type memTransactor struct {
	repos Repositories
}

func newMemTransactor(repos Repositories) *memTransactor {
	return &memTransactor{repos: repos}
}

func (t *memTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return fn(ctx, t.repos)
}

// capturePublisher накапливает опубликованные события.
type capturePublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *capturePublisher) Publish(event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Events() []shared.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.Event(nil), p.events...)
}

// testFixture собирает полный набор фейков для одного теста.
type testFixture struct {
	students     *memStudentRepo
	recognitions *memRecognitionRepo
	endorsements *memEndorsementRepo
	redemptions  *memRedemptionRepo
	resetLogs    *memResetLogRepo
	tx           *memTransactor
	publisher    *capturePublisher
}

func newTestFixture(students ...*student.Student) *testFixture {
	f := &testFixture{
		students:     newMemStudentRepo(students...),
		recognitions: newMemRecognitionRepo(),
		endorsements: newMemEndorsementRepo(),
		redemptions:  newMemRedemptionRepo(),
		resetLogs:    newMemResetLogRepo(),
		publisher:    &capturePublisher{},
	}
	f.tx = newMemTransactor(Repositories{
		Students:     f.students,
		Recognitions: f.recognitions,
		Endorsements: f.endorsements,
		Redemptions:  f.redemptions,
		ResetLogs:    f.resetLogs,
	})
	return f
}

func mustStudent(id, name string) *student.Student {
	s, err := student.NewStudent(student.NewStudentParams{ID: id, Name: name})
	if err != nil {
		panic(err)
	}
	return s
}
