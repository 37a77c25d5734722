package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostly-hq/boostly/internal/domain/shared"
	"github.com/boostly-hq/boostly/internal/domain/student"
)

// fakeStudentReader реализует минимальный student.Repository для запросов.
type fakeStudentReader struct {
	students map[string]*student.Student
	calls    int
}

func newFakeStudentReader(students ...*student.Student) *fakeStudentReader {
	r := &fakeStudentReader{students: make(map[string]*student.Student)}
	for _, s := range students {
		r.students[s.ID] = s
	}
	return r
}

func (r *fakeStudentReader) Create(_ context.Context, s *student.Student) error {
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentReader) GetByID(_ context.Context, id string) (*student.Student, error) {
	r.calls++
	s, ok := r.students[id]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return s.Clone(), nil
}

func (r *fakeStudentReader) GetByIDForUpdate(ctx context.Context, id string) (*student.Student, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeStudentReader) Update(_ context.Context, s *student.Student) error {
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentReader) GetAll(_ context.Context, _ student.ListOptions) ([]*student.Student, error) {
	return nil, nil
}

func (r *fakeStudentReader) GetAllIDs(_ context.Context) ([]string, error) {
	return nil, nil
}

func (r *fakeStudentReader) Count(_ context.Context) (int, error) {
	return len(r.students), nil
}

func (r *fakeStudentReader) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.students[id]
	return ok, nil
}

// fakeStudentCache - простой in-memory кеш без TTL.
type fakeStudentCache struct {
	students map[string]*student.Student
}

func newFakeStudentCache() *fakeStudentCache {
	return &fakeStudentCache{students: make(map[string]*student.Student)}
}

func (c *fakeStudentCache) Get(_ context.Context, studentID string) (*student.Student, error) {
	s, ok := c.students[studentID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (c *fakeStudentCache) Set(_ context.Context, s *student.Student, _ time.Duration) error {
	c.students[s.ID] = s
	return nil
}

func (c *fakeStudentCache) Invalidate(_ context.Context, studentID string) error {
	delete(c.students, studentID)
	return nil
}

func (c *fakeStudentCache) InvalidateAll(_ context.Context) error {
	c.students = make(map[string]*student.Student)
	return nil
}

func mustTestStudent(t *testing.T, id, name string) *student.Student {
	t.Helper()
	s, err := student.NewStudent(student.NewStudentParams{ID: id, Name: name})
	require.NoError(t, err)
	return s
}

func TestGetStudent_Success(t *testing.T) {
	alice := mustTestStudent(t, "student-a", "Alice")
	repo := newFakeStudentReader(alice)
	handler := NewGetStudentHandler(repo, nil)

	result, err := handler.Handle(context.Background(), GetStudentQuery{StudentID: "student-a"})

	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, "student-a", result.Student.ID)
	assert.Equal(t, "Alice", result.Student.Name)
	assert.Equal(t, 100, result.Student.CurrentBalance)
	assert.Equal(t, 0, result.Student.CreditsReceivedTotal)
	assert.Equal(t, 100, result.Student.RemainingAllowance)
	assert.Equal(t, 100, result.Student.MonthlyAllowance)
	assert.Nil(t, result.Student.LastCreditReset)
}

func TestGetStudent_NotFound(t *testing.T) {
	repo := newFakeStudentReader()
	handler := NewGetStudentHandler(repo, nil)

	_, err := handler.Handle(context.Background(), GetStudentQuery{StudentID: "ghost"})

	assert.ErrorIs(t, err, shared.ErrStudentNotFound)
}

func TestGetStudent_EmptyID(t *testing.T) {
	handler := NewGetStudentHandler(newFakeStudentReader(), nil)

	_, err := handler.Handle(context.Background(), GetStudentQuery{})

	require.Error(t, err)
}

func TestGetStudent_CachePopulatedOnMiss(t *testing.T) {
	alice := mustTestStudent(t, "student-a", "Alice")
	repo := newFakeStudentReader(alice)
	cache := newFakeStudentCache()
	handler := NewGetStudentHandler(repo, cache)

	first, err := handler.Handle(context.Background(), GetStudentQuery{StudentID: "student-a"})
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, 1, repo.calls)

	second, err := handler.Handle(context.Background(), GetStudentQuery{StudentID: "student-a"})
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, 1, repo.calls)
}

func TestGetStudent_RemainingAllowanceReflectsSending(t *testing.T) {
	alice := mustTestStudent(t, "student-a", "Alice")
	require.NoError(t, alice.SendCredits(30))
	repo := newFakeStudentReader(alice)
	handler := NewGetStudentHandler(repo, nil)

	result, err := handler.Handle(context.Background(), GetStudentQuery{StudentID: "student-a"})

	require.NoError(t, err)
	assert.Equal(t, 70, result.Student.CurrentBalance)
	assert.Equal(t, 30, result.Student.MonthlySentThisMonth)
	assert.Equal(t, 70, result.Student.RemainingAllowance)
}
