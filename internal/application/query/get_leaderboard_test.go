package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostly-hq/boostly/internal/domain/leaderboard"
)

// fakeLeaderboardRepo отдаёт заранее заданный отсортированный список.
type fakeLeaderboardRepo struct {
	entries []*leaderboard.Entry
	calls   int
}

func (r *fakeLeaderboardRepo) GetTop(_ context.Context, limit int) ([]*leaderboard.Entry, error) {
	r.calls++
	if limit > len(r.entries) {
		limit = len(r.entries)
	}
	return r.entries[:limit], nil
}

func (r *fakeLeaderboardRepo) GetStudentEntry(_ context.Context, studentID string) (*leaderboard.Entry, error) {
	for _, e := range r.entries {
		if e.StudentID == studentID {
			return e, nil
		}
	}
	return nil, leaderboard.ErrSnapshotNotFound
}

func (r *fakeLeaderboardRepo) GetTotalCount(_ context.Context) (int, error) {
	return len(r.entries), nil
}

// fakeLeaderboardCache хранит один снапшот в памяти.
type fakeLeaderboardCache struct {
	snapshot *leaderboard.Snapshot
}

func (c *fakeLeaderboardCache) GetSnapshot(_ context.Context) (*leaderboard.Snapshot, error) {
	if c.snapshot == nil {
		return nil, leaderboard.ErrSnapshotNotFound
	}
	return c.snapshot, nil
}

func (c *fakeLeaderboardCache) SetSnapshot(_ context.Context, snapshot *leaderboard.Snapshot, _ time.Duration) error {
	c.snapshot = snapshot
	return nil
}

func (c *fakeLeaderboardCache) Invalidate(_ context.Context) error {
	c.snapshot = nil
	return nil
}

func mustEntry(t *testing.T, rank int, studentID, name string, credits int) *leaderboard.Entry {
	t.Helper()
	entry, err := leaderboard.NewEntry(leaderboard.Rank(rank), studentID, name, credits, 1, 0)
	require.NoError(t, err)
	return entry
}

func TestGetLeaderboard_FromStorage(t *testing.T) {
	repo := &fakeLeaderboardRepo{entries: []*leaderboard.Entry{
		mustEntry(t, 1, "student-b", "Bob", 90),
		mustEntry(t, 2, "student-a", "Alice", 40),
	}}
	handler := NewGetLeaderboardHandler(repo, nil)

	result, err := handler.Handle(context.Background(), GetLeaderboardQuery{Limit: 10})

	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, 2, result.TotalCount)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, 1, result.Entries[0].Rank)
	assert.Equal(t, "Bob", result.Entries[0].Name)
	assert.Equal(t, 90, result.Entries[0].CreditsReceivedTotal)
}

func TestGetLeaderboard_DefaultLimit(t *testing.T) {
	entries := make([]*leaderboard.Entry, 0, 15)
	for i := 0; i < 15; i++ {
		entries = append(entries, mustEntry(t, i+1, string(rune('a'+i)), "Student", 100-i))
	}
	repo := &fakeLeaderboardRepo{entries: entries}
	handler := NewGetLeaderboardHandler(repo, nil)

	result, err := handler.Handle(context.Background(), GetLeaderboardQuery{})

	require.NoError(t, err)
	assert.Len(t, result.Entries, DefaultLeaderboardLimit)
	assert.Equal(t, 15, result.TotalCount)
}

func TestGetLeaderboard_NegativeLimit(t *testing.T) {
	handler := NewGetLeaderboardHandler(&fakeLeaderboardRepo{}, nil)

	_, err := handler.Handle(context.Background(), GetLeaderboardQuery{Limit: -1})

	require.Error(t, err)
}

func TestGetLeaderboard_FromCache(t *testing.T) {
	repo := &fakeLeaderboardRepo{entries: []*leaderboard.Entry{
		mustEntry(t, 1, "student-b", "Bob", 90),
	}}
	cache := &fakeLeaderboardCache{}
	snapshot := leaderboard.NewSnapshot([]*leaderboard.Entry{
		mustEntry(t, 1, "student-b", "Bob", 90),
	})
	require.NoError(t, cache.SetSnapshot(context.Background(), snapshot, time.Minute))

	handler := NewGetLeaderboardHandler(repo, cache)

	result, err := handler.Handle(context.Background(), GetLeaderboardQuery{Limit: 10})

	require.NoError(t, err)
	assert.True(t, result.FromCache)
	assert.Equal(t, 0, repo.calls)
	require.Len(t, result.Entries, 1)
}

func TestGetLeaderboard_BypassCache(t *testing.T) {
	repo := &fakeLeaderboardRepo{entries: []*leaderboard.Entry{
		mustEntry(t, 1, "student-b", "Bob", 90),
	}}
	cache := &fakeLeaderboardCache{}
	require.NoError(t, cache.SetSnapshot(context.Background(), leaderboard.NewSnapshot(nil), time.Minute))

	handler := NewGetLeaderboardHandler(repo, cache)

	result, err := handler.Handle(context.Background(), GetLeaderboardQuery{Limit: 10, BypassCache: true})

	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, 1, repo.calls)
}

func TestGetLeaderboard_StaleShortSnapshotFallsThrough(t *testing.T) {
	// Снапшот из 1 записи не покрывает запрос топ-10 при 5 студентах в базе.
	entries := []*leaderboard.Entry{
		mustEntry(t, 1, "a", "A", 50),
		mustEntry(t, 2, "b", "B", 40),
		mustEntry(t, 3, "c", "C", 30),
		mustEntry(t, 4, "d", "D", 20),
		mustEntry(t, 5, "e", "E", 10),
	}
	repo := &fakeLeaderboardRepo{entries: entries}
	cache := &fakeLeaderboardCache{}
	short := leaderboard.NewSnapshot(entries[:1])
	short.TotalStudents = 5
	require.NoError(t, cache.SetSnapshot(context.Background(), short, time.Minute))

	handler := NewGetLeaderboardHandler(repo, cache)

	result, err := handler.Handle(context.Background(), GetLeaderboardQuery{Limit: 10})

	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Len(t, result.Entries, 5)
}
