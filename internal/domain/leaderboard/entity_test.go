package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRanking_Sort(t *testing.T) {
	ranking := NewRanking()

	require.NoError(t, ranking.Add(&Entry{StudentID: "stu-c", Name: "C", CreditsReceivedTotal: 10}))
	require.NoError(t, ranking.Add(&Entry{StudentID: "stu-a", Name: "A", CreditsReceivedTotal: 30}))
	require.NoError(t, ranking.Add(&Entry{StudentID: "stu-b", Name: "B", CreditsReceivedTotal: 10}))
	require.NoError(t, ranking.Add(&Entry{StudentID: "stu-d", Name: "D", CreditsReceivedTotal: 0}))

	ranking.Sort()

	all := ranking.All()
	require.Len(t, all, 4)

	assert.Equal(t, "stu-a", all[0].StudentID)
	// Tie on 10 credits: lower ID first, strict ranks without sharing.
	assert.Equal(t, "stu-b", all[1].StudentID)
	assert.Equal(t, "stu-c", all[2].StudentID)
	// Students with zero received credits are still ranked.
	assert.Equal(t, "stu-d", all[3].StudentID)

	for i, entry := range all {
		assert.Equal(t, Rank(i+1), entry.Rank)
	}
}

func TestRanking_AddDuplicate(t *testing.T) {
	ranking := NewRanking()
	require.NoError(t, ranking.Add(&Entry{StudentID: "stu-a"}))

	assert.ErrorIs(t, ranking.Add(&Entry{StudentID: "stu-a"}), ErrDuplicateStudent)
	assert.ErrorIs(t, ranking.Add(nil), ErrNilEntry)
}

func TestRanking_Top(t *testing.T) {
	ranking := NewRanking()
	for _, e := range []*Entry{
		{StudentID: "stu-a", CreditsReceivedTotal: 5},
		{StudentID: "stu-b", CreditsReceivedTotal: 15},
		{StudentID: "stu-c", CreditsReceivedTotal: 25},
	} {
		require.NoError(t, ranking.Add(e))
	}
	ranking.Sort()

	top := ranking.Top(2)
	require.Len(t, top, 2)
	assert.Equal(t, "stu-c", top[0].StudentID)
	assert.Equal(t, "stu-b", top[1].StudentID)

	assert.Len(t, ranking.Top(10), 3)
	assert.Nil(t, ranking.Top(0))
}

func TestSnapshot(t *testing.T) {
	ranking := NewRanking()
	require.NoError(t, ranking.Add(&Entry{StudentID: "stu-a", CreditsReceivedTotal: 5}))
	require.NoError(t, ranking.Add(&Entry{StudentID: "stu-b", CreditsReceivedTotal: 50}))
	ranking.Sort()

	snapshot := NewSnapshot(ranking.All())

	assert.Equal(t, 2, snapshot.TotalStudents)
	assert.Equal(t, Rank(1), snapshot.GetRank("stu-b"))
	assert.Equal(t, Rank(2), snapshot.GetRank("stu-a"))
	assert.Equal(t, Rank(0), snapshot.GetRank("stu-x"))
	assert.NotEmpty(t, snapshot.GeneratedAt)
}

func TestNewEntry_Validation(t *testing.T) {
	_, err := NewEntry(0, "stu-a", "A", 1, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidRank)

	_, err = NewEntry(1, "", "A", 1, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidStudentID)

	_, err = NewEntry(1, "stu-a", "A", -1, 0, 0)
	assert.ErrorIs(t, err, ErrNegativeCount)

	entry, err := NewEntry(1, "stu-a", "A", 10, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, entry.EndorsementCount)
}
