package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFeatureFlags_Defaults(t *testing.T) {
	ff := LoadFeatureFlags()

	assert.True(t, ff.IsEnabled(FeatureEndorsements))
	assert.True(t, ff.IsEnabled(FeatureVoucherRedemption))
	assert.False(t, ff.IsEnabled(FeatureWeeklyDigest))
	assert.False(t, ff.IsEnabled(FeatureTeamBoards))
}

func TestLoadFeatureFlags_EnvBoolOverride(t *testing.T) {
	t.Setenv("FEATURE_RECOGNITION_ENDORSEMENTS", "false")

	ff := LoadFeatureFlags()
	assert.False(t, ff.IsEnabled(FeatureEndorsements))
}

func TestLoadFeatureFlags_EnvRolloutPercent(t *testing.T) {
	t.Setenv("FEATURE_EXPERIMENTAL_WEEKLY_DIGEST", "50")

	ff := LoadFeatureFlags()

	// Глобально фича не считается включённой при частичном раскатывании.
	assert.False(t, ff.IsEnabled(FeatureWeeklyDigest))

	state := ff.AllFlags()[FeatureWeeklyDigest]
	assert.True(t, state.Enabled)
	assert.Equal(t, 50, state.RolloutPercent)
}

func TestIsEnabledForStudent_Deterministic(t *testing.T) {
	ff := LoadFeatureFlags()
	require.NoError(t, ff.SetRolloutPercent(FeatureWeeklyDigest, 50))

	first := ff.IsEnabledForStudent(FeatureWeeklyDigest, "stud-42")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ff.IsEnabledForStudent(FeatureWeeklyDigest, "stud-42"),
			"same student must land in the same bucket")
	}
}

func TestIsEnabledForStudent_Override(t *testing.T) {
	ff := LoadFeatureFlags()
	require.NoError(t, ff.DisableFeature(FeatureWeeklyDigest))

	assert.False(t, ff.IsEnabledForStudent(FeatureWeeklyDigest, "stud-1"))

	ff.SetOverride("stud-1", FeatureWeeklyDigest, true)
	assert.True(t, ff.IsEnabledForStudent(FeatureWeeklyDigest, "stud-1"))
	assert.False(t, ff.IsEnabledForStudent(FeatureWeeklyDigest, "stud-2"))

	ff.ClearOverride("stud-1", FeatureWeeklyDigest)
	assert.False(t, ff.IsEnabledForStudent(FeatureWeeklyDigest, "stud-1"))
}

func TestSetRolloutPercent_Validation(t *testing.T) {
	ff := LoadFeatureFlags()

	assert.Error(t, ff.SetRolloutPercent(FeatureWeeklyDigest, 101))
	assert.Error(t, ff.SetRolloutPercent(FeatureWeeklyDigest, -1))
	assert.Error(t, ff.SetRolloutPercent(Feature("unknown.flag"), 10))
}

func TestFeatureToEnvKey(t *testing.T) {
	assert.Equal(t, "FEATURE_RECOGNITION_MESSAGES", featureToEnvKey(FeatureRecognitionMessages))
	assert.Equal(t, "FEATURE_LEADERBOARD_SNAPSHOT_CACHE", featureToEnvKey(FeatureLeaderboardCache))
}
