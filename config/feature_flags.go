package config

import (
	"fmt"
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Feature represents a named feature flag.
type Feature string

// Available feature flags.
const (
	// Recognition features
	FeatureRecognitionMessages Feature = "recognition.messages"
	FeatureEndorsements        Feature = "recognition.endorsements"

	// Ledger features
	FeatureVoucherRedemption Feature = "ledger.voucher_redemption"
	FeatureCarryForward      Feature = "ledger.carry_forward"

	// Leaderboard features
	FeatureLeaderboardCache    Feature = "leaderboard.snapshot_cache"
	FeatureLeaderboardRealtime Feature = "leaderboard.realtime_refresh"

	// Admin features
	FeatureAdminResetEndpoint Feature = "admin.reset_endpoint"

	// Experimental features
	FeatureWeeklyDigest Feature = "experimental.weekly_digest"
	FeatureTeamBoards   Feature = "experimental.team_boards"
)

// FeatureState represents the state of a feature flag.
type FeatureState struct {
	// Enabled globally
	Enabled bool

	// RolloutPercent for gradual rollout (0-100)
	// Only applies if Enabled is true
	RolloutPercent int

	// Description of the feature
	Description string
}

// FeatureFlags manages feature flag state.
type FeatureFlags struct {
	mu    sync.RWMutex
	flags map[Feature]FeatureState

	// Per-student overrides (for testing and staged rollouts)
	studentOverrides map[string]map[Feature]bool
}

// LoadFeatureFlags loads feature flags from environment and defaults.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		flags:            make(map[Feature]FeatureState),
		studentOverrides: make(map[string]map[Feature]bool),
	}

	// Set defaults
	ff.setDefaults()

	// Override from environment
	ff.loadFromEnv()

	return ff
}

func (ff *FeatureFlags) setDefaults() {
	defaults := map[Feature]FeatureState{
		FeatureRecognitionMessages: {
			Enabled:        true,
			RolloutPercent: 100,
			Description:    "Free-form note attached to a recognition",
		},
		FeatureEndorsements: {
			Enabled:        true,
			RolloutPercent: 100,
			Description:    "Upvoting existing recognitions",
		},
		FeatureVoucherRedemption: {
			Enabled:        true,
			RolloutPercent: 100,
			Description:    "Converting credits into INR vouchers",
		},
		FeatureCarryForward: {
			Enabled:        true,
			RolloutPercent: 100,
			Description:    "Carrying capped leftover balance across the monthly reset",
		},
		FeatureLeaderboardCache: {
			Enabled:        true,
			RolloutPercent: 100,
			Description:    "Serving the leaderboard from the Redis snapshot",
		},
		FeatureLeaderboardRealtime: {
			Enabled:        false,
			RolloutPercent: 0,
			Description:    "Refreshing the snapshot on every recognition instead of on a timer",
		},
		FeatureAdminResetEndpoint: {
			Enabled:        true,
			RolloutPercent: 100,
			Description:    "Out-of-band monthly reset trigger over HTTP",
		},
		FeatureWeeklyDigest: {
			Enabled:        false,
			RolloutPercent: 0,
			Description:    "Weekly recognition summary per student",
		},
		FeatureTeamBoards: {
			Enabled:        false,
			RolloutPercent: 0,
			Description:    "Leaderboards scoped to a team or cohort",
		},
	}

	for feature, state := range defaults {
		ff.flags[feature] = state
	}
}

func (ff *FeatureFlags) loadFromEnv() {
	// Environment variables like FEATURE_RECOGNITION_MESSAGES=true
	// or FEATURE_RECOGNITION_MESSAGES=50 (for rollout percent)
	for feature := range ff.flags {
		envKey := featureToEnvKey(feature)
		val := os.Getenv(envKey)
		if val == "" {
			continue
		}

		state := ff.flags[feature]

		// Try parsing as bool first
		if b, err := strconv.ParseBool(val); err == nil {
			state.Enabled = b
			if b {
				state.RolloutPercent = 100
			} else {
				state.RolloutPercent = 0
			}
			ff.flags[feature] = state
			continue
		}

		// Try parsing as rollout percent
		if pct, err := strconv.Atoi(val); err == nil && pct >= 0 && pct <= 100 {
			state.Enabled = pct > 0
			state.RolloutPercent = pct
			ff.flags[feature] = state
		}
	}
}

// featureToEnvKey converts a feature name to an environment variable key.
// Example: "recognition.messages" -> "FEATURE_RECOGNITION_MESSAGES"
func featureToEnvKey(feature Feature) string {
	key := string(feature)
	key = strings.ReplaceAll(key, ".", "_")
	key = strings.ToUpper(key)
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled globally.
func (ff *FeatureFlags) IsEnabled(feature Feature) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	state, exists := ff.flags[feature]
	if !exists {
		return false
	}
	return state.Enabled && state.RolloutPercent >= 100
}

// IsEnabledForStudent checks if a feature is enabled for a specific student,
// taking overrides and gradual rollout into account.
func (ff *FeatureFlags) IsEnabledForStudent(feature Feature, studentID string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check per-student override first
	if overrides, ok := ff.studentOverrides[studentID]; ok {
		if enabled, ok := overrides[feature]; ok {
			return enabled
		}
	}

	state, exists := ff.flags[feature]
	if !exists {
		return false
	}

	if !state.Enabled {
		return false
	}

	if state.RolloutPercent >= 100 {
		return true
	}

	if state.RolloutPercent <= 0 {
		return false
	}

	// Deterministic bucketing: the same student lands in the same bucket
	// for a feature across restarts.
	return studentBucket(studentID, feature) < state.RolloutPercent
}

// studentBucket maps a (student, feature) pair to a bucket in [0, 100).
func studentBucket(studentID string, feature Feature) int {
	h := fnv.New32a()
	h.Write([]byte(studentID))
	h.Write([]byte(feature))
	return int(h.Sum32() % 100)
}

// SetOverride sets a per-student override for a feature.
func (ff *FeatureFlags) SetOverride(studentID string, feature Feature, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if ff.studentOverrides[studentID] == nil {
		ff.studentOverrides[studentID] = make(map[Feature]bool)
	}
	ff.studentOverrides[studentID][feature] = enabled
}

// ClearOverride removes a per-student override.
func (ff *FeatureFlags) ClearOverride(studentID string, feature Feature) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if overrides, ok := ff.studentOverrides[studentID]; ok {
		delete(overrides, feature)
		if len(overrides) == 0 {
			delete(ff.studentOverrides, studentID)
		}
	}
}

// SetRolloutPercent updates the rollout percentage for a feature.
func (ff *FeatureFlags) SetRolloutPercent(feature Feature, percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("rollout percent must be 0-100, got %d", percent)
	}

	ff.mu.Lock()
	defer ff.mu.Unlock()

	state, exists := ff.flags[feature]
	if !exists {
		return fmt.Errorf("unknown feature: %s", feature)
	}

	state.RolloutPercent = percent
	state.Enabled = percent > 0
	ff.flags[feature] = state
	return nil
}

// EnableFeature enables a feature globally.
func (ff *FeatureFlags) EnableFeature(feature Feature) error {
	return ff.SetRolloutPercent(feature, 100)
}

// DisableFeature disables a feature globally.
func (ff *FeatureFlags) DisableFeature(feature Feature) error {
	return ff.SetRolloutPercent(feature, 0)
}

// AllFlags returns a snapshot of all feature flags.
func (ff *FeatureFlags) AllFlags() map[Feature]FeatureState {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	snapshot := make(map[Feature]FeatureState, len(ff.flags))
	for feature, state := range ff.flags {
		snapshot[feature] = state
	}
	return snapshot
}
