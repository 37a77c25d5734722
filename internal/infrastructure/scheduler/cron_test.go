package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCronExpression(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{"every five minutes", "*/5 * * * *", false},
		{"first of month at 00:05", "5 0 1 * *", false},
		{"every hour", "0 * * * *", false},
		{"list of minutes", "0,15,30,45 * * * *", false},
		{"range of hours", "0 9-21 * * *", false},
		{"too few fields", "* * * *", true},
		{"too many fields", "* * * * * *", true},
		{"minute out of range", "60 * * * *", true},
		{"garbage field", "abc * * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce, err := ParseCronExpression(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expr, ce.String())
		})
	}
}

func TestCronExpression_Next_FirstOfMonth(t *testing.T) {
	ce, err := ParseCronExpression("5 0 1 * *")
	require.NoError(t, err)

	from := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	next := ce.Next(from)

	assert.Equal(t, time.Date(2026, time.September, 1, 0, 5, 0, 0, time.UTC), next)
}

func TestCronExpression_Next_SameDay(t *testing.T) {
	ce, err := ParseCronExpression("*/15 * * * *")
	require.NoError(t, err)

	from := time.Date(2026, time.August, 15, 12, 7, 30, 0, time.UTC)
	next := ce.Next(from)

	assert.Equal(t, time.Date(2026, time.August, 15, 12, 15, 0, 0, time.UTC), next)
}

func TestCronExpression_Next_YearRollover(t *testing.T) {
	ce, err := ParseCronExpression("5 0 1 * *")
	require.NoError(t, err)

	from := time.Date(2026, time.December, 20, 0, 0, 0, 0, time.UTC)
	next := ce.Next(from)

	assert.Equal(t, time.Date(2027, time.January, 1, 0, 5, 0, 0, time.UTC), next)
}

func TestMustParseCronExpression_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		MustParseCronExpression("not a cron")
	})
}

func TestIntervalSchedule(t *testing.T) {
	s := NewIntervalSchedule(3 * time.Minute)

	from := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, from.Add(3*time.Minute), s.Next(from))
	assert.Equal(t, "@every 3m0s", s.String())
}
