package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSameCycle(t *testing.T) {
	midAugust := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want bool
	}{
		{
			name: "same month",
			a:    time.Date(2026, time.August, 1, 0, 0, 0, 0, KolkataTZ),
			b:    midAugust,
			want: true,
		},
		{
			name: "previous month",
			a:    time.Date(2026, time.July, 31, 12, 0, 0, 0, time.UTC),
			b:    midAugust,
			want: false,
		},
		{
			// 31 июля 19:00 UTC - это уже 1 августа 00:30 по IST.
			name: "UTC date lags IST cycle",
			a:    time.Date(2026, time.July, 31, 19, 0, 0, 0, time.UTC),
			b:    midAugust,
			want: true,
		},
		{
			name: "different year",
			a:    time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC),
			b:    midAugust,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameCycle(tt.a, tt.b))
		})
	}
}

func TestStartOfCycle(t *testing.T) {
	mid := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	start := StartOfCycle(mid)

	assert.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, KolkataTZ), start)
	assert.Equal(t, KolkataTZ, start.Location())
}

func TestNextCycleStart(t *testing.T) {
	mid := time.Date(2026, time.December, 15, 10, 0, 0, 0, time.UTC)
	next := NextCycleStart(mid)

	assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, KolkataTZ), next)
}

func TestCycleKey(t *testing.T) {
	assert.Equal(t, "2026-08", CycleKey(time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)))

	// 31 июля 19:00 UTC попадает в августовский цикл IST.
	assert.Equal(t, "2026-08", CycleKey(time.Date(2026, time.July, 31, 19, 0, 0, 0, time.UTC)))
}

func TestStartOfDayAndEndOfDay(t *testing.T) {
	instant := time.Date(2026, time.August, 15, 10, 30, 0, 0, KolkataTZ)

	start := StartOfDay(instant)
	end := EndOfDay(instant)

	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 23, end.Hour())
	assert.True(t, start.Before(instant))
	assert.True(t, end.After(instant))
}
