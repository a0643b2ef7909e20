package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNowMarker(t *testing.T) {
	loc := mustZone(t, "America/Chicago")
	w := ComputeWeek(time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC), loc)

	m := NowMarker(time.Date(2025, 6, 12, 12, 15, 0, 0, time.UTC), w, loc)
	require.NotNil(t, m)
	assert.Equal(t, 3, m.DayIndex)
	assert.InDelta(t, 7.25, m.HourDecimal, 1e-9)

	// Monday 01:00 of the following week
	assert.Nil(t, NowMarker(time.Date(2025, 6, 16, 6, 0, 0, 0, time.UTC), w, loc))
	assert.Nil(t, NowMarker(time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC), w, loc))
}

func TestWeekBoundaryMarker(t *testing.T) {
	tests := []struct {
		name     string
		zone     string
		reset    time.Time
		dayIndex int
		hour     float64
		absent   bool
	}{
		{
			name:     "utc viewer sees sunday midnight",
			zone:     "UTC",
			reset:    time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			dayIndex: 6,
			hour:     0,
		},
		{
			name:     "chicago viewer sees saturday evening",
			zone:     "America/Chicago",
			reset:    time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			dayIndex: 5,
			hour:     19,
		},
		{
			name:     "tokyo viewer sees sunday morning",
			zone:     "Asia/Tokyo",
			reset:    time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			dayIndex: 6,
			hour:     9,
		},
		{
			name:   "reset outside the window",
			zone:   "UTC",
			reset:  time.Date(2025, 6, 22, 0, 0, 0, 0, time.UTC),
			absent: true,
		},
		{
			name:   "zero instant",
			zone:   "UTC",
			absent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := mustZone(t, tt.zone)
			w := ComputeWeek(time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC), loc)

			m := WeekBoundaryMarker(w, tt.reset, loc)
			if tt.absent {
				assert.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			assert.Equal(t, tt.dayIndex, m.DayIndex)
			assert.InDelta(t, tt.hour, m.HourDecimal, 1e-9)
		})
	}
}
