package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/penwyp/go-focus-calendar/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := LoadZone(name)
	require.NoError(t, err)
	return loc
}

func TestLoadZone(t *testing.T) {
	tests := []struct {
		name     string
		zone     string
		expected string
		wantErr  bool
	}{
		{name: "empty is UTC", zone: "", expected: "UTC"},
		{name: "chicago", zone: "America/Chicago", expected: "America/Chicago"},
		{name: "half hour offset", zone: "Asia/Kolkata", expected: "Asia/Kolkata"},
		{name: "unknown zone", zone: "Mars/Olympus_Mons", wantErr: true},
		{name: "garbage", zone: "not a zone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadZone(tt.zone)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTimezone))
				assert.Contains(t, err.Error(), tt.zone)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, loc.String())
		})
	}
}

func TestLoadZone_Local(t *testing.T) {
	t.Setenv("TZ", "America/Chicago")

	loc, err := LoadZone("Local")
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", loc.String())

	window := ComputeWeek(time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, "America/Chicago", window.Zone)
	assert.Equal(t, time.Date(2025, 6, 9, 5, 0, 0, 0, time.UTC), window.WeekStartUTC)

	_, err = LoadZone(window.Zone)
	assert.NoError(t, err, "reported zone loads again")
}

func TestCivilDateAndWeekday(t *testing.T) {
	instant := time.Date(2025, 6, 11, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		zone    string
		date    string
		weekday model.Weekday
	}{
		{"UTC", "2025-06-11", model.Wednesday},
		{"America/Chicago", "2025-06-11", model.Wednesday},
		{"Asia/Tokyo", "2025-06-12", model.Thursday},
		{"Pacific/Kiritimati", "2025-06-12", model.Thursday},
		{"Pacific/Pago_Pago", "2025-06-11", model.Wednesday},
	}

	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			loc := mustZone(t, tt.zone)
			assert.Equal(t, tt.date, CivilDate(instant, loc))
			assert.Equal(t, tt.weekday, CivilWeekday(instant, loc))
		})
	}
}

func TestParseInstant(t *testing.T) {
	want := time.Date(2025, 6, 11, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{name: "zulu", input: "2025-06-11T23:30:00Z", expected: want},
		{name: "explicit utc offset", input: "2025-06-11T23:30:00+00:00", expected: want},
		{name: "negative offset", input: "2025-06-11T18:30:00-05:00", expected: want},
		{name: "microseconds with offset", input: "2025-06-11T23:30:00.000000+00:00", expected: want},
		{name: "offsetless is utc", input: "2025-06-11T23:30:00", expected: want},
		{name: "offsetless with fraction", input: "2025-06-11T23:30:00.250", expected: want.Add(250 * time.Millisecond)},
		{name: "space separator", input: "2025-06-11 23:30:00", expected: want},
		{name: "space separator with offset", input: "2025-06-11 23:30:00+00:00", expected: want},
		{name: "surrounding whitespace", input: "  2025-06-11T23:30:00Z ", expected: want},
		{name: "compact utc offset", input: "2025-06-11T23:30:00+0000", expected: want},
		{name: "compact negative offset", input: "2025-06-11T18:30:00-0500", expected: want},
		{name: "hour only offset", input: "2025-06-12T01:30:00+02", expected: want},
		{name: "lowercase zulu", input: "2025-06-11T23:30:00z", expected: want},
		{name: "fraction with compact offset", input: "2025-06-11T18:30:00.5-0500", expected: want.Add(500 * time.Millisecond)},
		{name: "space separator compact offset", input: "2025-06-11 18:30:00-0500", expected: want},
		{name: "space separator hour offset", input: "2025-06-11 23:30:00+00", expected: want},
		{name: "space separator lowercase zulu", input: "2025-06-11 23:30:00z", expected: want},
		{name: "empty", input: "", wantErr: true},
		{name: "date only", input: "2025-06-11", wantErr: true},
		{name: "garbage", input: "yesterday-ish", wantErr: true},
		{name: "impossible date", input: "2025-02-30T10:00:00Z", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInstant(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidSessionTimestamp))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %s want %s", got, tt.expected)
		})
	}
}

func TestStartOfCivilDay(t *testing.T) {
	tests := []struct {
		name     string
		zone     string
		y        int
		m        time.Month
		d        int
		expected time.Time
	}{
		{
			name:     "ordinary day",
			zone:     "America/Chicago",
			y:        2025,
			m:        time.June,
			d:        9,
			expected: time.Date(2025, 6, 9, 5, 0, 0, 0, time.UTC),
		},
		{
			name:     "spring forward day keeps its midnight",
			zone:     "America/Chicago",
			y:        2025,
			m:        time.March,
			d:        9,
			expected: time.Date(2025, 3, 9, 6, 0, 0, 0, time.UTC),
		},
		{
			name:     "midnight skipped by DST starts at 01:00",
			zone:     "America/Sao_Paulo",
			y:        2018,
			m:        time.November,
			d:        4,
			expected: time.Date(2018, 11, 4, 3, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := mustZone(t, tt.zone)
			got := StartOfCivilDay(tt.y, tt.m, tt.d, loc)
			assert.True(t, tt.expected.Equal(got), "got %s want %s", got.UTC(), tt.expected)
			assert.Equal(t, time.Date(tt.y, tt.m, tt.d, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), CivilDate(got, loc))
		})
	}
}

func TestAddCivilDays(t *testing.T) {
	got, err := AddCivilDays("2025-02-27", 3)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-02", got)

	got, err = AddCivilDays("2025-01-01", -1)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", got)

	_, err = AddCivilDays("2025-13-01", 1)
	assert.Error(t, err)
}
