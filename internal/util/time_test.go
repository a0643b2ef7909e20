package util

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTimeProvider(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "local timezone", timezone: "Local"},
		{name: "UTC timezone", timezone: "UTC"},
		{name: "valid timezone America/Chicago", timezone: "America/Chicago"},
		{name: "empty timezone defaults to Local", timezone: ""},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitializeTimeProvider(tt.timezone)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid timezone 'Invalid/Timezone'")
				assert.Contains(t, err.Error(), "Valid examples:")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, GetTimeProvider())
		})
	}
}

func TestLocalZone(t *testing.T) {
	tests := []struct {
		name     string
		tz       string
		expected string
	}{
		{name: "zone name", tz: "Europe/Berlin", expected: "Europe/Berlin"},
		{name: "colon prefix", tz: ":Asia/Tokyo", expected: "Asia/Tokyo"},
		{name: "zoneinfo path", tz: "/usr/share/zoneinfo/America/Chicago", expected: "America/Chicago"},
		{name: "empty is UTC", tz: "", expected: "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TZ", tt.tz)
			assert.Equal(t, tt.expected, LocalZone().String())

			loc, err := ResolveLocation("Local")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, loc.String())
		})
	}

	t.Run("unknown name falls back to time.Local", func(t *testing.T) {
		t.Setenv("TZ", "Nowhere/Special")
		assert.Same(t, time.Local, LocalZone())
	})
}

func TestLocalZone_FromLocaltimeLink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "zoneinfo", "Asia", "Kolkata")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0755))
	require.NoError(t, os.WriteFile(target, nil, 0644))
	link := filepath.Join(dir, "localtime")
	require.NoError(t, os.Symlink(target, link))

	old := localtimePath
	localtimePath = link
	t.Cleanup(func() { localtimePath = old })

	t.Setenv("TZ", "")
	require.NoError(t, os.Unsetenv("TZ"))
	assert.Equal(t, "Asia/Kolkata", LocalZone().String())
}

func TestInitializeTimeProvider_KeepsPreviousOnError(t *testing.T) {
	require.NoError(t, InitializeTimeProvider("Asia/Tokyo"))
	require.Error(t, InitializeTimeProvider("Nope/Zone"))
	assert.Equal(t, "Asia/Tokyo", GetTimeProvider().Zone())
}

func TestTimeProvider_ClockAndToday(t *testing.T) {
	tp, err := NewTimeProvider("America/Chicago")
	require.NoError(t, err)

	tp.SetClock(func() time.Time {
		return time.Date(2025, 6, 12, 3, 0, 0, 0, time.UTC)
	})

	now := tp.Now()
	assert.Equal(t, "America/Chicago", now.Location().String())
	assert.Equal(t, 22, now.Hour())
	// 03:00 UTC is still the previous evening in Chicago
	assert.Equal(t, "2025-06-11", tp.Today())

	tp.SetClock(nil)
	assert.WithinDuration(t, time.Now(), tp.Now(), time.Second)
}

func TestTimeProvider_TimezoneConversions(t *testing.T) {
	testTime := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		timezone     string
		expectedHour int
		expectedDay  int
	}{
		{"UTC", 12, 15},
		{"America/Chicago", 7, 15},
		{"Asia/Tokyo", 21, 15},
		{"Pacific/Kiritimati", 2, 16},
	}

	tp := &TimeProvider{clock: time.Now}
	for _, tt := range tests {
		t.Run(tt.timezone, func(t *testing.T) {
			require.NoError(t, tp.SetTimezone(tt.timezone))
			converted := tp.In(testTime)
			assert.Equal(t, tt.expectedHour, converted.Hour())
			assert.Equal(t, tt.expectedDay, converted.Day())
			assert.True(t, converted.Equal(testTime))
		})
	}
}

func TestTimeProvider_Format(t *testing.T) {
	tp, err := NewTimeProvider("UTC")
	require.NoError(t, err)

	testTime := time.Date(2024, 3, 15, 14, 30, 45, 0, time.UTC)
	assert.Equal(t, "2024-03-15T14:30:45Z", tp.Format(testTime, time.RFC3339))
	assert.Equal(t, "14:30:45", tp.Format(testTime, "15:04:05"))
}

func TestTimeProvider_Concurrency(t *testing.T) {
	tp, err := NewTimeProvider("UTC")
	require.NoError(t, err)

	var wg sync.WaitGroup
	zones := []string{"UTC", "America/Chicago", "Europe/Berlin"}
	for i := 0; i < 30; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = tp.Now()
			_ = tp.Today()
		}()
		go func(idx int) {
			defer wg.Done()
			assert.NoError(t, tp.SetTimezone(zones[idx%len(zones)]))
		}(i)
	}
	wg.Wait()
}
