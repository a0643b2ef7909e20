package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnchor(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	now := time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{name: "empty means now", input: "", expected: now},
		{name: "now keyword", input: "NOW", expected: now},
		{name: "rfc3339 instant", input: "2025-03-09T08:00:00Z", expected: time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)},
		{name: "civil date in zone", input: "2025-11-02", expected: time.Date(2025, 11, 2, 0, 0, 0, 0, chicago)},
		{name: "slash date", input: "2025/01/31", expected: time.Date(2025, 1, 31, 0, 0, 0, 0, chicago)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnchor(tt.input, now, chicago)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %s want %s", got, tt.expected)
		})
	}
}

func TestParseAnchor_NaturalLanguage(t *testing.T) {
	now := time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)

	got, err := ParseAnchor("2 weeks ago", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2025-05-29", got.Format("2006-01-02"))
}

func TestParseAnchor_Unrecognized(t *testing.T) {
	_, err := ParseAnchor("banana", time.Now(), time.UTC)
	assert.Error(t, err)
}
