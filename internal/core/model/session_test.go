package model

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ID
		wantErr  bool
	}{
		{name: "number", input: `42`, expected: "42"},
		{name: "string", input: `"abc-1"`, expected: "abc-1"},
		{name: "null", input: `null`, expected: ""},
		{name: "object rejected", input: `{"id":1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := sonic.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestSession_DecodeBackendPayload(t *testing.T) {
	raw := `{"id":7,"subject_id":null,"subject":"All Subjects","duration_ms":5400000,
		"started_at":"2025-06-11T23:30:00+00:00","ended_at":"2025-06-12T01:00:00+00:00"}`

	var s Session
	require.NoError(t, sonic.Unmarshal([]byte(raw), &s))

	assert.Equal(t, ID("7"), s.ID)
	assert.False(t, s.HasSubject())
	assert.Equal(t, "2025-06-11T23:30:00+00:00", s.StartedAt)
	assert.InDelta(t, 90.0, s.Minutes(), 1e-9)
}

func TestSession_Minutes(t *testing.T) {
	tests := []struct {
		name     string
		session  Session
		expected float64
	}{
		{name: "durationMinutes wins", session: Session{DurationMinutes: 25, DurationMs: 60000}, expected: 25},
		{name: "falls back to milliseconds", session: Session{DurationMs: 30000}, expected: 0.5},
		{name: "zero length", session: Session{}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.session.Minutes(), 1e-9)
		})
	}
}

func TestID_MarshalJSON(t *testing.T) {
	data, err := sonic.Marshal(struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}{A: "12", B: "x", C: ""})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12,"b":"x","c":null}`, string(data))
}

func TestWeekdayOf(t *testing.T) {
	assert.Equal(t, Monday, WeekdayOf(time.Monday))
	assert.Equal(t, Sunday, WeekdayOf(time.Sunday))
	assert.Equal(t, "Wed", WeekdayOf(time.Wednesday).String())
	assert.Equal(t, "???", Weekday(9).String())
}

func TestWeekWindow_IndexOf(t *testing.T) {
	w := WeekWindow{CivilDates: [7]string{
		"2025-06-09", "2025-06-10", "2025-06-11", "2025-06-12", "2025-06-13", "2025-06-14", "2025-06-15",
	}}
	assert.Equal(t, 2, w.IndexOf("2025-06-11"))
	assert.Equal(t, -1, w.IndexOf("2025-06-16"))
}
