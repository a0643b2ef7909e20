package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-focus-calendar/internal/core/calendar"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
)

func buildSchedule(t *testing.T) *model.WeekSchedule {
	t.Helper()
	anchor, err := calendar.ParseInstant("2025-06-11T12:00:00Z")
	require.NoError(t, err)

	schedule, err := calendar.BuildWeek(calendar.Request{
		Anchor: anchor,
		Zone:   "UTC",
		Subjects: []model.Subject{
			{ID: "1", Name: "Math", Color: "#ff0000"},
			{ID: "2", Name: "Art", Color: "#00ff00"},
		},
		Sessions: []model.Session{
			{ID: "a", SubjectID: "1", StartedAt: "2025-06-09T08:00:00Z", EndedAt: "2025-06-09T08:50:00Z", DurationMinutes: 50},
			{ID: "b", SubjectID: "2", StartedAt: "2025-06-09T10:00:00Z", EndedAt: "2025-06-09T10:20:00Z", DurationMinutes: 20},
			{ID: "c", SubjectID: "1", StartedAt: "2025-06-11T09:00:00Z", EndedAt: "2025-06-11T09:30:00Z", DurationMinutes: 30},
			{ID: "d", StartedAt: "2025-06-15T21:00:00Z", EndedAt: "2025-06-15T21:10:00Z", DurationMinutes: 10},
		},
	})
	require.NoError(t, err)
	return schedule
}

func TestNewAggregator(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: GroupByDay},
		{in: "day", want: GroupByDay},
		{in: "subject", want: GroupBySubject},
		{in: "week", want: GroupByWeek},
		{in: "month", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			agg, err := NewAggregator(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, agg.GroupBy())
		})
	}
}

func TestGroupByDay(t *testing.T) {
	agg, err := NewAggregator(GroupByDay)
	require.NoError(t, err)

	rows := agg.Group(buildSchedule(t))
	require.Len(t, rows, 7)

	assert.Equal(t, "2025-06-09", rows[0].Key)
	assert.Equal(t, "Mon Jun 9", rows[0].Label)
	assert.Equal(t, 70, rows[0].Minutes)
	assert.Equal(t, 2, rows[0].Sessions)
	assert.Equal(t, []string{"Math", "Art"}, rows[0].Subjects)

	assert.Zero(t, rows[1].Minutes)
	assert.Nil(t, rows[1].Subjects)

	assert.Equal(t, "2025-06-15", rows[6].Key)
	assert.Equal(t, []string{"All Subjects"}, rows[6].Subjects)
}

func TestGroupBySubject(t *testing.T) {
	agg, err := NewAggregator(GroupBySubject)
	require.NoError(t, err)

	rows := agg.Group(buildSchedule(t))
	require.Len(t, rows, 3)

	assert.Equal(t, "1", rows[0].Key)
	assert.Equal(t, "Math", rows[0].Label)
	assert.Equal(t, 80, rows[0].Minutes)
	assert.Equal(t, 2, rows[0].Sessions)

	assert.Equal(t, "Art", rows[1].Label)
	assert.Equal(t, 20, rows[1].Minutes)

	assert.Equal(t, "All Subjects", rows[2].Key)
	assert.Equal(t, 10, rows[2].Minutes)
}

func TestGroupByWeek(t *testing.T) {
	agg, err := NewAggregator(GroupByWeek)
	require.NoError(t, err)

	schedule := buildSchedule(t)
	rows := agg.Group(schedule)
	require.Len(t, rows, 1)

	assert.Equal(t, "2025-W24", rows[0].Key)
	assert.Equal(t, "Jun 9 .. Jun 15", rows[0].Label)
	assert.Equal(t, 110, rows[0].Minutes)
	assert.Equal(t, schedule.Summary.TotalMinutes, rows[0].Minutes)
	assert.Equal(t, 4, rows[0].Sessions)
	require.Len(t, rows[0].Details, 3)
	assert.Equal(t, "#ff0000", rows[0].Details[0].Color)
}
