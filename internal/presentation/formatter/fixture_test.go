package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-focus-calendar/internal/core/calendar"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
	"github.com/penwyp/go-focus-calendar/internal/core/rank"
	"github.com/penwyp/go-focus-calendar/internal/core/stats"
)

var fixtureNow = time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)

var fixtureSubjects = []model.Subject{
	{ID: "1", Name: "Math", Color: "#ff0000"},
	{ID: "2", Name: "Art", Color: "#00ff00"},
}

var fixtureSessions = []model.Session{
	{ID: "a", SubjectID: "1", StartedAt: "2025-06-09T08:00:00Z", EndedAt: "2025-06-09T08:50:00Z", DurationMinutes: 50},
	{ID: "b", SubjectID: "2", StartedAt: "2025-06-09T10:00:00Z", EndedAt: "2025-06-09T10:20:00Z", DurationMinutes: 20},
	{ID: "c", SubjectID: "1", StartedAt: "2025-06-11T09:00:00Z", EndedAt: "2025-06-11T09:30:00Z", DurationMinutes: 30},
	{StartedAt: "2025-06-15T21:00:00Z", EndedAt: "2025-06-15T21:10:00Z", DurationMinutes: 10},
}

// fixtureReport is the week of 2025-06-09 in UTC, viewed on Wednesday noon
func fixtureReport(t *testing.T) *Report {
	t.Helper()

	reset, err := rank.NewResetSchedule("")
	require.NoError(t, err)

	schedule, err := calendar.BuildWeek(calendar.Request{
		Anchor:   fixtureNow,
		Zone:     "UTC",
		Sessions: fixtureSessions,
		Subjects: fixtureSubjects,
		Now:      fixtureNow,
		Reset:    reset,
	})
	require.NoError(t, err)

	daily, err := stats.LastNDays(fixtureSessions, time.UTC, "2025-06-11", 7)
	require.NoError(t, err)

	rows := make([]GroupedData, 0, len(schedule.Days))
	for _, d := range schedule.Days {
		row := GroupedData{Key: d.CivilDate, Label: d.DayLabel + " " + d.DateLabel, Sessions: len(d.Blocks), Minutes: d.TotalMinutes}
		for _, b := range d.Blocks {
			row.Subjects = append(row.Subjects, b.SubjectName)
			row.Details = append(row.Details, SubjectDetail{SubjectID: b.SubjectID, Name: b.SubjectName, Sessions: 1, Minutes: int(b.DurationHours*60 + 0.5)})
		}
		rows = append(rows, row)
	}

	return &Report{
		Schedule:        schedule,
		Rows:            rows,
		GroupBy:         "day",
		Location:        time.UTC,
		Now:             fixtureNow,
		NextReset:       reset.Next(fixtureNow),
		Daily:           daily,
		Subjects:        stats.BySubject(fixtureSessions, fixtureSubjects),
		LifetimeMinutes: 110,
	}
}
