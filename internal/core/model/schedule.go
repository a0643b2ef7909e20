package model

import (
	"time"

	"github.com/penwyp/go-focus-calendar/internal/core/constants"
)

// Weekday is a Monday-first day index: Monday=0 … Sunday=6
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayLabels = [constants.DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return "???"
	}
	return weekdayLabels[d]
}

// WeekdayOf converts a Go weekday (Sunday=0) to the Monday-first index
func WeekdayOf(wd time.Weekday) Weekday {
	return Weekday((int(wd) + 6) % 7)
}

// WeekWindow is the Monday-anchored civil week of a zone. WeekStartUTC is
// Monday 00:00 in Zone and WeekEndUTC the following Monday 00:00, both as
// UTC instants; the end is exclusive.
type WeekWindow struct {
	WeekStartUTC time.Time                     `json:"weekStartUTC"`
	WeekEndUTC   time.Time                     `json:"weekEndUTC"`
	CivilDates   [constants.DaysPerWeek]string `json:"civilDates"`
	Zone         string                        `json:"zone"`
}

// IndexOf returns the day index of a civil date, or -1
func (w WeekWindow) IndexOf(civilDate string) int {
	for i, d := range w.CivilDates {
		if d == civilDate {
			return i
		}
	}
	return -1
}

// FocusBlock is one session positioned on a day column
type FocusBlock struct {
	SessionID        ID        `json:"sessionId"`
	StartHourDecimal float64   `json:"startHourDecimal"`
	DurationHours    float64   `json:"durationHours"`
	SubjectID        ID        `json:"subjectId"`
	SubjectName      string    `json:"subjectName"`
	Color            string    `json:"color"`
	StartTimeLabel   string    `json:"startTimeLabel"`
	EndTimeLabel     string    `json:"endTimeLabel"`
	StartedAt        time.Time `json:"startedAt"`
	EndedAt          time.Time `json:"endedAt"`
}

// EndHourDecimal is where the block ends on its own day's axis; blocks
// crossing midnight extend past 24.
func (b FocusBlock) EndHourDecimal() float64 {
	return b.StartHourDecimal + b.DurationHours
}

// DaySchedule is the projection of one civil day
type DaySchedule struct {
	CivilDate    string       `json:"date"`
	DayLabel     string       `json:"dayLabel"`
	DateLabel    string       `json:"dateLabel"`
	TotalMinutes int          `json:"totalMinutes"`
	Blocks       []FocusBlock `json:"blocks"`
}

// Marker positions an instant on the week grid
type Marker struct {
	DayIndex    int     `json:"dayIndex"`
	HourDecimal float64 `json:"hourDecimal"`
}

// WeekSummary aggregates one projected week. DailyChangePct compares daily
// averages against the previous week and is 0 when that week is empty.
type WeekSummary struct {
	TotalMinutes      int     `json:"totalMinutes"`
	SessionCount      int     `json:"sessionCount"`
	AvgSessionMinutes float64 `json:"avgSessionMinutes"`
	DailyAvgMinutes   float64 `json:"dailyAvgMinutes"`

	HasPrevWeek          bool    `json:"hasPrevWeek"`
	PrevWeekTotalMinutes int     `json:"prevWeekTotalMinutes"`
	PrevDailyAvgMinutes  float64 `json:"prevDailyAvgMinutes"`
	DailyChangePct       float64 `json:"dailyChangePct"`
}

// SkippedSession records a session left out of a week and why
type SkippedSession struct {
	Session Session `json:"session"`
	Reason  string  `json:"reason"`
	Err     error   `json:"-"`
}

// WeekSchedule is the full projection of one week for one viewer
type WeekSchedule struct {
	Window      WeekWindow                         `json:"window"`
	Days        [constants.DaysPerWeek]DaySchedule `json:"days"`
	Summary     WeekSummary                        `json:"summary"`
	SubjectID   ID                                 `json:"subjectId,omitempty"`
	NowMarker   *Marker                            `json:"nowMarker,omitempty"`
	ResetMarker *Marker                            `json:"resetMarker,omitempty"`
	Skipped     []SkippedSession                   `json:"skipped,omitempty"`
}

// Blocks returns every block of the week in day order
func (s *WeekSchedule) Blocks() []FocusBlock {
	var out []FocusBlock
	for _, d := range s.Days {
		out = append(out, d.Blocks...)
	}
	return out
}
