package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/penwyp/go-focus-calendar/internal/core/model"
	"github.com/penwyp/go-focus-calendar/internal/core/stats"
)

// GroupedData is one output row: a day, a subject or the whole week
type GroupedData struct {
	Key      string          `json:"key"`
	Label    string          `json:"label"`
	Sessions int             `json:"sessions"`
	Minutes  int             `json:"minutes"`
	Subjects []string        `json:"subjects,omitempty"`
	Details  []SubjectDetail `json:"details,omitempty"`
}

// SubjectDetail breaks a row down by subject
type SubjectDetail struct {
	SubjectID model.ID `json:"subjectId"`
	Name      string   `json:"name"`
	Color     string   `json:"color,omitempty"`
	Sessions  int      `json:"sessions"`
	Minutes   int      `json:"minutes"`
}

// Report is everything a formatter may render. Only Schedule is required.
type Report struct {
	Schedule *model.WeekSchedule
	Rows     []GroupedData
	GroupBy  string
	Location *time.Location
	Now      time.Time
	// NextReset is the next rank reset after Now, zero when unknown
	NextReset time.Time
	// Daily covers the days up to Now and feeds the streak
	Daily []stats.DailyTotal
	// Subjects ranks subjects over the projected week
	Subjects []stats.SubjectTotal
	// LifetimeMinutes is the focused time across every loaded session
	LifetimeMinutes int
}

type Formatter interface {
	Format(w io.Writer, report *Report) error
}

// Options tune the formatters that support them
type Options struct {
	Breakdown bool
	Color     bool
}

// New returns the formatter for an output name
func New(output string, opts Options) (Formatter, error) {
	switch output {
	case "", "table":
		return NewTableFormatter(opts.Breakdown), nil
	case "grid":
		return NewGridFormatter(opts.Color), nil
	case "json":
		return NewJSONFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	case "summary":
		return NewSummaryFormatter(), nil
	case "ics":
		return NewICSFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format '%s': use table, grid, json, csv, summary or ics", output)
	}
}
