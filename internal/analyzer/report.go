package analyzer

import (
	"math"
	"time"

	"github.com/penwyp/go-focus-calendar/internal/core/calendar"
	"github.com/penwyp/go-focus-calendar/internal/core/constants"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
	"github.com/penwyp/go-focus-calendar/internal/core/rank"
	"github.com/penwyp/go-focus-calendar/internal/core/stats"
	"github.com/penwyp/go-focus-calendar/internal/data/aggregator"
	"github.com/penwyp/go-focus-calendar/internal/presentation/formatter"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

// ReportOptions selects the week and view of a report
type ReportOptions struct {
	Timezone   string
	Anchor     time.Time
	WeekOffset int
	SubjectID  model.ID
	GroupBy    string
	// Now places the now marker and anchors streaks; zero disables both
	Now   time.Time
	Reset *rank.ResetSchedule
}

// BuildReport projects the selected week of ds and derives the figures
// every formatter may show
func BuildReport(ds *Dataset, opts ReportOptions) (*formatter.Report, error) {
	loc, err := calendar.LoadZone(opts.Timezone)
	if err != nil {
		return nil, err
	}
	agg, err := aggregator.NewAggregator(opts.GroupBy)
	if err != nil {
		return nil, err
	}

	window := calendar.ShiftWeek(calendar.ComputeWeek(opts.Anchor, loc), opts.WeekOffset, loc)

	req := calendar.Request{
		Anchor:          window.WeekStartUTC,
		Zone:            opts.Timezone,
		SubjectID:       opts.SubjectID,
		Sessions:        ds.Sessions,
		Subjects:        ds.Subjects,
		Now:             opts.Now,
		ComparePrevious: true,
	}
	if opts.Reset != nil {
		req.Reset = opts.Reset
	}
	// a payload's previous total covers every subject
	if opts.SubjectID == "" {
		if prev, ok := ds.PrevWeekTotals[window.CivilDates[0]]; ok {
			req.PrevWeekTotalMinutes = &prev
		}
	}

	schedule, err := calendar.BuildWeek(req)
	if err != nil {
		return nil, err
	}

	report := &formatter.Report{
		Schedule:        schedule,
		Rows:            agg.Group(schedule),
		GroupBy:         agg.GroupBy(),
		Location:        loc,
		Now:             opts.Now,
		LifetimeMinutes: lifetimeMinutes(ds.Sessions),
	}

	filtered := calendar.FilterBySubject(ds.Sessions, schedule.SubjectID)
	report.Subjects = stats.BySubject(weekSessions(filtered, window, loc), ds.Subjects)

	if !opts.Now.IsZero() {
		if opts.Reset != nil {
			report.NextReset = opts.Reset.Next(opts.Now)
		}
		daily, err := stats.LastNDays(filtered, loc, calendar.CivilDate(opts.Now, loc), constants.StreakLookbackDays)
		if err != nil {
			util.LogWarn("daily series unavailable", util.Err(err))
		} else {
			report.Daily = daily
		}
	}
	return report, nil
}

// weekSessions keeps the sessions that land in the window
func weekSessions(sessions []model.Session, w model.WeekWindow, loc *time.Location) []model.Session {
	buckets := calendar.Bucket(sessions, w, loc)
	out := make([]model.Session, 0, buckets.Count())
	for _, day := range buckets.Days {
		out = append(out, day...)
	}
	return out
}

func lifetimeMinutes(sessions []model.Session) int {
	total := 0.0
	for _, s := range sessions {
		total += s.Minutes()
	}
	return int(math.Round(total))
}
