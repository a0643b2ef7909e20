package calendar

import (
	"time"

	"github.com/penwyp/go-focus-calendar/internal/core/constants"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

// ResetLocator finds the rank reset instant that falls inside a window
type ResetLocator interface {
	ResetIn(w model.WeekWindow) (time.Time, bool)
}

// Request describes one week to build
type Request struct {
	Anchor    time.Time
	Zone      string
	SubjectID model.ID
	Sessions  []model.Session
	Subjects  []model.Subject

	// Now places the now marker; zero disables it
	Now time.Time
	// Reset places the reset marker; nil disables it
	Reset ResetLocator

	// ComparePrevious projects the previous week from Sessions as well
	ComparePrevious bool
	// PrevWeekTotalMinutes, when set, is used instead of recomputing
	PrevWeekTotalMinutes *int
}

// BuildWeek runs the full pipeline: zone, window, subject filter, buckets,
// per-day projection, totals and markers. Only an unknown zone fails;
// bad sessions are dropped and listed in Skipped.
func BuildWeek(req Request) (*model.WeekSchedule, error) {
	loc, err := LoadZone(req.Zone)
	if err != nil {
		return nil, err
	}

	window := ComputeWeek(req.Anchor, loc)
	subjectID := effectiveSubject(req.Subjects, req.SubjectID)
	subjects := model.IndexSubjects(req.Subjects)

	schedule := &model.WeekSchedule{Window: window, SubjectID: subjectID}
	buckets := Bucket(FilterBySubject(req.Sessions, subjectID), window, loc)
	schedule.Skipped = buckets.Skipped

	for i := 0; i < constants.DaysPerWeek; i++ {
		schedule.Days[i] = Project(i, window.CivilDates[i], buckets.Days[i], subjects, loc)
	}
	schedule.Summary = Summarize(schedule.Days)

	switch {
	case req.PrevWeekTotalMinutes != nil:
		CompareWithPrevious(&schedule.Summary, *req.PrevWeekTotalMinutes)
	case req.ComparePrevious:
		prev := PrevWeek(window, loc)
		prevBuckets := Bucket(FilterBySubject(req.Sessions, subjectID), prev, loc)
		var prevDays [constants.DaysPerWeek]model.DaySchedule
		for i := range prevDays {
			prevDays[i] = Project(i, prev.CivilDates[i], prevBuckets.Days[i], subjects, loc)
		}
		CompareWithPrevious(&schedule.Summary, Summarize(prevDays).TotalMinutes)
	}

	if !req.Now.IsZero() {
		schedule.NowMarker = NowMarker(req.Now, window, loc)
	}
	if req.Reset != nil {
		if at, ok := req.Reset.ResetIn(window); ok {
			schedule.ResetMarker = WeekBoundaryMarker(window, at, loc)
		}
	}

	util.LogDebug("week built",
		util.String("zone", window.Zone),
		util.String("week", window.CivilDates[0]),
		util.Int("sessions", schedule.Summary.SessionCount),
		util.Int("skipped", len(schedule.Skipped)))
	return schedule, nil
}

// effectiveSubject drops a selection that no longer names a known subject.
// Without subject definitions the selection is taken as is.
func effectiveSubject(subjects []model.Subject, subjectID model.ID) model.ID {
	if subjectID == "" || subjectID == constants.NoSubjectFilter || len(subjects) == 0 {
		return subjectID
	}
	if _, ok := ResolveSubject(subjects, subjectID); !ok {
		util.LogWarn("selected subject no longer exists, showing all subjects",
			util.String("subject", subjectID.String()))
		return ""
	}
	return subjectID
}

// Summarize totals a projected week. Day totals are already rounded, so
// the week total is their plain sum.
func Summarize(days [constants.DaysPerWeek]model.DaySchedule) model.WeekSummary {
	var sum model.WeekSummary
	for _, d := range days {
		sum.TotalMinutes += d.TotalMinutes
		sum.SessionCount += len(d.Blocks)
	}
	if sum.SessionCount > 0 {
		sum.AvgSessionMinutes = float64(sum.TotalMinutes) / float64(sum.SessionCount)
	}
	sum.DailyAvgMinutes = float64(sum.TotalMinutes) / constants.DaysPerWeek
	return sum
}

// CompareWithPrevious fills the previous-week fields of sum
func CompareWithPrevious(sum *model.WeekSummary, prevTotalMinutes int) {
	sum.HasPrevWeek = true
	sum.PrevWeekTotalMinutes = prevTotalMinutes
	sum.PrevDailyAvgMinutes = float64(prevTotalMinutes) / constants.DaysPerWeek
	sum.DailyChangePct = 0
	if sum.PrevDailyAvgMinutes > 0 {
		sum.DailyChangePct = (sum.DailyAvgMinutes - sum.PrevDailyAvgMinutes) / sum.PrevDailyAvgMinutes * 100
	}
}
