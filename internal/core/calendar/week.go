package calendar

import (
	"time"

	"github.com/penwyp/go-focus-calendar/internal/core/constants"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
)

// ComputeWeek returns the Monday-anchored week containing anchor in loc.
// Days are stepped as calendar dates, never as 24h periods, so the window
// holds seven consecutive dates even across DST transitions.
func ComputeWeek(anchor time.Time, loc *time.Location) model.WeekWindow {
	local := anchor.In(loc)
	back := int(model.WeekdayOf(local.Weekday()))
	return weekFromMonday(local.Year(), local.Month(), local.Day()-back, loc)
}

// ComputeWeekForDate returns the week containing a YYYY-MM-DD civil date
func ComputeWeekForDate(civilDate string, loc *time.Location) (model.WeekWindow, error) {
	y, m, d, err := ParseCivilDate(civilDate)
	if err != nil {
		return model.WeekWindow{}, err
	}
	return ComputeWeek(StartOfCivilDay(y, m, d, loc), loc), nil
}

// ShiftWeek moves a window by weeks (negative goes back). The Monday is
// stepped by 7 civil days and the window rebuilt from it.
func ShiftWeek(w model.WeekWindow, weeks int, loc *time.Location) model.WeekWindow {
	monday := w.WeekStartUTC.In(loc)
	return weekFromMonday(monday.Year(), monday.Month(), monday.Day()+7*weeks, loc)
}

func NextWeek(w model.WeekWindow, loc *time.Location) model.WeekWindow {
	return ShiftWeek(w, 1, loc)
}

func PrevWeek(w model.WeekWindow, loc *time.Location) model.WeekWindow {
	return ShiftWeek(w, -1, loc)
}

// weekFromMonday builds the window whose Monday is y-m-d; d may be out of
// range and is normalized by time.Date.
func weekFromMonday(y int, m time.Month, d int, loc *time.Location) model.WeekWindow {
	w := model.WeekWindow{Zone: loc.String()}
	for i := 0; i < constants.DaysPerWeek; i++ {
		w.CivilDates[i] = time.Date(y, m, d+i, 0, 0, 0, 0, time.UTC).Format(constants.CivilDateLayout)
	}

	monday := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	next := monday.AddDate(0, 0, constants.DaysPerWeek)
	w.WeekStartUTC = StartOfCivilDay(monday.Year(), monday.Month(), monday.Day(), loc).UTC()
	w.WeekEndUTC = StartOfCivilDay(next.Year(), next.Month(), next.Day(), loc).UTC()
	return w
}

// Contains reports whether instant falls inside the window
func Contains(w model.WeekWindow, instant time.Time) bool {
	return !instant.Before(w.WeekStartUTC) && instant.Before(w.WeekEndUTC)
}
