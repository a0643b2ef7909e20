package calendar

import (
	"time"

	"github.com/penwyp/go-focus-calendar/internal/core/model"
)

// NowMarker positions now on the week grid, or returns nil when today's
// civil date in loc is not part of the window.
func NowMarker(now time.Time, w model.WeekWindow, loc *time.Location) *model.Marker {
	return markerAt(now, w, loc)
}

// WeekBoundaryMarker positions the rank reset instant on the week grid.
// It returns nil when the reset falls on a civil date outside the window.
func WeekBoundaryMarker(w model.WeekWindow, resetInstant time.Time, loc *time.Location) *model.Marker {
	if resetInstant.IsZero() {
		return nil
	}
	return markerAt(resetInstant, w, loc)
}

func markerAt(instant time.Time, w model.WeekWindow, loc *time.Location) *model.Marker {
	idx := w.IndexOf(CivilDate(instant, loc))
	if idx < 0 {
		return nil
	}
	return &model.Marker{DayIndex: idx, HourDecimal: hourDecimal(instant, loc)}
}
