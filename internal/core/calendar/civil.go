// Package calendar projects focus sessions recorded as UTC instants onto a
// Monday-anchored civil week in the viewer's IANA timezone.
//
// Every function here is pure: inputs are never mutated, nothing is
// cached, and calls may run concurrently.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/penwyp/go-focus-calendar/internal/core/constants"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

// LoadZone resolves an IANA zone name. The empty name is UTC; "Local" is
// the machine zone under its IANA name when one can be found.
func LoadZone(name string) (*time.Location, error) {
	switch name {
	case "":
		return time.UTC, nil
	case "Local":
		return util.LocalZone(), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidTimezone, name, err)
	}
	return loc, nil
}

// CivilDate is the YYYY-MM-DD date of instant as observed in loc
func CivilDate(instant time.Time, loc *time.Location) string {
	return instant.In(loc).Format(constants.CivilDateLayout)
}

// CivilWeekday is the Monday-first weekday of instant as observed in loc
func CivilWeekday(instant time.Time, loc *time.Location) model.Weekday {
	return model.WeekdayOf(instant.In(loc).Weekday())
}

// offsetless layouts, read as UTC
// offsetLayouts accept Z or a numeric offset as +hh:mm, +hhmm or +hh, with
// either a T or a space between date and time
var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07",
}

var utcLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseInstant reads an ISO-8601 timestamp. Strings carrying Z or a
// numeric offset are taken as is; strings without one are UTC.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidSessionTimestamp)
	}
	if strings.HasSuffix(s, "z") {
		s = s[:len(s)-1] + "Z"
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range utcLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSessionTimestamp, s)
}

// ParseCivilDate validates a YYYY-MM-DD string
func ParseCivilDate(date string) (year int, month time.Month, day int, err error) {
	t, err := time.Parse(constants.CivilDateLayout, date)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid civil date %q: %w", date, err)
	}
	return t.Year(), t.Month(), t.Day(), nil
}

// AddCivilDays steps a civil date by n calendar days. The arithmetic runs in
// UTC, which has no transitions, so every step is exactly one date.
func AddCivilDays(date string, n int) (string, error) {
	y, m, d, err := ParseCivilDate(date)
	if err != nil {
		return "", err
	}
	return time.Date(y, m, d+n, 0, 0, 0, 0, time.UTC).Format(constants.CivilDateLayout), nil
}

// StartOfCivilDay returns the first instant of y-m-d in loc. When local
// midnight falls in a DST gap, the day starts at the first wall time after
// the gap.
func StartOfCivilDay(y int, m time.Month, d int, loc *time.Location) time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	target := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(constants.CivilDateLayout)

	// time.Date may normalize a skipped midnight onto the previous day
	for i := 0; i < 16 && t.In(loc).Format(constants.CivilDateLayout) < target; i++ {
		t = t.Add(15 * time.Minute)
	}
	// or leave it later than the real start; walk back while still on the day
	for i := 0; i < 16; i++ {
		prev := t.Add(-15 * time.Minute)
		if prev.In(loc).Format(constants.CivilDateLayout) != target {
			break
		}
		t = prev
	}
	return t
}

// hourDecimal is h + m/60 + s/3600 of t's wall clock in loc
func hourDecimal(t time.Time, loc *time.Location) float64 {
	local := t.In(loc)
	return float64(local.Hour()) + float64(local.Minute())/60 + float64(local.Second())/3600
}
