package calendar

import (
	"fmt"
	"time"

	"github.com/penwyp/go-focus-calendar/internal/core/constants"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

// BucketResult holds sessions grouped by day index plus the ones left out
type BucketResult struct {
	Days    [constants.DaysPerWeek][]model.Session
	Skipped []model.SkippedSession
}

// Count is the number of bucketed sessions
func (r BucketResult) Count() int {
	n := 0
	for _, d := range r.Days {
		n += len(d)
	}
	return n
}

// Bucket assigns each session to the day of its civil start date in loc.
// Arrival order is preserved within a day. Sessions starting outside the
// window or carrying bad timestamps are reported in Skipped; one bad record
// never aborts the batch.
func Bucket(sessions []model.Session, w model.WeekWindow, loc *time.Location) BucketResult {
	var res BucketResult

	for _, s := range sessions {
		start, err := validateTimestamps(s)
		if err != nil {
			res.Skipped = append(res.Skipped, skipped(s, err))
			util.LogDebug("dropping session with bad timestamps",
				util.String("session", s.ID.String()), util.Err(err))
			continue
		}

		date := CivilDate(start, loc)
		idx := w.IndexOf(date)
		if idx < 0 {
			err := fmt.Errorf("%w: starts %s, week %s..%s", ErrSessionOutsideWindow,
				date, w.CivilDates[0], w.CivilDates[constants.DaysPerWeek-1])
			res.Skipped = append(res.Skipped, skipped(s, err))
			util.LogDebug("session outside week", util.String("session", s.ID.String()),
				util.String("date", date))
			continue
		}
		res.Days[idx] = append(res.Days[idx], s)
	}
	return res
}

// validateTimestamps parses both instants and returns the start
func validateTimestamps(s model.Session) (time.Time, error) {
	start, err := ParseInstant(s.StartedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("started_at: %w", err)
	}
	end, err := ParseInstant(s.EndedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("ended_at: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, fmt.Errorf("%w: ended_at %s before started_at %s",
			ErrInvalidSessionTimestamp, s.EndedAt, s.StartedAt)
	}
	return start, nil
}

func skipped(s model.Session, err error) model.SkippedSession {
	return model.SkippedSession{Session: s, Reason: err.Error(), Err: err}
}
