package rank

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/penwyp/go-focus-calendar/internal/core/constants"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
)

// ResetSchedule is the recurrence on which weekly ranks reset, expressed as
// an RRULE evaluated in UTC.
type ResetSchedule struct {
	rule *rrule.RRule
	raw  string
}

// epoch anchors the rule; the default rule only depends on weekday and time
var epoch = time.Date(2020, 1, 5, 0, 0, 0, 0, time.UTC)

// NewResetSchedule parses an RRULE such as
// "FREQ=WEEKLY;BYDAY=SU;BYHOUR=0;BYMINUTE=0;BYSECOND=0". Empty means the
// default Sunday 00:00 UTC reset.
func NewResetSchedule(rule string) (*ResetSchedule, error) {
	if rule == "" {
		rule = constants.DefaultResetRule
	}
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("invalid reset rule %q: %w", rule, err)
	}
	if opt.Dtstart.IsZero() {
		opt.Dtstart = epoch
	}
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("invalid reset rule %q: %w", rule, err)
	}
	return &ResetSchedule{rule: r, raw: rule}, nil
}

func (s *ResetSchedule) String() string { return s.raw }

// Next returns the first reset strictly after t
func (s *ResetSchedule) Next(t time.Time) time.Time {
	return s.rule.After(t.UTC(), false)
}

// ResetIn returns the first reset inside the window, if any
func (s *ResetSchedule) ResetIn(w model.WeekWindow) (time.Time, bool) {
	occ := s.rule.Between(w.WeekStartUTC, w.WeekEndUTC, true)
	for _, at := range occ {
		// Between is inclusive at both ends; the window end is exclusive
		if at.Before(w.WeekEndUTC) {
			return at, true
		}
	}
	return time.Time{}, false
}
