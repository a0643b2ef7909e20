// Package stats derives trend figures from sessions: per-day series,
// streaks and per-subject breakdowns, all in the viewer's timezone.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/penwyp/go-focus-calendar/internal/core/calendar"
	"github.com/penwyp/go-focus-calendar/internal/core/constants"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
)

// DailyTotal is the focused time of one civil day
type DailyTotal struct {
	Date     string `json:"date"`
	Minutes  int    `json:"minutes"`
	Sessions int    `json:"sessions"`

	// ExactMinutes is the unrounded sum behind Minutes
	ExactMinutes float64 `json:"-"`
}

// DailySeries totals sessions per civil start date over [fromDate, toDate],
// including empty days. Sessions with bad timestamps are ignored.
func DailySeries(sessions []model.Session, loc *time.Location, fromDate, toDate string) ([]DailyTotal, error) {
	for _, d := range []string{fromDate, toDate} {
		if _, _, _, err := calendar.ParseCivilDate(d); err != nil {
			return nil, err
		}
	}

	var series []DailyTotal
	index := map[string]int{}

	for d := fromDate; d <= toDate; {
		index[d] = len(series)
		series = append(series, DailyTotal{Date: d})
		next, err := calendar.AddCivilDays(d, 1)
		if err != nil {
			return nil, err
		}
		d = next
	}

	exact := make([]float64, len(series))
	for _, s := range sessions {
		start, err := calendar.ParseInstant(s.StartedAt)
		if err != nil {
			continue
		}
		i, ok := index[calendar.CivilDate(start, loc)]
		if !ok {
			continue
		}
		exact[i] += s.Minutes()
		series[i].Sessions++
	}
	for i := range series {
		series[i].ExactMinutes = exact[i]
		series[i].Minutes = int(math.Round(exact[i]))
	}
	return series, nil
}

// LastNDays is DailySeries over the n days ending at endDate
func LastNDays(sessions []model.Session, loc *time.Location, endDate string, n int) ([]DailyTotal, error) {
	from, err := calendar.AddCivilDays(endDate, -(n - 1))
	if err != nil {
		return nil, err
	}
	return DailySeries(sessions, loc, from, endDate)
}

// Streak counts consecutive days with focused time, walking back from the
// last entry of series. A day counts when its unrounded minutes are above
// zero, whatever its session count. A zero final day means the streak is 0.
func Streak(series []DailyTotal) int {
	n := 0
	for i := len(series) - 1; i >= 0; i-- {
		if series[i].ExactMinutes <= 0 {
			break
		}
		n++
	}
	return n
}

// SubjectTotal is the time spent on one subject
type SubjectTotal struct {
	SubjectID model.ID `json:"subjectId"`
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	Minutes   int      `json:"minutes"`
	Sessions  int      `json:"sessions"`
}

// BySubject totals sessions per subject, largest first. Sessions without a
// subject are grouped under the all-subjects label.
func BySubject(sessions []model.Session, subjects []model.Subject) []SubjectTotal {
	idx := model.IndexSubjects(subjects)
	exact := map[model.ID]float64{}
	totals := map[model.ID]*SubjectTotal{}
	var order []model.ID

	for _, s := range sessions {
		st, ok := totals[s.SubjectID]
		if !ok {
			st = &SubjectTotal{SubjectID: s.SubjectID, Name: constants.AllSubjectsLabel, Color: constants.DefaultSubjectColor}
			if sub, known := idx[s.SubjectID]; known && s.HasSubject() {
				st.Name = sub.Name
				if sub.Color != "" {
					st.Color = sub.Color
				}
			} else if s.HasSubject() && s.SubjectName != "" {
				st.Name = s.SubjectName
			}
			totals[s.SubjectID] = st
			order = append(order, s.SubjectID)
		}
		exact[s.SubjectID] += s.Minutes()
		st.Sessions++
	}

	out := make([]SubjectTotal, 0, len(order))
	for _, id := range order {
		st := totals[id]
		st.Minutes = int(math.Round(exact[id]))
		out = append(out, *st)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Minutes > out[j].Minutes })
	return out
}
