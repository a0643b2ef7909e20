package aggregator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/penwyp/go-focus-calendar/internal/core/calendar"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
	"github.com/penwyp/go-focus-calendar/internal/presentation/formatter"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

const (
	GroupByDay     = "day"
	GroupBySubject = "subject"
	GroupByWeek    = "week"
)

// Aggregator groups a projected week into output rows
type Aggregator struct {
	groupBy string
}

func NewAggregator(groupBy string) (*Aggregator, error) {
	switch groupBy {
	case "":
		groupBy = GroupByDay
	case GroupByDay, GroupBySubject, GroupByWeek:
	default:
		return nil, fmt.Errorf("invalid group-by '%s': use day, subject or week", groupBy)
	}
	return &Aggregator{groupBy: groupBy}, nil
}

func (a *Aggregator) GroupBy() string {
	return a.groupBy
}

// Group returns the rows for schedule. Minute totals are rounded once per
// row from the exact block durations, except day and week rows which reuse
// the schedule's own totals.
func (a *Aggregator) Group(schedule *model.WeekSchedule) []formatter.GroupedData {
	var rows []formatter.GroupedData
	switch a.groupBy {
	case GroupBySubject:
		rows = bySubject(schedule)
	case GroupByWeek:
		rows = []formatter.GroupedData{byWeek(schedule)}
	default:
		rows = byDay(schedule)
	}
	util.LogDebug("schedule grouped", util.String("by", a.groupBy), util.Int("rows", len(rows)))
	return rows
}

func byDay(schedule *model.WeekSchedule) []formatter.GroupedData {
	rows := make([]formatter.GroupedData, 0, len(schedule.Days))
	for _, day := range schedule.Days {
		details := subjectDetails(day.Blocks)
		rows = append(rows, formatter.GroupedData{
			Key:      day.CivilDate,
			Label:    day.DayLabel + " " + day.DateLabel,
			Sessions: len(day.Blocks),
			Minutes:  day.TotalMinutes,
			Subjects: names(details),
			Details:  details,
		})
	}
	return rows
}

func bySubject(schedule *model.WeekSchedule) []formatter.GroupedData {
	details := subjectDetails(schedule.Blocks())
	rows := make([]formatter.GroupedData, 0, len(details))
	for _, d := range details {
		rows = append(rows, formatter.GroupedData{
			Key:      rowKey(d),
			Label:    d.Name,
			Sessions: d.Sessions,
			Minutes:  d.Minutes,
			Subjects: []string{d.Name},
		})
	}
	return rows
}

func byWeek(schedule *model.WeekSchedule) formatter.GroupedData {
	w := schedule.Window
	key := w.CivilDates[0]
	if y, m, d, err := calendar.ParseCivilDate(w.CivilDates[0]); err == nil {
		year, week := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).ISOWeek()
		key = fmt.Sprintf("%d-W%02d", year, week)
	}
	details := subjectDetails(schedule.Blocks())
	return formatter.GroupedData{
		Key:      key,
		Label:    fmt.Sprintf("%s .. %s", schedule.Days[0].DateLabel, schedule.Days[len(schedule.Days)-1].DateLabel),
		Sessions: schedule.Summary.SessionCount,
		Minutes:  schedule.Summary.TotalMinutes,
		Subjects: names(details),
		Details:  details,
	}
}

// subjectDetails totals blocks per subject, largest first
func subjectDetails(blocks []model.FocusBlock) []formatter.SubjectDetail {
	type acc struct {
		detail formatter.SubjectDetail
		exact  float64
	}
	byKey := make(map[string]*acc)
	var order []string
	for _, b := range blocks {
		key := subjectKey(b.SubjectID, b.SubjectName)
		entry, ok := byKey[key]
		if !ok {
			entry = &acc{detail: formatter.SubjectDetail{
				SubjectID: b.SubjectID,
				Name:      b.SubjectName,
				Color:     b.Color,
			}}
			byKey[key] = entry
			order = append(order, key)
		}
		entry.detail.Sessions++
		entry.exact += b.DurationHours * 60
	}

	details := make([]formatter.SubjectDetail, 0, len(order))
	for _, key := range order {
		entry := byKey[key]
		entry.detail.Minutes = int(math.Round(entry.exact))
		details = append(details, entry.detail)
	}
	sort.SliceStable(details, func(i, j int) bool {
		return details[i].Minutes > details[j].Minutes
	})
	return details
}

func subjectKey(id model.ID, name string) string {
	if id != "" {
		return "id:" + id.String()
	}
	return "name:" + name
}

func rowKey(d formatter.SubjectDetail) string {
	if d.SubjectID != "" {
		return d.SubjectID.String()
	}
	return d.Name
}

func names(details []formatter.SubjectDetail) []string {
	if len(details) == 0 {
		return nil
	}
	out := make([]string, len(details))
	for i, d := range details {
		out[i] = d.Name
	}
	return out
}
