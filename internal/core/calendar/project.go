package calendar

import (
	"math"
	"sort"
	"time"

	"github.com/penwyp/go-focus-calendar/internal/core/constants"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
)

// Project turns one day's bucketed sessions into positioned blocks.
// Block duration comes from the canonical duration field and is never
// widened to a minimum height; rendering decides how to draw short blocks.
// TotalMinutes is rounded once after summing.
func Project(dayIndex int, civilDate string, sessions []model.Session, subjects model.SubjectIndex, loc *time.Location) model.DaySchedule {
	day := model.DaySchedule{
		CivilDate: civilDate,
		DayLabel:  model.Weekday(dayIndex).String(),
		DateLabel: dateLabel(civilDate),
		Blocks:    make([]model.FocusBlock, 0, len(sessions)),
	}

	var totalMinutes float64
	for _, s := range sessions {
		start, err := ParseInstant(s.StartedAt)
		if err != nil {
			continue
		}
		end, err := ParseInstant(s.EndedAt)
		if err != nil {
			continue
		}

		block := model.FocusBlock{
			SessionID:        s.ID,
			StartHourDecimal: hourDecimal(start, loc),
			DurationHours:    s.Minutes() / 60,
			SubjectID:        s.SubjectID,
			SubjectName:      subjectName(s, subjects),
			Color:            subjectColor(s, subjects),
			StartTimeLabel:   start.In(loc).Format(constants.ClockLayout),
			EndTimeLabel:     end.In(loc).Format(constants.ClockLayout),
			StartedAt:        start.UTC(),
			EndedAt:          end.UTC(),
		}
		totalMinutes += block.DurationHours * 60
		day.Blocks = append(day.Blocks, block)
	}

	sort.SliceStable(day.Blocks, func(i, j int) bool {
		return day.Blocks[i].StartHourDecimal < day.Blocks[j].StartHourDecimal
	})
	day.TotalMinutes = int(math.Round(totalMinutes))
	return day
}

func subjectName(s model.Session, subjects model.SubjectIndex) string {
	if s.SubjectName != "" {
		return s.SubjectName
	}
	if sub, ok := subjects[s.SubjectID]; ok && s.HasSubject() && sub.Name != "" {
		return sub.Name
	}
	return constants.AllSubjectsLabel
}

func subjectColor(s model.Session, subjects model.SubjectIndex) string {
	if s.Color != "" {
		return s.Color
	}
	if sub, ok := subjects[s.SubjectID]; ok && s.HasSubject() && sub.Color != "" {
		return sub.Color
	}
	return constants.DefaultBlockColor
}

// dateLabel renders "2025-06-09" as "Jun 9"
func dateLabel(civilDate string) string {
	t, err := time.Parse(constants.CivilDateLayout, civilDate)
	if err != nil {
		return civilDate
	}
	return t.Format(constants.DateLabelLayout)
}
