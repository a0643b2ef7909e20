package formatter

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

const icsProductID = "-//penwyp//go-focus-calendar//EN"

// icsNamespace seeds UIDs for sessions that carry no id
var icsNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/penwyp/go-focus-calendar"))

// ICSFormatter exports the week's blocks as a VCALENDAR, one VEVENT each
type ICSFormatter struct{}

func NewICSFormatter() *ICSFormatter {
	return &ICSFormatter{}
}

func (f *ICSFormatter) Format(w io.Writer, report *Report) error {
	if report == nil || report.Schedule == nil {
		return fmt.Errorf("nothing to format")
	}
	schedule := report.Schedule

	stamp := report.Now
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetName(fmt.Sprintf("Focus week of %s", schedule.Window.CivilDates[0]))
	cal.SetXWRTimezone(schedule.Window.Zone)

	for _, day := range schedule.Days {
		for _, b := range day.Blocks {
			event := cal.AddEvent(blockUID(b.SessionID.String(), b.StartedAt, b.SubjectName))
			event.SetDtStampTime(stamp.UTC())
			event.SetStartAt(b.StartedAt)
			event.SetEndAt(b.StartedAt.Add(time.Duration(b.DurationHours * float64(time.Hour))))
			event.SetSummary(fmt.Sprintf("Focus: %s", b.SubjectName))
			event.SetDescription(fmt.Sprintf("%s-%s (%s)", b.StartTimeLabel, b.EndTimeLabel, day.CivilDate))
			event.SetProperty(ics.ComponentPropertyCategories, b.SubjectName)
			if b.Color != "" {
				event.SetProperty(ics.ComponentPropertyColor, b.Color)
			}
		}
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}

func blockUID(sessionID string, start time.Time, subject string) string {
	if sessionID != "" {
		return fmt.Sprintf("session-%s@go-focus-calendar", sessionID)
	}
	seed := start.UTC().Format(time.RFC3339Nano) + "|" + subject
	return uuid.NewSHA1(icsNamespace, []byte(seed)).String() + "@go-focus-calendar"
}
