package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/penwyp/go-focus-calendar/internal/core/rank"
	"github.com/penwyp/go-focus-calendar/internal/core/stats"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

// SummaryFormatter writes a plain-text weekly report
type SummaryFormatter struct{}

func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

func (f *SummaryFormatter) Format(w io.Writer, report *Report) error {
	if report == nil || report.Schedule == nil {
		return fmt.Errorf("nothing to format")
	}
	schedule := report.Schedule
	sum := schedule.Summary
	days := schedule.Days

	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "Focus Calendar Weekly Summary")
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Week: %s to %s (%s)\n", days[0].CivilDate, days[len(days)-1].CivilDate, schedule.Window.Zone)
	if schedule.SubjectID != "" {
		fmt.Fprintf(&b, "Subject filter: %s\n", schedule.SubjectID)
	}
	fmt.Fprintln(&b)

	if sum.SessionCount == 0 {
		fmt.Fprintln(&b, "No focus sessions this week")
		fmt.Fprintln(&b)
	} else {
		fmt.Fprintln(&b, "Focus Time:")
		fmt.Fprintf(&b, "  Total: %s (%s min)\n", util.FormatMinutes(sum.TotalMinutes), humanize.Comma(int64(sum.TotalMinutes)))
		fmt.Fprintf(&b, "  Sessions: %d\n", sum.SessionCount)
		fmt.Fprintf(&b, "  Average session: %s\n", util.FormatMinutes(int(sum.AvgSessionMinutes+0.5)))
		fmt.Fprintf(&b, "  Daily average: %s\n", util.FormatMinutes(int(sum.DailyAvgMinutes+0.5)))
		fmt.Fprintln(&b)

		fmt.Fprintln(&b, "By Day:")
		for _, d := range days {
			fmt.Fprintf(&b, "  %s %-6s %8s  %s\n", d.DayLabel, d.DateLabel, util.FormatMinutes(d.TotalMinutes),
				english.Plural(len(d.Blocks), "session", ""))
		}
		fmt.Fprintln(&b)
	}

	if sum.HasPrevWeek {
		fmt.Fprintln(&b, "Compared to Previous Week:")
		fmt.Fprintf(&b, "  Previous total: %s\n", util.FormatMinutes(sum.PrevWeekTotalMinutes))
		if sum.PrevWeekTotalMinutes > 0 {
			fmt.Fprintf(&b, "  Daily average change: %s\n", util.FormatPercentChange(sum.DailyChangePct))
		} else {
			fmt.Fprintln(&b, "  Daily average change: n/a")
		}
		fmt.Fprintln(&b)
	}

	if len(report.Subjects) > 0 {
		fmt.Fprintln(&b, "Subjects:")
		fmt.Fprintln(&b, strings.Repeat("-", 60))
		for i, s := range report.Subjects {
			pct := 0.0
			if sum.TotalMinutes > 0 {
				pct = float64(s.Minutes) / float64(sum.TotalMinutes) * 100
			}
			fmt.Fprintf(&b, "  %s %-20s %8s  %5.1f%%\n", humanize.Ordinal(i+1), s.Name, util.FormatMinutes(s.Minutes), pct)
		}
		fmt.Fprintln(&b)
	}

	standing := rank.ForMinutes(sum.TotalMinutes)
	fmt.Fprintln(&b, "Rank:")
	fmt.Fprintf(&b, "  Tier: %s\n", standing.Tier.Name)
	if standing.Next != nil {
		fmt.Fprintf(&b, "  Next: %s in %s %s\n", standing.Next.Name, util.FormatMinutes(standing.MinutesToNext),
			util.CreateProgressBar(standing.ProgressPct, 20))
	}
	if report.LifetimeMinutes > 0 {
		xp := rank.ExperienceFor(report.LifetimeMinutes)
		fmt.Fprintf(&b, "  Level %d (%s XP, %d to next level)\n", xp.Level, humanize.Comma(int64(xp.XP)), xp.XPToNext)
	}
	if len(report.Daily) > 0 {
		fmt.Fprintf(&b, "  Streak: %s\n", english.Plural(stats.Streak(report.Daily), "day", ""))
	}
	if !report.NextReset.IsZero() && !report.Now.IsZero() {
		fmt.Fprintf(&b, "  Rank resets %s\n", humanize.RelTime(report.NextReset, report.Now, "ago", "from now"))
	}
	fmt.Fprintln(&b)

	if len(schedule.Skipped) > 0 {
		fmt.Fprintf(&b, "Skipped: %s\n", english.Plural(len(schedule.Skipped), "session", ""))
		fmt.Fprintln(&b)
	}
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(w, b.String())
	return err
}
