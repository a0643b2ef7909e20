package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/penwyp/go-focus-calendar/internal/core/calendar"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
	"github.com/penwyp/go-focus-calendar/internal/core/rank"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

// markersReport describes where a week sits in time without reading any data
type markersReport struct {
	Window      model.WeekWindow `json:"window"`
	Now         time.Time        `json:"now"`
	NowMarker   *model.Marker    `json:"nowMarker,omitempty"`
	ResetMarker *model.Marker    `json:"resetMarker,omitempty"`
	ResetAt     *time.Time       `json:"resetAt,omitempty"`
	NextReset   time.Time        `json:"nextReset"`
}

func newMarkersCommand(g *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "markers",
		Short: "Show the week window, now marker and rank reset",
		Long: `Prints the Monday-first week that contains the anchor in the configured
timezone: its civil dates, UTC bounds, where "now" and the weekly rank reset
fall on the grid, and when the next reset happens.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd, g)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := setupRuntime(cfg, g.debug); err != nil {
				return err
			}

			report, err := buildMarkers(cfg.Timezone, g.anchor, g.weekOffset, cfg.ResetRule,
				util.GetTimeProvider().Now())
			if err != nil {
				return err
			}
			if asJSON {
				return writeMarkersJSON(cmd.OutOrStdout(), report)
			}
			return writeMarkersText(cmd.OutOrStdout(), report)
		},
	}
	addWeekOffsetFlag(cmd, g)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func buildMarkers(timezone, anchor string, weekOffset int, resetRule string, now time.Time) (*markersReport, error) {
	loc, err := calendar.LoadZone(timezone)
	if err != nil {
		return nil, err
	}
	at, err := util.ParseAnchor(anchor, now, loc)
	if err != nil {
		return nil, err
	}
	reset, err := rank.NewResetSchedule(resetRule)
	if err != nil {
		return nil, err
	}

	window := calendar.ShiftWeek(calendar.ComputeWeek(at, loc), weekOffset, loc)
	report := &markersReport{
		Window:    window,
		Now:       now,
		NowMarker: calendar.NowMarker(now, window, loc),
		NextReset: reset.Next(now),
	}
	if resetAt, ok := reset.ResetIn(window); ok {
		report.ResetAt = &resetAt
		report.ResetMarker = calendar.WeekBoundaryMarker(window, resetAt, loc)
	}
	return report, nil
}

func writeMarkersJSON(w io.Writer, report *markersReport) error {
	data, err := sonic.ConfigStd.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode markers: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeMarkersText(w io.Writer, r *markersReport) error {
	loc, err := calendar.LoadZone(r.Window.Zone)
	if err != nil {
		return err
	}
	dates := r.Window.CivilDates

	fmt.Fprintf(w, "Zone:       %s\n", r.Window.Zone)
	fmt.Fprintf(w, "Week:       %s .. %s\n", dates[0], dates[len(dates)-1])
	fmt.Fprintf(w, "Start UTC:  %s\n", r.Window.WeekStartUTC.Format(time.RFC3339))
	fmt.Fprintf(w, "End UTC:    %s\n", r.Window.WeekEndUTC.Format(time.RFC3339))
	fmt.Fprintf(w, "Now:        %s\n", describeMarker(r.NowMarker))
	fmt.Fprintf(w, "Reset:      %s\n", describeMarker(r.ResetMarker))
	_, err = fmt.Fprintf(w, "Next reset: %s (%s)\n",
		r.NextReset.In(loc).Format("Mon Jan 2 15:04 MST"),
		humanize.RelTime(r.NextReset, r.Now, "ago", "from now"))
	return err
}

func describeMarker(m *model.Marker) string {
	if m == nil {
		return "outside this week"
	}
	return fmt.Sprintf("%s %s", model.Weekday(m.DayIndex), util.FormatClock(m.HourDecimal))
}
