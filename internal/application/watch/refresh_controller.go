package watch

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/penwyp/go-focus-calendar/internal/analyzer"
	"github.com/penwyp/go-focus-calendar/internal/core/calendar"
	"github.com/penwyp/go-focus-calendar/internal/core/rank"
	"github.com/penwyp/go-focus-calendar/internal/presentation/formatter"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

// RefreshController reloads exports and rebuilds the displayed week
type RefreshController struct {
	dataLoader *DataLoader
	reset      *rank.ResetSchedule
	timezone   string
	anchor     string
	grid       *formatter.GridFormatter

	refreshMutex sync.Mutex
}

func NewRefreshController(dataLoader *DataLoader, config *WatchConfig) (*RefreshController, error) {
	reset, err := rank.NewResetSchedule(config.ResetRule)
	if err != nil {
		return nil, err
	}
	return &RefreshController{
		dataLoader: dataLoader,
		reset:      reset,
		timezone:   config.Timezone,
		anchor:     config.Anchor,
		grid:       formatter.NewGridFormatter(config.Color),
	}, nil
}

// Reload reads the exports again. Concurrent calls are serialized.
func (rc *RefreshController) Reload() (*analyzer.Dataset, error) {
	rc.refreshMutex.Lock()
	defer rc.refreshMutex.Unlock()

	start := time.Now()
	ds, err := rc.dataLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load exports: %w", err)
	}
	util.LogInfo("exports reloaded",
		util.Int("sessions", len(ds.Sessions)),
		util.String("duration", time.Since(start).String()))
	return ds, nil
}

// Build projects the week selected by view as seen at now. The anchor is
// resolved against now every time so an open view follows the calendar
// into the next week.
func (rc *RefreshController) Build(ds *analyzer.Dataset, view ViewState, now time.Time) (*formatter.Report, error) {
	loc, err := calendar.LoadZone(rc.timezone)
	if err != nil {
		return nil, err
	}
	anchor, err := util.ParseAnchor(rc.anchor, now, loc)
	if err != nil {
		return nil, err
	}
	return analyzer.BuildReport(ds, analyzer.ReportOptions{
		Timezone:   rc.timezone,
		Anchor:     anchor,
		WeekOffset: view.WeekOffset,
		SubjectID:  view.SubjectID,
		Now:        now,
		Reset:      rc.reset,
	})
}

// Render draws the grid of report followed by the rank line
func (rc *RefreshController) Render(report *formatter.Report) (string, error) {
	var buf bytes.Buffer
	if err := rc.grid.Format(&buf, report); err != nil {
		return "", err
	}

	standing := rank.ForMinutes(report.Schedule.Summary.TotalMinutes)
	line := "Rank: " + standing.Tier.Name
	if standing.Next != nil {
		line += fmt.Sprintf("  %s %s to %s", util.CreateProgressBar(standing.ProgressPct, 20),
			util.FormatMinutes(standing.MinutesToNext), standing.Next.Name)
	}
	if !report.NextReset.IsZero() && !report.Now.IsZero() {
		line += "  |  resets " + humanize.RelTime(report.NextReset, report.Now, "ago", "from now")
	}
	buf.WriteString("\n" + line + "\n")
	return buf.String(), nil
}
