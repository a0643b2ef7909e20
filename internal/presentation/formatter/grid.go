package formatter

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize/english"
	"github.com/mattn/go-runewidth"

	"github.com/penwyp/go-focus-calendar/internal/core/model"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

const (
	hoursPerDay = 24
	cellWidth   = 2
)

// intensity shades by minutes focused within one hour
var shades = []struct {
	min   float64
	glyph string
}{
	{45, "█"},
	{30, "▓"},
	{15, "▒"},
	{0.5, "░"},
}

// GridFormatter draws the week as a 7 x 24 heat grid, one row per day
type GridFormatter struct {
	Color bool
}

func NewGridFormatter(color bool) *GridFormatter {
	return &GridFormatter{Color: color}
}

type gridCell struct {
	minutes float64
	color   string
	best    float64
}

func (f *GridFormatter) Format(w io.Writer, report *Report) error {
	if report == nil || report.Schedule == nil {
		return fmt.Errorf("nothing to format")
	}
	schedule := report.Schedule

	labelWidth, totalWidth := 0, 0
	labels := make([]string, len(schedule.Days))
	totals := make([]string, len(schedule.Days))
	for i, d := range schedule.Days {
		labels[i] = d.DayLabel + " " + d.DateLabel
		labelWidth = max(labelWidth, runewidth.StringWidth(labels[i]))
		totals[i] = util.FormatMinutes(d.TotalMinutes)
		totalWidth = max(totalWidth, runewidth.StringWidth(totals[i]))
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth+1))
	for h := 0; h < hoursPerDay; h += 3 {
		b.WriteString(runewidth.FillRight(fmt.Sprintf("%02d", h), cellWidth*3))
	}
	b.WriteString("\n")

	for i, d := range schedule.Days {
		cells := fillCells(d.Blocks)
		b.WriteString(runewidth.FillRight(labels[i], labelWidth) + " ")
		for h, c := range cells {
			b.WriteString(f.renderCell(c, markerGlyph(schedule, i, h)))
		}
		fmt.Fprintf(&b, " %s\n", runewidth.FillLeft(totals[i], totalWidth))
	}

	b.WriteString("\n")
	b.WriteString(legend(schedule))
	_, err := io.WriteString(w, b.String())
	return err
}

// fillCells spreads each block over the hours it covers. The part of a
// block running past midnight is clipped; it stays on its start day.
func fillCells(blocks []model.FocusBlock) [hoursPerDay]gridCell {
	var cells [hoursPerDay]gridCell
	for _, blk := range blocks {
		start := blk.StartHourDecimal
		end := math.Min(blk.EndHourDecimal(), hoursPerDay)
		for h := int(start); h < hoursPerDay && float64(h) < end; h++ {
			overlap := math.Min(end, float64(h+1)) - math.Max(start, float64(h))
			if overlap <= 0 {
				continue
			}
			minutes := overlap * 60
			cells[h].minutes += minutes
			if minutes > cells[h].best {
				cells[h].best = minutes
				cells[h].color = blk.Color
			}
		}
	}
	return cells
}

func markerGlyph(schedule *model.WeekSchedule, day, hour int) string {
	at := func(m *model.Marker) bool {
		return m != nil && m.DayIndex == day && int(m.HourDecimal) == hour
	}
	switch {
	case at(schedule.NowMarker):
		return "◆"
	case at(schedule.ResetMarker):
		return "R"
	default:
		return ""
	}
}

func (f *GridFormatter) renderCell(c gridCell, marker string) string {
	glyph := "·"
	for _, s := range shades {
		if c.minutes >= s.min {
			glyph = s.glyph
			break
		}
	}
	cell := strings.Repeat(glyph, cellWidth)
	if marker != "" {
		cell = runewidth.FillRight(marker, cellWidth)
	}
	if f.Color && c.color != "" && c.minutes >= shades[len(shades)-1].min {
		return util.Colorize(cell, c.color)
	}
	return cell
}

func legend(schedule *model.WeekSchedule) string {
	var parts []string
	for _, s := range shades {
		parts = append(parts, fmt.Sprintf("%s >=%.0fm", s.glyph, math.Max(1, s.min)))
	}
	line := "Legend: " + strings.Join(parts, "  ")
	if schedule.NowMarker != nil {
		line += "  ◆ now"
	}
	if schedule.ResetMarker != nil {
		line += "  R reset"
	}
	return line + fmt.Sprintf("\nTotal: %s over %s\n",
		util.FormatMinutes(schedule.Summary.TotalMinutes),
		english.Plural(schedule.Summary.SessionCount, "session", ""))
}
