package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-focus-calendar/internal/util"
)

type TableFormatter struct {
	Breakdown bool
}

func NewTableFormatter(breakdown bool) *TableFormatter {
	return &TableFormatter{Breakdown: breakdown}
}

type tableRow struct {
	cells []string
	kind  string
}

var tableHeaders = []string{"Key", "Label", "Subjects", "Sessions", "Focus", "Minutes"}

func (f *TableFormatter) Format(w io.Writer, report *Report) error {
	if report == nil || report.Schedule == nil {
		return fmt.Errorf("nothing to format")
	}

	rows := []tableRow{{cells: tableHeaders, kind: "header"}}
	for _, row := range report.Rows {
		subjects := strings.Join(row.Subjects, ", ")
		if f.Breakdown && len(row.Details) > 1 {
			subjects = "ALL"
		}
		rows = append(rows, tableRow{kind: "data", cells: []string{
			row.Key,
			row.Label,
			subjects,
			util.FormatNumber(row.Sessions),
			util.FormatMinutes(row.Minutes),
			util.FormatNumber(row.Minutes),
		}})

		if f.Breakdown && len(row.Details) > 1 {
			for _, d := range row.Details {
				rows = append(rows, tableRow{kind: "breakdown", cells: []string{
					"",
					"",
					"└ " + d.Name,
					util.FormatNumber(d.Sessions),
					util.FormatMinutes(d.Minutes),
					util.FormatNumber(d.Minutes),
				}})
			}
		}
	}

	sum := report.Schedule.Summary
	total := tableRow{kind: "total", cells: []string{
		"Total",
		"",
		"",
		util.FormatNumber(sum.SessionCount),
		util.FormatMinutes(sum.TotalMinutes),
		util.FormatNumber(sum.TotalMinutes),
	}}

	widths := columnWidths(append(rows, total))

	var b strings.Builder
	border(&b, widths, "top")
	for i, row := range rows {
		printRow(&b, row, widths)
		if i == 0 {
			border(&b, widths, "middle")
		}
	}
	border(&b, widths, "middle")
	printRow(&b, total, widths)
	border(&b, widths, "bottom")

	_, err := io.WriteString(w, b.String())
	return err
}

func columnWidths(rows []tableRow) []int {
	widths := make([]int, len(tableHeaders))
	for _, row := range rows {
		for i, cell := range row.cells {
			if cw := util.GetDisplayWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}
	for i := range widths {
		if widths[i] < 6 {
			widths[i] = 6
		}
	}
	return widths
}

func border(b *strings.Builder, widths []int, kind string) {
	var left, middle, right string
	switch kind {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	default:
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right + "\n")
}

// printRow left-aligns the text columns and right-aligns the numbers
func printRow(b *strings.Builder, row tableRow, widths []int) {
	b.WriteString("│")
	for i, cell := range row.cells {
		pad := strings.Repeat(" ", widths[i]-util.GetDisplayWidth(cell))
		if i < 3 || row.kind == "header" {
			b.WriteString(" " + cell + pad + " │")
		} else {
			b.WriteString(" " + pad + cell + " │")
		}
	}
	b.WriteString("\n")
}
