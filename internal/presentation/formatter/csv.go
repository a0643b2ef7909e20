package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVFormatter writes one record per focus block
type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

var csvHeaders = []string{
	"Date", "Day", "Session", "Subject ID", "Subject", "Color",
	"Start", "End", "Start Hour", "Duration Hours", "Minutes",
}

func (f *CSVFormatter) Format(w io.Writer, report *Report) error {
	if report == nil || report.Schedule == nil {
		return fmt.Errorf("nothing to format")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return err
	}

	for _, day := range report.Schedule.Days {
		for _, b := range day.Blocks {
			record := []string{
				day.CivilDate,
				day.DayLabel,
				b.SessionID.String(),
				b.SubjectID.String(),
				b.SubjectName,
				b.Color,
				b.StartTimeLabel,
				b.EndTimeLabel,
				strconv.FormatFloat(b.StartHourDecimal, 'f', 4, 64),
				strconv.FormatFloat(b.DurationHours, 'f', 4, 64),
				strconv.FormatFloat(b.DurationHours*60, 'f', 1, 64),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
