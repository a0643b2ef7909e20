package formatter

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-focus-calendar/internal/core/model"
	"github.com/penwyp/go-focus-calendar/internal/core/rank"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonReport struct {
	*model.WeekSchedule
	GroupBy  string        `json:"groupBy,omitempty"`
	Groups   []GroupedData `json:"groups,omitempty"`
	Standing rank.Standing `json:"standing"`
}

func (f *JSONFormatter) Format(w io.Writer, report *Report) error {
	if report == nil || report.Schedule == nil {
		return fmt.Errorf("nothing to format")
	}

	data, err := sonic.ConfigStd.MarshalIndent(jsonReport{
		WeekSchedule: report.Schedule,
		GroupBy:      report.GroupBy,
		Groups:       report.Rows,
		Standing:     rank.ForMinutes(report.Schedule.Summary.TotalMinutes),
	}, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
