package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var anchorLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// ParseAnchor turns a user supplied reference point into an instant.
// Accepted: "" or "now" (now), RFC3339 instants, local date/time layouts
// interpreted in loc, and English phrases such as "last monday" or
// "2 weeks ago" resolved relative to now.
func ParseAnchor(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "now") {
		return now, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range anchorLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(s, now.In(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse anchor %q: %w", s, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("unrecognized anchor %q", s)
	}
	return result.Time, nil
}
