package util

import (
	"fmt"
	"math"
	"time"
)

// FormatNumber abbreviates large counts (1.5K, 2.0M)
func FormatNumber(n int) string {
	switch {
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 1000000:
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	default:
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

// FormatMinutes renders a minute count as "1h 30m", "45m" or "2h"
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// FormatDuration renders d the same way as FormatMinutes, dropping seconds
func FormatDuration(d time.Duration) string {
	return FormatMinutes(int(d.Minutes()))
}

// FormatHours renders minutes as hours with one decimal ("12.5h")
func FormatHours(minutes int) string {
	return fmt.Sprintf("%.1fh", float64(minutes)/60)
}

// FormatClock renders a decimal hour (18.5) as a wall clock "18:30"
func FormatClock(hourDecimal float64) string {
	total := int(math.Round(hourDecimal * 60))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", (total/60)%24, total%60)
}

// FormatPercentChange renders a signed percentage ("+12%", "-40%", "0%")
func FormatPercentChange(pct float64) string {
	rounded := math.Round(pct)
	switch {
	case rounded > 0:
		return fmt.Sprintf("+%.0f%%", rounded)
	case rounded < 0:
		return fmt.Sprintf("%.0f%%", rounded)
	default:
		return "0%"
	}
}
