package constants

import "time"

const (
	// DaysPerWeek is the number of civil days in a calendar week
	DaysPerWeek = 7

	// CivilDateLayout renders civil dates as YYYY-MM-DD
	CivilDateLayout = "2006-01-02"
	// ClockLayout renders wall clock labels as HH:MM:SS
	ClockLayout = "15:04:05"
	// DateLabelLayout renders short date labels such as "Jun 9"
	DateLabelLayout = "Jan 2"

	// DefaultRefreshInterval drives the live view when no cron spec is set
	DefaultRefreshInterval = time.Minute
	// DefaultRefreshSpec is the cron form of DefaultRefreshInterval
	DefaultRefreshSpec = "@every 1m"

	// DefaultResetRule is the weekly rank reset, Sunday 00:00 UTC
	DefaultResetRule = "FREQ=WEEKLY;BYDAY=SU;BYHOUR=0;BYMINUTE=0;BYSECOND=0"

	// StreakLookbackDays bounds the daily series used for streaks
	StreakLookbackDays = 30
)
