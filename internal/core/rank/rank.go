// Package rank maps weekly focus time onto rank tiers and experience points.
package rank

import "math"

// Tier is one rung of the weekly rank ladder
type Tier struct {
	Name string `json:"name"`
	// MinHours is the inclusive lower bound of weekly hours
	MinHours float64 `json:"minHours"`
}

// Tiers is the ladder, ascending by MinHours
var Tiers = []Tier{
	{Name: "Baus", MinHours: 0},
	{Name: "Sherm", MinHours: 5},
	{Name: "Squid", MinHours: 10},
	{Name: "French Mouse", MinHours: 20},
	{Name: "Taus", MinHours: 30},
}

const (
	minutesPerXP = 3
	xpPerLevel   = 100
)

// Standing is where a week's total puts the viewer on the ladder
type Standing struct {
	Tier          Tier    `json:"tier"`
	Next          *Tier   `json:"next,omitempty"`
	ProgressPct   float64 `json:"progressPct"`
	MinutesToNext int     `json:"minutesToNext"`
}

// ForMinutes returns the standing for a weekly total
func ForMinutes(weeklyMinutes int) Standing {
	hours := float64(weeklyMinutes) / 60

	idx := 0
	for i, t := range Tiers {
		if hours >= t.MinHours {
			idx = i
		}
	}

	st := Standing{Tier: Tiers[idx], ProgressPct: 100}
	if idx+1 < len(Tiers) {
		next := Tiers[idx+1]
		st.Next = &next
		span := next.MinHours - st.Tier.MinHours
		st.ProgressPct = math.Min(100, (hours-st.Tier.MinHours)/span*100)
		st.MinutesToNext = int(math.Ceil(next.MinHours*60)) - weeklyMinutes
	}
	return st
}

// Experience is the XP view of a lifetime total
type Experience struct {
	XP          int `json:"xp"`
	Level       int `json:"level"`
	XPIntoLevel int `json:"xpIntoLevel"`
	XPToNext    int `json:"xpToNext"`
}

// ExperienceFor converts focused minutes into XP, one point per 3 minutes
func ExperienceFor(totalMinutes int) Experience {
	if totalMinutes < 0 {
		totalMinutes = 0
	}
	xp := totalMinutes / minutesPerXP
	into := xp % xpPerLevel
	return Experience{
		XP:          xp,
		Level:       xp / xpPerLevel,
		XPIntoLevel: into,
		XPToNext:    xpPerLevel - into,
	}
}
