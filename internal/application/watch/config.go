package watch

import (
	"fmt"
	"runtime"

	"github.com/robfig/cron/v3"

	"github.com/penwyp/go-focus-calendar/internal/core/calendar"
	"github.com/penwyp/go-focus-calendar/internal/core/constants"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
)

// WatchConfig contains configuration for the watch command
type WatchConfig struct {
	// Data locations
	DataDir      string
	SubjectsFile string
	CacheDir     string

	// View settings
	Timezone  string
	Anchor    string
	SubjectID string
	Subjects  []model.Subject
	Color     bool

	// RefreshSpec is a cron spec, e.g. "@every 1m"
	RefreshSpec string
	ResetRule   string

	Concurrency int
}

// Validate fills defaults and rejects settings the live view cannot run with
func (c *WatchConfig) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.RefreshSpec == "" {
		c.RefreshSpec = constants.DefaultRefreshSpec
	}
	if c.ResetRule == "" {
		c.ResetRule = constants.DefaultResetRule
	}
	if c.Concurrency == 0 {
		c.Concurrency = runtime.NumCPU()
	}

	if _, err := calendar.LoadZone(c.Timezone); err != nil {
		return err
	}
	if _, err := cron.ParseStandard(c.RefreshSpec); err != nil {
		return fmt.Errorf("invalid refresh spec %q: %w", c.RefreshSpec, err)
	}
	return nil
}
