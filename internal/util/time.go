package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// TimeProvider carries the viewer's timezone and the clock used to read
// "now". Commands install one globally; tests swap the clock.
type TimeProvider struct {
	mu       sync.RWMutex
	location *time.Location
	clock    func() time.Time
}

var (
	globalTimeProvider *TimeProvider
	providerMu         sync.Mutex
)

// NewTimeProvider resolves timezone ("", "Local" or an IANA name)
func NewTimeProvider(timezone string) (*TimeProvider, error) {
	tp := &TimeProvider{clock: time.Now}
	if err := tp.SetTimezone(timezone); err != nil {
		return nil, err
	}
	return tp, nil
}

// InitializeTimeProvider installs the global provider. On error the previous
// provider stays in place.
func InitializeTimeProvider(timezone string) error {
	tp, err := NewTimeProvider(timezone)
	if err != nil {
		return err
	}
	providerMu.Lock()
	globalTimeProvider = tp
	providerMu.Unlock()
	return nil
}

// GetTimeProvider returns the global provider, defaulting to Local
func GetTimeProvider() *TimeProvider {
	providerMu.Lock()
	defer providerMu.Unlock()
	if globalTimeProvider == nil {
		globalTimeProvider = &TimeProvider{location: time.Local, clock: time.Now}
	}
	return globalTimeProvider
}

// ResolveLocation loads an IANA zone, treating "" and "Local" as the
// machine zone.
func ResolveLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return LocalZone(), nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w\nValid examples: Local, UTC, America/Chicago, Europe/Berlin, Asia/Tokyo", timezone, err)
	}
	return loc, nil
}

// localtimePath is the system zone link read when TZ is unset
var localtimePath = "/etc/localtime"

// LocalZone returns the machine zone under its IANA name, read from TZ or
// the /etc/localtime link, so it can be written out and loaded elsewhere.
// When no name can be found it falls back to time.Local.
func LocalZone() *time.Location {
	tz, ok := os.LookupEnv("TZ")
	switch {
	case ok && tz == "":
		return time.UTC
	case ok:
		if loc := loadNamedZone(strings.TrimPrefix(tz, ":")); loc != nil {
			return loc
		}
	default:
		if target, err := filepath.EvalSymlinks(localtimePath); err == nil {
			if loc := loadNamedZone(target); loc != nil {
				return loc
			}
		}
	}
	return time.Local
}

// loadNamedZone accepts a zone name or a path inside a zoneinfo tree
func loadNamedZone(name string) *time.Location {
	if i := strings.LastIndex(name, "zoneinfo/"); i >= 0 {
		name = name[i+len("zoneinfo/"):]
	}
	if name == "" || name == "Local" || filepath.IsAbs(name) {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil
	}
	return loc
}

func (tp *TimeProvider) SetTimezone(timezone string) error {
	loc, err := ResolveLocation(timezone)
	if err != nil {
		return err
	}
	tp.mu.Lock()
	tp.location = loc
	tp.mu.Unlock()
	return nil
}

// SetClock replaces the clock; nil restores time.Now
func (tp *TimeProvider) SetClock(clock func() time.Time) {
	if clock == nil {
		clock = time.Now
	}
	tp.mu.Lock()
	tp.clock = clock
	tp.mu.Unlock()
}

func (tp *TimeProvider) Location() *time.Location {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.location
}

// Zone returns the IANA name of the configured location
func (tp *TimeProvider) Zone() string {
	return tp.Location().String()
}

// Now returns the current instant in the configured timezone
func (tp *TimeProvider) Now() time.Time {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.clock().In(tp.location)
}

func (tp *TimeProvider) In(t time.Time) time.Time {
	return t.In(tp.Location())
}

func (tp *TimeProvider) Format(t time.Time, layout string) string {
	return t.In(tp.Location()).Format(layout)
}

// Today returns the civil date of now, as YYYY-MM-DD
func (tp *TimeProvider) Today() string {
	return tp.Now().Format("2006-01-02")
}
