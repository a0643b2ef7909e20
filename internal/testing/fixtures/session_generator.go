// Package fixtures writes session exports for tests.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-focus-calendar/internal/core/model"
)

// DayPayload is one day of a weekly payload
type DayPayload struct {
	Date         string          `json:"date"`
	TotalMinutes int             `json:"totalMinutes"`
	Sessions     []model.Session `json:"sessions"`
}

// WeeklyPayload mirrors the backend's weekly stats response
type WeeklyPayload struct {
	WeekStart            string       `json:"weekStart"`
	Days                 []DayPayload `json:"days"`
	PrevWeekTotalMinutes *int         `json:"prevWeekTotalMinutes,omitempty"`
}

// SessionGenerator writes exports into a base directory
type SessionGenerator struct {
	baseDir string
	nextID  int
}

func NewSessionGenerator(baseDir string) *SessionGenerator {
	return &SessionGenerator{baseDir: baseDir, nextID: 1}
}

func (g *SessionGenerator) GetBaseDir() string {
	return g.baseDir
}

// Session builds a session with the next free id. An empty subject leaves
// the session unassigned.
func (g *SessionGenerator) Session(subject model.ID, start time.Time, minutes int) model.Session {
	id := g.nextID
	g.nextID++
	end := start.Add(time.Duration(minutes) * time.Minute)
	return model.Session{
		ID:              model.ID(strconv.Itoa(id)),
		SubjectID:       subject,
		StartedAt:       start.UTC().Format(time.RFC3339),
		EndedAt:         end.UTC().Format(time.RFC3339),
		DurationMinutes: float64(minutes),
	}
}

// DailySessions builds one session per day for days consecutive days,
// starting at start and rotating through subjects
func (g *SessionGenerator) DailySessions(start time.Time, days, minutes int, subjects ...model.ID) []model.Session {
	sessions := make([]model.Session, 0, days)
	for i := 0; i < days; i++ {
		var subject model.ID
		if len(subjects) > 0 {
			subject = subjects[i%len(subjects)]
		}
		sessions = append(sessions, g.Session(subject, start.AddDate(0, 0, i), minutes))
	}
	return sessions
}

// WriteArray writes sessions as a JSON array
func (g *SessionGenerator) WriteArray(name string, sessions []model.Session) (string, error) {
	return g.writeJSON(name, sessions)
}

// WriteJSONL writes one session per line followed by any extra raw lines
func (g *SessionGenerator) WriteJSONL(name string, sessions []model.Session, rawLines ...string) (string, error) {
	path, err := g.prepare(name)
	if err != nil {
		return "", err
	}
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	for _, s := range sessions {
		data, err := sonic.Marshal(s)
		if err != nil {
			return "", err
		}
		if _, err := fmt.Fprintln(file, string(data)); err != nil {
			return "", err
		}
	}
	for _, line := range rawLines {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return "", err
		}
	}
	return path, nil
}

// WriteWeeklyPayload groups sessions by their UTC start date into a weekly
// payload for the week starting at weekStart
func (g *SessionGenerator) WriteWeeklyPayload(name, weekStart string, sessions []model.Session, prevWeekTotal *int) (string, error) {
	payload := WeeklyPayload{WeekStart: weekStart, PrevWeekTotalMinutes: prevWeekTotal}
	byDate := make(map[string]int)
	for _, s := range sessions {
		date := s.StartedAt[:len("2006-01-02")]
		idx, ok := byDate[date]
		if !ok {
			idx = len(payload.Days)
			byDate[date] = idx
			payload.Days = append(payload.Days, DayPayload{Date: date})
		}
		payload.Days[idx].Sessions = append(payload.Days[idx].Sessions, s)
		payload.Days[idx].TotalMinutes += int(s.Minutes())
	}
	return g.writeJSON(name, payload)
}

// WriteSubjects writes a subjects.json style file
func (g *SessionGenerator) WriteSubjects(name string, subjects []model.Subject) (string, error) {
	return g.writeJSON(name, subjects)
}

// WriteRaw writes content verbatim
func (g *SessionGenerator) WriteRaw(name, content string) (string, error) {
	path, err := g.prepare(name)
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, []byte(content), 0644)
}

func (g *SessionGenerator) writeJSON(name string, v interface{}) (string, error) {
	path, err := g.prepare(name)
	if err != nil {
		return "", err
	}
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, data, 0644)
}

func (g *SessionGenerator) prepare(name string) (string, error) {
	path := filepath.Join(g.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	return path, nil
}

// CleanupTestData removes all generated test data
func (g *SessionGenerator) CleanupTestData() error {
	return os.RemoveAll(g.baseDir)
}
