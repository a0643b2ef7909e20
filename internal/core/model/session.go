package model

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
)

// ID is an opaque identifier. Exports carry ids as JSON numbers or strings;
// both decode to the same textual form and null decodes to "".
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	if _, err := strconv.ParseFloat(string(data), 64); err == nil {
		*id = ID(data)
		return nil
	}
	return fmt.Errorf("id must be a string, number or null, got %s", data)
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return sonic.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

// Session is one completed focus interval as exported by the backend.
// Timestamps stay as received; the calendar core parses them.
type Session struct {
	ID              ID      `json:"id"`
	SubjectID       ID      `json:"subject_id"`
	SubjectName     string  `json:"subject,omitempty"`
	Color           string  `json:"color,omitempty"`
	StartedAt       string  `json:"started_at"`
	EndedAt         string  `json:"ended_at"`
	DurationMinutes float64 `json:"durationMinutes,omitempty"`
	DurationMs      int64   `json:"duration_ms,omitempty"`
}

// Minutes is the canonical duration. durationMinutes wins; exports that
// only carry duration_ms are converted. Instants are never consulted.
func (s Session) Minutes() float64 {
	if s.DurationMinutes > 0 || s.DurationMs <= 0 {
		return s.DurationMinutes
	}
	return float64(s.DurationMs) / 60000
}

func (s Session) HasSubject() bool { return s.SubjectID != "" }

// Subject is a user-defined focus category
type Subject struct {
	ID    ID     `json:"id" yaml:"id" toml:"id"`
	Name  string `json:"name" yaml:"name" toml:"name" validate:"required"`
	Color string `json:"color,omitempty" yaml:"color" toml:"color" validate:"omitempty,hexcolor"`
}

// SubjectIndex maps subject ids to subjects
type SubjectIndex map[ID]Subject

func IndexSubjects(subjects []Subject) SubjectIndex {
	idx := make(SubjectIndex, len(subjects))
	for _, s := range subjects {
		idx[s.ID] = s
	}
	return idx
}
