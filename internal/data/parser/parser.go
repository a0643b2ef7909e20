package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-focus-calendar/internal/core/model"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

// Export is everything read from one session export file
type Export struct {
	Sessions []model.Session `json:"sessions"`
	Subjects []model.Subject `json:"subjects,omitempty"`
	// WeekStart and PrevWeekTotalMinutes are only set by weekly payloads
	WeekStart            string `json:"weekStart,omitempty"`
	PrevWeekTotalMinutes *int   `json:"prevWeekTotalMinutes,omitempty"`
	// SkippedLines counts JSONL lines that were not valid sessions
	SkippedLines int `json:"skippedLines,omitempty"`
}

// weeklyPayload is the backend's /stats/weekly response, and also covers
// plain {"sessions": [...]} objects.
type weeklyPayload struct {
	WeekStart string `json:"weekStart"`
	Days      []struct {
		Date     string          `json:"date"`
		Sessions []model.Session `json:"sessions"`
	} `json:"days"`
	Sessions             []model.Session `json:"sessions"`
	Subjects             []model.Subject `json:"subjects"`
	PrevWeekTotalMinutes *float64        `json:"prevWeekTotalMinutes"`
}

// Parser reads session exports
type Parser struct {
	concurrency int
}

// ParseResult is the outcome of parsing one file
type ParseResult struct {
	File   string
	Export *Export
	Error  error
}

func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{concurrency: concurrency}
}

// ParseFile reads one export. *.jsonl files hold one session per line and
// bad lines are skipped; *.json files hold an array of sessions, a
// {"sessions": [...]} object or a weekly payload.
func (p *Parser) ParseFile(path string) (*Export, error) {
	util.LogDebug("parsing export", util.String("file", path))

	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return p.parseLines(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	exp, err := ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return exp, nil
}

// ParseJSON decodes a JSON export document
func ParseJSON(data []byte) (*Export, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &Export{}, nil
	}

	switch data[0] {
	case '[':
		var sessions []model.Session
		if err := sonic.Unmarshal(data, &sessions); err != nil {
			return nil, fmt.Errorf("decode session array: %w", err)
		}
		return &Export{Sessions: sessions}, nil
	case '{':
		var payload weeklyPayload
		if err := sonic.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode export object: %w", err)
		}
		exp := &Export{
			Sessions:  payload.Sessions,
			Subjects:  payload.Subjects,
			WeekStart: payload.WeekStart,
		}
		for _, d := range payload.Days {
			exp.Sessions = append(exp.Sessions, d.Sessions...)
		}
		if payload.PrevWeekTotalMinutes != nil {
			prev := int(*payload.PrevWeekTotalMinutes + 0.5)
			exp.PrevWeekTotalMinutes = &prev
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("unsupported export: expected JSON array or object")
	}
}

func (p *Parser) parseLines(path string) (*Export, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	exp := &Export{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var s model.Session
		if err := sonic.Unmarshal(raw, &s); err != nil {
			exp.SkippedLines++
			util.LogDebug("skip invalid JSON line",
				util.String("file", path), util.Int("line", line), util.Err(err))
			continue
		}
		exp.Sessions = append(exp.Sessions, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return exp, nil
}

// ParseFiles parses files concurrently, at most concurrency at a time.
// The channel is closed once every file has been reported.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	semaphore := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			exp, err := p.ParseFile(f)
			if err != nil {
				util.LogDebug("export parsing failed", util.String("file", f), util.Err(err))
			}
			results <- ParseResult{File: f, Export: exp, Error: err}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebug("parsing finished",
			util.Int("files", len(files)),
			util.String("duration", time.Since(start).String()))
	}()
	return results
}

// ParseSubjects reads a subjects.json array of {id, name, color}
func ParseSubjects(path string) ([]model.Subject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var subjects []model.Subject
	if err := sonic.Unmarshal(data, &subjects); err != nil {
		return nil, fmt.Errorf("decode subjects %s: %w", path, err)
	}
	return subjects, nil
}
