package analyzer

import (
	"fmt"
	"runtime"
	"time"

	"github.com/penwyp/go-focus-calendar/internal/core/model"
	"github.com/penwyp/go-focus-calendar/internal/data/cache"
	"github.com/penwyp/go-focus-calendar/internal/data/parser"
	"github.com/penwyp/go-focus-calendar/internal/data/scanner"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

// LoaderConfig locates session exports and subject definitions
type LoaderConfig struct {
	// DataDir is a directory of exports or a single export file
	DataDir string
	// SubjectsFile overrides <DataDir>/subjects.json
	SubjectsFile string
	// CacheDir holds parsed exports; empty disables the file cache
	CacheDir    string
	Concurrency int
	// Subjects from the config file win over exported definitions
	Subjects []model.Subject
}

// Dataset is every session and subject found under a data dir
type Dataset struct {
	Sessions []model.Session
	Subjects []model.Subject
	// PrevWeekTotals maps a weekly payload's weekStart to the previous
	// week's total it reported
	PrevWeekTotals map[string]int
	Files          int
	SkippedLines   int
	Duplicates     int
	LoadedAt       time.Time
}

// Loader reads exports through the file cache
type Loader struct {
	config  LoaderConfig
	cache   cache.Cache
	scanner *scanner.FileScanner
	parser  *parser.Parser
}

func NewLoader(config LoaderConfig) (*Loader, error) {
	if config.Concurrency <= 0 {
		config.Concurrency = runtime.NumCPU()
	}

	l := &Loader{
		config:  config,
		scanner: scanner.NewFileScanner(config.DataDir),
		parser:  parser.NewParser(config.Concurrency),
	}
	if config.CacheDir != "" {
		fc, err := cache.NewFileCache(config.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create file cache: %w", err)
		}
		l.cache = fc
	}
	return l, nil
}

// Scanner exposes the file filter so watchers match the same exports
func (l *Loader) Scanner() *scanner.FileScanner {
	return l.scanner
}

// Preload warms the in-memory cache from disk
func (l *Loader) Preload() {
	if l.cache == nil {
		return
	}
	start := time.Now()
	if err := l.cache.Preload(); err != nil {
		util.LogWarn("cache preload failed", util.Err(err))
	}
	util.LogDebug("cache preloaded", util.String("duration", time.Since(start).String()))
}

// ClearCache drops every cached export
func (l *Loader) ClearCache() error {
	if l.cache == nil {
		return nil
	}
	return l.cache.Clear()
}

// Files lists the exports currently under the data dir
func (l *Loader) Files() ([]string, error) {
	files, err := l.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", l.config.DataDir, err)
	}
	return files, nil
}

// Load scans, serves unchanged files from cache, parses the rest and
// merges everything. A file that fails to parse is logged and skipped.
// Sessions repeated across files (same id) are kept once, first file wins.
func (l *Loader) Load() (*Dataset, error) {
	files, err := l.Files()
	if err != nil {
		return nil, err
	}
	util.LogInfo("loading exports", util.String("dir", l.config.DataDir), util.Int("files", len(files)))

	stats := NewCacheStats()
	exports := make(map[string]*parser.Export, len(files))
	missReasons := make(map[string]cache.MissReason)
	var toParse []string

	for _, f := range files {
		stats.IncrementTotal()
		if l.cache != nil {
			res := l.cache.Get(f)
			if res.Found && res.Entry != nil {
				stats.IncrementHit()
				exports[f] = res.Entry.Export
				continue
			}
			missReasons[f] = res.MissReason
		} else {
			missReasons[f] = cache.MissReasonNotFound
		}
		toParse = append(toParse, f)
	}

	processed := int64(len(files) - len(toParse))
	for result := range l.parser.ParseFiles(toParse) {
		processed++
		if result.Error != nil {
			stats.IncrementFailure()
			util.LogWarn("failed to parse export", util.String("file", result.File), util.Err(result.Error))
			continue
		}
		stats.IncrementMiss(result.File, missReasons[result.File])
		exports[result.File] = result.Export

		if l.cache != nil {
			if err := l.cache.Set(result.File, result.Export); err != nil {
				util.LogWarn("failed to cache export", util.String("file", result.File), util.Err(err))
			}
		}
		if processed%100 == 0 {
			stats.PrintProgress(processed)
		}
	}
	stats.PrintFinalStats()

	ds := &Dataset{
		Files:          len(files),
		PrevWeekTotals: make(map[string]int),
		LoadedAt:       util.GetTimeProvider().Now(),
	}
	seen := make(map[model.ID]bool)
	var exported []model.Subject

	for _, f := range files {
		exp, ok := exports[f]
		if !ok || exp == nil {
			continue
		}
		ds.SkippedLines += exp.SkippedLines
		for _, s := range exp.Sessions {
			if s.ID != "" {
				if seen[s.ID] {
					ds.Duplicates++
					continue
				}
				seen[s.ID] = true
			}
			ds.Sessions = append(ds.Sessions, s)
		}
		exported = append(exported, exp.Subjects...)
		if exp.WeekStart != "" && exp.PrevWeekTotalMinutes != nil {
			ds.PrevWeekTotals[exp.WeekStart] = *exp.PrevWeekTotalMinutes
		}
	}

	defined, err := l.loadSubjectsFile()
	if err != nil {
		return nil, err
	}
	ds.Subjects = MergeSubjects(exported, defined, l.config.Subjects)

	util.LogInfo("exports loaded",
		util.Int("sessions", len(ds.Sessions)),
		util.Int("subjects", len(ds.Subjects)),
		util.Int("skipped_lines", ds.SkippedLines),
		util.Int("duplicates", ds.Duplicates))
	return ds, nil
}

// loadSubjectsFile reads the explicit subjects file, or subjects.json next
// to the exports when present
func (l *Loader) loadSubjectsFile() ([]model.Subject, error) {
	path := l.config.SubjectsFile
	if path == "" {
		found, ok := l.scanner.SubjectsFile()
		if !ok {
			return nil, nil
		}
		path = found
	}
	subjects, err := parser.ParseSubjects(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load subjects: %w", err)
	}
	return subjects, nil
}

// MergeSubjects combines subject lists by id. Later lists override earlier
// ones; the position of a subject is where its id first appeared. Subjects
// without an id cannot be referenced and are dropped.
func MergeSubjects(lists ...[]model.Subject) []model.Subject {
	index := make(map[model.ID]int)
	var out []model.Subject
	for _, list := range lists {
		for _, s := range list {
			if s.ID == "" {
				continue
			}
			if i, ok := index[s.ID]; ok {
				if s.Color == "" {
					s.Color = out[i].Color
				}
				out[i] = s
				continue
			}
			index[s.ID] = len(out)
			out = append(out, s)
		}
	}
	return out
}
