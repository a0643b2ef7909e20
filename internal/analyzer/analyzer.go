package analyzer

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/penwyp/go-focus-calendar/internal/core/calendar"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
	"github.com/penwyp/go-focus-calendar/internal/core/rank"
	"github.com/penwyp/go-focus-calendar/internal/presentation/formatter"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

type Config struct {
	DataDir      string
	SubjectsFile string
	CacheDir     string
	OutputFormat string
	Timezone     string
	// Anchor picks the week: empty/now, a date, RFC3339 or a phrase
	Anchor     string
	WeekOffset int
	SubjectID  string
	GroupBy    string
	Breakdown  bool
	Color      bool
	ResetRule  string
	// Subjects from the config file
	Subjects    []model.Subject
	Concurrency int
}

type Analyzer struct {
	config *Config
	loader *Loader
	reset  *rank.ResetSchedule
	out    formatter.Formatter
	now    func() time.Time
}

func New(config *Config) (*Analyzer, error) {
	if config.Concurrency == 0 {
		config.Concurrency = runtime.NumCPU()
	}

	loader, err := NewLoader(LoaderConfig{
		DataDir:      config.DataDir,
		SubjectsFile: config.SubjectsFile,
		CacheDir:     config.CacheDir,
		Concurrency:  config.Concurrency,
		Subjects:     config.Subjects,
	})
	if err != nil {
		return nil, err
	}

	reset, err := rank.NewResetSchedule(config.ResetRule)
	if err != nil {
		return nil, err
	}

	out, err := formatter.New(config.OutputFormat, formatter.Options{
		Breakdown: config.Breakdown,
		Color:     config.Color,
	})
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		config: config,
		loader: loader,
		reset:  reset,
		out:    out,
		now:    func() time.Time { return util.GetTimeProvider().Now() },
	}, nil
}

// Run loads every export, builds the selected week and writes it to stdout
func (a *Analyzer) Run() error {
	return a.RunTo(os.Stdout)
}

// RunTo is Run with an explicit destination
func (a *Analyzer) RunTo(w io.Writer) error {
	startTime := time.Now()
	util.LogInfo("starting weekly focus analysis")

	// Phase 1: Preload cache into memory
	preloadStart := time.Now()
	a.loader.Preload()
	preloadDuration := time.Since(preloadStart)

	// Phase 2: Scan, validate cache and parse
	loadStart := time.Now()
	ds, err := a.loader.Load()
	if err != nil {
		return err
	}
	loadDuration := time.Since(loadStart)
	if ds.Files == 0 {
		return fmt.Errorf("no session exports found in %s", a.config.DataDir)
	}

	// Phase 3: Build the week
	buildStart := time.Now()
	report, err := a.Build(ds)
	if err != nil {
		return err
	}
	buildDuration := time.Since(buildStart)

	// Phase 4: Format and output
	outputStart := time.Now()
	err = a.out.Format(w, report)
	outputDuration := time.Since(outputStart)

	util.LogDebug("analysis finished",
		util.String("total", time.Since(startTime).String()),
		util.String("preload", preloadDuration.String()),
		util.String("load", loadDuration.String()),
		util.String("build", buildDuration.String()),
		util.String("output", outputDuration.String()))
	return err
}

// Build turns a loaded dataset into the report for the configured week
func (a *Analyzer) Build(ds *Dataset) (*formatter.Report, error) {
	loc, err := calendar.LoadZone(a.config.Timezone)
	if err != nil {
		return nil, err
	}
	now := a.now()
	anchor, err := util.ParseAnchor(a.config.Anchor, now, loc)
	if err != nil {
		return nil, err
	}

	return BuildReport(ds, ReportOptions{
		Timezone:   a.config.Timezone,
		Anchor:     anchor,
		WeekOffset: a.config.WeekOffset,
		SubjectID:  model.ID(a.config.SubjectID),
		GroupBy:    a.config.GroupBy,
		Now:        now,
		Reset:      a.reset,
	})
}

// ClearCache removes cached exports before a run
func (a *Analyzer) ClearCache() error {
	return a.loader.ClearCache()
}
