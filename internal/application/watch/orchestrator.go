package watch

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize/english"
	"github.com/robfig/cron/v3"

	"github.com/penwyp/go-focus-calendar/internal/core/constants"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
	"github.com/penwyp/go-focus-calendar/internal/data/watcher"
	"github.com/penwyp/go-focus-calendar/internal/presentation/display"
	"github.com/penwyp/go-focus-calendar/internal/presentation/formatter"
	"github.com/penwyp/go-focus-calendar/internal/presentation/interaction"
	"github.com/penwyp/go-focus-calendar/internal/presentation/layout"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

// file events arriving in a burst are folded into one reload
const debounceDelay = 300 * time.Millisecond

// Orchestrator coordinates all components of the live week view
type Orchestrator struct {
	config *WatchConfig

	// Core components
	dataLoader   *DataLoader
	refreshCtrl  *RefreshController
	stateManager *StateManager

	// UI components
	display  *display.TerminalDisplay
	keyboard *interaction.KeyboardReader

	// Monitoring
	watcher   *watcher.FileWatcher
	scheduler *cron.Cron
	ticks     chan struct{}

	now func() time.Time
}

func NewOrchestrator(config *WatchConfig, out io.Writer) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dataLoader, err := NewDataLoader(config)
	if err != nil {
		return nil, err
	}
	refreshCtrl, err := NewRefreshController(dataLoader, config)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		config:       config,
		dataLoader:   dataLoader,
		refreshCtrl:  refreshCtrl,
		stateManager: NewStateManager(model.ID(config.SubjectID)),
		display:      display.NewTerminalDisplay(out, layout.DetectSizer()),
		ticks:        make(chan struct{}, 1),
		now:          func() time.Time { return util.GetTimeProvider().Now() },
	}, nil
}

// Run starts the orchestrator main loop and blocks until the viewer quits
// or ctx is cancelled
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("starting live week view")
	defer o.Close()

	if err := util.InitializeTimeProvider(o.config.Timezone); err != nil {
		return fmt.Errorf("failed to initialize timezone: %w", err)
	}

	// Phase 1: Initialize keyboard
	keyboard, err := interaction.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("failed to initialize keyboard: %w", err)
	}
	o.keyboard = keyboard

	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	o.stateManager.SetLoadingState(true, "Loading sessions...")
	o.updateDisplay()

	// Phase 2: Load data
	o.dataLoader.Preload()
	if err := o.reload(); err != nil {
		return err
	}
	o.stateManager.SetLoadingState(false, "")

	// Phase 3: Start file monitoring and the refresh schedule
	o.startWatcher()
	if err := o.startScheduler(); err != nil {
		return err
	}

	o.updateDisplay()

	var fileEvents <-chan watcher.FileEvent
	if o.watcher != nil {
		fileEvents = o.watcher.Events()
	}
	var debounce <-chan time.Time
	forceReload := false

	// Phase 4: Main event loop
	for {
		select {
		case <-ctx.Done():
			util.LogInfo("shutting down live week view")
			return nil

		case <-o.ticks:
			o.display.Resize(layout.DetectSizer())
			o.rebuild()
			o.updateDisplay()

		case event, ok := <-fileEvents:
			if !ok {
				fileEvents = nil
				continue
			}
			util.LogDebug("export changed", util.String("file", event.Path), util.String("op", event.Operation))
			if o.dataLoader.IsSubjectsFile(event.Path) {
				forceReload = true
			}
			debounce = time.After(debounceDelay)

		case <-debounce:
			debounce = nil
			o.refreshData(forceReload)
			forceReload = false
			o.updateDisplay()

		case keyEvent := <-o.keyboard.Events():
			if o.handleKeyboard(keyEvent) {
				return nil
			}
			o.updateDisplay()
		}
	}
}

func (o *Orchestrator) startWatcher() {
	fw, err := watcher.NewFileWatcher(o.dataLoader.WatchPaths(), o.dataLoader.IsRelevant)
	if err != nil {
		util.LogWarn("file watching disabled", util.Err(err))
		return
	}
	o.watcher = fw
}

// startScheduler ticks the loop on the refresh spec so the now marker moves
func (o *Orchestrator) startScheduler() error {
	o.scheduler = cron.New()
	_, err := o.scheduler.AddFunc(o.config.RefreshSpec, func() {
		select {
		case o.ticks <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("invalid refresh spec %q: %w", o.config.RefreshSpec, err)
	}
	o.scheduler.Start()
	return nil
}

// reload loads the exports and rebuilds the current view
func (o *Orchestrator) reload() error {
	ds, err := o.refreshCtrl.Reload()
	if err != nil {
		return err
	}
	o.stateManager.SetDataset(ds)
	o.stateManager.SetStatus(fmt.Sprintf("%s loaded at %s",
		english.Plural(len(ds.Sessions), "session", ""),
		util.GetTimeProvider().Format(ds.LoadedAt, constants.ClockLayout)))
	o.rebuild()
	return nil
}

// refreshData reloads the exports, keeping the old view on failure. Unless
// forced it is skipped when no export differs from the last load.
func (o *Orchestrator) refreshData(force bool) {
	if !force {
		changed, err := o.dataLoader.HasChanges()
		if err != nil {
			util.LogWarn("change detection failed", util.Err(err))
		} else if !changed {
			util.LogDebug("exports unchanged, reload skipped")
			return
		}
	}

	o.stateManager.SetLoadingState(true, "Refreshing...")
	defer o.stateManager.SetLoadingState(false, "")
	if err := o.reload(); err != nil {
		util.LogError("refresh failed", util.Err(err))
		o.stateManager.SetStatus("refresh failed: " + err.Error())
	}
}

// rebuild projects the selected week from the current dataset
func (o *Orchestrator) rebuild() {
	ds := o.stateManager.GetDataset()
	if ds == nil {
		return
	}
	report, err := o.refreshCtrl.Build(ds, o.stateManager.GetViewState(), o.now())
	if err != nil {
		util.LogError("failed to build week", util.Err(err))
		o.stateManager.SetStatus("error: " + err.Error())
		return
	}
	o.stateManager.SetReport(report)
}

// handleKeyboard applies a key press and reports whether to quit
func (o *Orchestrator) handleKeyboard(event interaction.KeyEvent) bool {
	view := o.stateManager.GetViewState()

	if event.Type == interaction.KeyEscape && view.ShowHelp {
		o.stateManager.ToggleHelp()
		return false
	}
	if event.IsQuit() {
		return true
	}

	switch event.Type {
	case interaction.KeyArrowRight:
		o.stateManager.NextWeek()
	case interaction.KeyArrowLeft:
		o.stateManager.PrevWeek()
	case interaction.KeyChar:
		switch unicode.ToLower(event.Key) {
		case 'n':
			o.stateManager.NextWeek()
		case 'p':
			o.stateManager.PrevWeek()
		case 't':
			o.stateManager.ThisWeek()
		case 's':
			var subjects []model.Subject
			if ds := o.stateManager.GetDataset(); ds != nil {
				subjects = ds.Subjects
			}
			o.stateManager.CycleSubject(subjects)
		case 'a':
			o.stateManager.ShowAllSubjects()
		case 'r':
			o.refreshData(true)
			return false
		case 'h', '?':
			o.stateManager.ToggleHelp()
			return false
		default:
			return false
		}
	default:
		return false
	}

	o.rebuild()
	return false
}

// updateDisplay draws the current state
func (o *Orchestrator) updateDisplay() {
	view := o.stateManager.GetViewState()
	isLoading, message := o.stateManager.GetLoadingState()
	report := o.stateManager.GetReportForDisplay()

	if view.ShowHelp {
		o.display.Render(display.Frame{Help: true})
		return
	}
	if report == nil {
		o.display.Render(display.Frame{Loading: true, Status: message})
		return
	}

	body, err := o.refreshCtrl.Render(report)
	if err != nil {
		body = "render failed: " + err.Error()
	}
	status := o.stateManager.GetStatus()
	if isLoading {
		status = message
	}
	o.display.Render(display.Frame{
		Title:    weekTitle(report.Schedule),
		Subtitle: viewSubtitle(report, view),
		Body:     body,
		Status:   status,
	})
}

func weekTitle(schedule *model.WeekSchedule) string {
	first := schedule.Days[0]
	last := schedule.Days[constants.DaysPerWeek-1]
	return fmt.Sprintf("Focus Calendar  %s %s - %s %s", first.DayLabel, first.DateLabel, last.DayLabel, last.DateLabel)
}

func viewSubtitle(report *formatter.Report, view ViewState) string {
	parts := []string{weekOffsetLabel(view.WeekOffset), report.Schedule.Window.Zone, subjectLabel(report)}
	return strings.Join(parts, "  |  ")
}

// weekOffsetLabel names a week relative to the anchor week
func weekOffsetLabel(offset int) string {
	switch {
	case offset == 0:
		return "this week"
	case offset == -1:
		return "last week"
	case offset == 1:
		return "next week"
	case offset < 0:
		return english.Plural(-offset, "week", "") + " ago"
	default:
		return "in " + english.Plural(offset, "week", "")
	}
}

func subjectLabel(report *formatter.Report) string {
	id := report.Schedule.SubjectID
	switch id {
	case "":
		return "all subjects"
	case constants.NoSubjectFilter:
		return "no subject"
	}
	for _, s := range report.Subjects {
		if s.SubjectID == id {
			return s.Name
		}
	}
	return "subject " + id.String()
}

// Close releases the terminal, the watcher and the scheduler
func (o *Orchestrator) Close() {
	if o.scheduler != nil {
		<-o.scheduler.Stop().Done()
		o.scheduler = nil
	}
	if o.watcher != nil {
		if err := o.watcher.Close(); err != nil {
			util.LogDebug("watcher close failed", util.Err(err))
		}
		o.watcher = nil
	}
	if o.keyboard != nil {
		if err := o.keyboard.Close(); err != nil {
			util.LogDebug("keyboard close failed", util.Err(err))
		}
		o.keyboard = nil
	}
}

// LoadWeek loads the exports once and returns the report of the current
// view without touching the terminal
func (o *Orchestrator) LoadWeek() (*formatter.Report, error) {
	if err := o.reload(); err != nil {
		return nil, err
	}
	report := o.stateManager.GetReport()
	if report == nil {
		return nil, fmt.Errorf("no week could be built")
	}
	return report, nil
}
