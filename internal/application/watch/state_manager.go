package watch

import (
	"sync"
	"time"

	"github.com/penwyp/go-focus-calendar/internal/analyzer"
	"github.com/penwyp/go-focus-calendar/internal/core/constants"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
	"github.com/penwyp/go-focus-calendar/internal/presentation/formatter"
)

// ViewState is what the viewer has selected with the keyboard
type ViewState struct {
	// WeekOffset counts weeks from the anchor week
	WeekOffset int
	// SubjectID is "" for all subjects or constants.NoSubjectFilter
	SubjectID model.ID
	ShowHelp  bool
}

// StateManager manages application state in a thread-safe manner
type StateManager struct {
	mu sync.RWMutex

	dataset        *analyzer.Dataset
	report         *formatter.Report
	previousReport *formatter.Report

	isLoading      bool
	loadingMessage string
	status         string

	view ViewState

	lastDataUpdate time.Time
}

func NewStateManager(subjectID model.ID) *StateManager {
	return &StateManager{view: ViewState{SubjectID: subjectID}}
}

func (sm *StateManager) GetDataset() *analyzer.Dataset {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.dataset
}

// SetDataset stores a freshly loaded dataset
func (sm *StateManager) SetDataset(ds *analyzer.Dataset) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.dataset = ds
	sm.lastDataUpdate = ds.LoadedAt
}

func (sm *StateManager) GetReport() *formatter.Report {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.report
}

// SetReport replaces the current report, keeping the old one for display
// while a refresh is running
func (sm *StateManager) SetReport(report *formatter.Report) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.report != nil {
		sm.previousReport = sm.report
	}
	sm.report = report
}

// GetReportForDisplay returns the report to draw, falling back to the
// previous one while loading
func (sm *StateManager) GetReportForDisplay() *formatter.Report {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if sm.report != nil {
		return sm.report
	}
	return sm.previousReport
}

func (sm *StateManager) GetLoadingState() (bool, string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.isLoading, sm.loadingMessage
}

func (sm *StateManager) SetLoadingState(isLoading bool, message string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.isLoading = isLoading
	sm.loadingMessage = message
}

func (sm *StateManager) GetStatus() string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.status
}

func (sm *StateManager) SetStatus(status string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.status = status
}

func (sm *StateManager) GetLastDataUpdate() time.Time {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.lastDataUpdate
}

func (sm *StateManager) GetViewState() ViewState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.view
}

func (sm *StateManager) UpdateViewState(updateFunc func(*ViewState)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	updateFunc(&sm.view)
}

func (sm *StateManager) NextWeek() {
	sm.UpdateViewState(func(v *ViewState) { v.WeekOffset++ })
}

func (sm *StateManager) PrevWeek() {
	sm.UpdateViewState(func(v *ViewState) { v.WeekOffset-- })
}

func (sm *StateManager) ThisWeek() {
	sm.UpdateViewState(func(v *ViewState) { v.WeekOffset = 0 })
}

func (sm *StateManager) ShowAllSubjects() {
	sm.UpdateViewState(func(v *ViewState) { v.SubjectID = "" })
}

func (sm *StateManager) ToggleHelp() {
	sm.UpdateViewState(func(v *ViewState) { v.ShowHelp = !v.ShowHelp })
}

// CycleSubject steps the filter through all subjects, each known subject in
// order, then sessions without a subject, and back to all
func (sm *StateManager) CycleSubject(subjects []model.Subject) {
	sm.UpdateViewState(func(v *ViewState) {
		v.SubjectID = nextSubject(subjects, v.SubjectID)
	})
}

func nextSubject(subjects []model.Subject, current model.ID) model.ID {
	order := make([]model.ID, 0, len(subjects)+2)
	order = append(order, "")
	for _, s := range subjects {
		order = append(order, s.ID)
	}
	order = append(order, constants.NoSubjectFilter)

	for i, id := range order {
		if id == current {
			return order[(i+1)%len(order)]
		}
	}
	// stale selection
	return ""
}
