package watch

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/penwyp/go-focus-calendar/internal/analyzer"
	"github.com/penwyp/go-focus-calendar/internal/data/scanner"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

// DataLoader loads exports for the live view and remembers which file
// versions the current dataset was built from
type DataLoader struct {
	config *WatchConfig
	loader *analyzer.Loader

	mu     sync.Mutex
	stamps map[string]util.FileStamp
}

func NewDataLoader(config *WatchConfig) (*DataLoader, error) {
	loader, err := analyzer.NewLoader(analyzer.LoaderConfig{
		DataDir:      config.DataDir,
		SubjectsFile: config.SubjectsFile,
		CacheDir:     config.CacheDir,
		Concurrency:  config.Concurrency,
		Subjects:     config.Subjects,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create loader: %w", err)
	}
	return &DataLoader{
		config: config,
		loader: loader,
		stamps: make(map[string]util.FileStamp),
	}, nil
}

func (dl *DataLoader) Preload() {
	dl.loader.Preload()
}

// Load reads every export and records the stamps it saw
func (dl *DataLoader) Load() (*analyzer.Dataset, error) {
	files, err := dl.loader.Files()
	if err != nil {
		return nil, err
	}
	ds, err := dl.loader.Load()
	if err != nil {
		return nil, err
	}

	stamps := make(map[string]util.FileStamp, len(files))
	for _, f := range files {
		if st, err := util.StatFile(f); err == nil {
			stamps[f] = st
		}
	}
	dl.mu.Lock()
	dl.stamps = stamps
	dl.mu.Unlock()
	return ds, nil
}

// IdentifyChangedFiles returns the files that are new or differ from the
// last Load
func (dl *DataLoader) IdentifyChangedFiles(files []string) []string {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	var changed []string
	for _, f := range files {
		current, err := util.StatFile(f)
		if err != nil {
			continue
		}
		if prev, ok := dl.stamps[f]; !ok || prev != current {
			changed = append(changed, f)
		}
	}
	return changed
}

// HasChanges reports whether the exports on disk differ from the last Load,
// including removed files
func (dl *DataLoader) HasChanges() (bool, error) {
	files, err := dl.loader.Files()
	if err != nil {
		return false, err
	}
	if len(dl.IdentifyChangedFiles(files)) > 0 {
		return true, nil
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()
	return len(files) != len(dl.stamps), nil
}

// IsSubjectsFile reports whether path holds subject definitions
func (dl *DataLoader) IsSubjectsFile(path string) bool {
	if dl.config.SubjectsFile != "" {
		return filepath.Clean(path) == filepath.Clean(dl.config.SubjectsFile)
	}
	return strings.EqualFold(filepath.Base(path), scanner.SubjectsFileName)
}

// IsRelevant reports whether a changed path can affect the dataset
func (dl *DataLoader) IsRelevant(path string) bool {
	return dl.IsSubjectsFile(path) || dl.loader.Scanner().IsSessionFile(path)
}

// WatchPaths are the roots a file watcher should cover
func (dl *DataLoader) WatchPaths() []string {
	paths := []string{dl.config.DataDir}
	if dl.config.SubjectsFile != "" {
		paths = append(paths, dl.config.SubjectsFile)
	}
	return paths
}

func (dl *DataLoader) ClearCache() error {
	return dl.loader.ClearCache()
}
