package watcher

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-focus-calendar/internal/util"
)

// FileEvent is a change to a watched export
type FileEvent struct {
	Path      string
	Operation string
}

// FileWatcher reports changes to files accepted by match below a set of
// roots. Directories created later are watched as they appear.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	match   func(path string) bool
	events  chan FileEvent
	done    chan struct{}
}

func NewFileWatcher(paths []string, match func(path string) bool) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: w,
		match:   match,
		events:  make(chan FileEvent, 100),
		done:    make(chan struct{}),
	}

	for _, path := range paths {
		if err := fw.addPath(path); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	go fw.processEvents()
	return fw, nil
}

func (fw *FileWatcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		// watch the parent so atomic replaces are still seen
		return fw.watcher.Add(filepath.Dir(path))
	}
	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return fw.watcher.Add(p)
		}
		return nil
	})
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.done)
	defer close(fw.events)

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.addPath(event.Name); err != nil {
						util.LogWarn("cannot watch new directory", util.String("dir", event.Name), util.Err(err))
					}
					continue
				}
			}
			if event.Has(fsnotify.Chmod) || (fw.match != nil && !fw.match(event.Name)) {
				continue
			}

			select {
			case fw.events <- FileEvent{Path: event.Name, Operation: event.Op.String()}:
			default:
				util.LogDebug("file event dropped, consumer is behind", util.String("file", event.Name))
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("file monitoring error", util.Err(err))
		}
	}
}

func (fw *FileWatcher) Events() <-chan FileEvent {
	return fw.events
}

// Close stops watching and closes the Events channel
func (fw *FileWatcher) Close() error {
	err := fw.watcher.Close()
	<-fw.done
	return err
}
