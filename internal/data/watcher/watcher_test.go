package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isJSON(path string) bool {
	return strings.HasSuffix(path, ".json")
}

func waitFor(t *testing.T, events <-chan FileEvent, name string) FileEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "events channel closed")
			if filepath.Base(ev.Path) == name {
				return ev
			}
		case <-timeout:
			t.Fatalf("no event for %s", name)
		}
	}
}

func TestFileWatcherReportsMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWatcher([]string{dir}, isJSON)
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "week.json"), []byte("[]"), 0644))

	ev := waitFor(t, fw.Events(), "week.json")
	assert.NotEmpty(t, ev.Operation)
}

func TestFileWatcherFollowsNewDirectories(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWatcher([]string{dir}, isJSON)
	require.NoError(t, err)
	defer fw.Close()

	sub := filepath.Join(dir, "2025")
	require.NoError(t, os.Mkdir(sub, 0755))
	// give the watcher a moment to register the new directory
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "june.json"), []byte("[]"), 0644))

	waitFor(t, fw.Events(), "june.json")
}

func TestFileWatcherMissingPath(t *testing.T) {
	_, err := NewFileWatcher([]string{filepath.Join(t.TempDir(), "missing")}, isJSON)
	assert.Error(t, err)
}

func TestFileWatcherCloseClosesEvents(t *testing.T) {
	fw, err := NewFileWatcher([]string{t.TempDir()}, nil)
	require.NoError(t, err)
	require.NoError(t, fw.Close())

	_, ok := <-fw.Events()
	assert.False(t, ok)
}
