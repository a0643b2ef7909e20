package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))
}

func TestFileScannerScanEmptyDirectory(t *testing.T) {
	files, err := NewFileScanner(t.TempDir()).Scan()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileScannerScanNonExistentDirectory(t *testing.T) {
	_, err := NewFileScanner("/path/that/does/not/exist").Scan()
	assert.Error(t, err)
}

func TestFileScannerScanMixedFileTypes(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"week-24.json",
		"nested/2025/sessions.jsonl",
		"nested/2025/SESSIONS.JSON",
		"subjects.json",
		"notes.txt",
		"export.csv",
		".hidden/ignored.json",
	} {
		writeFile(t, filepath.Join(dir, name))
	}

	files, err := NewFileScanner(dir).Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "nested/2025/SESSIONS.JSON"),
		filepath.Join(dir, "nested/2025/sessions.jsonl"),
		filepath.Join(dir, "week-24.json"),
	}, files)
}

func TestFileScannerSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.json")
	writeFile(t, path)
	writeFile(t, filepath.Join(dir, SubjectsFileName))

	s := NewFileScanner(path)
	files, err := s.Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)

	subjects, ok := s.SubjectsFile()
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, SubjectsFileName), subjects)
}

func TestFileScannerSubjectsFileMissing(t *testing.T) {
	_, ok := NewFileScanner(t.TempDir()).SubjectsFile()
	assert.False(t, ok)
}

func TestIsSessionFile(t *testing.T) {
	s := NewFileScanner(".")
	tests := []struct {
		path     string
		expected bool
	}{
		{"a.json", true},
		{"a.JSONL", true},
		{"dir/subjects.json", false},
		{"a.json.bak", false},
		{"a", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, s.IsSessionFile(tt.path), tt.path)
	}
}
