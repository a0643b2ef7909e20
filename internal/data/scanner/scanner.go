package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-focus-calendar/internal/util"
)

// SubjectsFileName is the subject definitions file looked up in a data dir
const SubjectsFileName = "subjects.json"

// FileScanner finds session exports under a directory
type FileScanner struct {
	baseDir    string
	extensions []string
}

func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{
		baseDir:    baseDir,
		extensions: []string{".json", ".jsonl"},
	}
}

// IsSessionFile reports whether path looks like a session export
func (s *FileScanner) IsSessionFile(path string) bool {
	if strings.EqualFold(filepath.Base(path), SubjectsFileName) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range s.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Scan returns every session export below the base dir in lexical order.
// A base path naming a single file is returned as is.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()

	info, err := os.Stat(s.baseDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{s.baseDir}, nil
	}

	var files []string
	dirCount, totalCount := 0, 0
	err = filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebug("skip unreadable path", util.String("path", path), util.Err(err))
			return nil
		}
		if info.IsDir() {
			if path != s.baseDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			dirCount++
			return nil
		}
		totalCount++
		if s.IsSessionFile(path) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)

	util.LogDebug("file scan completed",
		util.String("dir", s.baseDir),
		util.String("duration", time.Since(start).String()),
		util.Int("dirs", dirCount),
		util.Int("files", totalCount),
		util.Int("exports", len(files)))
	return files, err
}

// SubjectsFile returns the subjects.json path in the base dir, if present
func (s *FileScanner) SubjectsFile() (string, bool) {
	dir := s.baseDir
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	path := filepath.Join(dir, SubjectsFileName)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
