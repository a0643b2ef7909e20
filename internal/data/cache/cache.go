package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/penwyp/go-focus-calendar/internal/data/parser"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

type MissReason int

const (
	MissReasonNone MissReason = iota
	MissReasonError
	MissReasonSize
	MissReasonModTime
	MissReasonNotFound
)

func (r MissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonError:
		return "error"
	case MissReasonSize:
		return "size"
	case MissReasonModTime:
		return "modtime"
	case MissReasonNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Entry is a parsed export together with the stamp of the file it came from
type Entry struct {
	FilePath string         `json:"file_path"`
	Stamp    util.FileStamp `json:"stamp"`
	CachedAt int64          `json:"cached_at"`
	Export   *parser.Export `json:"export"`
}

type Result struct {
	Entry      *Entry
	Found      bool
	MissReason MissReason
}

type Cache interface {
	Get(filePath string) Result
	Set(filePath string, exp *parser.Export) error
	Clear() error
	Preload() error
}

// FileCache keeps parsed exports in memory and mirrors them as JSON files
// under baseDir. An entry is only served while the source file's size and
// mtime are unchanged.
type FileCache struct {
	baseDir     string
	mu          sync.RWMutex
	memoryCache map[string]*Entry
}

func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{
		baseDir:     baseDir,
		memoryCache: make(map[string]*Entry),
	}, nil
}

// cacheKey maps a source path to a stable file name; exports in different
// directories often share a base name.
func cacheKey(filePath string) string {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		abs = filePath
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+abs)).String()
}

func (c *FileCache) cachePath(key string) string {
	return filepath.Join(c.baseDir, key+".json")
}

func (c *FileCache) Get(filePath string) Result {
	key := cacheKey(filePath)

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.memoryCache[key]; ok {
		if reason := validate(entry); reason == MissReasonNone {
			return Result{Entry: entry, Found: true}
		}
		delete(c.memoryCache, key)
	}

	entry, err := readEntry(c.cachePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return Result{MissReason: MissReasonNotFound}
		}
		return Result{MissReason: MissReasonError}
	}
	if reason := validate(entry); reason != MissReasonNone {
		return Result{MissReason: reason}
	}

	c.memoryCache[key] = entry
	return Result{Entry: entry, Found: true}
}

func readEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := sonic.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	if entry.Export == nil {
		return nil, fmt.Errorf("cache entry %s has no export", path)
	}
	return &entry, nil
}

func validate(entry *Entry) MissReason {
	current, err := util.StatFile(entry.FilePath)
	if err != nil {
		util.LogDebug("cache validation failed", util.String("file", entry.FilePath), util.Err(err))
		return MissReasonError
	}
	if current.Size != entry.Stamp.Size {
		util.LogDebug("cache invalidated: size changed", util.String("file", entry.FilePath))
		return MissReasonSize
	}
	if current.ModTime != entry.Stamp.ModTime {
		util.LogDebug("cache invalidated: modtime changed", util.String("file", entry.FilePath))
		return MissReasonModTime
	}
	return MissReasonNone
}

func (c *FileCache) Set(filePath string, exp *parser.Export) error {
	stamp, err := util.StatFile(filePath)
	if err != nil {
		return err
	}
	entry := &Entry{
		FilePath: filePath,
		Stamp:    stamp,
		CachedAt: time.Now().Unix(),
		Export:   exp,
	}
	data, err := sonic.ConfigStd.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	key := cacheKey(filePath)

	c.mu.Lock()
	defer c.mu.Unlock()

	tmp := c.cachePath(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, c.cachePath(key)); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	c.memoryCache[key] = entry
	return nil
}

func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memoryCache = make(map[string]*Entry)

	files, err := c.listFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (c *FileCache) listFiles() ([]string, error) {
	var files []string
	err := filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

type preloadResult struct {
	filePath string
	key      string
	entry    *Entry
	err      error
}

// Preload loads every still-valid cache file into memory using one worker
// per CPU.
func (c *FileCache) Preload() error {
	cacheFiles, err := c.listFiles()
	if err != nil {
		return fmt.Errorf("failed to scan cache directory: %w", err)
	}
	if len(cacheFiles) == 0 {
		util.LogDebug("cache directory is empty, skipping preload")
		return nil
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > len(cacheFiles) {
		numWorkers = len(cacheFiles)
	}

	filesChan := make(chan string, len(cacheFiles))
	resultsChan := make(chan preloadResult, len(cacheFiles))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go preloadWorker(filesChan, resultsChan, &wg)
	}
	for _, f := range cacheFiles {
		filesChan <- f
	}
	close(filesChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	loaded, invalid, failed := 0, 0, 0
	c.mu.Lock()
	for res := range resultsChan {
		switch {
		case res.err != nil:
			failed++
			util.LogWarn("failed to preload cache file", util.String("file", res.filePath), util.Err(res.err))
		case validate(res.entry) == MissReasonNone:
			c.memoryCache[res.key] = res.entry
			loaded++
		default:
			invalid++
		}
	}
	c.mu.Unlock()

	util.LogInfo("cache preload complete",
		util.Int("loaded", loaded),
		util.Int("invalid", invalid),
		util.Int("errors", failed),
		util.Int("total", len(cacheFiles)))
	return nil
}

func preloadWorker(files <-chan string, results chan<- preloadResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for path := range files {
		res := preloadResult{
			filePath: path,
			key:      strings.TrimSuffix(filepath.Base(path), ".json"),
		}
		res.entry, res.err = readEntry(path)
		results <- res
	}
}

// Stats returns the number of entries held in memory and on disk
func (c *FileCache) Stats() (memoryCount, fileCount int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	files, _ := c.listFiles()
	return len(c.memoryCache), len(files)
}
