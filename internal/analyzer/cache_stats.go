package analyzer

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/penwyp/go-focus-calendar/internal/data/cache"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

// cacheMissReasonString describes a miss reason for log output
func cacheMissReasonString(r cache.MissReason) string {
	switch r {
	case cache.MissReasonNone:
		return "none"
	case cache.MissReasonError:
		return "Cache read error"
	case cache.MissReasonSize:
		return "File size changed"
	case cache.MissReasonModTime:
		return "Modification time changed"
	case cache.MissReasonNotFound:
		return "Cache not found"
	default:
		return "Unknown reason"
	}
}

// CacheStats counts cache hits and misses over one load
type CacheStats struct {
	totalFiles  int64
	cacheHits   int64
	cacheMisses int64
	failures    int64
	mu          sync.Mutex
	missDetails []MissDetail
}

// MissDetail records one file that had to be parsed
type MissDetail struct {
	FilePath string
	Reason   cache.MissReason
}

func NewCacheStats() *CacheStats {
	return &CacheStats{
		missDetails: make([]MissDetail, 0),
	}
}

func (cs *CacheStats) IncrementTotal() {
	atomic.AddInt64(&cs.totalFiles, 1)
}

func (cs *CacheStats) IncrementHit() {
	atomic.AddInt64(&cs.cacheHits, 1)
}

func (cs *CacheStats) IncrementMiss(filePath string, reason cache.MissReason) {
	atomic.AddInt64(&cs.cacheMisses, 1)

	cs.mu.Lock()
	cs.missDetails = append(cs.missDetails, MissDetail{
		FilePath: filePath,
		Reason:   reason,
	})
	cs.mu.Unlock()
}

func (cs *CacheStats) IncrementFailure() {
	atomic.AddInt64(&cs.failures, 1)
}

// GetStats returns the counters and the hit rate in percent
func (cs *CacheStats) GetStats() (total, hits, misses, failures int64, hitRate float64) {
	total = atomic.LoadInt64(&cs.totalFiles)
	hits = atomic.LoadInt64(&cs.cacheHits)
	misses = atomic.LoadInt64(&cs.cacheMisses)
	failures = atomic.LoadInt64(&cs.failures)

	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return
}

// MissReasons counts misses per reason
func (cs *CacheStats) MissReasons() map[cache.MissReason]int {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	counts := make(map[cache.MissReason]int)
	for _, d := range cs.missDetails {
		counts[d.Reason]++
	}
	return counts
}

func (cs *CacheStats) PrintProgress(processed int64) {
	total, hits, misses, failures, hitRate := cs.GetStats()
	util.LogInfo(fmt.Sprintf("parse progress: %d/%d files, cache hit rate %.1f%% (%d hits/%d misses/%d failures)",
		processed, total, hitRate, hits, misses, failures))
}

// PrintFinalStats logs the totals and a summary of miss reasons
func (cs *CacheStats) PrintFinalStats() {
	total, hits, misses, failures, hitRate := cs.GetStats()
	util.LogInfo(fmt.Sprintf("cache statistics: %d files, hit rate %.1f%% (%d hits/%d misses/%d failures)",
		total, hitRate, hits, misses, failures))

	if misses == 0 {
		return
	}
	for reason, count := range cs.MissReasons() {
		util.LogDebug("cache misses", util.String("reason", cacheMissReasonString(reason)), util.Int("files", count))
	}
}
