package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-focus-calendar/internal/core/model"
	"github.com/penwyp/go-focus-calendar/internal/data/parser"
)

func newExport(ids ...string) *parser.Export {
	exp := &parser.Export{}
	for _, id := range ids {
		exp.Sessions = append(exp.Sessions, model.Session{
			ID:              model.ID(id),
			StartedAt:       "2025-06-10T08:00:00Z",
			EndedAt:         "2025-06-10T08:30:00Z",
			DurationMinutes: 30,
		})
	}
	return exp
}

func setup(t *testing.T) (*FileCache, string) {
	t.Helper()
	cache, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "sessions.json")
	require.NoError(t, os.WriteFile(src, []byte(`[{"id": 1}]`), 0644))
	return cache, src
}

func TestNewFileCacheInvalidDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("content"), 0644))

	cache, err := NewFileCache(filepath.Join(file, "subdir"))
	assert.Error(t, err)
	assert.Nil(t, cache)
}

func TestCacheKeyIsStablePerPath(t *testing.T) {
	a := cacheKey("/data/2025/week-24.json")
	assert.Equal(t, a, cacheKey("/data/2025/week-24.json"))
	assert.NotEqual(t, a, cacheKey("/data/2024/week-24.json"))
	assert.Len(t, a, 36)
}

func TestFileCacheSetAndGet(t *testing.T) {
	cache, src := setup(t)

	res := cache.Get(src)
	assert.False(t, res.Found)
	assert.Equal(t, MissReasonNotFound, res.MissReason)

	require.NoError(t, cache.Set(src, newExport("1", "2")))

	res = cache.Get(src)
	require.True(t, res.Found)
	assert.Equal(t, MissReasonNone, res.MissReason)
	assert.Len(t, res.Entry.Export.Sessions, 2)

	mem, files := cache.Stats()
	assert.Equal(t, 1, mem)
	assert.Equal(t, 1, files)
}

func TestFileCacheInvalidatesOnChange(t *testing.T) {
	tests := []struct {
		name   string
		change func(t *testing.T, path string)
		want   MissReason
	}{
		{
			name: "size",
			change: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, []byte(`[{"id": 1}, {"id": 2}]`), 0644))
			},
			want: MissReasonSize,
		},
		{
			name: "modtime",
			change: func(t *testing.T, path string) {
				later := time.Now().Add(time.Hour)
				require.NoError(t, os.Chtimes(path, later, later))
			},
			want: MissReasonModTime,
		},
		{
			name: "removed",
			change: func(t *testing.T, path string) {
				require.NoError(t, os.Remove(path))
			},
			want: MissReasonError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, src := setup(t)
			require.NoError(t, cache.Set(src, newExport("1")))

			tt.change(t, src)

			res := cache.Get(src)
			assert.False(t, res.Found)
			assert.Equal(t, tt.want, res.MissReason)
			assert.Equal(t, tt.want.String(), res.MissReason.String())
		})
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	cache, src := setup(t)
	require.NoError(t, os.WriteFile(cache.cachePath(cacheKey(src)), []byte("{not json"), 0644))

	res := cache.Get(src)
	assert.False(t, res.Found)
	assert.Equal(t, MissReasonError, res.MissReason)
}

func TestFileCachePreload(t *testing.T) {
	cache, src := setup(t)
	require.NoError(t, cache.Set(src, newExport("1")))

	// a stale entry whose source is gone
	gone := filepath.Join(t.TempDir(), "gone.json")
	require.NoError(t, os.WriteFile(gone, []byte("[]"), 0644))
	require.NoError(t, cache.Set(gone, newExport("2")))
	require.NoError(t, os.Remove(gone))

	require.NoError(t, os.WriteFile(filepath.Join(cache.baseDir, "junk.json"), []byte("nope"), 0644))

	fresh, err := NewFileCache(cache.baseDir)
	require.NoError(t, err)
	require.NoError(t, fresh.Preload())

	mem, files := fresh.Stats()
	assert.Equal(t, 1, mem)
	assert.Equal(t, 3, files)
	assert.True(t, fresh.Get(src).Found)
}

func TestFileCachePreloadEmpty(t *testing.T) {
	cache, _ := setup(t)
	assert.NoError(t, cache.Preload())
}

func TestFileCacheClear(t *testing.T) {
	cache, src := setup(t)
	require.NoError(t, cache.Set(src, newExport("1")))

	require.NoError(t, cache.Clear())

	mem, files := cache.Stats()
	assert.Zero(t, mem)
	assert.Zero(t, files)
	assert.False(t, cache.Get(src).Found)
}
