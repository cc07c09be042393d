package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(path, content string) *Entry {
	return &Entry{
		Path:    path,
		Content: content,
		ModTime: time.Now(),
		Size:    int64(len(content)),
	}
}

func TestNewContentCache_Defaults(t *testing.T) {
	cc := NewContentCache(0, 0)
	assert.Equal(t, DefaultMaxEntries, cc.MaxEntries())
	assert.Equal(t, int64(DefaultMaxFileBytes), cc.MaxFileBytes())

	cc = NewContentCache(5, 1024)
	assert.Equal(t, 5, cc.MaxEntries())
	assert.Equal(t, int64(1024), cc.MaxFileBytes())
}

func TestGetTouchesRecency(t *testing.T) {
	cc := NewContentCache(3, 0)
	cc.Put(entry("a", "1"))
	cc.Put(entry("b", "2"))
	cc.Put(entry("c", "3"))

	// Touch a so it becomes most recently used, then overflow.
	_, ok := cc.Get("a")
	require.True(t, ok)

	evicted := cc.Put(entry("d", "4"))
	assert.Equal(t, []string{"b"}, evicted, "b is the least recently used after touching a")
	assert.Equal(t, 3, cc.Len())

	_, ok = cc.Get("b")
	assert.False(t, ok)
}

func TestPeekDoesNotTouch(t *testing.T) {
	cc := NewContentCache(2, 0)
	cc.Put(entry("a", "1"))
	cc.Put(entry("b", "2"))

	_, ok := cc.Peek("a")
	require.True(t, ok)

	evicted := cc.Put(entry("c", "3"))
	assert.Equal(t, []string{"a"}, evicted, "peek must not refresh recency")

	stats := cc.Stats()
	assert.Equal(t, int64(0), stats.Hits, "peek must not count as a hit")
}

func TestPutReplacesInPlace(t *testing.T) {
	cc := NewContentCache(2, 0)
	cc.Put(entry("a", "old"))
	cc.Put(entry("b", "x"))

	evicted := cc.Put(entry("a", "new"))
	assert.Nil(t, evicted, "replacement never evicts")
	assert.Equal(t, 2, cc.Len())

	e, ok := cc.Get("a")
	require.True(t, ok)
	assert.Equal(t, "new", e.Content)
}

func TestBoundNeverExceeded(t *testing.T) {
	cc := NewContentCache(10, 0)
	for i := 0; i < 100; i++ {
		cc.Put(entry(fmt.Sprintf("f%03d", i), "x"))
		assert.LessOrEqual(t, cc.Len(), 10)
	}
	assert.Equal(t, int64(90), cc.Stats().Evictions)
}

func TestRemove(t *testing.T) {
	cc := NewContentCache(5, 0)
	cc.Put(entry("a", "1"))

	assert.True(t, cc.Remove("a"))
	assert.False(t, cc.Remove("a"))
	assert.True(t, cc.Empty())
}

func TestPathsRecencyOrder(t *testing.T) {
	cc := NewContentCache(5, 0)
	cc.Put(entry("a", "1"))
	cc.Put(entry("b", "2"))
	cc.Put(entry("c", "3"))
	cc.Get("a")

	assert.Equal(t, []string{"a", "c", "b"}, cc.Paths())
}

func TestStatsAndClear(t *testing.T) {
	cc := NewContentCache(5, 0)
	cc.Put(entry("a", "1"))
	cc.Get("a")
	cc.Get("missing")

	stats := cc.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)

	cc.Clear()
	assert.True(t, cc.Empty())
	assert.Equal(t, Stats{}, cc.Stats())
}
