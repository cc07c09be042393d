package store

import (
	"container/list"
	"time"
)

// Cache configuration constants
const (
	DefaultMaxEntries   = 10000
	DefaultMaxFileBytes = 10 * 1024 * 1024
)

// Entry is the cached record for one file, keyed by root-relative path.
// Replaced wholesale when the file changes on disk.
type Entry struct {
	Path    string
	Content string
	ModTime time.Time
	Hash    uint64 // xxhash of content, for cheap equality when mtime moves
	Size    int64
}

// ContentCache is a bounded, recency-ordered cache of file contents.
// Eviction is true LRU: every successful Get moves the entry to the
// most-recently-used end, and eviction always removes the LRU entry.
// Touch and evict are both O(1) via a doubly-linked list plus a map from
// path to list element.
//
// The cache carries no lock of its own; the owning engine serializes all
// access behind its coarse mutex.
type ContentCache struct {
	maxEntries   int
	maxFileBytes int64

	order *list.List               // front = most recently used
	items map[string]*list.Element // path -> element whose Value is *Entry

	hits      int64
	misses    int64
	evictions int64
}

// Stats holds cache counters for status reporting
type Stats struct {
	Entries   int
	Hits      int64
	Misses    int64
	Evictions int64
}

// NewContentCache creates a cache bounded to maxEntries entries and
// maxFileBytes per file. Non-positive limits fall back to the defaults.
func NewContentCache(maxEntries int, maxFileBytes int64) *ContentCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if maxFileBytes <= 0 {
		maxFileBytes = DefaultMaxFileBytes
	}
	return &ContentCache{
		maxEntries:   maxEntries,
		maxFileBytes: maxFileBytes,
		order:        list.New(),
		items:        make(map[string]*list.Element),
	}
}

// Get returns the entry for path and marks it most recently used.
func (cc *ContentCache) Get(path string) (*Entry, bool) {
	el, ok := cc.items[path]
	if !ok {
		cc.misses++
		return nil, false
	}
	cc.order.MoveToFront(el)
	cc.hits++
	return el.Value.(*Entry), true
}

// Peek returns the entry for path without touching recency or counters.
func (cc *ContentCache) Peek(path string) (*Entry, bool) {
	el, ok := cc.items[path]
	if !ok {
		return nil, false
	}
	return el.Value.(*Entry), true
}

// Put inserts or replaces the entry for path as most recently used, then
// evicts least-recently-used entries until the cache is within its entry
// bound. Evicted paths are returned so the caller can drop their index
// postings.
func (cc *ContentCache) Put(entry *Entry) (evicted []string) {
	if el, ok := cc.items[entry.Path]; ok {
		el.Value = entry
		cc.order.MoveToFront(el)
		return nil
	}

	cc.items[entry.Path] = cc.order.PushFront(entry)

	for cc.order.Len() > cc.maxEntries {
		oldest := cc.order.Back()
		if oldest == nil {
			break
		}
		victim := oldest.Value.(*Entry)
		cc.order.Remove(oldest)
		delete(cc.items, victim.Path)
		cc.evictions++
		evicted = append(evicted, victim.Path)
	}
	return evicted
}

// Remove drops the entry for path. Returns false if it was not cached.
func (cc *ContentCache) Remove(path string) bool {
	el, ok := cc.items[path]
	if !ok {
		return false
	}
	cc.order.Remove(el)
	delete(cc.items, path)
	return true
}

// Paths returns all cached paths in recency order, most recent first.
// The slice is a snapshot; iterating it does not touch recency.
func (cc *ContentCache) Paths() []string {
	out := make([]string, 0, cc.order.Len())
	for el := cc.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*Entry).Path)
	}
	return out
}

// Len returns the number of cached entries.
func (cc *ContentCache) Len() int {
	return cc.order.Len()
}

// Empty reports whether the cache holds no entries.
func (cc *ContentCache) Empty() bool {
	return cc.order.Len() == 0
}

// MaxFileBytes returns the per-file byte limit.
func (cc *ContentCache) MaxFileBytes() int64 {
	return cc.maxFileBytes
}

// MaxEntries returns the entry-count limit.
func (cc *ContentCache) MaxEntries() int {
	return cc.maxEntries
}

// Clear removes all entries and resets counters.
func (cc *ContentCache) Clear() {
	cc.order.Init()
	cc.items = make(map[string]*list.Element)
	cc.hits = 0
	cc.misses = 0
	cc.evictions = 0
}

// Stats returns a snapshot of the cache counters.
func (cc *ContentCache) Stats() Stats {
	return Stats{
		Entries:   cc.order.Len(),
		Hits:      cc.hits,
		Misses:    cc.misses,
		Evictions: cc.evictions,
	}
}
