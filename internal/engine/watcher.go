package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/quickindex/qdi/internal/config"
	"github.com/quickindex/qdi/internal/debug"
)

// Watcher invalidates cache entries when files change on disk, so the next
// read-through access reloads them and re-diffs the index. It never indexes
// eagerly; invalidation keeps the engine's lazy loading model intact.
type Watcher struct {
	engine   *Engine
	fsw      *fsnotify.Watcher
	debounce time.Duration

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher creates a watcher for every usable root of the engine.
func NewWatcher(e *Engine, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		engine:   e,
		fsw:      fsw,
		debounce: debounce,
		done:     make(chan struct{}),
	}

	for _, rs := range e.roots {
		if rs.usable() {
			w.addWatches(rs)
		}
	}
	return w, nil
}

// addWatches registers every non-excluded directory under the root.
func (w *Watcher) addWatches(rs *rootState) {
	_ = filepath.WalkDir(rs.resolvedPath, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(rs.resolvedPath, path)
		if err != nil {
			return nil
		}
		if path != rs.resolvedPath && w.engine.shouldExcludeDir(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			debug.Warnf("failed to watch %s: %v\n", path, err)
		}
		return nil
	})
}

// Start begins processing events.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()
}

// run debounces bursts of events and flushes them as invalidations.
func (w *Watcher) run() {
	defer w.wg.Done()

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			pending[ev.Name] = struct{}{}

			// New directories need their own watch for events beneath them
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.fsw.Add(ev.Name)
				}
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			w.flush(pending)
			pending = make(map[string]struct{})
			timer = nil
			timerC = nil

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			debug.Warnf("watcher error: %v\n", err)

		case <-w.done:
			return
		}
	}
}

// flush maps the pending absolute paths back onto roots and invalidates
// each. A removed file and a rewritten file invalidate identically - both
// drop the entry and its postings so the next access re-resolves from disk.
func (w *Watcher) flush(pending map[string]struct{}) {
	for path := range pending {
		kind, rel, ok := w.engine.locate(path)
		if !ok {
			continue
		}
		w.engine.Invalidate(kind, rel)
	}
}

// Stop shuts down the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// locate maps an absolute path to the root containing it and the
// root-relative form.
func (e *Engine) locate(absPath string) (config.RootKind, string, bool) {
	for kind, rs := range e.roots {
		if !rs.usable() {
			continue
		}
		rel, err := filepath.Rel(rs.resolvedPath, absPath)
		if err != nil {
			continue
		}
		if rel == ".." || strings.HasPrefix(rel, "../") || filepath.IsAbs(rel) {
			continue
		}
		return kind, filepath.ToSlash(rel), true
	}
	return "", "", false
}
