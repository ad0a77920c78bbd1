package documents

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pdfqa/internal/util"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type cacheEntry struct {
	modTime time.Time
	size    int64
	text    string
}

// TextCache remembers extracted text per path. An entry is only served while the file's
// modification time and size match what was recorded at extraction.
type TextCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewTextCache() *TextCache {
	return &TextCache{entries: make(map[string]cacheEntry)}
}

func (c *TextCache) Get(path string, info os.FileInfo) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[filepath.Clean(path)]
	c.mu.RUnlock()
	if !ok || info == nil {
		return "", false
	}
	if !e.modTime.Equal(info.ModTime()) || e.size != info.Size() {
		return "", false
	}
	return e.text, true
}

func (c *TextCache) Put(path string, info os.FileInfo, text string) {
	if info == nil {
		return
	}
	c.mu.Lock()
	c.entries[filepath.Clean(path)] = cacheEntry{modTime: info.ModTime(), size: info.Size(), text: text}
	c.mu.Unlock()
}

func (c *TextCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, filepath.Clean(path))
	c.mu.Unlock()
}

func (c *TextCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Watcher evicts cache entries when PDFs in the directory change. Staleness is already
// ruled out by the modification check in Get; eviction keeps memory bounded to live files.
type Watcher struct {
	watcher *fsnotify.Watcher
	cache   *TextCache
	logger  *zap.Logger
}

func NewWatcher(dir string, cache *TextCache, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	return &Watcher{watcher: w, cache: cache, logger: logger}, nil
}

// Run processes events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !util.HasPDFSuffix(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Create) {
				w.cache.Evict(event.Name)
				w.logger.Debug("pdf changed, cache entry evicted", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("pdf dir watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
