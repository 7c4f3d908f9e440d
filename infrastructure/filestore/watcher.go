package filestore

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ChangeEvent describes a graph file changing on disk.
type ChangeEvent struct {
	// CacheKey of the affected graph.
	CacheKey string
	// Metadata is true when the metadata file changed rather than the
	// document itself.
	Metadata bool
	// Removed is true for deletions and renames away.
	Removed bool
}

// Watcher follows the graph directory with fsnotify. Every relevant file
// event invalidates the store's listing cache and fans out to registered
// subscribers. Registration is explicit; there is no ambient event bus.
type Watcher struct {
	store  *Store
	fsw    *fsnotify.Watcher
	logger *zap.Logger

	mu   sync.Mutex
	subs []func(ChangeEvent)
}

// NewWatcher starts watching the store's directory.
func NewWatcher(store *Store, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(store.Dir()); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{store: store, fsw: fsw, logger: logger}, nil
}

// Subscribe registers a callback for graph file changes. Callbacks run on
// the watcher goroutine and must not block.
func (w *Watcher) Subscribe(fn func(ChangeEvent)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subs = append(w.subs, fn)
}

// Run pumps events until the context ends or the underlying watcher closes.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("graph watcher error", zap.Error(err))
		}
	}
}

// Close stops the underlying watcher; Run returns afterwards.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) handle(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if !strings.HasSuffix(name, ".json") {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.store.Invalidate()

	key := strings.TrimSuffix(name, ".json")
	change := ChangeEvent{
		Metadata: strings.HasSuffix(key, metadataSuffix),
		Removed:  event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename),
	}
	change.CacheKey = strings.TrimSuffix(key, metadataSuffix)

	w.logger.Debug("graph file changed",
		zap.String("cache_key", change.CacheKey),
		zap.Bool("metadata", change.Metadata),
		zap.Bool("removed", change.Removed))

	w.mu.Lock()
	subs := make([]func(ChangeEvent), len(w.subs))
	copy(subs, w.subs)
	w.mu.Unlock()
	for _, fn := range subs {
		fn(change)
	}
}
