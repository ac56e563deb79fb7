package services

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce groups the burst of events editors emit for one save.
const reloadDebounce = 500 * time.Millisecond

// IndexListener is told about every index that starts being served.
type IndexListener func(ctx context.Context, idx *FAQIndex)

// FAQWatcher rebuilds the whole FAQ index when its source file changes and
// swaps it into the holder. A failed rebuild keeps the previous index.
type FAQWatcher struct {
	loader    *FAQLoader
	holder    *IndexHolder
	listeners []IndexListener
}

func NewFAQWatcher(loader *FAQLoader, holder *IndexHolder, listeners ...IndexListener) *FAQWatcher {
	return &FAQWatcher{loader: loader, holder: holder, listeners: listeners}
}

// Reload rebuilds the index from scratch and publishes it on success.
func (w *FAQWatcher) Reload(ctx context.Context) error {
	idx, err := w.loader.Build(ctx)
	if err != nil {
		return err
	}
	w.holder.Store(idx)
	for _, l := range w.listeners {
		l(ctx, idx)
	}
	log.Printf("WATCHER: Now serving %d FAQ entries from %s", idx.Len(), w.loader.Path)
	return nil
}

// Watch blocks until ctx is cancelled, reloading after changes to the FAQ
// file. The parent directory is watched because many editors save by
// renaming a temp file over the original.
func (w *FAQWatcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target, err := filepath.Abs(w.loader.Path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}
	log.Printf("WATCHER: Watching FAQ source: %s", target)

	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				log.Printf("WATCHER EVENT: %s", event)
				pending = time.After(reloadDebounce)
			}
		case <-pending:
			pending = nil
			log.Printf("WATCHER: FAQ source changed, rebuilding index...")
			if err := w.Reload(ctx); err != nil {
				log.Printf("WATCHER ERROR: Rebuild failed, keeping previous index: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("WATCHER ERROR: %v", err)
		case <-ctx.Done():
			log.Println("WATCHER: Context cancelled, shutting down watcher.")
			return nil
		}
	}
}
