package intent

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports external edits to the intent source file. It exists
// for operator visibility only: the store re-reads the source on every
// lookup, so the watcher never drives correctness.
type Watcher struct {
	store    *Store
	logger   *slog.Logger
	onReload func([]Intent)
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// WatchSource starts watching the store's source file. onReload, if
// non-nil, receives the freshly loaded intent set after each change.
func WatchSource(store *Store, logger *slog.Logger, onReload func([]Intent)) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// watch the parent directory: editors commonly replace the file,
	// which drops a watch placed on the file itself
	if err := fsw.Add(filepath.Dir(store.Path())); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		store:    store,
		logger:   logger,
		onReload: onReload,
		watcher:  fsw,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	base := filepath.Base(w.store.Path())
	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			// debounce editor save bursts
			if timer == nil {
				timer = time.NewTimer(50 * time.Millisecond)
			} else {
				timer.Reset(50 * time.Millisecond)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			intents := w.store.LoadAll(context.Background())
			w.logger.Info("intent source changed", "path", w.store.Path(), "intents", len(intents))
			if w.onReload != nil {
				w.onReload(intents)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("intent source watch error", "error", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
