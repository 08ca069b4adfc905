package source

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog"
)

// Watcher reloads a file-backed catalog whenever the file changes.
// Editors and deploy tools often replace files by rename, so the parent
// directory is watched and events are filtered by name.
type Watcher struct {
	src      *FileSource
	store    *catalog.Store
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
	reloaded chan error
}

// NewWatcher prepares a watcher for src. Start must be called to begin.
func NewWatcher(src *FileSource, store *catalog.Store) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(src.Path)); err != nil {
		_ = w.Close()
		return nil, err
	}
	return &Watcher{
		src:      src,
		store:    store,
		watcher:  w,
		debounce: 200 * time.Millisecond,
		logger:   slog.Default().With("component", "catalog-watcher", "path", src.Path),
		reloaded: make(chan error, 1),
	}, nil
}

// Reloaded delivers the outcome of each reload attempt. Outcomes are dropped
// when nobody reads them.
func (w *Watcher) Reloaded() <-chan error { return w.reloaded }

// Start blocks until ctx is done or the watcher is stopped.
func (w *Watcher) Start(ctx context.Context) {
	target := filepath.Clean(w.src.Path)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watcher error", "error", err)

		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	_, err := Load(ctx, w.src, w.store)
	if err != nil {
		w.logger.Error("catalog reload rejected, keeping previous catalog", "error", err)
	}
	select {
	case w.reloaded <- err:
	default:
	}
}

// Stop releases the underlying watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
