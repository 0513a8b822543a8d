package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/pnptools/internal/logger"
)

// DefaultWatchDebounce groups bursts of file events into one reload.
const DefaultWatchDebounce = 250 * time.Millisecond

// CatalogWatcher asks for a reload when the catalog file changes on disk.
// It watches the parent directory so editors that replace the file by
// renaming are noticed too.
type CatalogWatcher struct {
	path     string
	trigger  chan<- struct{}
	debounce time.Duration
	logger   logger.Logger

	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	stopOnce sync.Once
	doneCh   chan struct{}
}

// NewCatalogWatcher creates a watcher sending on trigger. A non-positive
// debounce uses DefaultWatchDebounce.
func NewCatalogWatcher(path string, trigger chan<- struct{}, debounce time.Duration, log logger.Logger) *CatalogWatcher {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	return &CatalogWatcher{
		path:     filepath.Clean(path),
		trigger:  trigger,
		debounce: debounce,
		logger:   log,
		stopCh:   make(chan struct{}),
	}
}

// Start begins watching. It returns once the watch is registered.
func (cw *CatalogWatcher) Start(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(cw.path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(cw.path), err)
	}
	cw.watcher = w
	cw.doneCh = make(chan struct{})

	cw.logger.Info("watching catalog file", logger.String("path", cw.path))
	go cw.run(ctx)
	return nil
}

// Stop ends the watch loop and closes the watcher.
func (cw *CatalogWatcher) Stop() {
	cw.stopOnce.Do(func() { close(cw.stopCh) })
	if cw.doneCh != nil {
		<-cw.doneCh
	}
}

func (cw *CatalogWatcher) run(ctx context.Context) {
	defer close(cw.doneCh)
	defer func() { _ = cw.watcher.Close() }()

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopCh:
			return
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != cw.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce.Reset(cw.debounce)
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warn("catalog watcher error", logger.Error(err))
		case <-debounce.C:
			select {
			case cw.trigger <- struct{}{}:
				cw.logger.Debug("catalog file changed, reload requested")
			default:
				// a reload is already pending
			}
		}
	}
}
