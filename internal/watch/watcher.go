// Package watch notices changes to a local dataset directory so the study
// index can be dropped and reread.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/clinops/trialpulse/pkg/logger"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher watches the dataset root and its study folders.
// Bursts of events (a copy of a whole study) collapse into one notification.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	debounce time.Duration
	logger   *logger.Logger

	mu        sync.RWMutex
	callbacks []func()
	closeOnce sync.Once
}

// New watches root and every directory directly below it
func New(root string, log *logger.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		root:     root,
		debounce: defaultDebounce,
		logger:   log.Module("watch"),
	}

	if err := w.add(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := w.add(filepath.Join(root, e.Name())); err != nil {
				w.logger.WithError(err).Warn("Cannot watch study folder")
			}
		}
	}
	return w, nil
}

// WithDebounce sets the quiet period before a notification fires
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// OnChange registers a callback run after each burst of changes
func (w *Watcher) OnChange(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Run processes events until ctx is done or the watcher is closed
func (w *Watcher) Run(ctx context.Context) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	w.logger.WithField("root", w.root).Info("Watching dataset for changes")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && filepath.Dir(event.Name) == filepath.Clean(w.root) {
					if err := w.add(event.Name); err != nil {
						w.logger.WithError(err).Warn("Cannot watch new study folder")
					}
				}
			}
			w.logger.WithField("path", event.Name).Debug("Dataset changed")
			timer.Reset(w.debounce)

		case <-timer.C:
			w.notify()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("File watcher error")
		}
	}
}

// Close stops the watcher
func (w *Watcher) Close() error {
	var closeErr error
	w.closeOnce.Do(func() {
		if err := w.fsw.Close(); err != nil && !errors.Is(err, fsnotify.ErrClosed) {
			closeErr = fmt.Errorf("failed to close watcher: %w", err)
		}
	})
	return closeErr
}

func (w *Watcher) add(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return nil
}

func (w *Watcher) notify() {
	w.mu.RLock()
	callbacks := append([]func(){}, w.callbacks...)
	w.mu.RUnlock()

	w.logger.Info("Dataset changed, notifying subscribers")
	for _, fn := range callbacks {
		fn()
	}
}
