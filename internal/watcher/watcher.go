// Package watcher reports settled changes to a single configuration file.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches one file through fsnotify. The parent directory is
// watched so that atomic replace-by-rename saves are seen too.
type Watcher struct {
	logger *slog.Logger
	opts   Options
	path   string
	fs     *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer

	events   chan Event
	errors   chan error
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New creates a watcher for path. The parent directory must exist.
func New(logger *slog.Logger, path string, opts Options) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts.setDefaults()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		logger: logger,
		opts:   opts,
		path:   abs,
		fs:     fsw,
		events: make(chan Event, 8),
		errors: make(chan error, 8),
		done:   make(chan struct{}),
	}, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Events returns the channel of settled events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watch errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Start processes file system events until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.wg.Add(1)
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.done:
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			select {
			case w.errors <- err:
			default:
				w.logger.Warn("watcher error dropped", "error", err)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.logger.Debug("watched file changed", "path", w.path, "op", event.Op.String())

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.SettleDelay, w.settle)
}

// settle emits the file's state once no change arrived for SettleDelay.
func (w *Watcher) settle() {
	info, err := os.Stat(w.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		w.emit(Event{Type: EventRemoved, Path: w.path})
	case err != nil:
		w.logger.Warn("failed to stat watched file", "path", w.path, "error", err)
	default:
		w.emit(Event{Type: EventModified, Path: w.path, Size: info.Size(), ModTime: info.ModTime()})
	}
}

func (w *Watcher) emit(event Event) {
	select {
	case w.events <- event:
	case <-w.done:
	}
}

// Stop stops watching and closes the channels.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)

		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()

		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}
