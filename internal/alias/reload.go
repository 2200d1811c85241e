package alias

import (
	"context"
	"log/slog"

	"github.com/cropline/psdgate/internal/watcher"
)

// Reloader merges an override file into the tables each time the watcher
// reports it changed. A removed or unreadable file leaves the current
// entries in place.
type Reloader struct {
	tables *Tables
	path   string
	logger *slog.Logger
}

// NewReloader creates a reloader for path.
func NewReloader(tables *Tables, path string, logger *slog.Logger) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloader{tables: tables, path: path, logger: logger}
}

// Run consumes events until ctx is done or the channel closes.
func (r *Reloader) Run(ctx context.Context, events <-chan watcher.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			r.handle(ev)
		}
	}
}

func (r *Reloader) handle(ev watcher.Event) {
	switch ev.Type {
	case watcher.EventRemoved:
		r.logger.Warn("alias overrides removed, keeping current entries", "path", r.path)
	case watcher.EventModified:
		if err := r.tables.MergeFile(r.path); err != nil {
			r.logger.Error("failed to reload alias overrides", "path", r.path, "error", err)
			return
		}
		commodities, countries, metrics := r.tables.Len()
		r.logger.Info("alias overrides reloaded",
			"path", r.path,
			"commodities", commodities,
			"countries", countries,
			"metrics", metrics,
		)
	}
}
