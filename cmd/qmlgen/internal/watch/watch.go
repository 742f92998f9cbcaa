// Package watch reruns a function when watched files change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the bursts of events editors produce on save.
const DefaultDebounce = 300 * time.Millisecond

// Config describes what to watch.
type Config struct {
	// Paths are the files and directories to watch. Directories are not
	// watched recursively; list every one.
	Paths []string

	// Relevant filters events by path. Nil accepts every event.
	Relevant func(path string) bool

	Debounce time.Duration
	Logger   *slog.Logger
}

// Run calls fn once per debounced batch of relevant changes until ctx is
// done. Errors from fn are logged and do not stop the loop.
func Run(ctx context.Context, cfg Config, fn func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, p := range cfg.Paths {
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := w.Add(ev.Name); err != nil {
						logger.Warn("cannot watch new directory", "path", ev.Name, "error", err)
					}
					continue
				}
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			if cfg.Relevant != nil && !cfg.Relevant(ev.Name) {
				continue
			}
			logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			if !pending {
				pending = true
			} else if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)

		case <-timer.C:
			pending = false
			if err := fn(ctx); err != nil {
				logger.Error("regeneration failed", "error", err)
			}
		}
	}
}
