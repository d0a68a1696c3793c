package commands

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 250 * time.Millisecond

// watch revalidates whenever a file in the data or shapes directories
// changes. Events are debounced so a burst of writes triggers one run.
func (r *validateRunner) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range watchDirs(r.dataPattern, r.shapesPattern) {
		if err := watcher.Add(dir); err != nil {
			r.logger.Warn("Failed to watch directory",
				slog.String("path", dir),
				slog.String("error", err.Error()))
		} else {
			r.logger.Debug("Watching directory", slog.String("path", dir))
		}
	}

	r.logger.Info("Watching for changes", slog.String("data", r.dataPattern))

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Error("Watcher error", slog.String("error", err.Error()))

		case <-pending:
			if _, err := r.run(); err != nil {
				r.logger.Error("Revalidation failed", slog.String("error", err.Error()))
			}
		}
	}
}

// watchDirs returns the directories containing the given patterns. Glob
// metacharacters are stripped by walking up to the first literal segment.
func watchDirs(patterns ...string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, pattern := range patterns {
		dir := literalBase(pattern)
		if dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	return dirs
}

func literalBase(pattern string) string {
	dir := pattern
	for containsGlobMeta(dir) {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
	if filepath.Ext(dir) != "" {
		dir = filepath.Dir(dir)
	}
	return dir
}

func containsGlobMeta(s string) bool {
	for _, c := range s {
		if c == '*' || c == '?' || c == '[' || c == '{' {
			return true
		}
	}
	return false
}
