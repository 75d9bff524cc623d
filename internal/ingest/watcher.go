package ingest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long a file must sit quiet before conversion.
// Exports arrive in write bursts; converting on the first event would
// read a half-written file.
const watchDebounce = 500 * time.Millisecond

// Watch converts export files as they appear in the input directory.
// It blocks until ctx is cancelled.
func (r *Runner) Watch(ctx context.Context) error {
	dir := expandHome(r.cfg.InputDir)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	state, err := LoadState(r.cfg.StatePath)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	r.logger.Info("watching for exports", "dir", dir)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = state.Save()
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(strings.ToLower(event.Name), ".json") {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watcher error", "error", err)

		case now := <-ticker.C:
			for _, path := range readyFiles(pending, now) {
				if !r.cfg.Force && state.IsProcessed(path) {
					continue
				}
				convs, written, err := r.ProcessFile(ctx, path)
				if err != nil {
					r.logger.Warn("failed to process file", "path", path, "error", err)
					state.AddError(fmt.Sprintf("process %s: %v", path, err))
					continue
				}
				state.MarkProcessed(path)
				state.Conversations += convs
				state.FilesWritten += written
				_ = state.Save()
			}
		}
	}
}

// readyFiles returns pending paths quiet for at least the debounce window
// and removes them from the map.
func readyFiles(pending map[string]time.Time, now time.Time) []string {
	var ready []string
	for path, changed := range pending {
		if now.Sub(changed) >= watchDebounce {
			ready = append(ready, path)
			delete(pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}
