package registry

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the registry whenever a YAML file under its directory changes
// on disk, until the context is cancelled. Bursts of filesystem events (an
// editor writing a file triggers several) are coalesced through a short
// debounce window. Watch blocks; run it in its own goroutine.
func (r *Registry) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return err
	}
	// The workflows subdir may not exist yet; it gets picked up on the next
	// Watch call after the first workflow is saved.
	if err := watcher.Add(filepath.Join(r.dir, workflowsSubdir)); err != nil {
		r.logger.Debug("workflows dir not watched", "error", err)
	}

	const debounce = 100 * time.Millisecond
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isYAML(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Error("registry watch error", "error", err)

		case <-timerC:
			timer = nil
			timerC = nil
			if err := r.Reload(); err != nil {
				r.logger.Error("registry reload failed", "error", err)
			}
		}
	}
}
