package tables

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"spellfix/internal/corrector"
)

const DefaultDebounce = 500 * time.Millisecond

// Watch reloads the tables whenever one of the configured files changes and
// passes each fresh snapshot to onReload. Failed reloads are logged and
// skipped. Watch blocks until ctx is done.
func Watch(ctx context.Context, files Files, debounce time.Duration, onReload func(*corrector.Snapshot)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range files.Paths() {
		p = filepath.Clean(p)
		watched[p] = true
		dirs[filepath.Dir(p)] = true
	}
	// directories, not files, so editors that replace files by rename are seen
	for d := range dirs {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("failed to watch %s: %w", d, err)
		}
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("table changed")
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("table watcher error")

		case <-timer.C:
			snap, err := Load(ctx, files)
			if err != nil {
				log.Error().Err(err).Msg("failed to reload tables, keeping the previous snapshot")
				continue
			}
			onReload(snap)
		}
	}
}
