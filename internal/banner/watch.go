package banner

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch reloads the banner document at path whenever it changes and passes
// the result to onChange. It returns once the watcher is running; the watch
// ends when ctx is cancelled.
//
// The parent directory is watched rather than the file so editors that save
// by renaming a new file into place are still picked up.
func Watch(ctx context.Context, path string, onChange func(Banner, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve banner path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer func() {
			if err := watcher.Close(); err != nil {
				log.Debug().Err(err).Msg("Closing banner watcher")
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs || !relevant(event) {
					continue
				}
				log.Debug().Str("path", abs).Str("op", event.Op.String()).Msg("Banner config changed")
				b, err := Load(ctx, abs)
				onChange(b, err)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("Banner watcher error")
			}
		}
	}()
	return nil
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
