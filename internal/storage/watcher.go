package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"tomato/internal/ui/preferences"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 150 * time.Millisecond

// Watcher reloads the settings file whenever it changes on disk.
// It watches the parent directory so editors that replace the file are seen too.
type Watcher struct {
	path     string
	onChange func(preferences.Settings)
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger
	debounce time.Duration

	mu      sync.Mutex
	last    preferences.Settings
	hasLast bool
}

// NewWatcher creates a watcher for path. onChange receives every settings
// value that differs from the previous one.
func NewWatcher(path string, onChange func(preferences.Settings), logger zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create settings watcher: %w", err)
	}
	return &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		watcher:  fsw,
		logger:   logger,
		debounce: defaultDebounce,
	}, nil
}

// Remember records settings written by the app itself so they are not echoed back.
func (w *Watcher) Remember(settings preferences.Settings) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = settings
	w.hasLast = true
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	var reload <-chan time.Time
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			reload = timer.C

		case <-reload:
			reload = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("settings watcher error")
		}
	}
}

func (w *Watcher) reload() {
	settings, err := LoadSettings(w.path)
	if err != nil {
		w.logger.Warn().Err(err).Str("path", w.path).Msg("ignoring unreadable settings change")
		return
	}

	w.mu.Lock()
	unchanged := w.hasLast && w.last == settings
	w.last = settings
	w.hasLast = true
	w.mu.Unlock()
	if unchanged {
		return
	}

	w.logger.Info().Str("path", w.path).Msg("settings file changed")
	if w.onChange != nil {
		w.onChange(settings)
	}
}
