package main

import (
	"sync"

	"tomato/internal/storage"
	"tomato/internal/ui/preferences"

	"github.com/rs/zerolog"
)

// settingsStore owns the current preferences and writes them back to disk.
type settingsStore struct {
	mu       sync.Mutex
	path     string
	current  preferences.Settings
	watcher  *storage.Watcher
	logger   zerolog.Logger
	persists bool
}

func newSettingsStore(path string, current preferences.Settings, logger zerolog.Logger) *settingsStore {
	return &settingsStore{path: path, current: current, logger: logger, persists: path != ""}
}

func (store *settingsStore) Current() preferences.Settings {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.current
}

// Update applies change and saves the result.
func (store *settingsStore) Update(change func(preferences.Settings) preferences.Settings) {
	store.mu.Lock()
	store.current = change(store.current)
	settings := store.current
	watcher := store.watcher
	store.mu.Unlock()

	if !store.persists {
		return
	}
	if watcher != nil {
		watcher.Remember(settings)
	}
	if err := storage.SaveSettings(store.path, settings); err != nil {
		store.logger.Warn().Err(err).Str("path", store.path).Msg("saving settings failed")
	}
}

// Adopt records settings loaded from disk without writing them back.
func (store *settingsStore) Adopt(settings preferences.Settings) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.current = settings
}

func (store *settingsStore) attach(watcher *storage.Watcher) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.watcher = watcher
	watcher.Remember(store.current)
}

// applyOverrides replaces settings with every positive duration from opts.
func applyOverrides(settings preferences.Settings, opts options) preferences.Settings {
	if opts.WorkMinutes > 0 {
		settings.WorkMinutes = opts.WorkMinutes
	}
	if opts.BreakMinutes > 0 {
		settings.BreakMinutes = opts.BreakMinutes
	}
	if opts.LongBreakMinutes > 0 {
		settings.LongBreakMinutes = opts.LongBreakMinutes
	}
	return settings
}
