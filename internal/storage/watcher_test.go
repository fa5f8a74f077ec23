package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"tomato/internal/ui/preferences"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsExternalChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, SaveSettings(path, preferences.DefaultSettings()))

	var mu sync.Mutex
	var seen []preferences.Settings
	watcher, err := NewWatcher(path, func(settings preferences.Settings) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, settings)
	}, zerolog.Nop())
	require.NoError(t, err)
	watcher.debounce = 10 * time.Millisecond
	watcher.Remember(preferences.DefaultSettings())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// give the watch a moment to register
	time.Sleep(50 * time.Millisecond)
	updated := preferences.Settings{WorkMinutes: 30, BreakMinutes: 6, LongBreakMinutes: 20}
	require.NoError(t, SaveSettings(path, updated))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, updated, seen[len(seen)-1])
	mu.Unlock()
}

func TestWatcherSkipsRememberedSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	settings := preferences.Settings{WorkMinutes: 30, BreakMinutes: 6, LongBreakMinutes: 20}
	require.NoError(t, SaveSettings(path, settings))

	calls := 0
	watcher, err := NewWatcher(path, func(preferences.Settings) { calls++ }, zerolog.Nop())
	require.NoError(t, err)
	defer watcher.watcher.Close()

	watcher.Remember(settings)
	watcher.reload()
	assert.Zero(t, calls)

	require.NoError(t, SaveSettings(path, preferences.Settings{WorkMinutes: 31, BreakMinutes: 6, LongBreakMinutes: 20}))
	watcher.reload()
	assert.Equal(t, 1, calls)
}
