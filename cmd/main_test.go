package main

import (
	"path/filepath"
	"testing"
	"time"

	"tomato/internal/core/pomodoro"
	"tomato/internal/storage"
	"tomato/internal/ui/preferences"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"work", "break", "long-break", "config", "log-level", "headless", "borderless", "no-color"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestLoadOptionsFromFlags(t *testing.T) {
	cmd := newRootCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"--work", "25", "--break=5", "--headless", "--borderless", "--log-level", "debug"}))

	config := viper.New()
	require.NoError(t, config.BindPFlags(cmd.Flags()))
	opts := loadOptions(config)

	assert.Equal(t, 25, opts.WorkMinutes)
	assert.Equal(t, 5, opts.BreakMinutes)
	assert.Equal(t, 0, opts.LongBreakMinutes)
	assert.True(t, opts.Headless)
	assert.True(t, opts.Borderless)
	assert.Equal(t, "debug", opts.LogLevel)
}

func TestLoadOptionsFromEnvironment(t *testing.T) {
	t.Setenv("TOMATO_LONG_BREAK", "20")
	t.Setenv("TOMATO_HEADLESS", "true")

	cmd := newRootCommand()
	config := viper.New()
	require.NoError(t, config.BindPFlags(cmd.Flags()))
	config.SetEnvPrefix(envPrefix)
	config.SetEnvKeyReplacer(newEnvReplacer())
	config.AutomaticEnv()

	opts := loadOptions(config)
	assert.Equal(t, 20, opts.LongBreakMinutes)
	assert.True(t, opts.Headless)
}

func TestApplyOverridesKeepsUnsetValues(t *testing.T) {
	settings := preferences.DefaultSettings()

	updated := applyOverrides(settings, options{WorkMinutes: 25, BreakMinutes: -1})

	assert.Equal(t, 25, updated.WorkMinutes)
	assert.Equal(t, settings.BreakMinutes, updated.BreakMinutes)
	assert.Equal(t, settings.LongBreakMinutes, updated.LongBreakMinutes)
}

func TestSettingsStorePersistsUpdates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	store := newSettingsStore(path, preferences.DefaultSettings(), zerolog.Nop())

	store.Update(func(settings preferences.Settings) preferences.Settings {
		settings.WorkMinutes = 25
		settings.KeepInFront = true
		return settings
	})

	loaded, err := storage.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 25, loaded.WorkMinutes)
	assert.True(t, loaded.KeepInFront)
	assert.Equal(t, loaded, store.Current())
}

func TestSettingsStoreWithoutPathOnlyKeepsMemory(t *testing.T) {
	store := newSettingsStore("", preferences.DefaultSettings(), zerolog.Nop())

	store.Update(func(settings preferences.Settings) preferences.Settings {
		settings.BreakMinutes = 7
		return settings
	})
	store.Adopt(preferences.Settings{WorkMinutes: 1, BreakMinutes: 2, LongBreakMinutes: 3})

	assert.Equal(t, 2, store.Current().BreakMinutes)
}

func newTestSession(settings preferences.Settings, opts options) *session {
	engine := pomodoro.New(settings.SessionConfig(), pomodoro.Config{TickInterval: time.Second})
	return &session{
		engine:   engine,
		settings: newSettingsStore("", settings, zerolog.Nop()),
		logger:   zerolog.Nop(),
		opts:     opts,
	}
}

func TestReloadWithUnchangedDurationsKeepsCountdown(t *testing.T) {
	settings := preferences.DefaultSettings()
	s := newTestSession(settings, options{})
	s.engine.Start()
	s.engine.Tick()
	before := s.engine.State()

	edited := settings
	edited.KeepInFront = true
	adopted, ok := s.reload(edited)

	require.True(t, ok)
	assert.True(t, adopted.KeepInFront)
	assert.True(t, s.settings.Current().KeepInFront)
	assert.Equal(t, before, s.engine.State())
	assert.True(t, s.engine.State().Running)
}

func TestReloadKeepsCommandLineDurations(t *testing.T) {
	opts := options{WorkMinutes: 25}
	settings := applyOverrides(preferences.DefaultSettings(), opts)
	s := newTestSession(settings, opts)
	s.engine.Start()
	before := s.engine.State()

	fromFile := preferences.DefaultSettings()
	adopted, ok := s.reload(fromFile)

	require.True(t, ok)
	assert.Equal(t, 25, adopted.WorkMinutes)
	assert.Equal(t, 25, s.engine.Config().WorkMinutes)
	assert.Equal(t, before, s.engine.State())
}

func TestReloadWithNewDurationsResetsTimer(t *testing.T) {
	settings := preferences.DefaultSettings()
	s := newTestSession(settings, options{})
	s.engine.Start()

	edited := settings
	edited.WorkMinutes = 20
	_, ok := s.reload(edited)

	require.True(t, ok)
	state := s.engine.State()
	assert.False(t, state.Running)
	assert.Equal(t, 20*60, state.Remaining)
	assert.Equal(t, 20, s.settings.Current().WorkMinutes)
}
