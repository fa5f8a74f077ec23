package storage

import (
	"os"
	"path/filepath"
	"testing"

	"tomato/internal/ui/preferences"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "nope", settingsFileName))
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Tomato", settingsFileName)
	saved := preferences.Settings{WorkMinutes: 25, BreakMinutes: 5, LongBreakMinutes: 15, KeepInFront: true}

	require.NoError(t, SaveSettings(path, saved))

	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLoadSettingsIgnoresNonPositiveDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("work_minutes: 0\nbreak_minutes: -2\nlong_break_minutes: 45\n"), 0o644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	defaults := preferences.DefaultSettings()
	assert.Equal(t, defaults.WorkMinutes, settings.WorkMinutes)
	assert.Equal(t, defaults.BreakMinutes, settings.BreakMinutes)
	assert.Equal(t, 45, settings.LongBreakMinutes)
}

func TestLoadSettingsRejectsMalformedYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("work_minutes: [oops"), 0o644))

	settings, err := LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse settings yaml")
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSettingsPathEndsWithAppDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path, err := SettingsPath("Tomato")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("Tomato", settingsFileName), filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))
}
