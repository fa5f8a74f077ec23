package preferences

import (
	"testing"

	"tomato/internal/core/model"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettingsMatchEngineDefaults(t *testing.T) {
	settings := DefaultSettings()
	assert.Equal(t, model.DefaultSessionConfig(), settings.SessionConfig())
	assert.False(t, settings.KeepInFront)
}

func TestSessionConfigNormalizesZeroes(t *testing.T) {
	config := Settings{WorkMinutes: 25}.SessionConfig()
	assert.Equal(t, 25, config.WorkMinutes)
	assert.Equal(t, model.DefaultBreakMinutes, config.BreakMinutes)
	assert.Equal(t, model.DefaultCyclesPerLongBreak, config.CyclesPerLongBreak)
}

func TestWithSessionConfigKeepsWindowOptions(t *testing.T) {
	settings := Settings{KeepInFront: true}.WithSessionConfig(model.SessionConfig{WorkMinutes: 50, BreakMinutes: 10, LongBreakMinutes: 20})
	assert.True(t, settings.KeepInFront)
	assert.Equal(t, 50, settings.WorkMinutes)
	assert.Equal(t, 20, settings.LongBreakMinutes)
}
