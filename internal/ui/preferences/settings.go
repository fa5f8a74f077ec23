package preferences

import (
	"tomato/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	WorkMinutes      int
	BreakMinutes     int
	LongBreakMinutes int
	KeepInFront      bool
}

// DefaultSettings returns default settings for Tomato.
func DefaultSettings() Settings {
	config := model.DefaultSessionConfig()
	return Settings{
		WorkMinutes:      config.WorkMinutes,
		BreakMinutes:     config.BreakMinutes,
		LongBreakMinutes: config.LongBreakMinutes,
		KeepInFront:      false,
	}
}

// SessionConfig converts settings to the engine configuration.
func (settings Settings) SessionConfig() model.SessionConfig {
	return model.SessionConfig{
		WorkMinutes:        settings.WorkMinutes,
		BreakMinutes:       settings.BreakMinutes,
		LongBreakMinutes:   settings.LongBreakMinutes,
		CyclesPerLongBreak: model.DefaultCyclesPerLongBreak,
	}.Normalized()
}

// WithSessionConfig copies interval lengths from an engine configuration.
func (settings Settings) WithSessionConfig(config model.SessionConfig) Settings {
	settings.WorkMinutes = config.WorkMinutes
	settings.BreakMinutes = config.BreakMinutes
	settings.LongBreakMinutes = config.LongBreakMinutes
	return settings
}
