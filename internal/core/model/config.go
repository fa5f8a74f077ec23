package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultWorkMinutes        = 40
	DefaultBreakMinutes       = 10
	DefaultLongBreakMinutes   = 30
	DefaultCyclesPerLongBreak = 3
)

// ErrInvalidDuration marks a duration field that is not a positive integer.
var ErrInvalidDuration = errors.New("invalid duration")

// ValidationError reports which field rejected a configuration update.
type ValidationError struct {
	Field string
	Value string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("%s: %q is not a positive whole number of minutes", err.Field, err.Value)
}

func (err *ValidationError) Unwrap() error {
	return ErrInvalidDuration
}

// SessionConfig holds the user-configurable interval lengths.
type SessionConfig struct {
	WorkMinutes        int
	BreakMinutes       int
	LongBreakMinutes   int
	CyclesPerLongBreak int
}

// DefaultSessionConfig returns the stock 40/10/30 schedule.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		WorkMinutes:        DefaultWorkMinutes,
		BreakMinutes:       DefaultBreakMinutes,
		LongBreakMinutes:   DefaultLongBreakMinutes,
		CyclesPerLongBreak: DefaultCyclesPerLongBreak,
	}
}

// Normalized fills non-positive fields with defaults.
func (config SessionConfig) Normalized() SessionConfig {
	defaults := DefaultSessionConfig()
	if config.WorkMinutes <= 0 {
		config.WorkMinutes = defaults.WorkMinutes
	}
	if config.BreakMinutes <= 0 {
		config.BreakMinutes = defaults.BreakMinutes
	}
	if config.LongBreakMinutes <= 0 {
		config.LongBreakMinutes = defaults.LongBreakMinutes
	}
	if config.CyclesPerLongBreak <= 0 {
		config.CyclesPerLongBreak = defaults.CyclesPerLongBreak
	}
	return config
}

// Work returns the work interval as a duration.
func (config SessionConfig) Work() time.Duration {
	return time.Duration(config.WorkMinutes) * time.Minute
}

// Break returns the short break as a duration.
func (config SessionConfig) Break() time.Duration {
	return time.Duration(config.BreakMinutes) * time.Minute
}

// LongBreak returns the long break as a duration.
func (config SessionConfig) LongBreak() time.Duration {
	return time.Duration(config.LongBreakMinutes) * time.Minute
}

// ParseMinutes parses free text as a positive number of minutes.
func ParseMinutes(field, value string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, &ValidationError{Field: field, Value: value}
	}
	return parsed, nil
}

// WithDurations returns a copy of config with work and break minutes parsed from text.
// The receiver is returned unchanged alongside the error when either field is invalid.
func (config SessionConfig) WithDurations(workText, breakText string) (SessionConfig, error) {
	workMinutes, err := ParseMinutes("work", workText)
	if err != nil {
		return config, err
	}
	breakMinutes, err := ParseMinutes("break", breakText)
	if err != nil {
		return config, err
	}
	config.WorkMinutes = workMinutes
	config.BreakMinutes = breakMinutes
	return config, nil
}
