// Package logging configures the zerolog console logger used across the app.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls logger construction.
type Options struct {
	Level   string
	Output  io.Writer
	NoColor bool
}

// ParseLevel maps a level name to a zerolog level. Empty means info.
func ParseLevel(value string) (zerolog.Level, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(value)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("parse log level %q: %w", value, err)
	}
	return level, nil
}

// New builds a console logger tagged with a fresh run id.
func New(options Options) (zerolog.Logger, error) {
	level, err := ParseLevel(options.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	output := options.Output
	if output == nil {
		output = os.Stderr
	}

	writer := zerolog.ConsoleWriter{Out: output, NoColor: options.NoColor, TimeFormat: time.TimeOnly}
	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()
	return logger, nil
}

// Setup builds a logger and installs it as the package-level zerolog logger.
func Setup(options Options) (zerolog.Logger, error) {
	logger, err := New(options)
	if err != nil {
		return logger, err
	}
	log.Logger = logger
	return logger, nil
}
