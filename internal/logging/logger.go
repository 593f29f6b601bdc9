// Package logging configures the zerolog logger shared by the CLI and the
// sync loop.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment variables that override the configured output.
const (
	EnvLevel   = "ATR2GIT_LOG_LEVEL"
	EnvNoColor = "ATR2GIT_LOG_NOCOLOR"
)

// Options control the logger output.
type Options struct {
	Level   string
	NoColor bool
	JSON    bool
}

// OptionsFromEnv applies the environment overrides on top of o.
func OptionsFromEnv(o Options) Options {
	if v := os.Getenv(EnvLevel); v != "" {
		o.Level = v
	}
	if v := os.Getenv(EnvNoColor); v != "" && v != "0" && !strings.EqualFold(v, "false") {
		o.NoColor = true
	}
	return o
}

// New builds a logger writing to w and installs it as the global logger.
func New(w io.Writer, app string, o Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if o.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(o.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", o.Level, err)
		}
		level = parsed
	}

	out := w
	if !o.JSON {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    o.NoColor,
		}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger, nil
}
