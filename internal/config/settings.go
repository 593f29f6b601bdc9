package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Placeholders substituted in ExtractorSettings.Args.
const (
	PlaceholderDir   = "{dir}"
	PlaceholderImage = "{image}"
)

var settingsValidate = validator.New()

// Duration is a time.Duration decoded from strings such as "2m" or "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Settings are the tool settings read from atr2git.toml.
type Settings struct {
	// Checksum is the fingerprint algorithm for watched files
	Checksum string `toml:"checksum" validate:"oneof=md5 sha256"`

	// LogLevel is the minimum log level (trace, debug, info, warn, error)
	LogLevel string `toml:"log_level" validate:"oneof=trace debug info warn error"`

	// Tree is an optional tree definition path, relative to the base directory
	Tree string `toml:"tree"`

	Extractor ExtractorSettings `toml:"extractor"`
	Git       GitSettings       `toml:"git"`
}

// ExtractorSettings configure the disk image extraction command.
type ExtractorSettings struct {
	Command string   `toml:"command" validate:"required"`
	Args    []string `toml:"args" validate:"required,min=1"`
	Timeout Duration `toml:"timeout"`
}

// GitSettings configure the version control command.
type GitSettings struct {
	Binary  string   `toml:"binary" validate:"required"`
	Timeout Duration `toml:"timeout"`
}

// DefaultSettings returns the built-in tool settings.
func DefaultSettings() Settings {
	return Settings{
		Checksum: "md5",
		LogLevel: "info",
		Extractor: ExtractorSettings{
			Command: "lsatr",
			Args:    []string{"-X", PlaceholderDir, PlaceholderImage},
			Timeout: Duration{2 * time.Minute},
		},
		Git: GitSettings{
			Binary:  "git",
			Timeout: Duration{5 * time.Minute},
		},
	}
}

// LoadSettings reads the settings file at path. A missing file yields the
// defaults; values absent from the file are filled in from the defaults.
func LoadSettings(path string) (*Settings, error) {
	var s Settings

	if _, err := toml.DecodeFile(path, &s); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	}

	if err := mergo.Merge(&s, DefaultSettings()); err != nil {
		return nil, fmt.Errorf("failed to apply default settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// Validate checks the settings for missing or out of range values.
func (s *Settings) Validate() error {
	if err := settingsValidate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if s.Extractor.Timeout.Duration <= 0 || s.Git.Timeout.Duration <= 0 {
		return fmt.Errorf("invalid settings: timeouts must be positive")
	}
	return nil
}
