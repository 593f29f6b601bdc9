package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/atr2git/internal/atascii"
	"github.com/danieljhkim/atr2git/internal/clock"
	"github.com/danieljhkim/atr2git/internal/config"
	"github.com/danieljhkim/atr2git/internal/engine"
	"github.com/danieljhkim/atr2git/internal/extract"
	"github.com/danieljhkim/atr2git/internal/fsops"
	"github.com/danieljhkim/atr2git/internal/gitx"
	"github.com/danieljhkim/atr2git/internal/hash"
	"github.com/danieljhkim/atr2git/internal/logging"
	"github.com/danieljhkim/atr2git/internal/snapshot"
	"github.com/danieljhkim/atr2git/internal/state"
)

// workspace is everything a command needs to know about the base directory.
type workspace struct {
	layout   *config.Layout
	settings *config.Settings
	logger   zerolog.Logger
}

// loadWorkspace resolves the layout, reads atr2git.toml and sets up logging.
// Log level precedence: --log-level > ATR2GIT_LOG_LEVEL > settings.
func loadWorkspace(cmd *cobra.Command) (*workspace, error) {
	layout, err := config.DefaultLayout(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve layout: %w", err)
	}

	settings, err := config.LoadSettings(layout.SettingsFile)
	if err != nil {
		return nil, err
	}

	opts := logging.OptionsFromEnv(logging.Options{
		Level:   settings.LogLevel,
		NoColor: color.NoColor,
		JSON:    jsonOutput,
	})
	if logLevel != "" {
		opts.Level = logLevel
	}

	logger, err := logging.New(cmd.ErrOrStderr(), "atr2git", opts)
	if err != nil {
		return nil, err
	}

	return &workspace{layout: layout, settings: settings, logger: logger}, nil
}

// newEngine creates an engine with real implementations of all dependencies.
func newEngine(ws *workspace, overrides *config.Overrides) (*engine.Engine, error) {
	hasher, err := hash.New(ws.settings.Checksum)
	if err != nil {
		return nil, err
	}

	fs := fsops.NewRealFS()
	deps := engine.Deps{
		Layout:    ws.layout,
		FS:        fs,
		Capturer:  snapshot.NewCapturer(snapshot.NewScanner(fs, hasher), fs, ws.layout),
		Store:     state.NewFileStore(fs, ws.layout.StateFile),
		Extractor: extract.NewCommandExtractor(ws.settings.Extractor),
		Converter: atascii.NewConverter(fs),
		Git:       gitx.NewRealGitRepo(ws.settings.Git),
		Clock:     &clock.RealClock{},
	}

	def, source, err := engine.ResolveDefinition(ws.layout, ws.settings)
	if err != nil {
		return nil, fmt.Errorf("failed to load tree definition: %w", err)
	}
	ws.logger.Debug().Str("source", source).Msg("tree definition loaded")

	return engine.New(deps, config.NewResolver(overrides), def, ws.logger)
}

// formatError formats an error for display.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// ReportError prints a command error to stderr.
func ReportError(err error) {
	_, _ = fmt.Fprintln(os.Stderr, formatError(err))
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
