// Package config manages atr2git configuration and filesystem layout.
//
// Three kinds of configuration live here:
//   - Layout: where the watched directories and the state file live. The base
//     directory defaults to the working directory and can be overridden with
//     ATR2GIT_ROOT or the --out flag.
//   - Config: the sync policy (delay, run_once, daemon, ...) persisted in
//     state.json, read through a Resolver that applies overrides and defaults.
//   - Settings: tool settings (external commands, timeouts, checksum) read
//     from atr2git.toml in the base directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Directory and file names inside the base directory.
const (
	ATRDirName       = "atr"
	ATASCIIDirName   = "atascii"
	UTF8DirName      = "utf8"
	StateFileName    = "state.json"
	SettingsFileName = "atr2git.toml"
	TreeFileName     = "tree.yaml"

	// CommitMessageName is the file in the UTF-8 directory whose content is
	// used as the commit message.
	CommitMessageName = "COMMIT.MSG"

	// EnvRoot overrides the base directory.
	EnvRoot = "ATR2GIT_ROOT"
)

// Layout contains all the filesystem paths used by the sync loop.
type Layout struct {
	// Base is the directory containing everything else
	Base string

	// ATR holds the disk images (*.atr)
	ATR string

	// ATASCII holds the files extracted from the disk image
	ATASCII string

	// UTF8 holds the converted, human-editable files
	UTF8 string

	// StateFile is the persisted state document
	StateFile string

	// SettingsFile is the optional tool settings file
	SettingsFile string

	// TreeFile is the optional behavior tree definition overriding the built-in one
	TreeFile string
}

// NewLayout returns the layout rooted at base.
func NewLayout(base string) (*Layout, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	return &Layout{
		Base:         abs,
		ATR:          filepath.Join(abs, ATRDirName),
		ATASCII:      filepath.Join(abs, ATASCIIDirName),
		UTF8:         filepath.Join(abs, UTF8DirName),
		StateFile:    filepath.Join(abs, StateFileName),
		SettingsFile: filepath.Join(abs, SettingsFileName),
		TreeFile:     filepath.Join(abs, TreeFileName),
	}, nil
}

// DefaultLayout returns the layout for base, falling back to ATR2GIT_ROOT
// and then the working directory when base is empty.
func DefaultLayout(base string) (*Layout, error) {
	if base == "" {
		base = os.Getenv(EnvRoot)
	}
	if base == "" {
		base = "."
	}
	return NewLayout(base)
}

// CommitMessage returns the path of the commit message file.
func (l *Layout) CommitMessage() string {
	return filepath.Join(l.UTF8, CommitMessageName)
}

// EnsureDirectories creates the mirror directories if they don't exist.
// The disk image directory is user-provided and is required to exist.
func (l *Layout) EnsureDirectories() error {
	info, err := os.Stat(l.ATR)
	if err != nil {
		return fmt.Errorf("disk image directory %s: %w", l.ATR, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("disk image path %s is not a directory", l.ATR)
	}

	for _, dir := range []string{l.ATASCII, l.UTF8} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
