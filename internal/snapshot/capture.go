package snapshot

import (
	"errors"
	"fmt"
	"os"

	"github.com/danieljhkim/atr2git/internal/config"
	"github.com/danieljhkim/atr2git/internal/fsops"
	"github.com/danieljhkim/atr2git/internal/state"
)

// Capturer builds snapshots of a Layout.
type Capturer struct {
	scanner *Scanner
	fs      fsops.FS
	layout  *config.Layout
}

// NewCapturer creates a new Capturer.
func NewCapturer(scanner *Scanner, fs fsops.FS, layout *config.Layout) *Capturer {
	return &Capturer{scanner: scanner, fs: fs, layout: layout}
}

// Capture scans every watched directory. cfg becomes the snapshot's config
// entry and may be nil.
func (c *Capturer) Capture(cfg *config.Config) (*state.Snapshot, error) {
	return c.capture(cfg, false)
}

// Preview is Capture for a workspace that may not have been synced yet: a
// missing atascii or utf8 directory reads as empty. The disk image directory
// is still required.
func (c *Capturer) Preview(cfg *config.Config) (*state.Snapshot, error) {
	return c.capture(cfg, true)
}

func (c *Capturer) capture(cfg *config.Config, allowMissing bool) (*state.Snapshot, error) {
	snap := state.NewSnapshot()
	if cfg != nil {
		cp := *cfg
		snap.Config = &cp
	}

	var err error
	if snap.ATR, err = c.scanner.Scan(c.layout.ATR, ImagePattern); err != nil {
		return nil, err
	}
	if snap.ATASCII, err = c.scanMirror(c.layout.ATASCII, allowMissing); err != nil {
		return nil, err
	}
	if snap.UTF8, err = c.scanMirror(c.layout.UTF8, allowMissing); err != nil {
		return nil, err
	}

	if snap.Commit, err = c.readCommitMessage(); err != nil {
		return nil, err
	}

	return snap, nil
}

func (c *Capturer) scanMirror(dir string, allowMissing bool) ([]state.FileEntry, error) {
	files, err := c.scanner.Scan(dir, nil)
	if err != nil && allowMissing && errors.Is(err, os.ErrNotExist) {
		return []state.FileEntry{}, nil
	}
	return files, err
}

// readCommitMessage returns nil unless COMMIT.MSG is a regular file. Scans
// skip anything else under that name too, so a directory or socket called
// COMMIT.MSG reads as no message.
func (c *Capturer) readCommitMessage() (*state.Commit, error) {
	path := c.layout.CommitMessage()
	info, err := c.fs.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat commit message: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}

	msg, err := c.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit message: %w", err)
	}
	return &state.Commit{Msg: string(msg)}, nil
}
