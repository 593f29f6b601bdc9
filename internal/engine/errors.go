package engine

import (
	"errors"

	"github.com/danieljhkim/atr2git/internal/state"
)

var (
	// ErrNoDiskImage indicates the disk image directory holds no *.atr file.
	ErrNoDiskImage = errors.New("no disk image found")

	// ErrStateUnavailable indicates the state file could not be read or written.
	ErrStateUnavailable = errors.New("state file unavailable")

	// ErrStateCorrupt indicates the state file is not valid JSON.
	ErrStateCorrupt = state.ErrCorrupt

	// ErrSnapshot indicates a watched directory could not be scanned.
	ErrSnapshot = errors.New("snapshot failed")

	// ErrInterrupted indicates the loop was cancelled before it terminated.
	ErrInterrupted = errors.New("interrupted")
)
