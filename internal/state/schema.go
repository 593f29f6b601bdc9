package state

import (
	"fmt"
	"slices"

	"github.com/danieljhkim/atr2git/internal/config"
)

// Key names a top-level entry of the state document.
type Key string

const (
	KeyConfig  Key = "config"
	KeyATR     Key = "atr"
	KeyATASCII Key = "atascii"
	KeyUTF8    Key = "utf8"
	KeyCommit  Key = "commit"
)

// FileEntry is a watched file and its content checksum.
type FileEntry struct {
	Name     string `json:"name"`
	Checksum string `json:"checksum"`
}

// Commit holds the content of the commit message file.
type Commit struct {
	Msg string `json:"msg"`
}

// Snapshot is a view of the watched directories. The file lists are always
// sorted by name so two snapshots can be compared entry by entry.
type Snapshot struct {
	// Config is the sync policy; nil until one has been adopted
	Config *config.Config `json:"config"`

	// ATR lists the disk images
	ATR []FileEntry `json:"atr"`

	// ATASCII lists the files extracted from the disk image
	ATASCII []FileEntry `json:"atascii"`

	// UTF8 lists the converted files
	UTF8 []FileEntry `json:"utf8"`

	// Commit is the commit message, if the message file exists
	Commit *Commit `json:"commit,omitempty"`
}

// NewSnapshot creates an empty Snapshot with non-nil file lists.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		ATR:     []FileEntry{},
		ATASCII: []FileEntry{},
		UTF8:    []FileEntry{},
	}
}

// Image returns the disk image the sync operates on (the first by name).
func (s *Snapshot) Image() (FileEntry, bool) {
	if len(s.ATR) == 0 {
		return FileEntry{}, false
	}
	return s.ATR[0], true
}

// CopyKey overwrites the entry for key with the one from src.
func (s *Snapshot) CopyKey(key Key, src *Snapshot) error {
	switch key {
	case KeyConfig:
		if src.Config == nil {
			s.Config = nil
		} else {
			c := *src.Config
			s.Config = &c
		}
	case KeyATR:
		s.ATR = slices.Clone(src.ATR)
	case KeyATASCII:
		s.ATASCII = slices.Clone(src.ATASCII)
	case KeyUTF8:
		s.UTF8 = slices.Clone(src.UTF8)
	case KeyCommit:
		if src.Commit == nil {
			s.Commit = nil
		} else {
			c := *src.Commit
			s.Commit = &c
		}
	default:
		return fmt.Errorf("unknown state key %q", key)
	}
	return nil
}

// EntriesEqual reports whether two sorted file lists are identical.
func EntriesEqual(a, b []FileEntry) bool {
	return slices.Equal(a, b)
}

// CommitEqual reports whether two commit messages are identical. Two
// missing messages are equal.
func CommitEqual(a, b *Commit) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
