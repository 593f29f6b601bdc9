package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/danieljhkim/atr2git/internal/fsops"
)

// ErrCorrupt indicates the state file exists but cannot be decoded.
var ErrCorrupt = errors.New("state file is corrupt")

// Store provides an interface for persisting the sync state.
type Store interface {
	// Load loads the persisted snapshot.
	// Returns an error wrapping os.ErrNotExist if the state doesn't exist.
	Load() (*Snapshot, error)

	// Save saves the snapshot atomically.
	Save(s *Snapshot) error

	// Exists reports whether a state document has been written.
	Exists() (bool, error)
}

// FileStore implements Store using a JSON file on disk.
type FileStore struct {
	fs   fsops.FS
	path string
}

// NewFileStore creates a new FileStore writing to path.
func NewFileStore(fs fsops.FS, path string) *FileStore {
	return &FileStore{
		fs:   fs,
		path: path,
	}
}

// Path returns the location of the state file.
func (s *FileStore) Path() string {
	return s.path
}

// Load loads the persisted snapshot.
func (s *FileStore) Load() (*Snapshot, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("state file %s: %w", s.path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	normalize(&snap)

	return &snap, nil
}

// Save saves the snapshot atomically.
func (s *FileStore) Save(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	data = append(data, '\n')

	if err := s.fs.AtomicWrite(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}

	return nil
}

// Exists reports whether the state file exists.
func (s *FileStore) Exists() (bool, error) {
	return s.fs.Exists(s.path)
}

// normalize replaces missing file lists with empty ones so a document
// written by hand compares equal to a scanned empty directory.
func normalize(s *Snapshot) {
	if s.ATR == nil {
		s.ATR = []FileEntry{}
	}
	if s.ATASCII == nil {
		s.ATASCII = []FileEntry{}
	}
	if s.UTF8 == nil {
		s.UTF8 = []FileEntry{}
	}
}

// MemoryStore is an in-memory Store for tests. Every Save is recorded.
type MemoryStore struct {
	snap    *Snapshot
	saves   int
	loadErr error
	saveErr error
}

// NewMemoryStore creates a MemoryStore holding a copy of snap (which may be nil).
func NewMemoryStore(snap *Snapshot) *MemoryStore {
	m := &MemoryStore{}
	if snap != nil {
		m.snap = clone(snap)
	}
	return m
}

// SetLoadError makes Load fail with err.
func (m *MemoryStore) SetLoadError(err error) { m.loadErr = err }

// SetSaveError makes Save fail with err.
func (m *MemoryStore) SetSaveError(err error) { m.saveErr = err }

// Saves returns the number of successful Save calls.
func (m *MemoryStore) Saves() int { return m.saves }

// Load returns a copy of the stored snapshot.
func (m *MemoryStore) Load() (*Snapshot, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.snap == nil {
		return nil, fmt.Errorf("memory state: %w", os.ErrNotExist)
	}
	return clone(m.snap), nil
}

// Save stores a copy of snap.
func (m *MemoryStore) Save(snap *Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = clone(snap)
	m.saves++
	return nil
}

// Exists reports whether a snapshot was stored.
func (m *MemoryStore) Exists() (bool, error) {
	return m.snap != nil, nil
}

func clone(s *Snapshot) *Snapshot {
	out := NewSnapshot()
	for _, k := range []Key{KeyConfig, KeyATR, KeyATASCII, KeyUTF8, KeyCommit} {
		_ = out.CopyKey(k, s)
	}
	normalize(out)
	return out
}
