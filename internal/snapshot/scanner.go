// Package snapshot computes fresh views of the watched directories.
//
// A Scanner lists one directory; a Capturer combines the scans of the disk
// image, ATASCII and UTF-8 directories (plus the commit message) into a
// state.Snapshot. Scans never recurse and skip hidden files. Errors are
// returned, never swallowed into an empty list: an empty list means the
// directory really is empty.
package snapshot

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/danieljhkim/atr2git/internal/fsops"
	"github.com/danieljhkim/atr2git/internal/hash"
	"github.com/danieljhkim/atr2git/internal/state"
)

// ImagePattern matches disk image file names, in either case.
var ImagePattern = regexp.MustCompile(`(?i)\.atr$`)

// Scanner lists directories and fingerprints their files.
type Scanner struct {
	fs     fsops.FS
	hasher hash.Hasher
}

// NewScanner creates a new Scanner.
func NewScanner(fs fsops.FS, hasher hash.Hasher) *Scanner {
	return &Scanner{fs: fs, hasher: hasher}
}

// Scan lists the non-hidden regular files of dir whose name matches
// pattern (nil matches everything), sorted by name.
func (s *Scanner) Scan(dir string, pattern *regexp.Regexp) ([]state.FileEntry, error) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	files := make([]state.FileEntry, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if fsops.IsHidden(name) || !entry.Type().IsRegular() {
			continue
		}
		if pattern != nil && !pattern.MatchString(name) {
			continue
		}

		sum, err := s.hasher.HashFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to fingerprint %s: %w", name, err)
		}
		files = append(files, state.FileEntry{Name: name, Checksum: sum})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}
