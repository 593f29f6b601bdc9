package snapshot

import (
	"github.com/danieljhkim/atr2git/internal/state"
)

// ChangeType describes how a file differs between two scans.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
	ChangeModified ChangeType = "modified"
)

// Change is a single differing file.
type Change struct {
	Name string     `json:"name"`
	Type ChangeType `json:"type"`
}

// Diff compares two name-sorted file lists and returns the changes needed
// to turn old into new, in name order.
func Diff(old, new []state.FileEntry) []Change {
	var changes []Change
	i, j := 0, 0
	for i < len(old) || j < len(new) {
		switch {
		case j >= len(new) || (i < len(old) && old[i].Name < new[j].Name):
			changes = append(changes, Change{Name: old[i].Name, Type: ChangeRemoved})
			i++
		case i >= len(old) || new[j].Name < old[i].Name:
			changes = append(changes, Change{Name: new[j].Name, Type: ChangeAdded})
			j++
		default:
			if old[i].Checksum != new[j].Checksum {
				changes = append(changes, Change{Name: new[j].Name, Type: ChangeModified})
			}
			i++
			j++
		}
	}
	return changes
}

// KeyDiff holds the changes for every file list of a snapshot.
type KeyDiff struct {
	ATR     []Change `json:"atr"`
	ATASCII []Change `json:"atascii"`
	UTF8    []Change `json:"utf8"`

	// CommitChanged is true when the commit message differs
	CommitChanged bool `json:"commitChanged"`
}

// Empty reports whether nothing differs.
func (d KeyDiff) Empty() bool {
	return len(d.ATR) == 0 && len(d.ATASCII) == 0 && len(d.UTF8) == 0 && !d.CommitChanged
}

// DiffSnapshots compares a persisted snapshot with a current one.
func DiffSnapshots(persisted, current *state.Snapshot) KeyDiff {
	return KeyDiff{
		ATR:           Diff(persisted.ATR, current.ATR),
		ATASCII:       Diff(persisted.ATASCII, current.ATASCII),
		UTF8:          Diff(persisted.UTF8, current.UTF8),
		CommitChanged: !state.CommitEqual(persisted.Commit, current.Commit),
	}
}
