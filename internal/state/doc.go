// Package state manages the persisted sync state.
//
// The state file (state.json) records, per tracked key, the snapshot of the
// watched directories that was last fully processed. The reconciliation loop
// compares it with a fresh snapshot on every tick to decide what to do next,
// and overwrites a key only after the action for that key succeeded.
//
// Key concepts:
//   - Snapshot: config plus the file lists of the atr, atascii and utf8 directories
//   - FileEntry: a file name and its content checksum
//   - Key: one of the independently updated top-level entries
//   - Store: interface for loading and saving the state document
package state
