// Package hash provides file fingerprinting for change detection.
//
// atr2git records a checksum for every file it watches and compares the
// recorded value with a fresh one on each tick. The checksum only needs to
// detect changes, so MD5 is the default (it matches state files written by
// earlier versions of the tool); SHA-256 is available when preferred. A fake
// implementation is provided for testing.
package hash

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	gohash "hash"
	"io"
	"os"
)

// Algorithm names accepted by New.
const (
	MD5    = "md5"
	SHA256 = "sha256"
)

// Hasher provides an abstraction for file hashing operations.
type Hasher interface {
	// HashFile computes the hash of the file at the given path.
	HashFile(path string) (string, error)
}

// New returns the Hasher registered under algo.
func New(algo string) (Hasher, error) {
	switch algo {
	case MD5, "":
		return NewMD5Hasher(), nil
	case SHA256:
		return NewSHA256Hasher(), nil
	default:
		return nil, fmt.Errorf("unknown checksum algorithm %q", algo)
	}
}

// StreamHasher hashes file contents with a hash.Hash constructor.
type StreamHasher struct {
	newHash func() gohash.Hash
}

// NewMD5Hasher creates a Hasher producing hex MD5 digests.
func NewMD5Hasher() *StreamHasher {
	return &StreamHasher{newHash: md5.New}
}

// NewSHA256Hasher creates a Hasher producing hex SHA-256 digests.
func NewSHA256Hasher() *StreamHasher {
	return &StreamHasher{newHash: sha256.New}
}

// HashFile computes the digest of the file at the given path.
func (h *StreamHasher) HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	hasher := h.newHash()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// FakeHasher implements Hasher with deterministic hashes for testing.
type FakeHasher struct {
	hashes map[string]string
	err    error
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		hashes: make(map[string]string),
	}
}

// SetHash sets the hash for a specific path.
func (h *FakeHasher) SetHash(path, hash string) {
	h.hashes[path] = hash
}

// SetError makes every subsequent HashFile call fail with err.
func (h *FakeHasher) SetError(err error) {
	h.err = err
}

// HashFile returns the predetermined hash for the given path.
func (h *FakeHasher) HashFile(path string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	if hash, ok := h.hashes[path]; ok {
		return hash, nil
	}
	return "fakehash", nil
}
