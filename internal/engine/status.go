package engine

import (
	"errors"
	"fmt"
	"os"

	"github.com/danieljhkim/atr2git/internal/config"
	"github.com/danieljhkim/atr2git/internal/snapshot"
	"github.com/danieljhkim/atr2git/internal/state"
)

// StatusResult describes how the watched directories differ from the
// persisted state.
type StatusResult struct {
	// Initialized is false when there is no state file yet
	Initialized bool

	// Persisted is the loaded state (nil if not initialized)
	Persisted *state.Snapshot

	// Current is a fresh snapshot of the watched directories
	Current *state.Snapshot

	// Diff holds the per-key differences between Persisted and Current
	Diff snapshot.KeyDiff

	// Config holds the effective value of every config key, with the
	// persisted config adopted
	Config map[config.Key]any

	// Pending lists the steps whose predicate holds for this snapshot
	Pending []Step
}

// Status compares the watched directories with the persisted state without
// changing either. Mirror directories the first sync has not created yet
// read as empty.
func (e *Engine) Status() (*StatusResult, error) {
	result := &StatusResult{Config: make(map[config.Key]any)}

	persisted, err := e.deps.Store.Load()
	switch {
	case err == nil:
		result.Initialized = true
		result.Persisted = persisted
	case errors.Is(err, os.ErrNotExist):
		persisted = state.NewSnapshot()
	default:
		return nil, fmt.Errorf("%w: %w", ErrStateUnavailable, err)
	}

	resolver := config.NewResolver(e.resolver.Overrides())
	if persisted.Config != nil {
		resolver.Adopt(*persisted.Config)
	}

	current, err := e.deps.Capturer.Preview(resolver.Current())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshot, err)
	}
	result.Current = current
	result.Diff = snapshot.DiffSnapshots(persisted, current)

	for _, key := range config.Keys {
		v, err := resolver.Effective(key)
		if err != nil {
			return nil, err
		}
		result.Config[key] = v
	}

	rc := NewContext(resolver, e.logger)
	rc.Stored = persisted
	rc.Current = current
	catalog := NewCatalog(e.deps)
	for _, step := range Steps() {
		p := catalog.predicate(step)
		if p == nil || step == StepRunOnceExit {
			continue
		}
		if p(rc) {
			result.Pending = append(result.Pending, step)
		}
	}

	return result, nil
}
