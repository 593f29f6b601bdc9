package engine

import (
	"github.com/danieljhkim/atr2git/internal/config"
	"github.com/danieljhkim/atr2git/internal/state"
	"github.com/rs/zerolog"
)

// LoopState is the state of the reconciliation loop.
type LoopState int

const (
	Running LoopState = iota
	Terminating
)

func (s LoopState) String() string {
	if s == Terminating {
		return "Terminating"
	}
	return "Running"
}

// Context is what every predicate and action of the tree sees. Stored and
// Current are refreshed at the start of each tick; the rest lives as long
// as the loop.
type Context struct {
	// Stored is the persisted state, updated in place as keys are saved
	Stored *state.Snapshot

	// Current is the snapshot captured at the start of the tick
	Current *state.Snapshot

	// Config resolves effective policy values
	Config *config.Resolver

	// TickID identifies the tick in log output
	TickID string

	// Log is the logger for the current tick
	Log zerolog.Logger

	// RepoRoot is the git work tree found by PreCommit
	RepoRoot string

	state  LoopState
	reason string
	err    error
}

// NewContext creates a Context in the Running state.
func NewContext(resolver *config.Resolver, logger zerolog.Logger) *Context {
	return &Context{
		Config: resolver,
		Log:    logger,
	}
}

// Terminate moves the loop to Terminating.
func (c *Context) Terminate(reason string) {
	if c.state == Terminating {
		return
	}
	c.state = Terminating
	c.reason = reason
	c.Log.Info().Str("reason", reason).Msg("terminating sync loop")
}

// Fail terminates the loop with a fatal error.
func (c *Context) Fail(err error) {
	if c.err == nil {
		c.err = err
	}
	c.Terminate(err.Error())
}

// State returns the loop state.
func (c *Context) State() LoopState {
	return c.state
}

// Reason returns why the loop is terminating.
func (c *Context) Reason() string {
	return c.reason
}

// Err returns the fatal error, if any.
func (c *Context) Err() error {
	return c.err
}
