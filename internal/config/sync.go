package config

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

// Key names a sync policy value readable through Resolver.Effective.
type Key string

const (
	KeyDelay         Key = "delay"
	KeyRunOnce       Key = "run_once"
	KeyDaemon        Key = "daemon"
	KeyMaxIterations Key = "max_iterations"
	KeyAutoCommit    Key = "auto_commit"
	KeyExitNow       Key = "exit_now"
	KeyIterations    Key = "iterations"
)

// Keys lists every key in display order.
var Keys = []Key{
	KeyDelay, KeyRunOnce, KeyDaemon, KeyMaxIterations, KeyAutoCommit, KeyExitNow, KeyIterations,
}

// Config is the sync policy persisted under the "config" key of state.json.
//
// run_once, daemon and max_iterations decide how long the loop runs and are
// listed in order of precedence: run_once wins over daemon, which wins over
// max_iterations.
type Config struct {
	// Delay is the pause between ticks, in seconds; fractions are allowed
	Delay float64 `json:"delay"`

	// RunOnce exits the first time there is nothing left to do
	RunOnce bool `json:"run_once"`

	// Daemon runs forever
	Daemon bool `json:"daemon"`

	// MaxIterations is the number of idle ticks before exiting
	MaxIterations int `json:"max_iterations"`

	// AutoCommit commits every time the commit message changes
	AutoCommit bool `json:"auto_commit"`
}

// Defaults returns the built-in sync policy.
func Defaults() Config {
	return Config{
		Delay:         5,
		RunOnce:       false,
		Daemon:        false,
		MaxIterations: 100,
		AutoCommit:    false,
	}
}

// UnmarshalJSON decodes a persisted config on top of the defaults, so keys
// missing from the document keep their default value.
func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	p := plain(Defaults())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Config(p)
	return nil
}

// Overrides holds process-local values that take precedence over the
// persisted config and are never written to state.json.
type Overrides struct {
	// RunOnce and Daemon are set from the command line; nil means unset.
	RunOnce *bool
	Daemon  *bool

	exitNow    atomic.Bool
	iterations int
}

// RequestExit asks the loop to stop at the start of the next tick.
// It is safe to call from a signal handler goroutine.
func (o *Overrides) RequestExit() {
	o.exitNow.Store(true)
}

// ExitRequested reports whether RequestExit was called.
func (o *Overrides) ExitRequested() bool {
	return o.exitNow.Load()
}

// Iterations returns the number of completed idle ticks.
func (o *Overrides) Iterations() int {
	return o.iterations
}

// IncrementIterations bumps the iteration counter.
func (o *Overrides) IncrementIterations() {
	o.iterations++
}

// Resolver is the single read path for sync policy values.
// Precedence: override > current config > built-in default.
type Resolver struct {
	current   *Config
	overrides *Overrides
}

// NewResolver creates a Resolver with no current config.
func NewResolver(overrides *Overrides) *Resolver {
	if overrides == nil {
		overrides = &Overrides{}
	}
	return &Resolver{overrides: overrides}
}

// Overrides returns the process-local overrides.
func (r *Resolver) Overrides() *Overrides {
	return r.overrides
}

// Current returns the in-memory config, or nil if none was adopted yet.
func (r *Resolver) Current() *Config {
	return r.current
}

// Adopt replaces the in-memory config.
func (r *Resolver) Adopt(c Config) {
	r.current = &c
}

func (r *Resolver) base() Config {
	if r.current != nil {
		return *r.current
	}
	return Defaults()
}

// Delay returns the effective pause between ticks. A negative delay means
// no pause.
func (r *Resolver) Delay() time.Duration {
	d := time.Duration(r.base().Delay * float64(time.Second))
	if d < 0 {
		return 0
	}
	return d
}

// RunOnce returns the effective run_once value.
func (r *Resolver) RunOnce() bool {
	if r.overrides.RunOnce != nil {
		return *r.overrides.RunOnce
	}
	return r.base().RunOnce
}

// Daemon returns the effective daemon value.
func (r *Resolver) Daemon() bool {
	if r.overrides.Daemon != nil {
		return *r.overrides.Daemon
	}
	return r.base().Daemon
}

// MaxIterations returns the effective iteration ceiling.
func (r *Resolver) MaxIterations() int {
	return r.base().MaxIterations
}

// AutoCommit returns the effective auto_commit value.
func (r *Resolver) AutoCommit() bool {
	return r.base().AutoCommit
}

// ExitNow reports whether an interrupt requested shutdown.
func (r *Resolver) ExitNow() bool {
	return r.overrides.ExitRequested()
}

// Iterations returns the iteration counter.
func (r *Resolver) Iterations() int {
	return r.overrides.Iterations()
}

// Effective returns the effective value for key, for display.
func (r *Resolver) Effective(key Key) (any, error) {
	switch key {
	case KeyDelay:
		return r.base().Delay, nil
	case KeyRunOnce:
		return r.RunOnce(), nil
	case KeyDaemon:
		return r.Daemon(), nil
	case KeyMaxIterations:
		return r.MaxIterations(), nil
	case KeyAutoCommit:
		return r.AutoCommit(), nil
	case KeyExitNow:
		return r.ExitNow(), nil
	case KeyIterations:
		return r.Iterations(), nil
	default:
		return nil, fmt.Errorf("unknown config key %q", key)
	}
}
