// Package engine runs the atr2git reconciliation loop.
//
// Each tick loads the persisted state, captures a fresh snapshot of the
// watched directories and evaluates the sync behavior tree against both.
// The tree's leaves are the named steps of the Catalog; they extract the
// disk image, convert it to UTF-8 text, commit the result and decide when
// the loop should stop.
//
// Key components:
//   - Engine: owns the tree, the loop state and the tick cycle
//   - Catalog: the predicates and actions behind every step name
//   - Context: what predicates and actions see during a tick
package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/atr2git/internal/behavior"
	"github.com/danieljhkim/atr2git/internal/config"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine drives the reconciliation loop.
type Engine struct {
	deps     Deps
	resolver *config.Resolver
	tree     *behavior.Tree[*Context]
	rc       *Context
	logger   zerolog.Logger
}

// New builds the tree from def against the catalog of deps.
func New(deps Deps, resolver *config.Resolver, def *behavior.Definition, logger zerolog.Logger) (*Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if resolver == nil {
		resolver = config.NewResolver(nil)
	}

	tree, err := behavior.Build[*Context](def, NewCatalog(deps))
	if err != nil {
		return nil, err
	}

	e := &Engine{
		deps:     deps,
		resolver: resolver,
		tree:     tree,
		rc:       NewContext(resolver, logger),
		logger:   logger,
	}
	tree.SetObserver(e.observe)
	return e, nil
}

// Tree returns the built behavior tree.
func (e *Engine) Tree() *behavior.Tree[*Context] {
	return e.tree
}

// Context returns the loop context.
func (e *Engine) Context() *Context {
	return e.rc
}

// State returns the loop state.
func (e *Engine) State() LoopState {
	return e.rc.State()
}

// Init writes the current snapshot, with no config, as the persisted state
// when there is no state file yet or reset is true.
func (e *Engine) Init(reset bool) error {
	exists, err := e.deps.Store.Exists()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStateUnavailable, err)
	}
	if exists && !reset {
		e.logger.Debug().Msg("state file exists, skipping initialization")
		return nil
	}

	snap, err := e.deps.Capturer.Capture(nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshot, err)
	}
	if err := e.deps.Store.Save(snap); err != nil {
		return fmt.Errorf("%w: %w", ErrStateUnavailable, err)
	}
	e.logger.Info().Bool("reset", reset).Msg("state file initialized")
	return nil
}

// Tick runs one evaluation of the tree. The returned error is non-nil only
// for fatal conditions, after which the loop is Terminating.
func (e *Engine) Tick(ctx context.Context) (behavior.Result, error) {
	rc := e.rc
	rc.TickID = uuid.NewString()
	rc.Log = e.logger.With().Str("tick", rc.TickID[:8]).Logger()

	stored, err := e.deps.Store.Load()
	if err != nil {
		rc.Fail(fmt.Errorf("%w: %w", ErrStateUnavailable, err))
		return behavior.Failure, rc.Err()
	}

	current, err := e.deps.Capturer.Capture(e.resolver.Current())
	if err != nil {
		rc.Fail(fmt.Errorf("%w: %w", ErrSnapshot, err))
		return behavior.Failure, rc.Err()
	}

	rc.Stored = stored
	rc.Current = current

	rc.Log.Debug().
		Int("iteration", e.resolver.Iterations()).
		Int("max_iterations", e.resolver.MaxIterations()).
		Bool("daemon", e.resolver.Daemon()).
		Msg("tick")

	result := e.tree.Tick(ctx, rc)
	return result, rc.Err()
}

// Run ticks until the loop terminates. It returns the fatal error that
// terminated it, if any, or ErrInterrupted when ctx is cancelled first.
func (e *Engine) Run(ctx context.Context) error {
	for e.rc.State() == Running {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrInterrupted, err)
		}
		if _, err := e.Tick(ctx); err != nil {
			return err
		}
	}
	return e.rc.Err()
}

func (e *Engine) observe(name string, kind behavior.Kind, result behavior.Result) {
	if kind != behavior.KindLeaf {
		e.rc.Log.Trace().Str("node", name).Str("kind", kind.String()).Stringer("result", result).Msg("node applied")
		return
	}
	event := e.rc.Log.Debug()
	if result == behavior.Success && name != StepWait.String() {
		event = e.rc.Log.Info()
	}
	event.Str("step", name).Stringer("result", result).Msg("step applied")
}
