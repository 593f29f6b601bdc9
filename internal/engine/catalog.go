package engine

import (
	"fmt"

	"github.com/danieljhkim/atr2git/internal/atascii"
	"github.com/danieljhkim/atr2git/internal/behavior"
	"github.com/danieljhkim/atr2git/internal/clock"
	"github.com/danieljhkim/atr2git/internal/config"
	"github.com/danieljhkim/atr2git/internal/extract"
	"github.com/danieljhkim/atr2git/internal/fsops"
	"github.com/danieljhkim/atr2git/internal/gitx"
	"github.com/danieljhkim/atr2git/internal/snapshot"
	"github.com/danieljhkim/atr2git/internal/state"
)

// Deps are the collaborators the catalog's actions use.
type Deps struct {
	Layout    *config.Layout
	FS        fsops.FS
	Capturer  *snapshot.Capturer
	Store     state.Store
	Extractor extract.Extractor
	Converter *atascii.Converter
	Git       gitx.GitRepo
	Clock     clock.Clock
}

func (d Deps) validate() error {
	switch {
	case d.Layout == nil:
		return fmt.Errorf("engine: missing layout")
	case d.FS == nil:
		return fmt.Errorf("engine: missing filesystem")
	case d.Capturer == nil:
		return fmt.Errorf("engine: missing capturer")
	case d.Store == nil:
		return fmt.Errorf("engine: missing state store")
	case d.Extractor == nil:
		return fmt.Errorf("engine: missing extractor")
	case d.Converter == nil:
		return fmt.Errorf("engine: missing converter")
	case d.Git == nil:
		return fmt.Errorf("engine: missing git")
	case d.Clock == nil:
		return fmt.Errorf("engine: missing clock")
	}
	return nil
}

// Catalog maps node names onto the sync policy's predicates and actions.
// It implements behavior.Resolver.
type Catalog struct {
	deps Deps
}

// NewCatalog creates a Catalog.
func NewCatalog(deps Deps) *Catalog {
	return &Catalog{deps: deps}
}

// Predicate returns the predicate for name. Names without one are always
// runnable.
func (c *Catalog) Predicate(name string) (behavior.Predicate[*Context], bool) {
	step, ok := ParseStep(name)
	if !ok {
		return nil, false
	}
	p := c.predicate(step)
	return p, p != nil
}

// Action returns the action for name. Composite-only names have none.
func (c *Catalog) Action(name string) (behavior.Action[*Context], bool) {
	step, ok := ParseStep(name)
	if !ok {
		return nil, false
	}
	a := c.action(step)
	return a, a != nil
}

func (c *Catalog) predicate(s Step) behavior.Predicate[*Context] {
	switch s {
	case StepForceQuit:
		return forceQuit
	case StepFatalError:
		return noDiskImage
	case StepDefaultConfig:
		return configMissing
	case StepApplyConfig:
		return configChanged
	case StepExitOnIterations:
		return iterationsExhausted
	case StepExtractATR:
		return imageChanged
	case StepDeleteUTF8:
		return atasciiChanged
	case StepWriteUTF8:
		return utf8Missing
	case StepAutoCommit:
		return autoCommitEnabled
	case StepConditionalCommit:
		return commitMessageChanged
	case StepRunOnceExit:
		return runOnce
	default:
		return nil
	}
}

func (c *Catalog) action(s Step) behavior.Action[*Context] {
	switch s {
	case StepForceQuit:
		return terminate("interrupt received")
	case StepFatalError:
		return fatal(ErrNoDiskImage)
	case StepDefaultConfig:
		return c.persist(state.KeyConfig, applyDefaultConfig)
	case StepApplyConfig:
		return c.persist(state.KeyConfig, applyStoredConfig)
	case StepExitOnIterations:
		return terminate("max iterations reached")
	case StepExtractATR:
		return c.persist(state.KeyATR, c.extractATR)
	case StepDeleteUTF8:
		return c.persist(state.KeyATASCII, c.deleteUTF8)
	case StepWriteUTF8:
		return c.persist(state.KeyUTF8, c.writeUTF8)
	case StepPreCommit:
		return c.preCommit
	case StepCommit:
		return c.persist(state.KeyCommit, c.commit)
	case StepPostCommit:
		return c.postCommit
	case StepRunOnceExit:
		return terminate("run once complete")
	case StepWait:
		return c.wait
	default:
		return nil
	}
}
