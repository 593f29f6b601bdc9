package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/atr2git/internal/atascii"
	"github.com/danieljhkim/atr2git/internal/behavior"
	"github.com/danieljhkim/atr2git/internal/config"
	"github.com/danieljhkim/atr2git/internal/fsops"
	"github.com/danieljhkim/atr2git/internal/gitx"
	"github.com/danieljhkim/atr2git/internal/state"
)

const (
	success = behavior.Success
	failure = behavior.Failure
)

// persist wraps an action so that, when it succeeds, key is copied from a
// fresh capture into the persisted state and saved. A failed action leaves
// the persisted state untouched.
func (c *Catalog) persist(key state.Key, act behavior.Action[*Context]) behavior.Action[*Context] {
	return func(ctx context.Context, rc *Context) behavior.Result {
		if act(ctx, rc) != success {
			return failure
		}
		if err := c.updateKey(rc, key); err != nil {
			rc.Fail(err)
			return failure
		}
		return success
	}
}

func (c *Catalog) updateKey(rc *Context, key state.Key) error {
	stored, err := c.deps.Store.Load()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStateUnavailable, err)
	}
	fresh, err := c.deps.Capturer.Capture(rc.Config.Current())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshot, err)
	}
	if err := stored.CopyKey(key, fresh); err != nil {
		return err
	}
	if err := c.deps.Store.Save(stored); err != nil {
		return fmt.Errorf("%w: %w", ErrStateUnavailable, err)
	}

	rc.Stored = stored
	rc.Log.Debug().Str("key", string(key)).Msg("state updated")
	return nil
}

func terminate(reason string) behavior.Action[*Context] {
	return func(_ context.Context, rc *Context) behavior.Result {
		rc.Terminate(reason)
		return success
	}
}

func fatal(err error) behavior.Action[*Context] {
	return func(_ context.Context, rc *Context) behavior.Result {
		rc.Fail(err)
		return success
	}
}

func applyDefaultConfig(_ context.Context, rc *Context) behavior.Result {
	rc.Config.Adopt(config.Defaults())
	logConfig(rc, "no config in state file, using defaults")
	return success
}

func applyStoredConfig(_ context.Context, rc *Context) behavior.Result {
	rc.Config.Adopt(*rc.Stored.Config)
	logConfig(rc, "using config from state file")
	return success
}

func logConfig(rc *Context, msg string) {
	event := rc.Log.Info()
	for _, key := range config.Keys {
		if v, err := rc.Config.Effective(key); err == nil {
			event = event.Interface(string(key), v)
		}
	}
	event.Msg(msg)
}

func (c *Catalog) extractATR(ctx context.Context, rc *Context) behavior.Result {
	image, ok := rc.Current.Image()
	if !ok {
		return failure
	}
	log := rc.Log.With().Str("image", image.Name).Logger()

	if err := c.deps.FS.ClearDir(c.deps.Layout.ATASCII); err != nil {
		log.Warn().Err(err).Msg("failed to clear atascii directory")
		return failure
	}
	path := filepath.Join(c.deps.Layout.ATR, image.Name)
	if err := c.deps.Extractor.Extract(ctx, path, c.deps.Layout.ATASCII); err != nil {
		log.Warn().Err(err).Msg("extraction failed")
		return failure
	}

	entries, err := c.deps.FS.ReadDir(c.deps.Layout.ATASCII)
	if err != nil {
		log.Warn().Err(err).Msg("failed to list extracted files")
		return failure
	}
	if visibleCount(entries) == 0 {
		log.Warn().Msg("extraction produced no files")
		return failure
	}

	log.Info().Int("files", visibleCount(entries)).Msg("disk image extracted")
	return success
}

func (c *Catalog) deleteUTF8(_ context.Context, rc *Context) behavior.Result {
	if err := c.deps.FS.ClearDir(c.deps.Layout.UTF8); err != nil {
		rc.Log.Warn().Err(err).Msg("failed to clear utf8 directory")
		return failure
	}
	rc.Log.Info().Msg("atascii files changed, cleared utf8 directory")
	return success
}

func (c *Catalog) writeUTF8(_ context.Context, rc *Context) behavior.Result {
	written, err := c.deps.Converter.ConvertDirectory(c.deps.Layout.ATASCII, c.deps.Layout.UTF8, atascii.ToUTF8)
	if err != nil {
		rc.Log.Warn().Err(err).Msg("conversion to utf8 failed")
		return failure
	}
	rc.Log.Info().Strs("files", written).Msg("converted atascii files to utf8")
	return success
}

func (c *Catalog) preCommit(_ context.Context, rc *Context) behavior.Result {
	root, err := c.deps.Git.Discover(c.deps.Layout.Base)
	if err != nil {
		rc.Log.Warn().Err(err).Str("dir", c.deps.Layout.Base).Msg("cannot commit outside a git work tree")
		return failure
	}
	rc.RepoRoot = root
	return success
}

func (c *Catalog) commit(ctx context.Context, rc *Context) behavior.Result {
	if rc.Current.Commit == nil {
		rc.Log.Warn().Str("file", c.deps.Layout.CommitMessage()).Msg("no commit message")
		return failure
	}
	root := rc.RepoRoot
	if root == "" {
		root = c.deps.Layout.Base
	}

	// PUSH publishes what is already committed; nothing is staged.
	if gitx.IsPushRequest(rc.Current.Commit.Msg) {
		if err := c.deps.Git.Push(ctx, root); err != nil {
			rc.Log.Warn().Err(err).Msg("git push failed")
			return failure
		}
		rc.Log.Info().Msg("pushed")
		return success
	}

	if err := c.deps.Git.Add(ctx, root, c.deps.Layout.UTF8, c.deps.Layout.ATASCII); err != nil {
		rc.Log.Warn().Err(err).Msg("git add failed")
		return failure
	}

	if err := c.deps.Git.Commit(ctx, root, c.deps.Layout.CommitMessage()); err != nil {
		rc.Log.Warn().Err(err).Msg("git commit failed")
		return failure
	}
	return success
}

func (c *Catalog) postCommit(ctx context.Context, rc *Context) behavior.Result {
	root := rc.RepoRoot
	if root == "" {
		root = c.deps.Layout.Base
	}
	head, err := c.deps.Git.Head(ctx, root)
	if err != nil {
		rc.Log.Warn().Err(err).Msg("failed to read HEAD")
		return failure
	}
	rc.Log.Info().Str("head", head).Msg("committed")
	return success
}

// wait sleeps for the effective delay and then counts one iteration.
func (c *Catalog) wait(ctx context.Context, rc *Context) behavior.Result {
	delay := rc.Config.Delay()
	rc.Log.Debug().
		Dur("delay", delay).
		Time("next_tick", c.deps.Clock.Now().Add(delay)).
		Msg("nothing to do, sleeping")
	if err := c.deps.Clock.Sleep(ctx, delay); err != nil {
		return failure
	}
	rc.Config.Overrides().IncrementIterations()
	return success
}

func visibleCount(entries []os.DirEntry) int {
	n := 0
	for _, e := range entries {
		if !fsops.IsHidden(e.Name()) && e.Type().IsRegular() {
			n++
		}
	}
	return n
}
