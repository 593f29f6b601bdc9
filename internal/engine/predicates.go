package engine

import "github.com/danieljhkim/atr2git/internal/state"

func forceQuit(c *Context) bool {
	return c.Config.ExitNow()
}

func noDiskImage(c *Context) bool {
	_, ok := c.Current.Image()
	return !ok
}

func configMissing(c *Context) bool {
	return c.Stored.Config == nil
}

// configChanged is true when there is a persisted config that the loop has
// not adopted yet.
func configChanged(c *Context) bool {
	stored := c.Stored.Config
	if stored == nil {
		return false
	}
	current := c.Config.Current()
	return current == nil || *current != *stored
}

func iterationsExhausted(c *Context) bool {
	return !c.Config.Daemon() && c.Config.Iterations() >= c.Config.MaxIterations()
}

func imageChanged(c *Context) bool {
	image, ok := c.Current.Image()
	if !ok {
		return false
	}
	stored, ok := c.Stored.Image()
	return !ok || stored != image || len(c.Current.ATASCII) == 0
}

func atasciiChanged(c *Context) bool {
	return !state.EntriesEqual(c.Stored.ATASCII, c.Current.ATASCII)
}

// utf8Missing is true when the text tree is empty and there is something
// to convert.
func utf8Missing(c *Context) bool {
	return len(c.Current.UTF8) == 0 && len(c.Current.ATASCII) > 0
}

func autoCommitEnabled(c *Context) bool {
	return c.Config.AutoCommit()
}

func commitMessageChanged(c *Context) bool {
	return c.Current.Commit != nil && !state.CommitEqual(c.Stored.Commit, c.Current.Commit)
}

func runOnce(c *Context) bool {
	return c.Config.RunOnce()
}
