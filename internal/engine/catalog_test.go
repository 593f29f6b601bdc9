package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/danieljhkim/atr2git/internal/behavior"
	"github.com/danieljhkim/atr2git/internal/config"
	"github.com/danieljhkim/atr2git/internal/state"
	"github.com/rs/zerolog"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStep(t *testing.T) {
	for _, s := range Steps() {
		parsed, ok := ParseStep(s.String())
		require.True(t, ok, s.String())
		assert.Equal(t, s, parsed)
	}

	_, ok := ParseStep("Bogus")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", Step(0).String())
	assert.Len(t, Steps(), 15)
}

func TestCatalog_Resolver(t *testing.T) {
	c := NewCatalog(Deps{})

	composites := []string{"AutoCommit", "ConditionalCommit"}
	for _, name := range composites {
		_, ok := c.Action(name)
		assert.False(t, ok, name)
		_, ok = c.Predicate(name)
		assert.True(t, ok, name)
	}

	ungated := []string{"PreCommit", "Commit", "PostCommit", "Wait"}
	for _, name := range ungated {
		_, ok := c.Predicate(name)
		assert.False(t, ok, name)
		_, ok = c.Action(name)
		assert.True(t, ok, name)
	}

	_, ok := c.Action("Config")
	assert.False(t, ok)
	_, ok = c.Predicate("Config")
	assert.False(t, ok)
}

func TestPredicates(t *testing.T) {
	image := state.FileEntry{Name: "DISK.ATR", Checksum: "aaa"}
	file := state.FileEntry{Name: "HELLO.BAS", Checksum: "bbb"}
	cfg := config.Defaults()

	steady := func() *Context {
		rc := NewContext(config.NewResolver(nil), zerolog.Nop())
		rc.Config.Adopt(cfg)
		rc.Stored = &state.Snapshot{
			Config:  &cfg,
			ATR:     []state.FileEntry{image},
			ATASCII: []state.FileEntry{file},
			UTF8:    []state.FileEntry{file},
		}
		rc.Current = &state.Snapshot{
			Config:  &cfg,
			ATR:     []state.FileEntry{image},
			ATASCII: []state.FileEntry{file},
			UTF8:    []state.FileEntry{file},
		}
		return rc
	}

	t.Run("steady state", func(t *testing.T) {
		rc := steady()
		for _, p := range []behavior.Predicate[*Context]{
			forceQuit, noDiskImage, configMissing, configChanged, iterationsExhausted,
			imageChanged, atasciiChanged, utf8Missing, autoCommitEnabled, commitMessageChanged, runOnce,
		} {
			assert.False(t, p(rc))
		}
	})

	t.Run("config", func(t *testing.T) {
		rc := steady()
		rc.Stored.Config = nil
		assert.True(t, configMissing(rc))
		assert.False(t, configChanged(rc))

		rc = steady()
		changed := cfg
		changed.Delay = 9
		rc.Stored.Config = &changed
		assert.True(t, configChanged(rc))

		rc = steady()
		rc.Config = config.NewResolver(nil)
		assert.True(t, configChanged(rc))
	})

	t.Run("image", func(t *testing.T) {
		rc := steady()
		rc.Current.ATR = nil
		assert.True(t, noDiskImage(rc))
		assert.False(t, imageChanged(rc))

		rc = steady()
		rc.Stored.ATR = nil
		assert.True(t, imageChanged(rc))

		rc = steady()
		rc.Current.ATR = []state.FileEntry{{Name: "DISK.ATR", Checksum: "ccc"}}
		assert.True(t, imageChanged(rc))

		rc = steady()
		rc.Current.ATASCII = nil
		assert.True(t, imageChanged(rc))
		assert.True(t, atasciiChanged(rc))
		assert.False(t, utf8Missing(rc))
	})

	t.Run("utf8", func(t *testing.T) {
		rc := steady()
		rc.Current.UTF8 = nil
		assert.True(t, utf8Missing(rc))
	})

	t.Run("commit message", func(t *testing.T) {
		rc := steady()
		rc.Current.Commit = &state.Commit{Msg: "one"}
		assert.True(t, commitMessageChanged(rc))

		rc.Stored.Commit = &state.Commit{Msg: "one"}
		assert.False(t, commitMessageChanged(rc))

		rc.Current.Commit = &state.Commit{Msg: "two"}
		assert.True(t, commitMessageChanged(rc))
	})

	t.Run("iterations", func(t *testing.T) {
		rc := steady()
		small := cfg
		small.MaxIterations = 1
		rc.Config.Adopt(small)
		assert.False(t, iterationsExhausted(rc))

		rc.Config.Overrides().IncrementIterations()
		assert.True(t, iterationsExhausted(rc))

		daemon := true
		rc.Config.Overrides().Daemon = &daemon
		assert.False(t, iterationsExhausted(rc))
	})

	t.Run("overrides", func(t *testing.T) {
		rc := steady()
		once := true
		rc.Config.Overrides().RunOnce = &once
		assert.True(t, runOnce(rc))

		rc.Config.Overrides().RequestExit()
		assert.True(t, forceQuit(rc))
	})
}

func TestDefaultTree_Render(t *testing.T) {
	f := newFixture(t)
	e := f.engine(t, nil)

	var buf bytes.Buffer
	require.NoError(t, behavior.Render(&buf, e.Tree()))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "default_tree", buf.Bytes())
}

func TestResolveDefinition(t *testing.T) {
	layout, err := config.NewLayout(t.TempDir())
	require.NoError(t, err)

	t.Run("builtin", func(t *testing.T) {
		def, source, err := ResolveDefinition(layout, nil)
		require.NoError(t, err)
		assert.Equal(t, "builtin", source)
		assert.Equal(t, "Root", def.Name)
	})

	t.Run("tree file in base directory", func(t *testing.T) {
		require.NoError(t, os.WriteFile(layout.TreeFile, []byte(`{"name": "Mine", "type": "Selector", "children": ["Wait"]}`), 0644))
		t.Cleanup(func() { _ = os.Remove(layout.TreeFile) })

		def, source, err := ResolveDefinition(layout, nil)
		require.NoError(t, err)
		assert.Equal(t, layout.TreeFile, source)
		assert.Equal(t, "Mine", def.Name)
	})

	t.Run("settings path wins", func(t *testing.T) {
		custom := filepath.Join(layout.Base, "custom.yaml")
		require.NoError(t, os.WriteFile(custom, []byte("name: Custom\ntype: Sequence\nchildren: [Wait]\n"), 0644))
		settings := config.DefaultSettings()
		settings.Tree = "custom.yaml"

		def, source, err := ResolveDefinition(layout, &settings)
		require.NoError(t, err)
		assert.Equal(t, custom, source)
		assert.Equal(t, "Custom", def.Name)
	})

	t.Run("settings path missing", func(t *testing.T) {
		settings := config.DefaultSettings()
		settings.Tree = "nope.yaml"
		_, _, err := ResolveDefinition(layout, &settings)
		assert.Error(t, err)
	})
}
