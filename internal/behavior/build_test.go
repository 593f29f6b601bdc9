package behavior

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// recorderResolver resolves every name to the recorder's action, except
// names listed in missing.
type recorderResolver struct {
	rec     *recorder
	missing map[string]bool
	gated   map[string]bool
}

func (r recorderResolver) Predicate(name string) (Predicate[*recorder], bool) {
	if !r.gated[name] {
		return nil, false
	}
	return r.rec.predicate(name), true
}

func (r recorderResolver) Action(name string) (Action[*recorder], bool) {
	if r.missing[name] {
		return nil, false
	}
	return r.rec.action(name), true
}

func TestParseDefinition(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		def, err := ParseDefinition([]byte(`
name: Root
type: Selector
children:
  - Quit
  - name: Work
    type: Sequence
    children: [A, B]
  - ref: Work
`))
		require.NoError(t, err)

		want := Selector("Root",
			Leaf("Quit"),
			Sequence("Work", Leaf("A"), Leaf("B")),
			Ref("Work"),
		)
		assert.Equal(t, &want, def)
		assert.True(t, def.Children[0].IsLeaf())
		assert.False(t, def.Children[1].IsLeaf())
		assert.False(t, def.Children[2].IsLeaf())
	})

	t.Run("json", func(t *testing.T) {
		def, err := ParseDefinition([]byte(`{"name": "Root", "type": "Sequence", "children": ["A", {"ref": "A"}]}`))
		require.NoError(t, err)

		want := Sequence("Root", Leaf("A"), Ref("A"))
		assert.Equal(t, &want, def)
	})

	t.Run("sequence node is rejected", func(t *testing.T) {
		_, err := ParseDefinition([]byte(`[A, B]`))
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseDefinition([]byte("name: [unclosed"))
		assert.Error(t, err)
	})
}

func TestDefinition_MarshalYAML(t *testing.T) {
	def := Selector("Root", Leaf("Quit"), Ref("Quit"))

	data, err := yaml.Marshal(def)
	require.NoError(t, err)

	back, err := ParseDefinition(data)
	require.NoError(t, err)
	assert.Equal(t, &def, back)
}

func TestLoadDefinition(t *testing.T) {
	def, err := LoadDefinition(filepath.Join("testdata", "tree.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Root", def.Name)
	assert.Len(t, def.Children, 4)

	_, err = LoadDefinition(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("refs share the referenced node", func(t *testing.T) {
		rec := newRecorder()
		def := Selector("Root",
			Sequence("Work", Leaf("A"), Leaf("B")),
			Ref("Work"),
		)
		tree, err := Build[*recorder](&def, recorderResolver{rec: rec})
		require.NoError(t, err)

		root, ok := tree.Root()
		require.True(t, ok)
		info, _ := tree.Node(root)
		require.Len(t, info.Children, 2)
		assert.Equal(t, info.Children[0], info.Children[1])

		assert.Equal(t, Success, tree.Tick(ctx, rec))
		assert.Equal(t, []string{"A", "B"}, rec.applied)
	})

	t.Run("resolver predicates gate nodes", func(t *testing.T) {
		rec := newRecorder()
		rec.blocked["Quit"] = true
		def := Selector("Root", Leaf("Quit"), Leaf("Wait"))
		tree, err := Build[*recorder](&def, recorderResolver{rec: rec, gated: map[string]bool{"Quit": true}})
		require.NoError(t, err)

		assert.Equal(t, Success, tree.Tick(ctx, rec))
		assert.Equal(t, []string{"Wait"}, rec.applied)
	})

	t.Run("unresolved ref", func(t *testing.T) {
		def := Selector("Root", Ref("Later"), Leaf("Later"))
		_, err := Build[*recorder](&def, recorderResolver{rec: newRecorder()})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnresolvedRef)

		var be *BuildError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, []string{"Root", "ref:Later"}, be.Path)
		assert.Contains(t, err.Error(), "tree definition Root/ref:Later")
	})

	t.Run("cycle", func(t *testing.T) {
		def := Selector("Root", Sequence("Loop", Leaf("A"), Ref("Loop")))
		_, err := Build[*recorder](&def, recorderResolver{rec: newRecorder()})
		assert.ErrorIs(t, err, ErrCycle)
	})

	t.Run("cycle through the root", func(t *testing.T) {
		def := Selector("Root", Leaf("A"), Ref("Root"))
		_, err := Build[*recorder](&def, recorderResolver{rec: newRecorder()})
		assert.ErrorIs(t, err, ErrCycle)
	})

	t.Run("unknown action", func(t *testing.T) {
		def := Sequence("Root", Leaf("A"), Leaf("Nope"))
		_, err := Build[*recorder](&def, recorderResolver{rec: newRecorder(), missing: map[string]bool{"Nope": true}})
		assert.ErrorIs(t, err, ErrUnknownAction)
	})

	invalid := []struct {
		name string
		def  Definition
	}{
		{"unknown type", Definition{Name: "Root", Type: "Parallel", Children: []Definition{Leaf("A")}}},
		{"composite without children", Definition{Name: "Root", Type: TypeSequence}},
		{"missing name", Selector("", Leaf("A"))},
		{"ref with children", Definition{Ref: "A", Children: []Definition{Leaf("B")}}},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build[*recorder](&tc.def, recorderResolver{rec: newRecorder()})
			assert.ErrorIs(t, err, ErrInvalidNode)
		})
	}

	t.Run("document from testdata", func(t *testing.T) {
		rec := newRecorder()
		rec.failures["Prepare"] = true
		def, err := LoadDefinition(filepath.Join("testdata", "tree.yaml"))
		require.NoError(t, err)
		tree, err := Build[*recorder](def, recorderResolver{rec: rec, gated: map[string]bool{"Quit": true}})
		require.NoError(t, err)

		rec.blocked["Quit"] = true
		assert.Equal(t, Success, tree.Tick(ctx, rec))
		// Work fails at Prepare, the shared Steps selector then succeeds at StepA.
		assert.Equal(t, []string{"Prepare", "StepA"}, rec.applied)
	})
}
