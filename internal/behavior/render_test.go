package behavior

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	def, err := LoadDefinition(filepath.Join("testdata", "tree.yaml"))
	require.NoError(t, err)
	tree, err := Build[*recorder](def, recorderResolver{rec: newRecorder()})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, tree))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "render", buf.Bytes())
}

func TestRender_NoRoot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, NewTree[*recorder]()))
	assert.Equal(t, "(no root)\n", buf.String())
}
