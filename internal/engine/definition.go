package engine

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/atr2git/internal/behavior"
	"github.com/danieljhkim/atr2git/internal/config"
)

//go:embed tree.yaml
var defaultTree []byte

// DefaultDefinition returns the built-in sync tree.
func DefaultDefinition() (*behavior.Definition, error) {
	return behavior.ParseDefinition(defaultTree)
}

// ResolveDefinition picks the tree definition for a workspace: the path
// named in settings (relative to the base directory), then tree.yaml in the
// base directory, then the built-in tree. The returned source is "builtin"
// or the file path.
func ResolveDefinition(layout *config.Layout, settings *config.Settings) (*behavior.Definition, string, error) {
	if settings != nil && settings.Tree != "" {
		path := settings.Tree
		if !filepath.IsAbs(path) {
			path = filepath.Join(layout.Base, path)
		}
		def, err := behavior.LoadDefinition(path)
		return def, path, err
	}

	if _, err := os.Stat(layout.TreeFile); err == nil {
		def, err := behavior.LoadDefinition(layout.TreeFile)
		return def, layout.TreeFile, err
	} else if !os.IsNotExist(err) {
		return nil, "", fmt.Errorf("failed to stat %s: %w", layout.TreeFile, err)
	}

	def, err := DefaultDefinition()
	return def, "builtin", err
}
