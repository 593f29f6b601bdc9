package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/atr2git/internal/behavior"
	"github.com/danieljhkim/atr2git/internal/engine"
)

var treeDefinition bool

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the sync behavior tree",
	Long: `Print the behavior tree the sync loop evaluates: tree.yaml from the base
directory (or the tree named in atr2git.toml) if present, the built-in tree
otherwise.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd)
		if err != nil {
			return err
		}

		if treeDefinition {
			def, _, err := engine.ResolveDefinition(ws.layout, ws.settings)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer func() { _ = enc.Close() }()
			return enc.Encode(def)
		}

		eng, err := newEngine(ws, nil)
		if err != nil {
			return err
		}
		return behavior.Render(cmd.OutOrStdout(), eng.Tree())
	},
}

func init() {
	treeCmd.Flags().BoolVar(&treeDefinition, "definition", false, "Print the tree definition document instead of the rendered tree")
}
