package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/atr2git/internal/config"
	"github.com/danieljhkim/atr2git/internal/engine"
	"github.com/danieljhkim/atr2git/internal/snapshot"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how the directories differ from state.json",
	Long: `Compare the watched directories with state.json and list the steps the
next tick would consider. Nothing is written.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd)
		if err != nil {
			return err
		}

		eng, err := newEngine(ws, nil)
		if err != nil {
			return err
		}

		result, err := eng.Status()
		if err != nil {
			return err
		}

		view := newStatusView(ws.layout.Base, result)
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), view)
		}
		printStatus(newPrinter(cmd.OutOrStdout()), view)
		return nil
	},
}

type statusView struct {
	Base        string           `json:"base"`
	Initialized bool             `json:"initialized"`
	Image       string           `json:"image,omitempty"`
	Config      map[string]any   `json:"config"`
	Diff        snapshot.KeyDiff `json:"diff"`
	Pending     []string         `json:"pending"`
}

func newStatusView(base string, r *engine.StatusResult) statusView {
	v := statusView{
		Base:        base,
		Initialized: r.Initialized,
		Config:      make(map[string]any, len(r.Config)),
		Diff:        r.Diff,
		Pending:     make([]string, 0, len(r.Pending)),
	}
	if img, ok := r.Current.Image(); ok {
		v.Image = img.Name
	}
	for k, val := range r.Config {
		v.Config[string(k)] = val
	}
	for _, s := range r.Pending {
		v.Pending = append(v.Pending, s.String())
	}
	return v
}

func printStatus(p printer, v statusView) {
	p.Section("Workspace")
	p.LabelValue("Base", v.Base, nil)
	if v.Initialized {
		p.LabelValue("State", "initialized", successColor)
	} else {
		p.LabelValue("State", "not initialized", warningColor)
	}
	if v.Image != "" {
		p.LabelValue("Disk image", v.Image, nil)
	} else {
		p.LabelValue("Disk image", "none", warningColor)
	}

	p.Section("Config")
	rows := make([][]string, 0, len(config.Keys))
	for _, k := range config.Keys {
		rows = append(rows, []string{string(k), fmt.Sprint(v.Config[string(k)])})
	}
	p.Table([]string{"KEY", "VALUE"}, rows)

	p.Section("Changes")
	if v.Diff.Empty() {
		p.Empty("No changes since the last persisted state")
	} else {
		printChanges(p, "atr", v.Diff.ATR)
		printChanges(p, "atascii", v.Diff.ATASCII)
		printChanges(p, "utf8", v.Diff.UTF8)
		if v.Diff.CommitChanged {
			p.LabelValue("commit", "message changed", nil)
		}
	}

	p.Section("Pending Steps")
	if len(v.Pending) == 0 {
		p.Empty("Nothing to do")
		return
	}
	p.List(v.Pending, 1)
}

func printChanges(p printer, key string, changes []snapshot.Change) {
	if len(changes) == 0 {
		return
	}
	items := make([]string, 0, len(changes))
	for _, c := range changes {
		items = append(items, fmt.Sprintf("%-8s %s", c.Type, c.Name))
	}
	p.LabelValue(key, countOf(len(changes), "change", "changes"), nil)
	p.List(items, 2)
}
