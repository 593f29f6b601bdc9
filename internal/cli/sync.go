package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/atr2git/internal/config"
	"github.com/danieljhkim/atr2git/internal/engine"
)

var (
	syncResetConfig bool
	syncOnce        bool
	syncNoOnce      bool
	syncDaemon      bool
	syncNoDaemon    bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run the sync loop",
	Long: `Run the sync loop until it decides to stop.

Each tick compares the watched directories with state.json and performs the
first step that applies: adopt the config, extract the disk image, convert
the extracted files to UTF-8 and, with auto_commit enabled, commit them.

The loop stops when run_once is set and nothing is left to do, when
max_iterations idle ticks have passed (unless daemon is set), or on an
interrupt. A first interrupt finishes the current tick; a second one aborts
it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd)
		if err != nil {
			return err
		}
		if err := ws.layout.EnsureDirectories(); err != nil {
			return fmt.Errorf("failed to ensure directories: %w", err)
		}

		overrides := syncOverrides(cmd)
		eng, err := newEngine(ws, overrides)
		if err != nil {
			return err
		}
		if err := eng.Init(syncResetConfig); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigs := make(chan os.Signal, 2)
		signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigs)
		go handleSignals(ctx, sigs, overrides, cancel, ws.logger)

		if err := eng.Run(ctx); err != nil {
			if errors.Is(err, engine.ErrInterrupted) {
				newPrinter(cmd.ErrOrStderr()).Warning("Sync aborted")
			}
			return err
		}

		result := syncResult{
			Base:       ws.layout.Base,
			Reason:     eng.Context().Reason(),
			Iterations: overrides.Iterations(),
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), result)
		}
		newPrinter(cmd.OutOrStdout()).Success(fmt.Sprintf("Sync finished: %s (%s)", result.Reason, countOf(result.Iterations, "idle tick", "idle ticks")))
		return nil
	},
}

type syncResult struct {
	Base       string `json:"base"`
	Reason     string `json:"reason"`
	Iterations int    `json:"iterations"`
}

// syncOverrides turns the --once/--daemon flags into overrides. Flags left
// unset leave the persisted config in charge.
func syncOverrides(cmd *cobra.Command) *config.Overrides {
	overrides := &config.Overrides{}
	flags := cmd.Flags()

	switch {
	case flags.Changed("once"):
		v := syncOnce
		overrides.RunOnce = &v
	case flags.Changed("no-once"):
		v := !syncNoOnce
		overrides.RunOnce = &v
	}

	switch {
	case flags.Changed("daemon"):
		v := syncDaemon
		overrides.Daemon = &v
	case flags.Changed("no-daemon"):
		v := !syncNoDaemon
		overrides.Daemon = &v
	}

	return overrides
}

// handleSignals asks the loop to exit on the first signal and cancels the
// running tick on the second.
func handleSignals(ctx context.Context, sigs <-chan os.Signal, overrides *config.Overrides, cancel context.CancelFunc, logger zerolog.Logger) {
	received := 0
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigs:
			received++
			if received == 1 {
				logger.Warn().Stringer("signal", sig).Msg("interrupt received, finishing current tick")
				overrides.RequestExit()
				continue
			}
			logger.Warn().Stringer("signal", sig).Msg("second interrupt, aborting")
			cancel()
			return
		}
	}
}

func init() {
	syncCmd.Flags().BoolVar(&syncResetConfig, "reset-config", false, "Rewrite state.json from the current directories, dropping the stored config")
	syncCmd.Flags().BoolVar(&syncOnce, "once", false, "Exit as soon as there is nothing left to do")
	syncCmd.Flags().BoolVar(&syncNoOnce, "no-once", false, "Ignore run_once from the stored config")
	syncCmd.Flags().BoolVar(&syncDaemon, "daemon", false, "Run until interrupted")
	syncCmd.Flags().BoolVar(&syncNoDaemon, "no-daemon", false, "Ignore daemon from the stored config")
	syncCmd.MarkFlagsMutuallyExclusive("once", "no-once")
	syncCmd.MarkFlagsMutuallyExclusive("daemon", "no-daemon")
}
