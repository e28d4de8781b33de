package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"paperflow/internal/daemon"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process the source folders once and exit",
		Long: `Run scans to_paperless/, to_bookkeeping/, and to_both/ once, delivers every
eligible file, moves fully delivered files to done/, and exits. Files whose
delivery failed stay in place for the next run.

Exit status: 0 when everything was delivered and relocated, 1 when at least
one delivery failed, 2 when a delivered file could not be moved to done/.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			// The daemon's lock keeps a manual run from double-delivering
			// files a concurrently running pass is working on.
			lock := flock.New(filepath.Join(cfg.Paths.LogDir, daemon.LockFileName))
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return fmt.Errorf("another paperflow instance is running; stop it or wait for its pass to finish")
			}
			defer func() { _ = lock.Unlock() }()

			rt, err := buildRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			summary, err := rt.pipe.Run(runCtx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Discovered", "Delivered", "Failed", "Skipped", "Stuck", "Duration"},
				[][]string{{
					fmt.Sprintf("%d", summary.Discovered),
					fmt.Sprintf("%d", summary.Succeeded),
					fmt.Sprintf("%d", summary.Failed),
					fmt.Sprintf("%d", summary.Skipped),
					fmt.Sprintf("%d", summary.RelocationFailures),
					summary.Duration().Round(time.Millisecond).String(),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			for _, failure := range summary.Failures {
				fmt.Fprintf(out, "failed: %s/%s (%s): %v\n", failure.Folder, failure.Filename, failure.Action, failure.Err)
			}

			switch {
			case summary.RelocationFailures > 0:
				return &exitCodeError{
					code:    2,
					message: fmt.Sprintf("%d delivered document(s) could not be moved to done/; move them manually before the next run", summary.RelocationFailures),
				}
			case summary.Failed > 0:
				return &exitCodeError{
					code:    1,
					message: fmt.Sprintf("%d document(s) failed delivery and remain in place", summary.Failed),
				}
			default:
				return nil
			}
		},
	}
}
