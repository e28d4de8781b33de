package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"paperflow/internal/config"
	"paperflow/internal/daemon"
	"paperflow/internal/ledger"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show folder backlog, instance state, and pass history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := isatty.IsTerminal(os.Stdout.Fd())

			fmt.Fprintln(out, renderSectionHeader("Instance"))
			fmt.Fprintln(out, renderStatusLine("Process directory", statusInfo, cfg.Paths.ProcessDir, colorize))
			running, err := instanceRunning(cfg)
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Instance lock", statusWarn, err.Error(), colorize))
			} else if running {
				fmt.Fprintln(out, renderStatusLine("Instance lock", statusOK, "held (daemon or run in progress)", colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Instance lock", statusInfo, "free", colorize))
			}

			fmt.Fprintln(out, renderSectionHeader("Folders"))
			for _, folder := range config.SourceFolders() {
				count, err := countFiles(cfg.ProcessSubdir(folder))
				if err != nil {
					fmt.Fprintln(out, renderStatusLine(folder, statusWarn, err.Error(), colorize))
					continue
				}
				kind := statusOK
				message := "empty"
				if count > 0 {
					kind = statusInfo
					message = fmt.Sprintf("%d file(s) waiting", count)
				}
				fmt.Fprintln(out, renderStatusLine(folder, kind, message, colorize))
			}

			if !cfg.Ledger.Enabled {
				fmt.Fprintln(out, renderSectionHeader("Ledger"))
				fmt.Fprintln(out, renderStatusLine("Ledger", statusInfo, "disabled", colorize))
				return nil
			}

			store, err := ledger.Open(cfg)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			if err := renderPendingSection(cmd, store, colorize); err != nil {
				return err
			}
			return renderPassHistory(cmd, store)
		},
	}
}

func renderPendingSection(cmd *cobra.Command, store *ledger.Store, colorize bool) error {
	out := cmd.OutOrStdout()
	pending, err := store.PendingDeliveries(cmd.Context())
	if err != nil {
		return fmt.Errorf("list pending deliveries: %w", err)
	}
	fmt.Fprintln(out, renderSectionHeader("Pending deliveries"))
	if len(pending) == 0 {
		fmt.Fprintln(out, renderStatusLine("Pending", statusOK, "none", colorize))
		return nil
	}
	fmt.Fprintln(out, renderStatusLine("Pending", statusWarn, fmt.Sprintf("%d delivery record(s) awaiting relocation", len(pending)), colorize))
	rows := make([][]string, 0, len(pending))
	for _, p := range pending {
		rows = append(rows, []string{
			p.Filename,
			string(p.Action),
			shortID(p.PassID),
			p.CompletedAt.Local().Format(time.DateTime),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"File", "Action", "Pass", "Completed"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	))
	return nil
}

func renderPassHistory(cmd *cobra.Command, store *ledger.Store) error {
	out := cmd.OutOrStdout()
	passes, err := store.RecentPasses(cmd.Context(), 10)
	if err != nil {
		return fmt.Errorf("list recent passes: %w", err)
	}
	fmt.Fprintln(out, renderSectionHeader("Recent passes"))
	if len(passes) == 0 {
		fmt.Fprintln(out, "  none recorded yet")
		return nil
	}
	rows := make([][]string, 0, len(passes))
	for _, pass := range passes {
		rows = append(rows, []string{
			shortID(pass.ID),
			pass.StartedAt.Local().Format(time.DateTime),
			pass.FinishedAt.Sub(pass.StartedAt).Round(time.Millisecond).String(),
			fmt.Sprintf("%d", pass.Succeeded),
			fmt.Sprintf("%d", pass.Failed),
			fmt.Sprintf("%d", pass.Skipped),
			fmt.Sprintf("%d", pass.RelocationFailures),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Pass", "Started", "Duration", "Delivered", "Failed", "Skipped", "Stuck"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
	return nil
}

// instanceRunning probes the daemon lock without holding it.
func instanceRunning(cfg *config.Config) (bool, error) {
	lock := flock.New(filepath.Join(cfg.Paths.LogDir, daemon.LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return false, lock.Unlock()
}

func countFiles(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	count := 0
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") || !entry.Type().IsRegular() {
			continue
		}
		count++
	}
	return count, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
