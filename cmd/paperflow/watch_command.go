package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"paperflow/internal/daemon"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Process continuously in the foreground",
		Long: `Watch runs the delivery pipeline in the foreground: an immediate pass at
startup, then repeated passes on the configured interval, pulled forward
whenever files land in the source folders. Stop it with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rt, err := buildRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.close()

			d, err := daemon.New(cfg, rt.pipe, rt.logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return d.Run(runCtx)
		},
	}
}
