package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"paperflow/internal/backends/mailer"
	"paperflow/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" && strings.TrimSpace(cfg.Notifications.ErrorEmail) == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No notification targets configured (set ntfy_topic or error_email)")
				return nil
			}
			mail, err := mailer.NewMailer(cfg)
			if err != nil {
				return fmt.Errorf("init mailer: %w", err)
			}
			notifier := notifications.NewService(cfg, mail)
			if err := notifier.Publish(cmd.Context(), notifications.EventTest, nil); err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}
}
