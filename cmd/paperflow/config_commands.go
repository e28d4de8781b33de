package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"paperflow/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set the Paperless token and SMTP credentials before running paperflow.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults and environment overrides were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSectionHeader("Paths"))
			fmt.Fprintf(out, "  process_dir: %s\n", cfg.Paths.ProcessDir)
			fmt.Fprintf(out, "  log_dir:     %s\n", cfg.Paths.LogDir)
			fmt.Fprintln(out, renderSectionHeader("Paperless"))
			fmt.Fprintf(out, "  url:       %s\n", cfg.Paperless.URL)
			fmt.Fprintf(out, "  api_path:  %s\n", cfg.Paperless.APIPath)
			fmt.Fprintf(out, "  api_token: %s\n", redact(cfg.Paperless.APIToken))
			fmt.Fprintln(out, renderSectionHeader("Email"))
			fmt.Fprintf(out, "  smtp_host:     %s\n", cfg.Email.SMTPHost)
			fmt.Fprintf(out, "  smtp_port:     %d\n", cfg.Email.SMTPPort)
			fmt.Fprintf(out, "  smtp_user:     %s\n", cfg.Email.SMTPUser)
			fmt.Fprintf(out, "  smtp_password: %s\n", redact(cfg.Email.SMTPPassword))
			fmt.Fprintf(out, "  from:          %s\n", cfg.Email.From)
			fmt.Fprintf(out, "  recipients:    %s\n", strings.Join(cfg.Email.Recipients, ", "))
			fmt.Fprintln(out, renderSectionHeader("Notifications"))
			fmt.Fprintf(out, "  ntfy_topic:  %s\n", orDash(cfg.Notifications.NtfyTopic))
			fmt.Fprintf(out, "  error_email: %s\n", orDash(cfg.Notifications.ErrorEmail))
			fmt.Fprintln(out, renderSectionHeader("Ledger"))
			fmt.Fprintf(out, "  enabled: %s\n", yesNo(cfg.Ledger.Enabled))
			fmt.Fprintf(out, "  path:    %s\n", cfg.LedgerPath())
			fmt.Fprintln(out, renderSectionHeader("Workflow"))
			fmt.Fprintf(out, "  max_parallel:     %d\n", cfg.Workflow.MaxParallel)
			fmt.Fprintf(out, "  delivery_timeout: %ds\n", cfg.Workflow.DeliveryTimeout)
			fmt.Fprintf(out, "  pass_interval:    %ds\n", cfg.Workflow.PassInterval)
			fmt.Fprintf(out, "  watch_debounce:   %ds\n", cfg.Workflow.WatchDebounce)
			return nil
		},
	}
}

func redact(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(unset)"
	}
	return "********"
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
