package main

import (
	"fmt"
	"log/slog"

	"paperflow/internal/backends"
	"paperflow/internal/backends/mailer"
	"paperflow/internal/backends/paperless"
	"paperflow/internal/config"
	"paperflow/internal/daemon"
	"paperflow/internal/ledger"
	"paperflow/internal/logging"
	"paperflow/internal/notifications"
	"paperflow/internal/pipeline"
)

// bootstrap wires the delivery backends, optional ledger, and notification
// fanout into a ready-to-run daemon. The returned closer releases the ledger.
func bootstrap(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, func(), error) {
	logging.CleanupOldLogs(logger, cfg.Paths.LogDir, "*.log", logging.LogFilePath(cfg), cfg.Logging.RetentionDays)

	mail, err := mailer.NewMailer(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init mailer: %w", err)
	}
	registry := backends.Registry{}
	for _, backend := range []backends.Backend{paperless.NewClient(cfg), mail} {
		registry[backend.Action()] = backend
	}
	notifier := notifications.NewService(cfg, mail)

	var store *ledger.Store
	closeDeps := func() {}
	var pipe *pipeline.Pipeline
	if cfg.Ledger.Enabled {
		store, err = ledger.Open(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open ledger: %w", err)
		}
		closeDeps = func() {
			if err := store.Close(); err != nil {
				logger.Warn("failed to close ledger", logging.Error(err))
			}
		}
		pipe = pipeline.New(cfg, registry, store, notifier, logger)
	} else {
		pipe = pipeline.New(cfg, registry, nil, notifier, logger)
	}

	d, err := daemon.New(cfg, pipe, logger)
	if err != nil {
		closeDeps()
		return nil, nil, err
	}
	return d, closeDeps, nil
}
