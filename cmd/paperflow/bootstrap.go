package main

import (
	"fmt"
	"log/slog"

	"paperflow/internal/backends"
	"paperflow/internal/backends/mailer"
	"paperflow/internal/backends/paperless"
	"paperflow/internal/config"
	"paperflow/internal/ledger"
	"paperflow/internal/logging"
	"paperflow/internal/notifications"
	"paperflow/internal/pipeline"
)

// runtimeDeps bundles the wired dependencies a processing command needs.
type runtimeDeps struct {
	logger   *slog.Logger
	registry backends.Registry
	store    *ledger.Store
	notifier notifications.Service
	pipe     *pipeline.Pipeline
}

func (r *runtimeDeps) close() {
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.logger.Warn("failed to close ledger", logging.Error(err))
		}
	}
}

func buildRuntime(cfg *config.Config) (*runtimeDeps, error) {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logging.CleanupOldLogs(logger, cfg.Paths.LogDir, "*.log", logging.LogFilePath(cfg), cfg.Logging.RetentionDays)

	mail, err := mailer.NewMailer(cfg)
	if err != nil {
		return nil, fmt.Errorf("init mailer: %w", err)
	}
	registry := backends.Registry{}
	for _, backend := range []backends.Backend{paperless.NewClient(cfg), mail} {
		registry[backend.Action()] = backend
	}

	var store *ledger.Store
	if cfg.Ledger.Enabled {
		store, err = ledger.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("open ledger: %w", err)
		}
	}

	notifier := notifications.NewService(cfg, mail)

	rt := &runtimeDeps{
		logger:   logger,
		registry: registry,
		store:    store,
		notifier: notifier,
	}
	if store != nil {
		rt.pipe = pipeline.New(cfg, registry, store, notifier, logger)
	} else {
		rt.pipe = pipeline.New(cfg, registry, nil, notifier, logger)
	}
	return rt, nil
}
