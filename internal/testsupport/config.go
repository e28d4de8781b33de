package testsupport

import (
	"path/filepath"
	"testing"

	"paperflow/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with a unique temp process tree per
// test. All required backend settings carry placeholder values so Validate
// would pass; tests that exercise real backends override them.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ProcessDir = filepath.Join(base, "process")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paperless.URL = "http://paperless.test"
	cfg.Paperless.APIToken = "test-token"
	cfg.Email.SMTPHost = "smtp.test"
	cfg.Email.SMTPUser = "sender@example.com"
	cfg.Email.SMTPPassword = "secret"
	cfg.Email.From = "sender@example.com"
	cfg.Email.Recipients = []string{"books@example.com"}
	cfg.Ledger.Path = filepath.Join(base, "ledger.db")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithMaxParallel sets the per-pass document concurrency.
func WithMaxParallel(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Workflow.MaxParallel = n
	}
}

// WithLedgerDisabled turns the completion ledger off.
func WithLedgerDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Ledger.Enabled = false
	}
}
