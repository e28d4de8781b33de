package main

import (
	"testing"

	"paperflow/internal/logging"
	"paperflow/internal/testsupport"
)

func TestBootstrapWiresDaemon(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, closeDeps, err := bootstrap(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer closeDeps()
	if d == nil {
		t.Fatal("expected a daemon")
	}
	if d.Running() {
		t.Fatal("daemon should not be running before Run")
	}
}

func TestBootstrapWithoutLedger(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithLedgerDisabled())
	d, closeDeps, err := bootstrap(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer closeDeps()
	if d == nil {
		t.Fatal("expected a daemon")
	}
}
