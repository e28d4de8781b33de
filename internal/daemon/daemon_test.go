package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"paperflow/internal/backends"
	"paperflow/internal/classification"
	"paperflow/internal/config"
	"paperflow/internal/logging"
	"paperflow/internal/pipeline"
	"paperflow/internal/testsupport"
)

type okBackend struct {
	action classification.Action
}

func (b okBackend) Action() classification.Action { return b.action }

func (b okBackend) Deliver(ctx context.Context, doc backends.Document) error { return nil }

func newTestDaemon(t *testing.T, cfg *config.Config) *Daemon {
	t.Helper()
	registry := backends.Registry{
		classification.ActionDocumentAPI: okBackend{classification.ActionDocumentAPI},
		classification.ActionEmail:       okBackend{classification.ActionEmail},
	}
	pipe := pipeline.New(cfg, registry, nil, nil, logging.NewNop())
	d, err := New(cfg, pipe, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestNewValidatesArguments(t *testing.T) {
	if _, err := New(nil, nil, nil); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}

func TestRunRefusesSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newTestDaemon(t, cfg)

	other := flock.New(d.LockPath())
	ok, err := other.TryLock()
	if err != nil || !ok {
		t.Fatalf("pre-acquire lock: ok=%v err=%v", ok, err)
	}
	defer other.Unlock()

	if err := d.Run(context.Background()); err == nil {
		t.Fatal("expected Run to fail while lock is held")
	}
}

func TestRunProcessesStartupBacklogAndStopsOnCancel(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteProcessFile(t, cfg, "to_paperless", "scan.pdf", "a")

	d := newTestDaemon(t, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	donePath := filepath.Join(cfg.DoneDir(), "to_paperless", "scan.pdf")
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := os.Stat(donePath); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("startup pass never relocated the backlog file")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop after cancel")
	}
	if d.Running() {
		t.Fatal("daemon still reports running")
	}
}
