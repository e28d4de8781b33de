package processor

import (
	"context"
	"errors"
	"testing"

	"paperflow/internal/backends"
	"paperflow/internal/classification"
	"paperflow/internal/logging"
	"paperflow/internal/testsupport"
)

type fakeBackend struct {
	action classification.Action
	err    error
	calls  int
}

func (f *fakeBackend) Action() classification.Action { return f.action }

func (f *fakeBackend) Deliver(ctx context.Context, doc backends.Document) error {
	f.calls++
	return f.err
}

type fakeLedger struct {
	complete  map[string]bool
	marked    []string
	lookupErr error
}

func key(hash string, action classification.Action) string {
	return hash + "|" + string(action)
}

func (f *fakeLedger) IsComplete(ctx context.Context, hash string, action classification.Action) (bool, error) {
	if f.lookupErr != nil {
		return false, f.lookupErr
	}
	return f.complete[key(hash, action)], nil
}

func (f *fakeLedger) MarkComplete(ctx context.Context, hash string, action classification.Action, filename, passID string) error {
	f.marked = append(f.marked, key(hash, action))
	return nil
}

func newTestDocument(t *testing.T, class classification.Classification) backends.Document {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	path := testsupport.WriteProcessFile(t, cfg, class.Folder(), "invoice.pdf", "contents")
	doc, err := backends.NewDocument(path, class)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	return doc
}

func newProcessor(t *testing.T, registry backends.Registry, ledger Ledger) *Processor {
	t.Helper()
	return New(testsupport.NewConfig(t), registry, ledger, logging.NewNop())
}

func TestProcessRunsAllActionsForToBoth(t *testing.T) {
	api := &fakeBackend{action: classification.ActionDocumentAPI}
	email := &fakeBackend{action: classification.ActionEmail}
	registry := backends.Registry{api.Action(): api, email.Action(): email}
	proc := newProcessor(t, registry, nil)

	doc := newTestDocument(t, classification.ToBoth)
	result := proc.Process(context.Background(), doc)

	if !result.AllSucceeded() {
		t.Fatalf("expected success, got failures %v", result.Failures())
	}
	if api.calls != 1 || email.calls != 1 {
		t.Fatalf("expected each backend called once, got api=%d email=%d", api.calls, email.calls)
	}
}

func TestProcessDoesNotShortCircuit(t *testing.T) {
	api := &fakeBackend{action: classification.ActionDocumentAPI, err: errors.New("boom")}
	email := &fakeBackend{action: classification.ActionEmail}
	registry := backends.Registry{api.Action(): api, email.Action(): email}
	proc := newProcessor(t, registry, nil)

	doc := newTestDocument(t, classification.ToBoth)
	result := proc.Process(context.Background(), doc)

	if result.AllSucceeded() {
		t.Fatal("expected failure")
	}
	if email.calls != 1 {
		t.Fatalf("email action should still run after API failure, calls=%d", email.calls)
	}
	failures := result.Failures()
	if len(failures) != 1 || failures[0].Action != classification.ActionDocumentAPI {
		t.Fatalf("unexpected failures: %v", failures)
	}
}

func TestProcessSkipsLedgeredActions(t *testing.T) {
	api := &fakeBackend{action: classification.ActionDocumentAPI}
	email := &fakeBackend{action: classification.ActionEmail}
	registry := backends.Registry{api.Action(): api, email.Action(): email}

	doc := newTestDocument(t, classification.ToBoth)
	ledger := &fakeLedger{complete: map[string]bool{
		key(doc.ContentHash, classification.ActionDocumentAPI): true,
	}}
	proc := newProcessor(t, registry, ledger)

	result := proc.Process(context.Background(), doc)
	if !result.AllSucceeded() {
		t.Fatalf("expected success, got %v", result.Failures())
	}
	if api.calls != 0 {
		t.Fatalf("ledgered action should be skipped, calls=%d", api.calls)
	}
	if email.calls != 1 {
		t.Fatalf("remaining action should run, calls=%d", email.calls)
	}
	if !result.Outcomes[0].AlreadyDelivered {
		t.Fatal("expected first outcome marked AlreadyDelivered")
	}
	if len(ledger.marked) != 1 || ledger.marked[0] != key(doc.ContentHash, classification.ActionEmail) {
		t.Fatalf("unexpected ledger writes: %v", ledger.marked)
	}
}

func TestProcessDeliversWhenLedgerLookupFails(t *testing.T) {
	api := &fakeBackend{action: classification.ActionDocumentAPI}
	registry := backends.Registry{api.Action(): api}
	ledger := &fakeLedger{lookupErr: errors.New("disk full")}
	proc := newProcessor(t, registry, ledger)

	doc := newTestDocument(t, classification.ToPaperless)
	result := proc.Process(context.Background(), doc)
	if !result.AllSucceeded() {
		t.Fatalf("expected success, got %v", result.Failures())
	}
	if api.calls != 1 {
		t.Fatalf("expected delivery despite ledger error, calls=%d", api.calls)
	}
}

func TestProcessFailsOnMissingBackend(t *testing.T) {
	proc := newProcessor(t, backends.Registry{}, nil)
	doc := newTestDocument(t, classification.ToPaperless)

	result := proc.Process(context.Background(), doc)
	if result.AllSucceeded() {
		t.Fatal("expected failure for unregistered backend")
	}
	if !errors.Is(result.Failures()[0].Err, backends.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", result.Failures()[0].Err)
	}
}
