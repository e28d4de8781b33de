package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"paperflow/internal/config"
	"paperflow/internal/notifications"
)

type captureSender struct {
	to, subject, body string
	calls             int
}

func (c *captureSender) SendText(ctx context.Context, to, subject, body string) error {
	c.to, c.subject, c.body = to, subject, body
	c.calls++
	return nil
}

func TestNewServiceReturnsNoopWhenUnconfigured(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	cfg.Notifications.ErrorEmail = ""
	svc := notifications.NewService(&cfg, nil)
	if err := svc.Publish(context.Background(), notifications.EventDocumentFailed, notifications.Payload{"document": "a.pdf"}); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyPublishFormatsHeadersAndBody(t *testing.T) {
	var gotTitle, gotTags, gotPriority, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
		gotTags = r.Header.Get("Tags")
		gotPriority = r.Header.Get("Priority")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg, nil)

	err := svc.Publish(context.Background(), notifications.EventDocumentFailed, notifications.Payload{
		"document": "receipt.jpg",
		"action":   "email",
		"reason":   "smtp timeout",
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if gotTitle != "Paperflow - Delivery Failed" {
		t.Fatalf("unexpected title %q", gotTitle)
	}
	if gotTags != "paperflow,delivery,failed" {
		t.Fatalf("unexpected tags %q", gotTags)
	}
	if gotPriority != "high" {
		t.Fatalf("unexpected priority %q", gotPriority)
	}
	if !strings.Contains(gotBody, "receipt.jpg") || !strings.Contains(gotBody, "smtp timeout") {
		t.Fatalf("unexpected body %q", gotBody)
	}
}

func TestNtfyPublishRespectsEventToggles(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.PassStarted = false
	svc := notifications.NewService(&cfg, nil)

	if err := svc.Publish(context.Background(), notifications.EventPassStarted, notifications.Payload{"count": "3"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected suppressed event, got %d calls", calls)
	}
}

func TestEmailPublishOnlyCoversFailures(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.ErrorEmail = "ops@example.com"
	sender := &captureSender{}
	svc := notifications.NewService(&cfg, sender)

	if err := svc.Publish(context.Background(), notifications.EventPassCompleted, notifications.Payload{"succeeded": "2"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if sender.calls != 0 {
		t.Fatal("pass completion must not email")
	}

	if err := svc.Publish(context.Background(), notifications.EventRelocationFailed, notifications.Payload{
		"document": "invoice.pdf",
		"reason":   "permission denied",
	}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if sender.calls != 1 {
		t.Fatalf("expected one email, got %d", sender.calls)
	}
	if sender.to != "ops@example.com" {
		t.Fatalf("unexpected recipient %q", sender.to)
	}
	if !strings.Contains(sender.body, "invoice.pdf") || !strings.Contains(sender.body, "Check the logs") {
		t.Fatalf("unexpected body %q", sender.body)
	}
}

func TestNtfyPublishSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg, nil)
	err := svc.Publish(context.Background(), notifications.EventTest, nil)
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}
