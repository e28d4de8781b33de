package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"paperflow/internal/config"
)

const userAgent = "paperflow/0.1.0"

// Event identifies a notification-worthy moment in the pipeline.
type Event string

const (
	EventPassStarted      Event = "pass_started"
	EventPassCompleted    Event = "pass_completed"
	EventDocumentFailed   Event = "document_failed"
	EventRelocationFailed Event = "relocation_failed"
	EventTest             Event = "test"
)

// Payload carries the event-specific fields used to format messages.
type Payload map[string]string

// Service defines the notification surface exposed to the pipeline.
// Publishing never fails the pass; callers log and continue.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// TextSender sends a plain-text email, satisfied by mailer.Mailer.
type TextSender interface {
	SendText(ctx context.Context, to, subject, body string) error
}

// NewService builds the configured notification fanout: ntfy push when a
// topic is set, error email when an address is set, noop otherwise.
func NewService(cfg *config.Config, sender TextSender) Service {
	var targets []Service

	if topic := strings.TrimSpace(cfg.Notifications.NtfyTopic); topic != "" {
		timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		targets = append(targets, &ntfyService{
			endpoint: topic,
			client:   &http.Client{Timeout: timeout},
			settings: cfg.Notifications,
		})
	}

	if address := strings.TrimSpace(cfg.Notifications.ErrorEmail); address != "" && sender != nil {
		targets = append(targets, &emailService{
			address:  address,
			sender:   sender,
			settings: cfg.Notifications,
		})
	}

	switch len(targets) {
	case 0:
		return noopService{}
	case 1:
		return targets[0]
	default:
		return fanout(targets)
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

func formatMessage(event Event, payload Payload) (message, bool) {
	get := func(key string) string { return strings.TrimSpace(payload[key]) }
	switch event {
	case EventPassStarted:
		return message{
			title: "Paperflow - Pass Started",
			body:  fmt.Sprintf("Processing %s candidate documents", orUnknown(get("count"))),
			tags:  []string{"paperflow", "pass", "started"},
		}, true
	case EventPassCompleted:
		body := fmt.Sprintf("Pass complete: %s delivered, %s failed in %s", orZero(get("succeeded")), orZero(get("failed")), orUnknown(get("duration")))
		title := "Paperflow - Pass Complete"
		if get("failed") != "" && get("failed") != "0" {
			title = "Paperflow - Pass Complete (with errors)"
		}
		return message{
			title: title,
			body:  body,
			tags:  []string{"paperflow", "pass", "completed"},
		}, true
	case EventDocumentFailed:
		return message{
			title:    "Paperflow - Delivery Failed",
			body:     fmt.Sprintf("Failed to deliver %s (%s): %s", orUnknown(get("document")), orUnknown(get("action")), orUnknown(get("reason"))),
			tags:     []string{"paperflow", "delivery", "failed"},
			priority: "high",
		}, true
	case EventRelocationFailed:
		return message{
			title:    "Paperflow - Relocation Failed",
			body:     fmt.Sprintf("Delivered %s but could not move it to done/: %s\nRe-delivery is suppressed by the ledger; move the file manually.", orUnknown(get("document")), orUnknown(get("reason"))),
			tags:     []string{"paperflow", "relocation", "failed"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "Paperflow - Test",
			body:     "Notification system test",
			tags:     []string{"paperflow", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func eventEnabled(settings config.Notifications, event Event) bool {
	switch event {
	case EventPassStarted:
		return settings.PassStarted
	case EventPassCompleted:
		return settings.PassCompleted
	case EventDocumentFailed, EventRelocationFailed:
		return settings.Errors
	default:
		return true
	}
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	settings config.Notifications
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if !eventEnabled(n.settings, event) {
		return nil
	}
	data, ok := formatMessage(event, payload)
	if !ok {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type emailService struct {
	address  string
	sender   TextSender
	settings config.Notifications
}

func (e *emailService) Publish(ctx context.Context, event Event, payload Payload) error {
	// Email is reserved for failures; pass chatter stays on push.
	if event != EventDocumentFailed && event != EventRelocationFailed && event != EventTest {
		return nil
	}
	if !eventEnabled(e.settings, event) {
		return nil
	}
	data, ok := formatMessage(event, payload)
	if !ok {
		return nil
	}
	body := data.body + "\nCheck the logs for more details."
	return e.sender.SendText(ctx, e.address, data.title, body)
}

type fanout []Service

func (f fanout) Publish(ctx context.Context, event Event, payload Payload) error {
	var firstErr error
	for _, target := range f {
		if err := target.Publish(ctx, event, payload); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }

func orUnknown(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

func orZero(value string) string {
	if value == "" {
		return "0"
	}
	return value
}
