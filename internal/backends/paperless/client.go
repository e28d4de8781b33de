package paperless

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"paperflow/internal/backends"
	"paperflow/internal/classification"
	"paperflow/internal/config"
)

const userAgent = "paperflow/0.1.0"

// HTTPDoer describes the HTTP client used by the Paperless backend.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client uploads documents to the Paperless consume endpoint.
type Client struct {
	endpoint string
	token    string
	client   HTTPDoer
}

// NewClient constructs a Paperless backend from configuration.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Paperless.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return NewClientWithDoer(cfg.Paperless.URL+cfg.Paperless.APIPath, cfg.Paperless.APIToken, &http.Client{Timeout: timeout})
}

// NewClientWithDoer allows injecting the HTTP client (used in tests).
func NewClientWithDoer(endpoint, token string, client HTTPDoer) *Client {
	return &Client{
		endpoint: strings.TrimSpace(endpoint),
		token:    strings.TrimSpace(token),
		client:   client,
	}
}

// Action implements backends.Backend.
func (c *Client) Action() classification.Action {
	return classification.ActionDocumentAPI
}

// Deliver uploads the document as a multipart form with the original filename
// preserved in the "document" field.
func (c *Client) Deliver(ctx context.Context, doc backends.Document) error {
	content, err := doc.Open()
	if err != nil {
		return backends.Wrap(backends.ErrTransient, "paperless", "read document", "", err)
	}
	defer content.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("document", doc.Filename)
	if err != nil {
		return backends.Wrap(backends.ErrTransient, "paperless", "build form", "", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return backends.Wrap(backends.ErrTransient, "paperless", "buffer document", "", err)
	}
	if err := writer.Close(); err != nil {
		return backends.Wrap(backends.ErrTransient, "paperless", "finalize form", "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return backends.Wrap(backends.ErrTransient, "paperless", "build request", "", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backends.Wrap(backends.ErrTimeout, "paperless", "upload", "request cancelled or timed out", err)
		}
		return backends.Wrap(backends.ErrDelivery, "paperless", "upload", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return backends.Wrap(
			backends.ErrDelivery,
			"paperless",
			"upload",
			fmt.Sprintf("returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))),
			nil,
		)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
