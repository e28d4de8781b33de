package backends_test

import (
	"errors"
	"strings"
	"testing"

	"paperflow/internal/backends"
)

func TestWrapTagsMarkerAndJoinsDetail(t *testing.T) {
	cause := errors.New("connection refused")
	err := backends.Wrap(backends.ErrDelivery, "paperless", "upload", "POST failed", cause)
	if !errors.Is(err, backends.ErrDelivery) {
		t.Fatalf("expected ErrDelivery marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	for _, want := range []string{"paperless", "upload", "POST failed", "connection refused"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err, want)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := backends.Wrap(nil, "mailer", "send", "", nil)
	if !errors.Is(err, backends.ErrTransient) {
		t.Fatalf("expected ErrTransient default, got %v", err)
	}
}

func TestWrapWithoutDetailUsesFallback(t *testing.T) {
	err := backends.Wrap(backends.ErrTimeout, "", "", "", nil)
	if !strings.Contains(err.Error(), "backend failure") {
		t.Fatalf("expected fallback detail, got %q", err)
	}
}
