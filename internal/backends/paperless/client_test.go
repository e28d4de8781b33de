package paperless_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"paperflow/internal/backends"
	"paperflow/internal/backends/paperless"
	"paperflow/internal/classification"
)

func testDocument(t *testing.T, name, content string) backends.Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	doc, err := backends.NewDocument(path, classification.ToPaperless)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	return doc
}

func TestDeliverUploadsMultipartWithTokenAuth(t *testing.T) {
	var gotAuth, gotFilename, gotContent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		file, header, err := r.FormFile("document")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotFilename = header.Filename
		gotContent = string(data)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := paperless.NewClientWithDoer(server.URL+"/api/documents/post_document/", "secret", server.Client())
	doc := testDocument(t, "invoice.pdf", "pdf bytes")
	if err := client.Deliver(context.Background(), doc); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if gotAuth != "Token secret" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotFilename != "invoice.pdf" {
		t.Fatalf("unexpected filename %q", gotFilename)
	}
	if gotContent != "pdf bytes" {
		t.Fatalf("unexpected content %q", gotContent)
	}
}

func TestDeliverRejectsNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := paperless.NewClientWithDoer(server.URL, "secret", server.Client())
	err := client.Deliver(context.Background(), testDocument(t, "a.pdf", "x"))
	if !errors.Is(err, backends.ErrDelivery) {
		t.Fatalf("expected ErrDelivery, got %v", err)
	}
}

func TestDeliverClassifiesTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := paperless.NewClientWithDoer(server.URL, "secret", server.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := client.Deliver(ctx, testDocument(t, "a.pdf", "x"))
	if !errors.Is(err, backends.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestActionIsDocumentAPI(t *testing.T) {
	client := paperless.NewClientWithDoer("http://example.invalid", "t", http.DefaultClient)
	if client.Action() != classification.ActionDocumentAPI {
		t.Fatalf("unexpected action %q", client.Action())
	}
}
