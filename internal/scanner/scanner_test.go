package scanner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"paperflow/internal/classification"
	"paperflow/internal/scanner"
	"paperflow/internal/testsupport"
)

func TestScanFindsFilesInAllSourceFolders(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteProcessFile(t, cfg, "to_paperless", "invoice.pdf", "pdf")
	testsupport.WriteProcessFile(t, cfg, "to_bookkeeping", "statement.csv", "csv")
	testsupport.WriteProcessFile(t, cfg, "to_both", "receipt.jpg", "jpg")

	s := scanner.New(cfg, nil)
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(result.Documents) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(result.Documents))
	}
	byName := map[string]classification.Classification{}
	for _, doc := range result.Documents {
		byName[doc.Filename] = doc.Class
	}
	if byName["invoice.pdf"] != classification.ToPaperless {
		t.Fatalf("invoice.pdf classified as %q", byName["invoice.pdf"])
	}
	if byName["statement.csv"] != classification.ToBookkeeping {
		t.Fatalf("statement.csv classified as %q", byName["statement.csv"])
	}
	if byName["receipt.jpg"] != classification.ToBoth {
		t.Fatalf("receipt.jpg classified as %q", byName["receipt.jpg"])
	}
}

func TestScanIgnoresUnknownFoldersAndIneligibleEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	// Unknown sibling folder: never scanned, never counted.
	unknown := cfg.ProcessSubdir("to_nowhere")
	if err := os.MkdirAll(unknown, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(unknown, "stray.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	// Hidden file and subdirectory inside a monitored folder: skipped.
	testsupport.WriteProcessFile(t, cfg, "to_paperless", ".hidden", "x")
	if err := os.MkdirAll(filepath.Join(cfg.ProcessSubdir("to_paperless"), "nested"), 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}
	testsupport.WriteProcessFile(t, cfg, "to_paperless", "real.pdf", "pdf")

	s := scanner.New(cfg, nil)
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(result.Documents) != 1 || result.Documents[0].Filename != "real.pdf" {
		t.Fatalf("unexpected documents %v", result.Documents)
	}
	if result.Skipped != 2 {
		t.Fatalf("expected 2 skipped entries, got %d", result.Skipped)
	}
}

func TestScanOnEmptyTreeIsNoop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := scanner.New(cfg, nil)
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(result.Documents) != 0 || result.Skipped != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestScanMissingSourceFolderTreatedAsEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.RemoveAll(cfg.ProcessSubdir("to_both")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	s := scanner.New(cfg, nil)
	if _, err := s.Scan(context.Background()); err != nil {
		t.Fatalf("Scan: %v", err)
	}
}
