package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"paperflow/internal/backends"
)

func newBufferLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	lvl := new(slog.LevelVar)
	lvl.Set(level)
	return slog.New(newConsoleHandler(buf, lvl)), buf
}

func TestConsoleHandlerLine(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelInfo)
	logger = NewComponentLogger(logger, "scanner")

	logger.Info("folder scanned", Int("documents", 3), String("folder", "to_both"))

	line := strings.TrimSuffix(buf.String(), "\n")
	if strings.Contains(line, "component=") {
		t.Fatalf("component must render as prefix, not attr: %q", line)
	}
	if !strings.Contains(line, " INFO scanner: folder scanned") {
		t.Fatalf("unexpected line shape: %q", line)
	}
	if !strings.HasSuffix(line, "documents=3 folder=to_both") {
		t.Fatalf("unexpected attrs: %q", line)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelInfo)
	logger.Warn("skipping unreadable file", String("name", "my scan.pdf"), Error(errors.New("permission denied")))

	line := buf.String()
	if !strings.Contains(line, `name="my scan.pdf"`) {
		t.Fatalf("expected quoted value, got %q", line)
	}
	if !strings.Contains(line, `error="permission denied"`) {
		t.Fatalf("expected quoted error, got %q", line)
	}
}

func TestConsoleHandlerLevelFilter(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelWarn)
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		" info  ": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paperflow.log")
	logger, err := New(Options{Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello", String("k", "v"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("unexpected log contents: %s", data)
	}
}

func TestWithContextCarriesFields(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelInfo)

	ctx := backends.WithPassID(context.Background(), "pass-1")
	ctx = backends.WithDocumentName(ctx, "scan.pdf")
	ctx = backends.WithFolder(ctx, "to_paperless")
	WithContext(ctx, logger).Info("delivering")

	out := buf.String()
	for _, want := range []string{"pass_id=pass-1", "document=scan.pdf", "folder=to_paperless"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "paperflow-2025.log")
	fresh := filepath.Join(dir, "fresh.log")
	active := filepath.Join(dir, "paperflow.log")
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{old, fresh, active, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	stale := time.Now().AddDate(0, 0, -30)
	for _, path := range []string{old, active, other} {
		if err := os.Chtimes(path, stale, stale); err != nil {
			t.Fatalf("chtimes %s: %v", path, err)
		}
	}

	CleanupOldLogs(NewNop(), dir, "*.log", active, 7)

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("stale log should be removed")
	}
	for _, path := range []string{fresh, active, other} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%s should survive cleanup: %v", path, err)
		}
	}
}
