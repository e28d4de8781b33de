package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"paperflow/internal/config"
)

// WriteProcessFile drops a file into the named folder under the test process
// root and returns its path.
func WriteProcessFile(t testing.TB, cfg *config.Config, folder, name, content string) string {
	t.Helper()

	dir := cfg.ProcessSubdir(folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
