package scanner

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"paperflow/internal/backends"
	"paperflow/internal/classification"
	"paperflow/internal/config"
	"paperflow/internal/logging"
)

// Scanner enumerates candidate documents under the monitored source folders
// and owns the terminal relocation into done/. Classification happens at
// discovery, derived purely from the folder a file sits in, and is never
// revisited.
type Scanner struct {
	root   string
	logger *slog.Logger
}

// New constructs a scanner over the given process root.
func New(cfg *config.Config, logger *slog.Logger) *Scanner {
	return &Scanner{
		root:   cfg.Paths.ProcessDir,
		logger: logging.NewComponentLogger(logger, "scanner"),
	}
}

// ScanResult carries the discovered documents plus the count of entries that
// were present but ineligible (hidden, non-regular, unreadable).
type ScanResult struct {
	Documents []backends.Document
	Skipped   int
}

// Scan walks the three classification folders in fixed order and returns the
// eligible documents in filesystem-reported order within each folder. Files
// anywhere else under the root, including unknown sibling folders, are
// ignored entirely. A missing source folder is treated as empty.
func (s *Scanner) Scan(ctx context.Context) (ScanResult, error) {
	var result ScanResult
	for _, folder := range config.SourceFolders() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		class, ok := classification.FromFolder(folder)
		if !ok {
			continue
		}
		dir := filepath.Join(s.root, folder)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return result, backends.Wrap(backends.ErrTransient, "scanner", "read folder", dir, err)
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if !eligible(entry) {
				result.Skipped++
				s.logger.Debug("skipping ineligible entry", logging.String(logging.FieldFolder, folder), logging.String("name", entry.Name()))
				continue
			}
			doc, err := backends.NewDocument(path, class)
			if err != nil {
				// Unreadable files are a skip, not a failure; they stay in
				// place and get another look next pass.
				result.Skipped++
				s.logger.Warn("skipping unreadable file", logging.String(logging.FieldFolder, folder), logging.String("name", entry.Name()), logging.Error(err))
				continue
			}
			result.Documents = append(result.Documents, doc)
		}
	}
	return result, nil
}

func eligible(entry os.DirEntry) bool {
	if strings.HasPrefix(entry.Name(), ".") {
		return false
	}
	return entry.Type().IsRegular()
}
