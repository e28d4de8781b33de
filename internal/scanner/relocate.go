package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"paperflow/internal/backends"
	"paperflow/internal/config"
	"paperflow/internal/logging"
)

// Relocate moves a fully delivered document into done/<source-folder>/,
// preserving the filename. Name collisions resolve with a counter suffix
// ("name (2).ext"), never by overwriting: a previously processed document in
// done/ must not be silently replaced. Returns the final path.
func (s *Scanner) Relocate(doc backends.Document) (string, error) {
	targetDir := filepath.Join(s.root, config.DoneDirName, doc.Class.Folder())
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", backends.Wrap(backends.ErrRelocation, "scanner", "create done directory", targetDir, err)
	}

	finalPath, err := collisionFreePath(targetDir, doc.Filename)
	if err != nil {
		return "", backends.Wrap(backends.ErrRelocation, "scanner", "resolve target", doc.Filename, err)
	}

	if err := moveFile(doc.Path, finalPath); err != nil {
		return "", backends.Wrap(backends.ErrRelocation, "scanner", "move to done", doc.Filename, err)
	}
	s.logger.Info("relocated document", logging.String(logging.FieldDocument, doc.Filename), logging.String("final_path", finalPath))
	return finalPath, nil
}

func collisionFreePath(dir, filename string) (string, error) {
	ext := filepath.Ext(filename)
	stem := filename[:len(filename)-len(ext)]
	candidate := filepath.Join(dir, filename)
	counter := 2
	for {
		info, err := os.Stat(candidate)
		if err != nil {
			if os.IsNotExist(err) {
				return candidate, nil
			}
			return "", fmt.Errorf("stat candidate path: %w", err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("target %q already exists as directory", candidate)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, counter, ext))
		counter++
	}
}

// moveFile renames src to dst, falling back to copy-and-remove when the done
// folder sits on a different device than the source folder.
func moveFile(sourcePath, targetPath string) error {
	if err := os.Rename(sourcePath, targetPath); err != nil {
		var linkErr *os.LinkError
		if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
			if err := copyFileContents(sourcePath, targetPath); err != nil {
				return fmt.Errorf("copy file across devices: %w", err)
			}
			if err := os.Remove(sourcePath); err != nil {
				return fmt.Errorf("remove source after copy: %w", err)
			}
			return nil
		}
		return fmt.Errorf("move file: %w", err)
	}
	return nil
}
