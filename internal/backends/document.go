package backends

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"paperflow/internal/classification"
)

// Document is a single file discovered under a monitored source folder. Its
// classification is fixed at discovery and never changes within a pass; the
// only mutation it ever sees is relocation after all deliveries succeed.
type Document struct {
	Path         string
	Filename     string
	Class        classification.Classification
	ContentHash  string
	Size         int64
	DiscoveredAt time.Time
}

// Open returns a reader over the document content. Callers own the close.
func (d Document) Open() (io.ReadCloser, error) {
	file, err := os.Open(d.Path)
	if err != nil {
		return nil, fmt.Errorf("open document %s: %w", d.Filename, err)
	}
	return file, nil
}

// NewDocument stats and hashes the file at path, producing a Document bound
// to the given classification. The hash identifies the content for the
// delivery ledger, so a renamed copy of an already-delivered file is still
// recognized.
func NewDocument(path string, class classification.Classification) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, fmt.Errorf("stat document: %w", err)
	}
	hash, err := hashFile(path)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Path:         path,
		Filename:     filepath.Base(path),
		Class:        class,
		ContentHash:  hash,
		Size:         info.Size(),
		DiscoveredAt: time.Now().UTC(),
	}, nil
}

func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for hashing: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("hash document: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
