package ledger

import (
	"context"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS deliveries (
    doc_hash     TEXT NOT NULL,
    action       TEXT NOT NULL,
    filename     TEXT NOT NULL,
    pass_id      TEXT NOT NULL,
    completed_at TEXT NOT NULL,
    PRIMARY KEY (doc_hash, action)
);

CREATE TABLE IF NOT EXISTS passes (
    id                  TEXT PRIMARY KEY,
    started_at          TEXT NOT NULL,
    finished_at         TEXT NOT NULL,
    succeeded           INTEGER NOT NULL DEFAULT 0,
    failed              INTEGER NOT NULL DEFAULT 0,
    skipped             INTEGER NOT NULL DEFAULT 0,
    relocation_failures INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_passes_started_at ON passes (started_at);
`

func (s *Store) applySchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply ledger schema: %w", err)
	}
	return nil
}
