package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"paperflow/internal/classification"
	"paperflow/internal/config"
)

// Store persists completed deliveries and pass history in SQLite. It is the
// sidecar index that keeps a retried document from re-delivering to a backend
// that already accepted it: rows are keyed by content hash plus action, so a
// renamed copy of delivered content is still recognized.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	dbPath := cfg.LedgerPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// IsComplete reports whether the given content has already been delivered via
// the given action.
func (s *Store) IsComplete(ctx context.Context, contentHash string, action classification.Action) (bool, error) {
	var one int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT 1 FROM deliveries WHERE doc_hash = ? AND action = ?`,
		contentHash, string(action),
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query delivery: %w", err)
	}
	return true, nil
}

// MarkComplete records a successful delivery. Re-marking an existing
// delivery is a no-op so retried passes stay idempotent.
func (s *Store) MarkComplete(ctx context.Context, contentHash string, action classification.Action, filename, passID string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO deliveries (doc_hash, action, filename, pass_id, completed_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT (doc_hash, action) DO NOTHING`,
		contentHash, string(action), filename, passID,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// ClearDocument removes all delivery rows for the given content, called after
// the document has been relocated to done/ and the ledger entries have served
// their purpose.
func (s *Store) ClearDocument(ctx context.Context, contentHash string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM deliveries WHERE doc_hash = ?`, contentHash); err != nil {
		return fmt.Errorf("clear deliveries: %w", err)
	}
	return nil
}

// PendingDelivery is a completed delivery whose document has not yet been
// relocated: evidence of an interrupted or relocation-failed pass.
type PendingDelivery struct {
	ContentHash string
	Action      classification.Action
	Filename    string
	PassID      string
	CompletedAt time.Time
}

// PendingDeliveries lists delivery rows not yet cleared by relocation.
func (s *Store) PendingDeliveries(ctx context.Context) ([]PendingDelivery, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT doc_hash, action, filename, pass_id, completed_at
         FROM deliveries ORDER BY completed_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending deliveries: %w", err)
	}
	defer rows.Close()

	var out []PendingDelivery
	for rows.Next() {
		var pending PendingDelivery
		var action, completed string
		if err := rows.Scan(&pending.ContentHash, &action, &pending.Filename, &pending.PassID, &completed); err != nil {
			return nil, fmt.Errorf("scan pending delivery: %w", err)
		}
		pending.Action = classification.Action(action)
		if ts, parseErr := time.Parse(time.RFC3339Nano, completed); parseErr == nil {
			pending.CompletedAt = ts
		}
		out = append(out, pending)
	}
	return out, rows.Err()
}

// Pass is one recorded pipeline pass.
type Pass struct {
	ID                 string
	StartedAt          time.Time
	FinishedAt         time.Time
	Succeeded          int
	Failed             int
	Skipped            int
	RelocationFailures int
}

// RecordPass persists the aggregate outcome of one pass.
func (s *Store) RecordPass(ctx context.Context, pass Pass) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO passes (id, started_at, finished_at, succeeded, failed, skipped, relocation_failures)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		pass.ID,
		pass.StartedAt.UTC().Format(time.RFC3339Nano),
		pass.FinishedAt.UTC().Format(time.RFC3339Nano),
		pass.Succeeded,
		pass.Failed,
		pass.Skipped,
		pass.RelocationFailures,
	)
	if err != nil {
		return fmt.Errorf("insert pass: %w", err)
	}
	return nil
}

// RecentPasses returns up to limit passes, newest first.
func (s *Store) RecentPasses(ctx context.Context, limit int) ([]Pass, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, started_at, finished_at, succeeded, failed, skipped, relocation_failures
         FROM passes ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query passes: %w", err)
	}
	defer rows.Close()

	var out []Pass
	for rows.Next() {
		var pass Pass
		var started, finished string
		if err := rows.Scan(&pass.ID, &started, &finished, &pass.Succeeded, &pass.Failed, &pass.Skipped, &pass.RelocationFailures); err != nil {
			return nil, fmt.Errorf("scan pass: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, started); parseErr == nil {
			pass.StartedAt = ts
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, finished); parseErr == nil {
			pass.FinishedAt = ts
		}
		out = append(out, pass)
	}
	return out, rows.Err()
}
