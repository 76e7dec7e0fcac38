package report

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/reconcile"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes incompatibly.
const schemaVersion = 1

// ErrSchemaMismatch indicates an index written by an incompatible version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Resolution is one stream outcome as stored in the index.
type Resolution struct {
	Archive  string
	StreamID string
	Name     string
	Wanted   bool
	Decoded  bool
	Duration time.Duration
}

// Index is a SQLite record of export runs. Each run adds rows; earlier runs
// are kept so outputs can be compared across game patches.
type Index struct {
	db   *sql.DB
	path string
}

// OpenIndex opens or creates the index database at path.
func OpenIndex(ctx context.Context, path string) (*Index, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	idx := &Index{db: db, path: path}
	if err := idx.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return idx, nil
}

// Path returns the database location.
func (i *Index) Path() string {
	return i.path
}

// Close closes the underlying database connection.
func (i *Index) Close() error {
	if i == nil || i.db == nil {
		return nil
	}
	return i.db.Close()
}

func (i *Index) initSchema(ctx context.Context) error {
	var tableExists int
	err := i.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return i.createSchema(ctx)
	}

	var version int
	if err := i.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: index has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, filepath.Base(i.path))
	}
	return nil
}

func (i *Index) createSchema(ctx context.Context) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Record stores one run: its totals, every resolution, and both ledger
// counters, in a single transaction.
func (i *Index) Record(ctx context.Context, summary Summary, resolutions []Resolution, ledger *reconcile.Ledger) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	t := summary.Totals
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (
            run_id, started_at, finished_at, archives,
            wanted, found, missing, duplicate, skipped, output_bytes
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		summary.Started.UTC().Format(time.RFC3339Nano),
		summary.Finished.UTC().Format(time.RFC3339Nano),
		len(summary.Archives),
		t.Wanted, t.Found, t.Missing, t.Duplicate, t.Skipped,
		summary.Bytes(),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	resStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO resolutions (run_id, archive, stream_id, name, wanted, decoded, duration_ms)
         VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare resolutions: %w", err)
	}
	defer resStmt.Close()
	for _, res := range resolutions {
		if _, err := resStmt.ExecContext(ctx,
			summary.RunID,
			filepath.Base(res.Archive),
			res.StreamID,
			res.Name,
			boolInt(res.Wanted),
			boolInt(res.Decoded),
			nullableDuration(res.Duration),
		); err != nil {
			return fmt.Errorf("insert resolution %s: %w", res.StreamID, err)
		}
	}

	counterStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO counters (run_id, kind, position, name, count) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare counters: %w", err)
	}
	defer counterStmt.Close()
	for kind, entries := range map[string][]reconcile.Entry{
		"wanted":  ledger.Wanted(),
		"skipped": ledger.Skipped(),
	} {
		for pos, entry := range entries {
			if _, err := counterStmt.ExecContext(ctx, summary.RunID, kind, pos, entry.Name, entry.Count); err != nil {
				return fmt.Errorf("insert %s counter %s: %w", kind, entry.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// RunCount returns how many runs the index holds.
func (i *Index) RunCount(ctx context.Context) (int, error) {
	var n int
	if err := i.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// Counters returns a run's counters of the given kind in ledger order.
func (i *Index) Counters(ctx context.Context, runID, kind string) ([]reconcile.Entry, error) {
	rows, err := i.db.QueryContext(ctx,
		`SELECT name, count FROM counters WHERE run_id = ? AND kind = ? ORDER BY position`,
		runID, kind)
	if err != nil {
		return nil, fmt.Errorf("query counters: %w", err)
	}
	defer rows.Close()

	var entries []reconcile.Entry
	for rows.Next() {
		var entry reconcile.Entry
		if err := rows.Scan(&entry.Name, &entry.Count); err != nil {
			return nil, fmt.Errorf("scan counter: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Lookup returns every recorded resolution of name, newest run first.
func (i *Index) Lookup(ctx context.Context, name string) ([]Resolution, error) {
	rows, err := i.db.QueryContext(ctx,
		`SELECT r.archive, r.stream_id, r.name, r.wanted, r.decoded, r.duration_ms
         FROM resolutions r JOIN runs ON runs.run_id = r.run_id
         WHERE r.name = ?
         ORDER BY runs.started_at DESC, r.id`,
		name)
	if err != nil {
		return nil, fmt.Errorf("query resolutions: %w", err)
	}
	defer rows.Close()

	var out []Resolution
	for rows.Next() {
		var (
			res             Resolution
			wanted, decoded int
			durationMS      sql.NullInt64
		)
		if err := rows.Scan(&res.Archive, &res.StreamID, &res.Name, &wanted, &decoded, &durationMS); err != nil {
			return nil, fmt.Errorf("scan resolution: %w", err)
		}
		res.Wanted = wanted != 0
		res.Decoded = decoded != 0
		if durationMS.Valid {
			res.Duration = time.Duration(durationMS.Int64) * time.Millisecond
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableDuration(d time.Duration) any {
	if d <= 0 {
		return nil
	}
	return d.Milliseconds()
}
