package history

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    run_id       TEXT PRIMARY KEY,
    created_at   INTEGER NOT NULL,
    theme        TEXT NOT NULL,
    layout_style TEXT NOT NULL,
    input_hash   TEXT NOT NULL DEFAULT '',
    slide_count  INTEGER NOT NULL,
    created      INTEGER NOT NULL,
    failed       INTEGER NOT NULL,
    duration_ns  INTEGER NOT NULL,
    failures     TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS runs_created_at ON runs (created_at DESC);
`

// SQLiteStore keeps records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies the schema.
// The path ":memory:" opens a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save implements Store. Saving an existing run id replaces it.
func (s *SQLiteStore) Save(ctx context.Context, rec Record) error {
	if rec.RunID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "record has no run id")
	}
	failures, err := json.Marshal(rec.Failures)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT OR REPLACE INTO runs
            (run_id, created_at, theme, layout_style, input_hash, slide_count, created, failed, duration_ns, failures)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		rec.RunID, rec.CreatedAt.UnixNano(), rec.Theme, string(rec.LayoutStyle), rec.InputHash,
		rec.SlideCount, rec.Created, rec.Failed, int64(rec.Duration), string(failures))
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

const selectRuns = `
        SELECT run_id, created_at, theme, layout_style, input_hash, slide_count, created, failed, duration_ns, failures
        FROM runs`

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, runID string) (Record, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+` WHERE run_id = ?`, runID)
	rec, err := scanRecord(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRuns+` ORDER BY created_at DESC, run_id LIMIT ?`, normLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec       Record
		createdAt int64
		style     string
		duration  int64
		failures  string
	)
	err := row.Scan(&rec.RunID, &createdAt, &rec.Theme, &style, &rec.InputHash,
		&rec.SlideCount, &rec.Created, &rec.Failed, &duration, &failures)
	if err != nil {
		return Record{}, err
	}
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	rec.LayoutStyle = deck.LayoutStyle(style)
	rec.Duration = time.Duration(duration)
	if err := json.Unmarshal([]byte(failures), &rec.Failures); err != nil {
		return Record{}, fmt.Errorf("decode failures of %s: %w", rec.RunID, err)
	}
	return rec, nil
}
