/*
Package sqlite provides a SQLite-backed implementation of sickpay.Store.

PURPOSE:
  Persists the holiday calendar and completed calculation runs. The engine
  never reads from the database while computing; the API loads the calendar,
  computes, and saves the run afterwards.

KEY TABLES:
  holidays:  One row per date, major flag for storhelg
  runs:      Calculation runs with the batch document they were computed from
  segments:  Post-processed segments of a run, in output order

INDEXES:
  - idx_segments_run: Loading a run's segments (hot path)
  - idx_runs_created: Listing and retention cleanup

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite serializes writers anyway;
  the mutex keeps read-modify-write sequences consistent.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/vakans.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - sickpay/store.go: Interface definition
  - store/memory: In-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/vacancy-engine/generic"
	"github.com/warp/vacancy-engine/sickpay"
)

// timestampLayout is fixed width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// Store implements sickpay.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ sickpay.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Holiday calendar
	CREATE TABLE IF NOT EXISTS holidays (
		date TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		major BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	-- Calculation runs
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL DEFAULT '',
		input_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created
		ON runs(created_at);

	-- Segments of a run (seq preserves output order)
	CREATE TABLE IF NOT EXISTS segments (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		person_id TEXT NOT NULL,
		date TEXT NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		hours TEXT NOT NULL,
		ob_class TEXT NOT NULL,
		status TEXT NOT NULL,
		paid_hours TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_segments_run
		ON segments(run_id, seq);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// SaveHoliday inserts or updates the holiday on h.Date.
func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (date, name, major, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			name = excluded.name,
			major = excluded.major
	`

	_, err := s.db.ExecContext(ctx, query,
		h.Date.Key(),
		h.Name,
		h.Major,
		time.Now().UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save holiday: %w", err)
	}
	return nil
}

// DeleteHoliday removes the holiday on date.
func (s *Store) DeleteHoliday(ctx context.Context, date generic.TimePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE date = ?", date.Key())
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrHolidayNotFound
	}
	return nil
}

// ListHolidays returns every holiday, ordered by date.
func (s *Store) ListHolidays(ctx context.Context) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT date, name, major FROM holidays ORDER BY date ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var h generic.Holiday
		var dateStr string
		if err := rows.Scan(&dateStr, &h.Name, &h.Major); err != nil {
			return nil, err
		}
		if h.Date, err = generic.ParseDate(dateStr); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}

// =============================================================================
// CALCULATION RUNS
// =============================================================================

// SaveRun stores a run and its segments atomically.
func (s *Store) SaveRun(ctx context.Context, run sickpay.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, label, input_json, created_at) VALUES (?, ?, ?, ?)",
		run.ID, run.Label, run.InputJSON, run.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("run %s: %w", run.ID, generic.ErrDuplicateRun)
		}
		return fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO segments (run_id, seq, person_id, date, start_at, end_at, hours, ob_class, status, paid_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare segment insert: %w", err)
	}
	defer stmt.Close()

	for i, seg := range run.Segments {
		_, err := stmt.ExecContext(ctx,
			run.ID, i,
			string(seg.PersonID),
			seg.Date.Key(),
			seg.Start.UTC().Format(timestampLayout),
			seg.End.UTC().Format(timestampLayout),
			seg.Hours.String(),
			string(seg.OBClass),
			string(seg.Status),
			seg.PaidHours.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to save segment %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetRun loads a run with its segments.
func (s *Store) GetRun(ctx context.Context, id string) (*sickpay.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run := sickpay.Run{ID: id}
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT label, input_json, created_at FROM runs WHERE id = ?", id,
	).Scan(&run.Label, &run.InputJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	run.CreatedAt, _ = time.Parse(timestampLayout, createdAt)

	rows, err := s.db.QueryContext(ctx, `
		SELECT person_id, date, start_at, end_at, hours, ob_class, status, paid_hours
		FROM segments
		WHERE run_id = ?
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		seg, err := scanSegment(rows)
		if err != nil {
			return nil, err
		}
		run.Segments = append(run.Segments, seg)
	}

	return &run, rows.Err()
}

func scanSegment(rows *sql.Rows) (sickpay.Segment, error) {
	var seg sickpay.Segment
	var person, date, start, end, hours, ob, status, paid string
	if err := rows.Scan(&person, &date, &start, &end, &hours, &ob, &status, &paid); err != nil {
		return seg, err
	}

	var err error
	seg.PersonID = generic.EntityID(person)
	if seg.Date, err = generic.ParseDate(date); err != nil {
		return seg, err
	}
	if seg.Start, err = time.Parse(timestampLayout, start); err != nil {
		return seg, fmt.Errorf("invalid segment start %q: %w", start, err)
	}
	if seg.End, err = time.Parse(timestampLayout, end); err != nil {
		return seg, fmt.Errorf("invalid segment end %q: %w", end, err)
	}
	if seg.Hours, err = decimal.NewFromString(hours); err != nil {
		return seg, err
	}
	if seg.PaidHours, err = decimal.NewFromString(paid); err != nil {
		return seg, err
	}
	seg.OBClass = sickpay.OBClass(ob)
	seg.Status = sickpay.Status(status)
	return seg, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]sickpay.RunInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT r.id, r.label, r.created_at, COUNT(sg.seq)
		FROM runs r
		LEFT JOIN segments sg ON sg.run_id = r.id
		GROUP BY r.id, r.label, r.created_at
		ORDER BY r.created_at DESC, r.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []sickpay.RunInfo
	for rows.Next() {
		var r sickpay.RunInfo
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Label, &createdAt, &r.SegmentCount); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(timestampLayout, createdAt)
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// DeleteRunsBefore removes runs created before cutoff together with their
// segments.
func (s *Store) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := cutoff.UTC().Format(timestampLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM segments WHERE run_id IN (SELECT id FROM runs WHERE created_at < ?)", ts,
	); err != nil {
		return 0, fmt.Errorf("failed to delete segments: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE created_at < ?", ts)
	if err != nil {
		return 0, fmt.Errorf("failed to delete runs: %w", err)
	}
	n, _ := res.RowsAffected()

	return int(n), tx.Commit()
}

// Reset clears all data. For tests and demo resets.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"segments", "runs", "holidays"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
