package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"photo-archive/internal/archive"
	"photo-archive/internal/database/migrations"
	"photo-archive/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// timeLayout is how timestamps are stored. It is fixed width so run times,
// which are stored in UTC, sort as text. Capture dates keep their offset so
// they read back with the wall clock they were resolved in.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteJournal implements the Journal interface using SQLite.
type SQLiteJournal struct {
	db   *sql.DB
	path string
}

// NewSQLiteJournal opens the journal at path, creating its directory and
// applying pending migrations. path may be ":memory:".
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal: %w", err)
	}
	if err := migrations.CheckDBMigrationStatus(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("checking journal schema: %w", err)
	}

	return &SQLiteJournal{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: every ":memory:" connection would otherwise be a separate database.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Path returns the file the journal is stored in.
func (s *SQLiteJournal) Path() string {
	return s.path
}

func (s *SQLiteJournal) StartRun(run *model.Run) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (id, started_at, source, destination, prefix, status, planned, succeeded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, formatTime(run.StartedAt.UTC()), run.Source, run.Destination, run.Prefix,
		run.Status, run.Planned, run.Succeeded,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

func (s *SQLiteJournal) RecordOperation(op *model.RunOperation) error {
	res, err := s.db.Exec(`
		INSERT INTO run_operations (run_id, source_path, destination_path, capture_date, date_source, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		op.RunID, op.SourcePath, op.DestinationPath, formatTime(op.CaptureDate),
		op.DateSource, op.Status, op.Error,
	)
	if err != nil {
		return fmt.Errorf("inserting operation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading operation id: %w", err)
	}
	op.ID = id
	return nil
}

func (s *SQLiteJournal) FinishRun(runID string, status string, succeeded int, finishedAt time.Time) error {
	res, err := s.db.Exec(`
		UPDATE runs SET status = ?, succeeded = ?, finished_at = ? WHERE id = ?`,
		status, succeeded, formatTime(finishedAt.UTC()), runID,
	)
	if err != nil {
		return fmt.Errorf("updating run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *SQLiteJournal) ListRuns(limit int) ([]*model.Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.Query(`
		SELECT id, started_at, finished_at, source, destination, prefix, status, planned, succeeded
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

func (s *SQLiteJournal) FindRun(runID string) (*model.Run, error) {
	row := s.db.QueryRow(`
		SELECT id, started_at, finished_at, source, destination, prefix, status, planned, succeeded
		FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}
	return run, nil
}

func (s *SQLiteJournal) ListRunOperations(runID string) ([]*model.RunOperation, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, source_path, destination_path, capture_date, date_source, status, error
		FROM run_operations WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying operations: %w", err)
	}
	defer rows.Close()

	var ops []*model.RunOperation
	for rows.Next() {
		var op model.RunOperation
		var captured string
		if err := rows.Scan(&op.ID, &op.RunID, &op.SourcePath, &op.DestinationPath,
			&captured, &op.DateSource, &op.Status, &op.Error); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		if op.CaptureDate, err = parseTime(captured); err != nil {
			return nil, err
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating operations: %w", err)
	}
	return ops, nil
}

func (s *SQLiteJournal) Close() error {
	return s.db.Close()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(r rowScanner) (*model.Run, error) {
	var run model.Run
	var started string
	var finished sql.NullString
	if err := r.Scan(&run.ID, &started, &finished, &run.Source, &run.Destination,
		&run.Prefix, &run.Status, &run.Planned, &run.Succeeded); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	var err error
	if run.StartedAt, err = parseTime(started); err != nil {
		return nil, err
	}
	if finished.Valid {
		t, err := parseTime(finished.String)
		if err != nil {
			return nil, err
		}
		run.FinishedAt = &t
	}
	return &run, nil
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored time %q: %w", s, err)
	}
	return t, nil
}

// Compile-time check that SQLiteJournal implements archive.Journal interface
var _ archive.Journal = (*SQLiteJournal)(nil)
