// Package storage persists walk results to SQLite so repeated probes of a
// fleet can be compared over time.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"printprobe/oid"
	"printprobe/snmp"
)

// WalkRecord is one archived walk.
type WalkRecord struct {
	ID         int64
	Target     string
	Community  string
	TakenAt    time.Time
	ErrorCount int
}

// Store is a SQLite-backed walk archive.
type Store struct {
	db *sql.DB
}

// Open opens (and initializes) the archive at path. An empty path uses an
// in-memory database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if path == ":memory:" {
		// Each pooled connection would otherwise see its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	// SQLite serializes writes internally; WAL lets reads proceed.
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS walks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		community TEXT NOT NULL DEFAULT '',
		taken_at TIMESTAMP NOT NULL,
		error_count INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_walks_target ON walks(target, taken_at);

	CREATE TABLE IF NOT EXISTS walk_variables (
		walk_id INTEGER NOT NULL REFERENCES walks(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		oid TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (walk_id, position)
	);

	CREATE TABLE IF NOT EXISTS walk_errors (
		walk_id INTEGER NOT NULL REFERENCES walks(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (walk_id, position)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveResponse archives one walk response along with the community it was
// taken with. Variable order is preserved via the position column.
func (s *Store) SaveResponse(ctx context.Context, target, community string, response *snmp.Response) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"INSERT INTO walks (target, community, taken_at, error_count) VALUES (?, ?, ?, ?)",
		target, community, time.Now().UTC(), len(response.Errors))
	if err != nil {
		return 0, fmt.Errorf("insert walk: %w", err)
	}
	walkID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("walk id: %w", err)
	}

	for i, v := range response.Variables.Variables() {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO walk_variables (walk_id, position, oid, value) VALUES (?, ?, ?, ?)",
			walkID, i, v.NameAsString(), v.Value); err != nil {
			return 0, fmt.Errorf("insert variable: %w", err)
		}
	}
	for i, msg := range response.Errors {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO walk_errors (walk_id, position, message) VALUES (?, ?, ?)",
			walkID, i, msg); err != nil {
			return 0, fmt.Errorf("insert error: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return walkID, nil
}

// LastWalk loads the most recent archived response for target. The bool is
// false when the target has never been walked.
func (s *Store) LastWalk(ctx context.Context, target string) (*snmp.Response, bool, error) {
	var walkID int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM walks WHERE target = ? ORDER BY taken_at DESC, id DESC LIMIT 1",
		target).Scan(&walkID)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query last walk: %w", err)
	}

	response, err := s.loadResponse(ctx, walkID)
	if err != nil {
		return nil, false, err
	}
	return response, true, nil
}

func (s *Store) loadResponse(ctx context.Context, walkID int64) (*snmp.Response, error) {
	response := &snmp.Response{Variables: &oid.VariableSet{}}

	rows, err := s.db.QueryContext(ctx,
		"SELECT oid, value FROM walk_variables WHERE walk_id = ? ORDER BY position",
		walkID)
	if err != nil {
		return nil, fmt.Errorf("query variables: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan variable: %w", err)
		}
		response.Variables.AddVariable(oid.NewOID(name), value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variables: %w", err)
	}

	errRows, err := s.db.QueryContext(ctx,
		"SELECT message FROM walk_errors WHERE walk_id = ? ORDER BY position",
		walkID)
	if err != nil {
		return nil, fmt.Errorf("query errors: %w", err)
	}
	defer errRows.Close()
	for errRows.Next() {
		var msg string
		if err := errRows.Scan(&msg); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		response.Errors = append(response.Errors, msg)
	}
	if err := errRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate errors: %w", err)
	}

	return response, nil
}

// Walks lists the archived walks for target, newest first, up to limit.
func (s *Store) Walks(ctx context.Context, target string, limit int) ([]WalkRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, target, community, taken_at, error_count FROM walks WHERE target = ? ORDER BY taken_at DESC, id DESC LIMIT ?",
		target, limit)
	if err != nil {
		return nil, fmt.Errorf("query walks: %w", err)
	}
	defer rows.Close()

	var records []WalkRecord
	for rows.Next() {
		var r WalkRecord
		if err := rows.Scan(&r.ID, &r.Target, &r.Community, &r.TakenAt, &r.ErrorCount); err != nil {
			return nil, fmt.Errorf("scan walk: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
