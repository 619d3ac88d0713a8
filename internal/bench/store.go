// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at INTEGER NOT NULL,
	queue       TEXT    NOT NULL,
	threads     INTEGER NOT NULL,
	unit        TEXT    NOT NULL,
	value       REAL    NOT NULL
);
CREATE INDEX IF NOT EXISTS results_queue_unit ON results(queue, unit);
`

// Store keeps results of many runs in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the database at path. ":memory:" gives a
// private in-memory store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("bench: open %s: %w", path, err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("bench: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends results in one transaction.
func (s *Store) Record(ctx context.Context, results ...Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (recorded_at, queue, threads, unit, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, r := range results {
		if _, err := stmt.ExecContext(ctx, now, r.Queue, r.Threads, r.Unit, r.Value); err != nil {
			return fmt.Errorf("bench: record %s: %w", r.Queue, err)
		}
	}
	return tx.Commit()
}

// Results returns every stored result in insertion order.
func (s *Store) Results(ctx context.Context) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT queue, threads, unit, value FROM results ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Queue, &r.Threads, &r.Unit, &r.Value); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Report aggregates all stored runs.
func (s *Store) Report(ctx context.Context) (Report, error) {
	results, err := s.Results(ctx)
	if err != nil {
		return Report{}, err
	}
	return Aggregate(results), nil
}
