// Package report persists mission outcomes to a SQLite database so runs
// can be audited after the fact.
package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/einherij/surveyor/pkg/mission"
)

// Record is one persisted mission run.
type Record struct {
	ID               string
	State            string
	WaypointsVisited int
	PhotosCaptured   int
	Errors           []string
	StartedAt        time.Time
	EndedAt          time.Time
}

// Store wraps SQLite-backed persistence for mission runs.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening report database: %w", err)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const schema = `CREATE TABLE IF NOT EXISTS missions (
        id TEXT PRIMARY KEY,
        state TEXT NOT NULL,
        waypoints_visited INTEGER NOT NULL,
        photos_captured INTEGER NOT NULL,
        errors_json TEXT,
        started_at TIMESTAMP,
        ended_at TIMESTAMP,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("error creating report schema: %w", err)
	}
	return nil
}

// Save writes the outcome of a mission run.
func (s *Store) Save(ctx context.Context, mctx mission.Context, terminal mission.State) error {
	errorsJSON, err := json.Marshal(mctx.Errors)
	if err != nil {
		return fmt.Errorf("error encoding mission errors: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO missions (id, state, waypoints_visited, photos_captured, errors_json, started_at, ended_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		mctx.ID, terminal.String(), mctx.WaypointsVisited, mctx.PhotosCaptured,
		string(errorsJSON), mctx.StartTime, mctx.EndTime,
	)
	if err != nil {
		return fmt.Errorf("error saving mission report: %w", err)
	}
	return nil
}

// Recent returns the latest mission runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, state, waypoints_visited, photos_captured, errors_json, started_at, ended_at
         FROM missions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing mission reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var r Record
		var errorsJSON sql.NullString
		if err := rows.Scan(&r.ID, &r.State, &r.WaypointsVisited, &r.PhotosCaptured, &errorsJSON, &r.StartedAt, &r.EndedAt); err != nil {
			return nil, fmt.Errorf("error scanning mission report: %w", err)
		}
		if errorsJSON.Valid && errorsJSON.String != "" {
			if err := json.Unmarshal([]byte(errorsJSON.String), &r.Errors); err != nil {
				return nil, fmt.Errorf("error decoding mission errors: %w", err)
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
