// Package export dumps the entity graph of a parsed STEP model into
// a SQLite database, one row per entity and one per reference edge,
// so a merge result can be inspected with ordinary SQL tooling.
package export

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/weldkit/go-stepweld/step"
)

// Store handles the SQLite database holding exported entity graphs.
// One database may hold any number of runs.
type Store struct {
	db *sql.DB
}

// Run is one exported model.
type Run struct {
	ID        string    `json:"id"`
	File      string    `json:"file"`
	CreatedAt time.Time `json:"created_at"`
}

// Entity is one exported DATA record.
type Entity struct {
	RunID string `json:"run_id"`
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Def   string `json:"def"`
}

// Edge is one reference between two exported records.
type Edge struct {
	RunID string `json:"run_id"`
	From  int64  `json:"from_id"`
	To    int64  `json:"to_id"`
}

// Open creates or opens the database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		file TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS entities (
		run_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		type TEXT NOT NULL,
		def TEXT NOT NULL,
		PRIMARY KEY (run_id, id),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS refs (
		run_id TEXT NOT NULL,
		from_id INTEGER NOT NULL,
		to_id INTEGER NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_entities_run ON entities(run_id);
	CREATE INDEX IF NOT EXISTS idx_refs_run ON refs(run_id);
	CREATE INDEX IF NOT EXISTS idx_refs_from ON refs(run_id, from_id);
	CREATE INDEX IF NOT EXISTS idx_refs_to ON refs(run_id, to_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dump writes the model's entity graph as a new run in a single
// transaction and returns the run id. file names the source of the
// model for later lookup.
func (s *Store) Dump(file string, m *step.Model) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, file, created_at) VALUES (?, ?, ?)`,
		runID, file, time.Now().UTC(),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	insertEntity, err := tx.Prepare(
		`INSERT INTO entities (run_id, id, type, def) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare entity insert: %w", err)
	}
	defer insertEntity.Close()

	insertRef, err := tx.Prepare(
		`INSERT INTO refs (run_id, from_id, to_id) VALUES (?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare ref insert: %w", err)
	}
	defer insertRef.Close()

	for _, e := range m.Entities() {
		if _, err := insertEntity.Exec(runID, e.ID, e.Type, e.Def()); err != nil {
			return "", fmt.Errorf("insert entity #%d: %w", e.ID, err)
		}
		for _, to := range e.Refs() {
			if _, err := insertRef.Exec(runID, e.ID, to); err != nil {
				return "", fmt.Errorf("insert ref #%d -> #%d: %w", e.ID, to, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// Runs returns the exported runs, most recent first.
func (s *Store) Runs() ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, file, created_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.File, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

// Entities returns the records of one run in ascending id order.
func (s *Store) Entities(runID string) ([]*Entity, error) {
	rows, err := s.db.Query(
		`SELECT run_id, id, type, def FROM entities WHERE run_id = ? ORDER BY id`,
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []*Entity
	for rows.Next() {
		var e Entity
		if err := rows.Scan(&e.RunID, &e.ID, &e.Type, &e.Def); err != nil {
			return nil, err
		}
		entities = append(entities, &e)
	}
	return entities, rows.Err()
}

// Edges returns the reference edges of one run ordered by source id.
func (s *Store) Edges(runID string) ([]*Edge, error) {
	rows, err := s.db.Query(
		`SELECT run_id, from_id, to_id FROM refs WHERE run_id = ? ORDER BY from_id, to_id`,
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []*Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.RunID, &e.From, &e.To); err != nil {
			return nil, err
		}
		edges = append(edges, &e)
	}
	return edges, rows.Err()
}
