// Package history persists per-iteration loss-term values to sqlite, one row
// per (run, iteration, term), so training runs can be compared after the
// fact.
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Point is one recorded value of a term's series.
type Point struct {
	Iter int
	Val  float64
}

// Store records loss histories in a sqlite database. It implements
// hotspot.HistorySink and is safe for use from a single training loop plus
// concurrent readers.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS loss_history (
	run_id     TEXT    NOT NULL,
	iteration  INTEGER NOT NULL,
	term       TEXT    NOT NULL,
	value      REAL    NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_history_series ON loss_history (run_id, term, iteration);
`

// Open creates (or reopens) the database at path, making parent directories
// as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, errors.Wrapf(err, "Failed to create directory %q", dir)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open database %q", path)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "Failed to initialize schema in %q", path)
	}

	return &Store{db: db}, nil
}

// Append records the term values of one step, atomically.
func (s *Store) Append(runID string, iter int, terms map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrapf(err, "Failed to begin transaction")
	}

	stmt, err := tx.Prepare("INSERT INTO loss_history (run_id, iteration, term, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "Failed to prepare insert")
	}
	defer stmt.Close()

	for term, val := range terms {
		if _, err := stmt.Exec(runID, iter, term, val); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "Failed to record term %q at iteration %d", term, iter)
		}
	}

	return tx.Commit()
}

// Series returns the recorded values of one term of one run, in iteration
// order.
func (s *Store) Series(runID, term string) ([]Point, error) {
	rows, err := s.db.Query(
		"SELECT iteration, value FROM loss_history WHERE run_id = ? AND term = ? ORDER BY iteration",
		runID, term)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to query series %q of run %q", term, runID)
	}
	defer rows.Close()

	var series []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.Iter, &p.Val); err != nil {
			return nil, errors.Wrapf(err, "Failed to scan series row")
		}

		series = append(series, p)
	}

	return series, rows.Err()
}

// Runs returns the distinct run ids present in the store.
func (s *Store) Runs() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT run_id FROM loss_history ORDER BY run_id")
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to query runs")
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrapf(err, "Failed to scan run id")
		}

		runs = append(runs, id)
	}

	return runs, rows.Err()
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
