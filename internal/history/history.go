// Package history records train and test runs in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Run modes.
const (
	ModeTrain = "train"
	ModeTest  = "test"
)

// ErrInvalidRun is returned by Record for runs missing required fields.
var ErrInvalidRun = errors.New("invalid run")

// Run is one recorded invocation.
type Run struct {
	ID           string        // Assigned by Record when empty.
	ModelID      string        // Weight document id.
	Mode         string        // ModeTrain or ModeTest.
	Dataset      string        // Dataset path.
	Examples     int           // Examples trained on or scored.
	Epochs       int           // Zero for test runs.
	HiddenNodes  int           // Hidden layer size.
	LearningRate float64       // Network learning rate.
	Accuracy     *float64      // Percentage, nil when the run was not scored.
	Duration     time.Duration // Wall time.
	StartedAt    time.Time     // Assigned by Record when zero.
}

const schema = `
CREATE TABLE IF NOT EXISTS runs(
	id            TEXT PRIMARY KEY,
	model_id      TEXT NOT NULL,
	mode          TEXT NOT NULL,
	dataset       TEXT NOT NULL,
	examples      INTEGER NOT NULL,
	epochs        INTEGER NOT NULL,
	hidden_nodes  INTEGER NOT NULL,
	learning_rate REAL NOT NULL,
	accuracy      REAL,
	duration_ns   INTEGER NOT NULL,
	started_at_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs(started_at_ns);
`

// Store is a run log backed by a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the run log at path. ":memory:" gives a private
// in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history %s: %w", path, err)
	}
	// One connection: the CLI is the only writer, and ":memory:" databases
	// are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts run, filling in ID and StartedAt when they are unset.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.Mode != ModeTrain && run.Mode != ModeTest {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidRun, run.Mode)
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	var accuracy sql.Null[float64]
	if run.Accuracy != nil {
		accuracy = sql.Null[float64]{V: *run.Accuracy, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO runs(
		id, model_id, mode, dataset, examples, epochs, hidden_nodes,
		learning_rate, accuracy, duration_ns, started_at_ns
	) VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		run.ID, run.ModelID, run.Mode, run.Dataset, run.Examples, run.Epochs, run.HiddenNodes,
		run.LearningRate, accuracy, int64(run.Duration), run.StartedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. limit <= 0 returns all runs.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `SELECT
		id, model_id, mode, dataset, examples, epochs, hidden_nodes,
		learning_rate, accuracy, duration_ns, started_at_ns
	FROM runs ORDER BY started_at_ns DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			accuracy  sql.Null[float64]
			duration  int64
			startedAt int64
		)
		if err := rows.Scan(
			&run.ID, &run.ModelID, &run.Mode, &run.Dataset, &run.Examples, &run.Epochs, &run.HiddenNodes,
			&run.LearningRate, &accuracy, &duration, &startedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if accuracy.Valid {
			run.Accuracy = &accuracy.V
		}
		run.Duration = time.Duration(duration)
		run.StartedAt = time.Unix(0, startedAt)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}
