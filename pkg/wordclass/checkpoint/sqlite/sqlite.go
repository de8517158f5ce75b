// Package sqlite implements checkpoint.Store on top of
// modernc.org/sqlite, the same pure-Go driver and WAL-mode setup the
// teacher's store/sqlite package uses.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/wordclass/pkg/wordclass/checkpoint"
	"github.com/cognicore/wordclass/pkg/wordclass/classes"
	"github.com/cognicore/wordclass/pkg/wordclass/vocab"
)

type store struct {
	db *sql.DB
}

// Open opens (creating if absent) a sqlite checkpoint database at path,
// enabling WAL mode for concurrent readers the way the teacher's
// OpenSQLite does.
func Open(ctx context.Context, path string) (checkpoint.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &store{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	corpus_path TEXT NOT NULL,
	num_classes INTEGER NOT NULL,
	started_at TEXT NOT NULL,
	iterations INTEGER NOT NULL,
	commits INTEGER NOT NULL,
	final_log_likelihood REAL NOT NULL,
	stopped_reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_corpus ON runs(corpus_path, started_at);

CREATE TABLE IF NOT EXISTS assignments (
	run_id TEXT NOT NULL,
	token TEXT NOT NULL,
	class_id INTEGER NOT NULL,
	PRIMARY KEY (run_id, token),
	FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *store) Close() error { return s.db.Close() }

func (s *store) SaveRun(ctx context.Context, meta checkpoint.RunMetadata) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (run_id, corpus_path, num_classes, started_at, iterations, commits, final_log_likelihood, stopped_reason)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(run_id) DO UPDATE SET
	iterations=excluded.iterations,
	commits=excluded.commits,
	final_log_likelihood=excluded.final_log_likelihood,
	stopped_reason=excluded.stopped_reason
`,
		meta.RunID, meta.CorpusPath, meta.NumClasses, meta.StartedAt.Format(time.RFC3339),
		meta.Iterations, meta.Commits, meta.FinalLogLikelihood, meta.StoppedReason)
	return err
}

func (s *store) SaveAssignment(ctx context.Context, runID string, v *vocab.Vocabulary, asg *classes.Assignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO assignments (run_id, token, class_id) VALUES (?, ?, ?)
ON CONFLICT(run_id, token) DO UPDATE SET class_id=excluded.class_id
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for id := 0; id < v.Size(); id++ {
		if _, err := stmt.ExecContext(ctx, runID, v.Word(id), asg.Class(id)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *store) LoadAssignment(ctx context.Context, runID string, v *vocab.Vocabulary, asg *classes.Assignment) error {
	rows, err := s.db.QueryContext(ctx, `SELECT token, class_id FROM assignments WHERE run_id = ?`, runID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var tok string
		var class int
		if err := rows.Scan(&tok, &class); err != nil {
			return err
		}
		if id, ok := v.ID(tok); ok {
			asg.Move(id, class)
		}
	}
	return rows.Err()
}

func (s *store) LatestRun(ctx context.Context, corpusPath string) (checkpoint.RunMetadata, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT run_id, corpus_path, num_classes, started_at, iterations, commits, final_log_likelihood, stopped_reason
FROM runs WHERE corpus_path = ? ORDER BY started_at DESC LIMIT 1
`, corpusPath)

	var meta checkpoint.RunMetadata
	var startedAt string
	err := row.Scan(&meta.RunID, &meta.CorpusPath, &meta.NumClasses, &startedAt,
		&meta.Iterations, &meta.Commits, &meta.FinalLogLikelihood, &meta.StoppedReason)
	if err == sql.ErrNoRows {
		return checkpoint.RunMetadata{}, false, nil
	}
	if err != nil {
		return checkpoint.RunMetadata{}, false, err
	}
	meta.StartedAt, err = time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return checkpoint.RunMetadata{}, false, err
	}
	return meta, true, nil
}
