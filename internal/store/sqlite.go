package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS snapshots (
	id           TEXT PRIMARY KEY,
	kind         TEXT NOT NULL,
	record_count INTEGER NOT NULL,
	payload      TEXT NOT NULL,
	fetched_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS analysis_runs (
	id         TEXT PRIMARY KEY,
	stations   INTEGER NOT NULL,
	crashes    INTEGER NOT NULL,
	summary    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_snapshots_kind ON snapshots(kind, fetched_at);
CREATE INDEX IF NOT EXISTS idx_analysis_runs_created_at ON analysis_runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, kind string, recordCount int, payload []byte) (*Snapshot, error) {
	snap := &Snapshot{
		ID:          uuid.New().String(),
		Kind:        kind,
		RecordCount: recordCount,
		Payload:     payload,
		FetchedAt:   time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, kind, record_count, payload, fetched_at) VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.Kind, snap.RecordCount, string(payload), snap.FetchedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert snapshot")
	}
	return snap, nil
}

func (s *SQLiteStore) LatestSnapshot(ctx context.Context, kind string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, record_count, payload, fetched_at FROM snapshots
		 WHERE kind = ? ORDER BY fetched_at DESC LIMIT 1`,
		kind,
	)
	var snap Snapshot
	var payload string
	if err := row.Scan(&snap.ID, &snap.Kind, &snap.RecordCount, &payload, &snap.FetchedAt); err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: latest snapshot %s", kind)
	}
	snap.Payload = []byte(payload)
	return &snap, nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, stations, crashes int, summary []byte) (*AnalysisRun, error) {
	run := &AnalysisRun{
		ID:        uuid.New().String(),
		Stations:  stations,
		Crashes:   crashes,
		Summary:   summary,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analysis_runs (id, stations, crashes, summary, created_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Stations, run.Crashes, string(summary), run.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert analysis run")
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]AnalysisRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, stations, crashes, summary, created_at FROM analysis_runs
		 ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list analysis runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []AnalysisRun
	for rows.Next() {
		var run AnalysisRun
		var summary string
		if err := rows.Scan(&run.ID, &run.Stations, &run.Crashes, &summary, &run.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan analysis run")
		}
		run.Summary = []byte(summary)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate analysis runs")
	}
	return runs, nil
}
