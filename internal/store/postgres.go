package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool used by the store. pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool, used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS snapshots (
	id           TEXT PRIMARY KEY,
	kind         TEXT NOT NULL,
	record_count INTEGER NOT NULL,
	payload      JSONB NOT NULL,
	fetched_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS analysis_runs (
	id         TEXT PRIMARY KEY,
	stations   INTEGER NOT NULL,
	crashes    INTEGER NOT NULL,
	summary    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_snapshots_kind ON snapshots(kind, fetched_at);
CREATE INDEX IF NOT EXISTS idx_analysis_runs_created_at ON analysis_runs(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, kind string, recordCount int, payload []byte) (*Snapshot, error) {
	snap := &Snapshot{
		ID:          uuid.New().String(),
		Kind:        kind,
		RecordCount: recordCount,
		Payload:     payload,
		FetchedAt:   time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO snapshots (id, kind, record_count, payload, fetched_at) VALUES ($1, $2, $3, $4, $5)`,
		snap.ID, snap.Kind, snap.RecordCount, payload, snap.FetchedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert snapshot")
	}
	return snap, nil
}

func (s *PostgresStore) LatestSnapshot(ctx context.Context, kind string) (*Snapshot, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, kind, record_count, payload, fetched_at FROM snapshots
		 WHERE kind = $1 ORDER BY fetched_at DESC LIMIT 1`,
		kind,
	)
	var snap Snapshot
	if err := row.Scan(&snap.ID, &snap.Kind, &snap.RecordCount, &snap.Payload, &snap.FetchedAt); err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: latest snapshot %s", kind)
	}
	return &snap, nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, stations, crashes int, summary []byte) (*AnalysisRun, error) {
	run := &AnalysisRun{
		ID:        uuid.New().String(),
		Stations:  stations,
		Crashes:   crashes,
		Summary:   summary,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO analysis_runs (id, stations, crashes, summary, created_at) VALUES ($1, $2, $3, $4, $5)`,
		run.ID, run.Stations, run.Crashes, summary, run.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert analysis run")
	}
	return run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]AnalysisRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, stations, crashes, summary, created_at FROM analysis_runs
		 ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list analysis runs")
	}
	defer rows.Close()

	var runs []AnalysisRun
	for rows.Next() {
		var run AnalysisRun
		if err := rows.Scan(&run.ID, &run.Stations, &run.Crashes, &run.Summary, &run.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan analysis run")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate analysis runs")
	}
	return runs, nil
}
