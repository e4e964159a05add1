// Package store persists dataset snapshots and proximity analysis runs.
package store

import (
	"context"
	"encoding/json"
	"time"
)

// Snapshot kinds.
const (
	SnapshotStations = "stations"
	SnapshotCrashes  = "crashes"
)

// Snapshot is one persisted dataset: the combined station table or the
// cleaned crash table, stored as JSON.
type Snapshot struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	RecordCount int             `json:"record_count"`
	Payload     json.RawMessage `json:"payload"`
	FetchedAt   time.Time       `json:"fetched_at"`
}

// AnalysisRun records one proximity analysis: input sizes and the aggregate
// summary produced by the engine.
type AnalysisRun struct {
	ID        string          `json:"id"`
	Stations  int             `json:"stations"`
	Crashes   int             `json:"crashes"`
	Summary   json.RawMessage `json:"summary"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store defines the persistence interface for snapshots and analysis runs.
type Store interface {
	// Snapshots
	SaveSnapshot(ctx context.Context, kind string, recordCount int, payload []byte) (*Snapshot, error)
	LatestSnapshot(ctx context.Context, kind string) (*Snapshot, error)

	// Analysis runs
	SaveRun(ctx context.Context, stations, crashes int, summary []byte) (*AnalysisRun, error)
	ListRuns(ctx context.Context, limit int) ([]AnalysisRun, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
