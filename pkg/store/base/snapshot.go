package base

import (
	"context"
	"errors"
	"time"

	"github.com/finsight/graphview/pkg/common"
)

// ErrNoSnapshot is returned by LatestSnapshot when nothing has been persisted
// yet.
var ErrNoSnapshot = errors.New("no graph snapshot stored")

// Snapshot is one persisted load result. The graph is stored verbatim so the
// server can serve it immediately on startup without hitting the upstream API.
type Snapshot struct {
	ID            int64
	CorrelationID string
	Graph         *common.Graph
	NodeCount     int
	EdgeCount     int
	CreatedAt     time.Time
}

// SnapshotStore persists assembled graph snapshots. Persistence is optional
// at runtime; callers must tolerate a nil store.
type SnapshotStore interface {
	// SaveSnapshot stores the graph and returns the new snapshot id.
	SaveSnapshot(ctx context.Context, correlationID string, g *common.Graph) (int64, error)

	// LatestSnapshot returns the most recently stored snapshot, or
	// ErrNoSnapshot.
	LatestSnapshot(ctx context.Context) (*Snapshot, error)

	// PruneSnapshots deletes all but the newest keep snapshots.
	PruneSnapshots(ctx context.Context, keep int) error
}
