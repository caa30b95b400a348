package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/finsight/graphview/pkg/common"
	"github.com/finsight/graphview/pkg/store/base"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgx.Row
}

// SnapshotStore implements base.SnapshotStore on PostgreSQL. Nodes and edges
// are stored as JSONB columns of the graph_snapshots table (see migrations).
type SnapshotStore struct {
	conn pgxIConn
}

// NewSnapshotStore creates a store over an existing connection or pool.
func NewSnapshotStore(conn pgxIConn) *SnapshotStore {
	return &SnapshotStore{conn: conn}
}

// SaveSnapshot stores the graph and returns the new snapshot id.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, correlationID string, g *common.Graph) (int64, error) {
	nodes, err := json.Marshal(g.Nodes)
	if err != nil {
		return 0, fmt.Errorf("failed to encode nodes: %w", err)
	}
	edges, err := json.Marshal(g.Edges)
	if err != nil {
		return 0, fmt.Errorf("failed to encode edges: %w", err)
	}

	var id int64
	err = s.conn.QueryRow(ctx, `
		INSERT INTO graph_snapshots (correlation_id, nodes, edges, node_count, edge_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		correlationID, nodes, edges, len(g.Nodes), len(g.Edges),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return id, nil
}

// LatestSnapshot returns the most recently stored snapshot.
func (s *SnapshotStore) LatestSnapshot(ctx context.Context) (*base.Snapshot, error) {
	snap := new(base.Snapshot)
	var nodes, edges []byte

	err := s.conn.QueryRow(ctx, `
		SELECT id, correlation_id, nodes, edges, node_count, edge_count, created_at
		FROM graph_snapshots
		ORDER BY id DESC
		LIMIT 1`,
	).Scan(&snap.ID, &snap.CorrelationID, &nodes, &edges, &snap.NodeCount, &snap.EdgeCount, &snap.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, base.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	g := new(common.Graph)
	if err := json.Unmarshal(nodes, &g.Nodes); err != nil {
		return nil, fmt.Errorf("failed to decode nodes: %w", err)
	}
	if err := json.Unmarshal(edges, &g.Edges); err != nil {
		return nil, fmt.Errorf("failed to decode edges: %w", err)
	}
	snap.Graph = g
	return snap, nil
}

// PruneSnapshots deletes all but the newest keep snapshots.
func (s *SnapshotStore) PruneSnapshots(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := s.conn.Exec(ctx, `
		DELETE FROM graph_snapshots
		WHERE id NOT IN (
			SELECT id FROM graph_snapshots ORDER BY id DESC LIMIT $1
		)`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return nil
}
