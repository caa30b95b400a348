package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/finsight/graphview/internal/util"
	"github.com/finsight/graphview/pkg/graph"
	"github.com/finsight/graphview/pkg/logger"
	"github.com/finsight/graphview/pkg/store/base"

	"github.com/goccy/go-json"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rabbitmq/amqp091-go"
)

type ReloadMessage struct {
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id"`
	RequestedBy   string `json:"requested_by,omitempty"`
}

// PublishReload enqueues a graph rebuild and returns the correlation id.
func PublishReload(ch *amqp091.Channel, requestedBy string) (string, error) {
	correlationID, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate correlation id: %w", err)
	}

	data := ReloadMessage{
		Message:       "Rebuild graph from source",
		CorrelationID: correlationID,
		RequestedBy:   requestedBy,
	}

	msgBytes, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal reload message: %w", err)
	}

	if err := PublishFIFO(ch, ReloadQueue, msgBytes); err != nil {
		return "", fmt.Errorf("failed to publish reload message: %w", err)
	}

	return correlationID, nil
}

// ProcessReloadMessage rebuilds the graph from the upstream API and, when a
// snapshot store is configured, persists the result. A reload already running
// in this process is not an error: the message is dropped so the retry queue
// does not hammer a busy instance.
func ProcessReloadMessage(
	ctx context.Context,
	src graph.Source,
	state *graph.State,
	store base.SnapshotStore,
	msg string,
) error {
	data := new(ReloadMessage)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}

	logger.Info("[Queue] Rebuilding graph", "correlation_id", data.CorrelationID)

	params := graph.BuildParams{Parallelism: int(util.GetEnvNumeric("GRAPH_FETCH_PARALLELISM", 8))}
	g, err := state.Reload(ctx, src, params)
	if errors.Is(err, graph.ErrLoadInProgress) {
		logger.Warn("[Queue] Reload already in progress, dropping message", "correlation_id", data.CorrelationID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to rebuild graph: %w", err)
	}

	logger.Info("[Queue] Graph rebuilt", "correlation_id", data.CorrelationID, "nodes", len(g.Nodes), "edges", len(g.Edges))

	if store == nil {
		return nil
	}

	id, err := util.RetryWithContext(ctx, 3, func(ctx context.Context) (int64, error) {
		return store.SaveSnapshot(ctx, data.CorrelationID, g)
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	pruneErr := util.RetryErrWithContext(ctx, 3, func(ctx context.Context) error {
		return store.PruneSnapshots(ctx, snapshotsToKeep)
	})
	if pruneErr != nil {
		logger.Warn("[Queue] Failed to prune old snapshots", "err", pruneErr)
	}

	logger.Info("[Queue] Snapshot saved", "snapshot_id", id, "correlation_id", data.CorrelationID)
	return nil
}

const snapshotsToKeep = 10
