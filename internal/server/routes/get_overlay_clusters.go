package routes

import (
	"net/http"
	"strconv"

	"github.com/finsight/graphview/internal/server/middleware"
	"github.com/finsight/graphview/pkg/graph"
	"github.com/finsight/graphview/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetOverlayClustersHandler fetches transaction clusters from the upstream
// API and returns one highlight overlay per cluster, computed against the
// current snapshot.
func GetOverlayClustersHandler(c echo.Context) error {
	minClusterSize := intParam(c, "min_cluster_size", 2)
	maxDistance := intParam(c, "max_distance", 2)

	cc := c.(*middleware.AppContext)
	ctx := c.Request().Context()

	clusters, err := cc.App.API.TransactionClusters(ctx, minClusterSize, maxDistance)
	if err != nil {
		logger.Error("[Server] Cluster lookup failed", "request_id", cc.RequestID, "err", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Failed to query transaction clusters"})
	}

	snapshot := cc.App.State.Current()

	type clusterOverlay struct {
		Size              int           `json:"size"`
		CenterTransaction string        `json:"center_transaction"`
		Overlay           graph.Overlay `json:"overlay"`
	}

	out := make([]clusterOverlay, 0, len(clusters))
	for _, cluster := range clusters {
		memberIDs := make([]string, 0, len(cluster.Transactions))
		for _, tx := range cluster.Transactions {
			if id := tx.ID(); id != "" {
				memberIDs = append(memberIDs, id)
			}
		}
		out = append(out, clusterOverlay{
			Size:              cluster.Size,
			CenterTransaction: cluster.CenterTransaction.ID(),
			Overlay:           graph.ClusterOverlay(snapshot, memberIDs),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{"clusters": out})
}

func intParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
