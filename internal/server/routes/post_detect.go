package routes

import (
	"errors"
	"net/http"

	"github.com/finsight/graphview/internal/server/middleware"
	"github.com/finsight/graphview/pkg/graph"
	"github.com/finsight/graphview/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PostDetectHandler triggers server-side relationship detection upstream and
// reloads the graph so the new edges show up in the snapshot.
func PostDetectHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)
	ctx := c.Request().Context()

	result, err := cc.App.API.DetectRelationships(ctx)
	if err != nil {
		logger.Error("[Server] Relationship detection failed", "request_id", cc.RequestID, "err", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Failed to detect relationships"})
	}

	g, err := cc.App.State.Reload(ctx, cc.App.API, cc.App.Build)
	if errors.Is(err, graph.ErrLoadInProgress) {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Graph load already in progress"})
	}
	if err != nil {
		logger.Error("[Server] Graph reload after detection failed", "request_id", cc.RequestID, "err", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Failed to reload graph data"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"detection": result,
		"nodes":     len(g.Nodes),
		"edges":     len(g.Edges),
	})
}
