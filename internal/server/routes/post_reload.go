package routes

import (
	"errors"
	"net/http"

	"github.com/finsight/graphview/internal/queue"
	"github.com/finsight/graphview/internal/server/middleware"
	"github.com/finsight/graphview/pkg/graph"
	"github.com/finsight/graphview/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PostReloadHandler rebuilds the graph from the upstream API. With
// ?async=true and a queue configured, the rebuild is handed to the worker and
// the request returns immediately. A rebuild already in flight yields 409.
func PostReloadHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)
	app := cc.App

	if boolParam(c, "async", false) && app.Queue != nil {
		requestedBy := ""
		if cc.User != nil {
			requestedBy = cc.User.Subject
		}
		correlationID, err := queue.PublishReload(app.Queue, requestedBy)
		if err != nil {
			logger.Error("[Server] Failed to enqueue reload", "request_id", cc.RequestID, "err", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to enqueue reload"})
		}
		return c.JSON(http.StatusAccepted, map[string]string{"correlation_id": correlationID})
	}

	ctx := c.Request().Context()
	g, err := app.State.Reload(ctx, app.API, app.Build)
	if errors.Is(err, graph.ErrLoadInProgress) {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Graph load already in progress"})
	}
	if err != nil {
		logger.Error("[Server] Graph reload failed", "request_id", cc.RequestID, "err", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Failed to load graph data"})
	}

	if app.Store != nil {
		if _, err := app.Store.SaveSnapshot(ctx, cc.RequestID, g); err != nil {
			logger.Warn("[Server] Failed to save snapshot", "request_id", cc.RequestID, "err", err)
		}
	}

	return c.JSON(http.StatusOK, map[string]int{
		"nodes": len(g.Nodes),
		"edges": len(g.Edges),
	})
}
