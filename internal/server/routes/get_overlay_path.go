package routes

import (
	"net/http"
	"strings"

	"github.com/finsight/graphview/internal/server/middleware"
	"github.com/finsight/graphview/pkg/graph"
	"github.com/finsight/graphview/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetOverlayPathHandler asks the upstream API for the shortest path between
// two nodes and turns the result into a highlight overlay for the current
// snapshot. No path between the nodes is a regular answer, not an error.
func GetOverlayPathHandler(c echo.Context) error {
	type pathParams struct {
		SourceID string `query:"source_id" validate:"required"`
		TargetID string `query:"target_id" validate:"required"`
	}

	params := new(pathParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	var relationshipTypes []string
	if raw := c.QueryParam("relationship_types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				relationshipTypes = append(relationshipTypes, t)
			}
		}
	}

	cc := c.(*middleware.AppContext)
	ctx := c.Request().Context()

	path, err := cc.App.API.ShortestPath(ctx, params.SourceID, params.TargetID, relationshipTypes)
	if err != nil {
		logger.Error("[Server] Shortest path lookup failed", "request_id", cc.RequestID, "err", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Failed to query shortest path"})
	}

	if !path.Found {
		return c.JSON(http.StatusOK, map[string]any{
			"found":   false,
			"overlay": graph.ClearOverlay(),
		})
	}

	overlay := graph.PathOverlay(cc.App.State.Current(), path)
	return c.JSON(http.StatusOK, map[string]any{
		"found":       true,
		"path_length": path.PathLength,
		"overlay":     overlay,
	})
}
