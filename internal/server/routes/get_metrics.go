package routes

import (
	"net/http"

	"github.com/finsight/graphview/internal/server/middleware"
	"github.com/finsight/graphview/pkg/logger"

	"github.com/labstack/echo/v4"
)

func GetMetricsHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)

	metrics, err := cc.App.API.GraphMetrics(c.Request().Context())
	if err != nil {
		logger.Error("[Server] Metrics lookup failed", "request_id", cc.RequestID, "err", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Failed to query graph metrics"})
	}

	return c.JSON(http.StatusOK, metrics)
}
