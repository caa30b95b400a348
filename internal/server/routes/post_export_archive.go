package routes

import (
	"bytes"
	"net/http"

	"github.com/finsight/graphview/internal/server/middleware"
	"github.com/finsight/graphview/internal/storage"
	"github.com/finsight/graphview/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PostExportArchiveHandler pulls a full export from the upstream API and
// stores it in the archive bucket. Responds with the object key and a
// time-limited download link.
func PostExportArchiveHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)
	if cc.App.S3 == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Archive storage is not configured"})
	}

	format, err := exportFormat(c.QueryParam("format"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()

	buf := new(bytes.Buffer)
	if _, err := cc.App.API.Export(ctx, format, buf); err != nil {
		logger.Error("[Server] Export fetch failed", "request_id", cc.RequestID, "format", format, "err", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Failed to fetch export"})
	}

	key, err := storage.PutExport(ctx, cc.App.S3, cc.RequestID, string(format), format.ContentType(), buf)
	if err != nil {
		logger.Error("[Server] Export archive upload failed", "request_id", cc.RequestID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to archive export"})
	}

	link, err := storage.GenerateDownloadLink(ctx, cc.App.S3, key)
	if err != nil {
		logger.Warn("[Server] Failed to generate download link", "request_id", cc.RequestID, "key", key, "err", err)
		return c.JSON(http.StatusCreated, map[string]string{"key": key})
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"key": key,
		"url": link,
	})
}

// GetExportArchivesHandler lists archived export keys.
func GetExportArchivesHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)
	if cc.App.S3 == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Archive storage is not configured"})
	}

	keys, err := storage.ListExports(c.Request().Context(), cc.App.S3)
	if err != nil {
		logger.Error("[Server] Failed to list export archives", "request_id", cc.RequestID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list archives"})
	}
	if keys == nil {
		keys = []string{}
	}

	return c.JSON(http.StatusOK, map[string]any{"archives": keys})
}
