package routes

import (
	"errors"
	"net/http"

	"github.com/finsight/graphview/internal/server/middleware"
	"github.com/finsight/graphview/pkg/api"
	"github.com/finsight/graphview/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetExportHandler streams a full export from the upstream API straight
// through to the caller.
func GetExportHandler(c echo.Context) error {
	format, err := exportFormat(c.Param("format"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	cc := c.(*middleware.AppContext)

	c.Response().Header().Set(echo.HeaderContentType, format.ContentType())
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="graph-export.`+string(format)+`"`)
	c.Response().WriteHeader(http.StatusOK)

	if _, err := cc.App.API.Export(c.Request().Context(), format, c.Response()); err != nil {
		logger.Error("[Server] Export stream failed", "request_id", cc.RequestID, "format", format, "err", err)
		return err
	}
	return nil
}

func exportFormat(raw string) (api.ExportFormat, error) {
	switch api.ExportFormat(raw) {
	case api.ExportJSON:
		return api.ExportJSON, nil
	case api.ExportCSV:
		return api.ExportCSV, nil
	default:
		return "", errInvalidExportFormat
	}
}

var errInvalidExportFormat = errors.New("export format must be json or csv")
