package routes

import (
	"net/http"

	"github.com/finsight/graphview/pkg/graph"

	"github.com/labstack/echo/v4"
)

func GetStylesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, graph.Styles())
}
