package routes

import (
	"net/http"

	"github.com/finsight/graphview/internal/server/middleware"
	"github.com/finsight/graphview/pkg/common"

	"github.com/labstack/echo/v4"
)

func GetSearchHandler(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing query parameter q"})
	}

	state := c.(*middleware.AppContext).App.State
	matches := state.Search(q)
	if matches == nil {
		matches = []common.Node{}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"query":   q,
		"matches": matches,
	})
}
