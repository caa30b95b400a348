package routes

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/finsight/graphview/internal/server/middleware"
	"github.com/finsight/graphview/pkg/common"
	"github.com/finsight/graphview/pkg/graph"

	"github.com/labstack/echo/v4"
)

// GetGraphHandler returns the current snapshot, optionally reduced by the
// category filters. Every toggle defaults to enabled, so a bare request
// returns the full graph.
func GetGraphHandler(c echo.Context) error {
	state := c.(*middleware.AppContext).App.State

	f := graph.NewFilter()
	f.Categories[common.CategoryUser] = boolParam(c, "users", true)
	f.Categories[common.CategoryCompany] = boolParam(c, "companies", true)
	f.Categories[common.CategoryTransaction] = boolParam(c, "transactions", true)

	if raw := c.QueryParam("relationships"); raw != "" {
		for rc := range f.Relationships {
			f.Relationships[rc] = false
		}
		for _, name := range strings.Split(raw, ",") {
			rc := graph.RelationshipCategory(strings.ToUpper(strings.TrimSpace(name)))
			if _, ok := f.Relationships[rc]; !ok {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown relationship category: " + string(rc)})
			}
			f.Relationships[rc] = true
		}
	}

	g := graph.Apply(state.Current(), f)
	return c.JSON(http.StatusOK, g)
}

func boolParam(c echo.Context, name string, fallback bool) bool {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
