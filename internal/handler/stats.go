package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// StatsHandler serves the dashboard aggregates. The query is scoped by
// the principal's user ID only; there is no way to ask for another
// user's numbers.
type StatsHandler struct {
	Stats StatsSource
}

func NewStatsHandler(stats StatsSource) *StatsHandler {
	return &StatsHandler{Stats: stats}
}

// Summary handles GET /api/v1/stats/summary.
func (h *StatsHandler) Summary(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	summaries, err := h.Stats.Summary(c.Request().Context(), p.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, summaries)
}
