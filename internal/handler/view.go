package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aferreira/habitloop/internal/auth"
)

// ViewHandler serves the server-rendered pages behind session auth.
type ViewHandler struct {
	Store  HabitStore
	Stats  StatsSource
}

func NewViewHandler(habits HabitStore, stats StatsSource) *ViewHandler {
	return &ViewHandler{Store: habits, Stats: stats}
}

// Habits handles GET /habits: the list is derived from the session's
// principal, with no user id in the request at all.
func (h *ViewHandler) Habits(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}
	habits, err := h.Store.ListByOwner(c.Request().Context(), p.UserID)
	if err != nil {
		return c.Redirect(http.StatusFound, "/error?code=server")
	}
	return c.Render(http.StatusOK, "habits", echo.Map{"Username": p.Username, "Habits": habits})
}

// HabitsForUser handles GET /habits/user/:id, the variant that carries
// an explicit user id in the path. The id is compared against the
// principal and a mismatch redirects with an unauthorized error. It is
// never silently replaced by the principal's own id, so the caller can
// see the request was rejected rather than quietly answered with
// different data.
func (h *ViewHandler) HabitsForUser(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}
	userID, err := pathID(c, "id")
	if err != nil {
		return c.Redirect(http.StatusFound, "/error?code=unauthorized")
	}
	if err := auth.AssertSameUser(p, userID); err != nil {
		return c.Redirect(http.StatusFound, "/error?code=unauthorized")
	}
	habits, err := h.Store.ListByOwner(c.Request().Context(), p.UserID)
	if err != nil {
		return c.Redirect(http.StatusFound, "/error?code=server")
	}
	return c.Render(http.StatusOK, "habits", echo.Map{"Username": p.Username, "Habits": habits})
}

// Dashboard handles GET /dashboard.
func (h *ViewHandler) Dashboard(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}
	summaries, err := h.Stats.Summary(c.Request().Context(), p.UserID)
	if err != nil {
		return c.Redirect(http.StatusFound, "/error?code=server")
	}
	return c.Render(http.StatusOK, "dashboard", echo.Map{"Username": p.Username, "Summaries": summaries})
}

// ErrorPage handles GET /error. It is public so failed redirects always
// have somewhere to land.
func (h *ViewHandler) ErrorPage(c echo.Context) error {
	return c.Render(http.StatusOK, "error", echo.Map{"Code": c.QueryParam("code")})
}
