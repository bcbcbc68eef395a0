// Package router registers the HTTP routes. Route protection is not
// decided here: the access filter classifies every path against its own
// allow-list before routing runs, so adding a route without touching
// the filter leaves it protected by default.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aferreira/habitloop/internal/handler"
)

// RegisterPublic registers the routes on the access filter's public
// allow-list: health, the auth endpoints and the error page.
func RegisterPublic(e *echo.Echo, a *handler.AuthHandler, w *handler.WebAuthHandler, v *handler.ViewHandler) {
	// The landing page is the habits view; the session check happens
	// there, not here.
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/habits")
	})
	e.Static("/static", "static")

	e.GET("/healthz", handler.Health)
	e.GET("/error", v.ErrorPage)

	// Browser login/registration forms.
	e.GET("/login", w.LoginForm)
	e.POST("/login", w.Login)
	e.GET("/register", w.RegisterForm)
	e.POST("/register", w.Register)

	// Programmatic authentication endpoints.
	g := e.Group("/api/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterAPI registers the token-protected API surface under /api/v1.
// The access filter rejects anything here without a valid bearer token
// before these handlers run.
func RegisterAPI(e *echo.Echo, a *handler.AuthHandler, h *handler.HabitHandler, g *handler.GoalHandler, r *handler.RecordHandler, s *handler.StatsHandler) {
	api := e.Group("/api/v1")

	api.GET("/me", a.Me)

	api.POST("/habits", h.Create)
	api.GET("/habits", h.List)
	api.GET("/habits/:id", h.Get)
	api.PUT("/habits/:id", h.Update)
	api.DELETE("/habits/:id", h.Delete)

	api.POST("/habits/:id/records", r.Create)
	api.GET("/habits/:id/records", r.List)

	api.POST("/goals", g.Create)
	api.GET("/goals", g.List)
	api.GET("/goals/:id", g.Get)
	api.PUT("/goals/:id", g.Update)
	api.DELETE("/goals/:id", g.Delete)

	api.GET("/stats/summary", s.Summary)
}

// RegisterViews registers the session-protected, server-rendered pages.
func RegisterViews(e *echo.Echo, v *handler.ViewHandler, w *handler.WebAuthHandler) {
	e.GET("/habits", v.Habits)
	e.GET("/habits/user/:id", v.HabitsForUser)
	e.GET("/dashboard", v.Dashboard)
	e.POST("/logout", w.Logout)
}
