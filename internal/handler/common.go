package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/aferreira/habitloop/internal/auth"
)

// principal fetches the identity attached by the access filter. A
// missing principal on a protected route is a routing bug, but it is
// still reported as a 401 rather than trusted.
func principal(c echo.Context) (auth.Principal, error) {
	p, ok := auth.CurrentPrincipal(c)
	if !ok {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return p, nil
}

// pathID parses a numeric :id path segment.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
