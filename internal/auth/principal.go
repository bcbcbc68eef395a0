package auth

import "github.com/labstack/echo/v4"

// Principal is the per-request authenticated identity derived from a
// session or a validated token. It is a transient value that lives only
// for the duration of one request and is never persisted.
type Principal struct {
	UserID   uint64
	Username string
}

// principalKey is the context key under which the access filter stores
// the resolved principal. It is unexported so that only WithPrincipal
// can set it; handlers read it back through CurrentPrincipal. Keeping
// the key private prevents downstream code from smuggling a principal
// in around the filter.
const principalKey = "habitloop.principal"

// WithPrincipal attaches the resolved principal to the request context.
// Only the access filter should call this, after authentication.
func WithPrincipal(c echo.Context, p Principal) {
	c.Set(principalKey, p)
}

// CurrentPrincipal returns the principal attached by the access filter.
// The second return is false when the request never passed through an
// authenticated route, which for correctly registered routes indicates
// a wiring bug rather than a client error.
func CurrentPrincipal(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}
