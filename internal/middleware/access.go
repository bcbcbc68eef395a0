// Package middleware provides the request-level access control chain.
// The access filter defined here is the single authorization decision
// point: it classifies every incoming path as public, API or protected
// view, runs the matching authentication strategy, and either attaches
// the resolved principal to the request or rejects it. It must be
// registered ahead of every other middleware and of routing itself.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aferreira/habitloop/internal/auth"
)

// SessionCookie is the name of the opaque session cookie set on form
// login. The cookie value is the session store ID, nothing else.
const SessionCookie = "habitloop_session"

// APIPrefix is the programmatic API namespace. Requests under it are
// authenticated exclusively by bearer token; session cookies are never
// honored there, so a browser's ambient cookie cannot be replayed
// against the API surface.
const APIPrefix = "/api/"

// LoginPath is where unauthenticated browser requests are redirected.
const LoginPath = "/login"

// Strategy authenticates one request. Exactly one strategy runs per
// request, chosen by route classification; each carries its own failure
// rendering because API callers get structured 401s while browsers get
// a redirect.
type Strategy interface {
	Authenticate(c echo.Context) (auth.Principal, error)
	Fail(c echo.Context) error
}

// TokenStrategy authenticates API requests from the Authorization
// header's bearer token.
type TokenStrategy struct {
	Resolver *auth.Resolver
}

// Authenticate extracts the bearer token and resolves it. A missing or
// malformed header is the same failure as an invalid token.
func (s *TokenStrategy) Authenticate(c echo.Context) (auth.Principal, error) {
	header := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return auth.Principal{}, auth.ErrUnauthenticated
	}
	text := strings.TrimPrefix(header, "Bearer ")
	return s.Resolver.FromToken(c.Request().Context(), text)
}

// Fail responds with a structured 401. The body is deliberately
// generic; validation internals are never leaked.
func (s *TokenStrategy) Fail(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}

// SessionStrategy authenticates browser requests from the session cookie.
type SessionStrategy struct {
	Resolver *auth.Resolver
}

// Authenticate reads the session cookie and resolves it. No cookie,
// an expired session, and an orphaned session all fail identically.
func (s *SessionStrategy) Authenticate(c echo.Context) (auth.Principal, error) {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return auth.Principal{}, auth.ErrUnauthenticated
	}
	return s.Resolver.FromSession(c.Request().Context(), cookie.Value)
}

// Fail redirects to the login view. This path serves browsers, so a raw
// 401 would be wrong.
func (s *SessionStrategy) Fail(c echo.Context) error {
	return c.Redirect(http.StatusFound, LoginPath)
}

// AccessFilter classifies routes and dispatches to a strategy. The
// public allow-list is explicit: a path is public only if it matches an
// exact entry or one of the fixed prefixes. Anything unlisted under the
// API namespace needs a token, and anything else needs a session, so
// a route a developer forgets to classify is protected, never public.
// The filter holds only read-only state fixed at construction, so it is
// reentrant across concurrent requests.
type AccessFilter struct {
	token        Strategy
	session      Strategy
	publicExact  map[string]struct{}
	publicPrefix []string
}

// NewAccessFilter builds the filter with the fixed route allow-lists.
func NewAccessFilter(resolver *auth.Resolver) *AccessFilter {
	return &AccessFilter{
		token:   &TokenStrategy{Resolver: resolver},
		session: &SessionStrategy{Resolver: resolver},
		publicExact: map[string]struct{}{
			"/":                     {},
			"/healthz":              {},
			"/error":                {},
			"/login":                {},
			"/register":             {},
			"/api/v1/auth/login":    {},
			"/api/v1/auth/register": {},
		},
		publicPrefix: []string{"/static/"},
	}
}

// public reports whether the path is on the allow-list.
func (f *AccessFilter) public(path string) bool {
	if _, ok := f.publicExact[path]; ok {
		return true
	}
	for _, p := range f.publicPrefix {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Middleware returns the filter as an Echo middleware. Register it with
// e.Pre so it runs before routing and before any static-file handler
// can short-circuit a non-public path.
func (f *AccessFilter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if f.public(path) {
				return next(c)
			}
			strategy := f.session
			if strings.HasPrefix(path, APIPrefix) {
				strategy = f.token
			}
			p, err := strategy.Authenticate(c)
			if err != nil {
				return strategy.Fail(c)
			}
			auth.WithPrincipal(c, p)
			return next(c)
		}
	}
}
