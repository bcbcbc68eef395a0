package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/aferreira/habitloop/internal/auth"
)

type fakeDirectory struct {
	users map[string]uint64
}

func (f *fakeDirectory) FindUserIDByUsername(ctx context.Context, username string) (uint64, error) {
	id, ok := f.users[username]
	if !ok {
		return 0, errors.New("user not found")
	}
	return id, nil
}

// testServer builds an Echo instance with the access filter in front of
// probe routes covering each route class. Handlers report whether a
// principal was attached.
func testServer(t *testing.T) (*echo.Echo, *auth.Resolver) {
	t.Helper()

	tokens, err := auth.NewTokenService("filter-test-secret", auth.DefaultTokenLifetime)
	require.NoError(t, err)
	dir := &fakeDirectory{users: map[string]uint64{"ana": 5, "bob": 7}}
	resolver := auth.NewResolver(tokens, auth.NewMemorySessionStore(time.Hour), dir)

	e := echo.New()
	e.Pre(NewAccessFilter(resolver).Middleware())

	probe := func(c echo.Context) error {
		p, ok := auth.CurrentPrincipal(c)
		if !ok {
			return c.JSON(http.StatusOK, echo.Map{"principal": nil})
		}
		return c.JSON(http.StatusOK, echo.Map{"principal": p.Username, "user_id": p.UserID})
	}
	e.GET("/login", probe)
	e.POST("/api/v1/auth/login", probe)
	e.GET("/habits", probe)
	e.GET("/dashboard", probe)
	e.GET("/api/v1/habits", probe)
	e.GET("/api/v1/me", probe)

	return e, resolver
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutesNeedNoCredentials(t *testing.T) {
	t.Parallel()
	e, _ := testServer(t)

	for _, r := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/login", nil),
		httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil),
	} {
		rec := do(e, r)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestAPIWithoutTokenIs401(t *testing.T) {
	t.Parallel()
	e, _ := testServer(t)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/api/v1/habits", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "unauthorized")
}

func TestAPIWithValidTokenAttachesPrincipal(t *testing.T) {
	t.Parallel()
	e, resolver := testServer(t)

	tok, err := resolver.Tokens.Issue("ana")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Text)
	rec := do(e, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"principal":"ana"`)
	require.Contains(t, rec.Body.String(), `"user_id":5`)
}

func TestAPIWithBadTokenIs401(t *testing.T) {
	t.Parallel()
	e, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/habits", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := do(e, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

// A session cookie must never authenticate an API request; otherwise a
// browser's ambient cookie could be replayed against the API.
func TestAPINeverFallsBackToSession(t *testing.T) {
	t.Parallel()
	e, resolver := testServer(t)

	id, err := resolver.Sessions.Create(context.Background(), "ana")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/habits", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
	rec := do(e, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestViewWithoutSessionRedirectsToLogin(t *testing.T) {
	t.Parallel()
	e, _ := testServer(t)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/habits", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, LoginPath, rec.Header().Get("Location"))
}

func TestViewWithValidSessionAttachesPrincipal(t *testing.T) {
	t.Parallel()
	e, resolver := testServer(t)

	id, err := resolver.Sessions.Create(context.Background(), "bob")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/habits", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
	rec := do(e, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"principal":"bob"`)
}

func TestViewWithStaleSessionRedirects(t *testing.T) {
	t.Parallel()
	e, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "long-gone-session-id"})
	rec := do(e, req)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, LoginPath, rec.Header().Get("Location"))
}

// A bearer token must not authenticate a view route: exactly one
// strategy is attempted per request, selected by route class.
func TestViewIgnoresBearerToken(t *testing.T) {
	t.Parallel()
	e, resolver := testServer(t)

	tok, err := resolver.Tokens.Issue("ana")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/habits", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Text)
	rec := do(e, req)
	require.Equal(t, http.StatusFound, rec.Code)
}

// Unregistered paths are still protected: the allow-list is explicit,
// so a route nobody classified defaults to session-protected, never to
// public.
func TestUnclassifiedPathIsProtected(t *testing.T) {
	t.Parallel()
	e, _ := testServer(t)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/some/new/page", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, LoginPath, rec.Header().Get("Location"))
}
