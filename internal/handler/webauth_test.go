package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/aferreira/habitloop/internal/auth"
	"github.com/aferreira/habitloop/internal/middleware"
)

func newTestWebHandler(t *testing.T) (*WebAuthHandler, *fakeUsers, auth.SessionStore) {
	t.Helper()
	users := newFakeUsers()
	sessions := auth.NewMemorySessionStore(time.Hour)
	return NewWebAuthHandler(testConfig(), users, sessions), users, sessions
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func registerTestUser(t *testing.T, users *fakeUsers) {
	t.Helper()
	_, err := users.Create(context.Background(), "ana", "ana@x.com", "Secr3t!", 4)
	require.NoError(t, err)
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestWebLoginSetsSessionCookie(t *testing.T) {
	t.Parallel()
	h, users, sessions := newTestWebHandler(t)
	registerTestUser(t, users)
	e := echo.New()

	rec := httptest.NewRecorder()
	req := formRequest("/login", url.Values{"username": {"ana"}, "password": {"Secr3t!"}})
	require.NoError(t, h.Login(e.NewContext(req, rec)))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/habits", rec.Header().Get("Location"))

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)
	require.NotEmpty(t, cookie.Value)

	// The cookie value resolves through the session store.
	username, err := sessions.Lookup(context.Background(), cookie.Value)
	require.NoError(t, err)
	require.Equal(t, "ana", username)
}

func TestWebLoginBadCredentials(t *testing.T) {
	t.Parallel()
	h, users, _ := newTestWebHandler(t)
	registerTestUser(t, users)
	e := echo.New()

	for _, values := range []url.Values{
		{"username": {"ana"}, "password": {"wrong"}},
		{"username": {"nobody"}, "password": {"wrong"}},
	} {
		rec := httptest.NewRecorder()
		require.NoError(t, h.Login(e.NewContext(formRequest("/login", values), rec)))
		// Same redirect whether the username existed or not, and no
		// session cookie was set on the failed attempt.
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/login?error=credentials", rec.Header().Get("Location"))
		require.Nil(t, sessionCookie(rec))
	}
}

// A failing user lookup is not a credential problem: the browser lands
// on the error page, not back on the login form.
func TestWebLoginLookupFailure(t *testing.T) {
	t.Parallel()
	h, users, _ := newTestWebHandler(t)
	registerTestUser(t, users)
	users.lookupErr = errors.New("driver: bad connection")
	e := echo.New()

	rec := httptest.NewRecorder()
	req := formRequest("/login", url.Values{"username": {"ana"}, "password": {"Secr3t!"}})
	require.NoError(t, h.Login(e.NewContext(req, rec)))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/error?code=server", rec.Header().Get("Location"))
	require.Nil(t, sessionCookie(rec))
}

func TestWebRegisterRedirects(t *testing.T) {
	t.Parallel()
	h, _, _ := newTestWebHandler(t)
	e := echo.New()

	rec := httptest.NewRecorder()
	req := formRequest("/register", url.Values{
		"username": {"ana"}, "email": {"ana@x.com"}, "password": {"Secr3t!"},
	})
	require.NoError(t, h.Register(e.NewContext(req, rec)))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	// Duplicate username points back at the form naming the field.
	rec = httptest.NewRecorder()
	req = formRequest("/register", url.Values{
		"username": {"ana"}, "email": {"other@x.com"}, "password": {"pw"},
	})
	require.NoError(t, h.Register(e.NewContext(req, rec)))
	require.Equal(t, "/register?error=username", rec.Header().Get("Location"))
}

func TestWebLogoutDestroysSession(t *testing.T) {
	t.Parallel()
	h, users, sessions := newTestWebHandler(t)
	registerTestUser(t, users)
	e := echo.New()

	id, err := sessions.Create(context.Background(), "ana")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: id})
	require.NoError(t, h.Logout(e.NewContext(req, rec)))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	// Server-side state is gone and the cookie is explicitly expired.
	_, err = sessions.Lookup(context.Background(), id)
	require.ErrorIs(t, err, auth.ErrNoSession)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	require.Empty(t, cookie.Value)
	require.Equal(t, -1, cookie.MaxAge)
}
