package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/aferreira/habitloop/internal/auth"
	"github.com/aferreira/habitloop/internal/config"
	"github.com/aferreira/habitloop/internal/repository"
)

// fakeUsers is an in-memory UserAccounts for handler tests.
type fakeUsers struct {
	byUsername map[string]repository.User
	emails     map[string]bool
	nextID     uint64
	lookupErr  error // forced GetByUsername failure when set
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byUsername: map[string]repository.User{},
		emails:     map[string]bool{},
	}
}

func (f *fakeUsers) Create(ctx context.Context, username, email, password string, cost int) (uint64, error) {
	if _, ok := f.byUsername[username]; ok {
		return 0, repository.ErrUsernameExists
	}
	if f.emails[email] {
		return 0, repository.ErrEmailExists
	}
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	f.nextID++
	f.byUsername[username] = repository.User{
		ID: f.nextID, Username: username, Email: email, PasswordHash: hash,
	}
	f.emails[email] = true
	return f.nextID, nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (repository.User, error) {
	if f.lookupErr != nil {
		return repository.User{}, f.lookupErr
	}
	u, ok := f.byUsername[username]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func testConfig() config.Config {
	return config.Config{BcryptCost: 4}
}

func newTestAuthHandler(t *testing.T) (*AuthHandler, *fakeUsers) {
	t.Helper()
	tokens, err := auth.NewTokenService("handler-test-secret", auth.DefaultTokenLifetime)
	require.NoError(t, err)
	users := newFakeUsers()
	return NewAuthHandler(testConfig(), users, tokens), users
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestRegisterCreatesUser(t *testing.T) {
	t.Parallel()
	h, users := newTestAuthHandler(t)
	e := echo.New()

	req := jsonRequest(http.MethodPost, "/api/v1/auth/register",
		`{"username":"ana","email":"ana@x.com","password":"Secr3t!"}`)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Register(e.NewContext(req, rec)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"username":"ana"`)

	stored := users.byUsername["ana"]
	require.NotEqual(t, "Secr3t!", stored.PasswordHash)
	require.True(t, auth.VerifyPassword(stored.PasswordHash, "Secr3t!"))
}

func TestRegisterDuplicateFields(t *testing.T) {
	t.Parallel()
	h, _ := newTestAuthHandler(t)
	e := echo.New()

	req := jsonRequest(http.MethodPost, "/api/v1/auth/register",
		`{"username":"ana","email":"ana@x.com","password":"Secr3t!"}`)
	require.NoError(t, h.Register(e.NewContext(req, httptest.NewRecorder())))

	// Same username, different email: the username field is named.
	req = jsonRequest(http.MethodPost, "/api/v1/auth/register",
		`{"username":"ana","email":"other@x.com","password":"pw"}`)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Register(e.NewContext(req, rec)))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), `"field":"username"`)

	// Different username, same email: the email field is named.
	req = jsonRequest(http.MethodPost, "/api/v1/auth/register",
		`{"username":"bob","email":"ana@x.com","password":"pw"}`)
	rec = httptest.NewRecorder()
	require.NoError(t, h.Register(e.NewContext(req, rec)))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), `"field":"email"`)
}

func TestRegisterMissingFields(t *testing.T) {
	t.Parallel()
	h, _ := newTestAuthHandler(t)
	e := echo.New()

	req := jsonRequest(http.MethodPost, "/api/v1/auth/register", `{"username":"ana"}`)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Register(e.NewContext(req, rec)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginReturnsValidToken(t *testing.T) {
	t.Parallel()
	h, _ := newTestAuthHandler(t)
	e := echo.New()

	req := jsonRequest(http.MethodPost, "/api/v1/auth/register",
		`{"username":"ana","email":"ana@x.com","password":"Secr3t!"}`)
	require.NoError(t, h.Register(e.NewContext(req, httptest.NewRecorder())))

	req = jsonRequest(http.MethodPost, "/api/v1/auth/login",
		`{"username":"ana","password":"Secr3t!"}`)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Login(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"token"`)

	// The returned token validates back to the same subject.
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	username, err := h.Tokens.Validate(resp.Token)
	require.NoError(t, err)
	require.Equal(t, "ana", username)
}

// The failure body must not reveal whether the username existed.
func TestLoginFailureIsGeneric(t *testing.T) {
	t.Parallel()
	h, _ := newTestAuthHandler(t)
	e := echo.New()

	req := jsonRequest(http.MethodPost, "/api/v1/auth/register",
		`{"username":"ana","email":"ana@x.com","password":"Secr3t!"}`)
	require.NoError(t, h.Register(e.NewContext(req, httptest.NewRecorder())))

	wrongPassword := httptest.NewRecorder()
	req = jsonRequest(http.MethodPost, "/api/v1/auth/login",
		`{"username":"ana","password":"wrong"}`)
	require.NoError(t, h.Login(e.NewContext(req, wrongPassword)))

	unknownUser := httptest.NewRecorder()
	req = jsonRequest(http.MethodPost, "/api/v1/auth/login",
		`{"username":"nobody","password":"wrong"}`)
	require.NoError(t, h.Login(e.NewContext(req, unknownUser)))

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	require.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestMeEchoesPrincipal(t *testing.T) {
	t.Parallel()
	h, _ := newTestAuthHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	auth.WithPrincipal(c, auth.Principal{UserID: 5, Username: "ana"})

	require.NoError(t, h.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"username":"ana"`)
	require.Contains(t, rec.Body.String(), `"user_id":5`)
}
