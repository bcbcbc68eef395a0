// Package auth implements the authentication and access-control core:
// password hashing, bearer token issuing/validation, session storage,
// principal resolution and the ownership check used by handlers that
// touch user-scoped resources.
package auth

import "errors"

// ErrInvalidInput is returned for caller errors such as empty passwords.
// Handlers should translate this into an HTTP 400 response.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidToken is the single failure value for token validation. A
// malformed token, a bad signature and an expired token all produce this
// same error so that callers cannot probe why a token was rejected.
var ErrInvalidToken = errors.New("invalid token")

// ErrUnauthenticated is returned when no principal could be resolved from
// the request's credentials. API handlers translate it into 401; view
// handlers redirect to the login page instead.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrForbidden is returned when an authenticated principal is not the
// owner of the resource it is trying to access. Distinct from
// ErrUnauthenticated: the caller proved an identity, just not the right one.
var ErrForbidden = errors.New("forbidden")

// ErrNoSession is returned by session stores when the given session ID
// does not exist or has expired.
var ErrNoSession = errors.New("session not found")
