package auth

import "context"

// UserDirectory is the user-lookup collaborator consumed by the
// resolver. It is implemented by the user repository; the resolver only
// needs to map a username to an existing user ID.
type UserDirectory interface {
	// FindUserIDByUsername returns the user's ID, or ErrUserNotFound
	// (any non-nil error is treated as "absent") when no such user exists.
	FindUserIDByUsername(ctx context.Context, username string) (uint64, error)
}

// Resolver converts ambient request credentials, a session cookie or a
// bearer token, into a Principal. It is stateless and path-agnostic:
// the access filter decides which of the two paths to attempt, and
// exactly one is attempted per request.
type Resolver struct {
	Tokens   *TokenService
	Sessions SessionStore
	Users    UserDirectory
}

// NewResolver wires the resolver's collaborators.
func NewResolver(tokens *TokenService, sessions SessionStore, users UserDirectory) *Resolver {
	return &Resolver{Tokens: tokens, Sessions: sessions, Users: users}
}

// FromToken validates a bearer token and resolves its subject to a
// Principal. Any failure, whether the token is invalid or its username
// no longer maps to an existing user (account deleted after issuance),
// yields ErrUnauthenticated.
func (r *Resolver) FromToken(ctx context.Context, text string) (Principal, error) {
	username, err := r.Tokens.Validate(text)
	if err != nil {
		return Principal{}, ErrUnauthenticated
	}
	return r.resolve(ctx, username)
}

// FromSession looks up a session ID and resolves its username to a
// Principal. Absent or expired sessions, and orphaned sessions whose
// user has since been deleted, all yield ErrUnauthenticated.
func (r *Resolver) FromSession(ctx context.Context, sessionID string) (Principal, error) {
	username, err := r.Sessions.Lookup(ctx, sessionID)
	if err != nil {
		return Principal{}, ErrUnauthenticated
	}
	return r.resolve(ctx, username)
}

func (r *Resolver) resolve(ctx context.Context, username string) (Principal, error) {
	id, err := r.Users.FindUserIDByUsername(ctx, username)
	if err != nil {
		return Principal{}, ErrUnauthenticated
	}
	return Principal{UserID: id, Username: username}, nil
}
