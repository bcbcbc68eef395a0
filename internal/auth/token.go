package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenLifetime is how long an issued bearer token stays valid.
const DefaultTokenLifetime = 24 * time.Hour

// ExpirySkew is the clock-drift tolerance applied only to the expiry
// check when validating a token, to absorb drift between the issuing
// and the validating host. It is never applied at issuance.
const ExpirySkew = 60 * time.Second

// Token is a signed bearer credential along with its expiry. The Text
// field contains the serialized JWT (header.claims.signature) that the
// client presents in the Authorization header. Tokens are stateless:
// no server-side record is kept and a token cannot be revoked before
// its natural expiry.
type Token struct {
	Text      string    `json:"token"`
	ExpiresAt time.Time `json:"expires"`
}

// TokenService issues and validates HS256-signed bearer tokens carrying
// the username as the subject claim. It holds no mutable state beyond
// the signing key fixed at startup, so it is safe for concurrent use.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time // overridable in tests
}

// NewTokenService builds a TokenService from the signing secret and the
// token lifetime. An empty secret is a configuration error; callers
// treat it as fatal at boot. A non-positive lifetime falls back to
// DefaultTokenLifetime.
func NewTokenService(secret string, lifetime time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: signing secret is empty")
	}
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	return &TokenService{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// Issue signs a new token for the given username. The claims carry the
// subject (username), issued-at and expiry timestamps in UTC.
func (s *TokenService) Issue(username string) (Token, error) {
	if username == "" {
		return Token{}, ErrInvalidInput
	}
	now := s.now().UTC()
	exp := now.Add(s.lifetime)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Text: signed, ExpiresAt: exp}, nil
}

// Validate parses and verifies a serialized token and returns the
// subject username. Every failure mode (malformed structure, signature
// mismatch, wrong algorithm, expiry) collapses into ErrInvalidToken so
// that callers cannot tell why a token was rejected. Expiry is checked
// against the current wall clock with ExpirySkew of leeway.
func (s *TokenService) Validate(text string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(text, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(ExpirySkew),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
