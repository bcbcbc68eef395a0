package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSessionTTL is the idle timeout for browser sessions. Each
// successful lookup refreshes the TTL, so a session dies only after the
// user has been inactive for this long.
const DefaultSessionTTL = 12 * time.Hour

// SessionStore holds the server-side state behind the opaque session
// cookie: a mapping from session ID to the authenticated username.
// Sessions are created only on successful form login and destroyed on
// logout or idle expiry.
type SessionStore interface {
	// Create registers a new session for the username and returns the
	// opaque session ID to be set as the cookie value.
	Create(ctx context.Context, username string) (string, error)
	// Lookup resolves a session ID to its username, refreshing the idle
	// timeout. Returns ErrNoSession for unknown or expired IDs.
	Lookup(ctx context.Context, id string) (string, error)
	// Destroy removes a session. Destroying an unknown ID is not an error.
	Destroy(ctx context.Context, id string) error
}

// newSessionID returns a 64-hex-char opaque identifier from 32 bytes of
// cryptographically secure randomness.
func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// RedisSessionStore keeps sessions in Redis under "session:<id>" keys
// with the idle TTL applied at creation and refreshed on every lookup.
// Concurrency is delegated to Redis itself; this type holds no mutable
// state of its own.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore wraps a connected Redis client. A non-positive
// ttl falls back to DefaultSessionTTL.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(id string) string { return "session:" + id }

// Create stores a new session with the configured TTL.
func (s *RedisSessionStore) Create(ctx context.Context, username string) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, sessionKey(id), username, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Lookup resolves the session and slides its expiry forward.
func (s *RedisSessionStore) Lookup(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", ErrNoSession
	}
	username, err := s.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	// Sliding expiry. A failed refresh does not invalidate the lookup.
	_ = s.client.Expire(ctx, sessionKey(id), s.ttl).Err()
	return username, nil
}

// Destroy deletes the session key.
func (s *RedisSessionStore) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, sessionKey(id)).Err()
}

// MemorySessionStore is the in-process fallback used when Redis is not
// reachable at startup, and by tests. Expired entries are reaped lazily
// on lookup; there is no background sweep because expiry is re-checked
// on every request anyway.
type MemorySessionStore struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
	m   map[string]memorySession
}

type memorySession struct {
	username  string
	expiresAt time.Time
}

// NewMemorySessionStore builds an empty in-memory store. A non-positive
// ttl falls back to DefaultSessionTTL.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemorySessionStore{
		ttl: ttl,
		now: time.Now,
		m:   make(map[string]memorySession),
	}
}

// Create registers a session in memory.
func (s *MemorySessionStore) Create(ctx context.Context, username string) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = memorySession{username: username, expiresAt: s.now().Add(s.ttl)}
	return id, nil
}

// Lookup resolves a session, reaping it if expired and sliding the
// expiry forward otherwise.
func (s *MemorySessionStore) Lookup(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[id]
	if !ok {
		return "", ErrNoSession
	}
	if s.now().After(sess.expiresAt) {
		delete(s.m, id)
		return "", ErrNoSession
	}
	sess.expiresAt = s.now().Add(s.ttl)
	s.m[id] = sess
	return sess.username, nil
}

// Destroy removes the session if present.
func (s *MemorySessionStore) Destroy(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}
