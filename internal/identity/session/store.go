// Package session validates bearer tokens for the task API. The
// authentication provider itself is an external collaborator; this package
// only answers "which user does this token belong to".
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidSession is returned for unknown or expired tokens.
var ErrInvalidSession = errors.New("invalid or expired session")

// Store maps session tokens to user ids.
type Store interface {
	// Issue creates a session for the user and returns its token.
	Issue(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error)
	// Resolve returns the user id for a token, or ErrInvalidSession.
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
	// Revoke invalidates a token. Revoking an unknown token is a no-op.
	Revoke(ctx context.Context, token string) error
}

// MemoryStore is the local-mode session store.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

// Issue creates a session for the user.
func (s *MemoryStore) Issue(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memorySession{userID: userID, expiresAt: s.now().Add(ttl)}

	return token, nil
}

// Resolve returns the user id for a token.
func (s *MemoryStore) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return uuid.Nil, ErrInvalidSession
	}
	if s.now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return uuid.Nil, ErrInvalidSession
	}
	return sess.userID, nil
}

// Revoke invalidates a token.
func (s *MemoryStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
