package session

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/pharaonic/basket-backend/pkg/errors"
)

// Store is the slice of the redis client the server-side session needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Touch(ctx context.Context, key string, ttl time.Duration) error
	SessionKey(sessionID, field string) string
}

// ServerSession keeps the basket id inside a redis-backed session keyed by
// the client's session cookie. TTL is refreshed on every read so an active
// browsing session never expires mid-flight.
type ServerSession struct {
	store     Store
	sessionID string
	ttl       time.Duration
}

// NewServerSession builds a carrier bound to one session id.
func NewServerSession(store Store, sessionID string, ttl time.Duration) *ServerSession {
	return &ServerSession{store: store, sessionID: sessionID, ttl: ttl}
}

func (s *ServerSession) key() string {
	return s.store.SessionKey(s.sessionID, BasketIDKey)
}

// Current returns the basket id remembered for this session, "" when unset.
func (s *ServerSession) Current(ctx context.Context) (string, error) {
	value, err := s.store.Get(ctx, s.key())
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", nil
		}
		return "", apperrors.Wrap(apperrors.CodeDependency, err, "reading session")
	}
	if err := s.store.Touch(ctx, s.key(), s.ttl); err != nil {
		return "", apperrors.Wrap(apperrors.CodeDependency, err, "refreshing session ttl")
	}
	return value, nil
}

// Remember stores the basket id under the session.
func (s *ServerSession) Remember(ctx context.Context, basketID string) error {
	if err := s.store.Set(ctx, s.key(), basketID, s.ttl); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "writing session")
	}
	return nil
}

// Forget drops the basket id from the session.
func (s *ServerSession) Forget(ctx context.Context) error {
	if err := s.store.Del(ctx, s.key()); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "clearing session")
	}
	return nil
}
