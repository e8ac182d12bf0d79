package redisstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/authhub/modules/auth"
)

const keyPrefix = "oauth_state:"

// Store keeps one-time OAuth state tokens in Redis. The TTL bounds the
// round-trip through the provider; GETDEL makes consumption atomic, so a
// replayed callback with the same state token always fails.
type Store struct {
	client redis.UniversalClient
}

// New creates a state store on the given client.
func New(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// StoreState records the state token with its entry intent.
func (s *Store) StoreState(ctx context.Context, state string, intent auth.Intent, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+state, string(intent), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store oauth state: %w", err)
	}
	return nil
}

// ConsumeState resolves and deletes the state token in one step. Unknown,
// expired, and already-consumed tokens are indistinguishable by design.
func (s *Store) ConsumeState(ctx context.Context, state string) (auth.Intent, error) {
	val, err := s.client.GetDel(ctx, keyPrefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", auth.ErrInvalidState
		}
		return "", fmt.Errorf("failed to consume oauth state: %w", err)
	}

	intent := auth.Intent(val)
	if !intent.Valid() {
		return "", auth.ErrInvalidState
	}
	return intent, nil
}

var _ auth.StateStore = (*Store)(nil)
