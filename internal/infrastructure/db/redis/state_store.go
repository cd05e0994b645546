package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sniperthink/identity-service/internal/core/ports"
)

const defaultStateTTL = 10 * time.Minute

// StateStore binds OAuth state nonces to browser sessions in Redis.
// Key format: oauth_state:<session_id>. The TTL bounds how long a handshake
// may stay open between redirect and callback.
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateStore creates a StateStore wrapping the given Redis client.
func NewStateStore(client *redis.Client, ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	return &StateStore{client: client, ttl: ttl}
}

var _ ports.StateStore = (*StateStore)(nil)

func (s *StateStore) Issue(ctx context.Context, sessionID, state string) error {
	if err := s.client.Set(ctx, s.key(sessionID), state, s.ttl).Err(); err != nil {
		return fmt.Errorf("issue oauth state: %w", err)
	}
	return nil
}

// Consume atomically removes and returns the bound state, so a nonce can be
// checked at most once. A missing or expired binding yields an empty string.
func (s *StateStore) Consume(ctx context.Context, sessionID string) (string, error) {
	state, err := s.client.GetDel(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("consume oauth state: %w", err)
	}
	return state, nil
}

func (s *StateStore) key(sessionID string) string {
	return "oauth_state:" + sessionID
}
