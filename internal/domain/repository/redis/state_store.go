// File: internal/domain/repository/redis/state_store.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainErrors "github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/errors"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
)

const stateKeyPrefix = "oauth:state:"

// StateStore keeps in-flight OAuth state values in Redis. Keying by the
// state value itself (instead of one session scalar) lets several flows
// from the same browser run in parallel.
type StateStore struct {
	client *redis.Client
}

func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

func (s *StateStore) Save(ctx context.Context, state string, flow models.OAuthState, ttl time.Duration) error {
	payload, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("failed to marshal oauth state: %w", err)
	}
	if err := s.client.Set(ctx, stateKeyPrefix+state, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store oauth state: %w", err)
	}
	return nil
}

// Consume atomically fetches and deletes the state entry; an unknown or
// already-used state maps to ErrStateMismatch.
func (s *StateStore) Consume(ctx context.Context, state string) (*models.OAuthState, error) {
	payload, err := s.client.GetDel(ctx, stateKeyPrefix+state).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domainErrors.ErrStateMismatch
		}
		return nil, fmt.Errorf("failed to consume oauth state: %w", err)
	}
	var flow models.OAuthState
	if err := json.Unmarshal(payload, &flow); err != nil {
		return nil, fmt.Errorf("failed to unmarshal oauth state: %w", err)
	}
	return &flow, nil
}
