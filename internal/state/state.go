package state

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// StateManager checkpoints catalog-import progress per store, so a
// restarted import resumes at the last enqueued batch instead of
// re-fetching the whole provider catalog.
type StateManager interface {
	GetLastImportedBatch(ctx context.Context, storeID string) (int, error)
	SetLastImportedBatch(ctx context.Context, storeID string, batch int) error
}

type redisStateManager struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisStateManager(redisClient *redis.Client) StateManager {
	return &redisStateManager{
		redisClient: redisClient,
		keyPrefix:   "trolley:progress:import:",
	}
}

func (s *redisStateManager) GetLastImportedBatch(ctx context.Context, storeID string) (int, error) {
	key := s.keyPrefix + storeID
	val, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil // No progress saved yet
		}
		return 0, fmt.Errorf("failed to get import progress for store %s: %w", storeID, err)
	}

	batch, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("failed to parse import progress for store %s: %w", storeID, err)
	}

	return batch, nil
}

func (s *redisStateManager) SetLastImportedBatch(ctx context.Context, storeID string, batch int) error {
	key := s.keyPrefix + storeID
	if err := s.redisClient.Set(ctx, key, batch, 0).Err(); err != nil {
		return fmt.Errorf("failed to set import progress for store %s: %w", storeID, err)
	}
	return nil
}
