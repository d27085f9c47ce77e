package userdirectory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/erp/customer-service/internal/domain/directory"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisSummaryCache implements SummaryCache on Redis. Suitable for
// deployments with multiple instances sharing the directory cache.
type RedisSummaryCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSummaryCache creates a Redis-backed summary cache with an
// existing client
func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{
		client:    client,
		keyPrefix: "directory:user:",
		ttl:       ttl,
	}
}

func (c *RedisSummaryCache) key(id uuid.UUID) string {
	return c.keyPrefix + id.String()
}

// GetMany returns the cached summaries among the given ids using one MGET
func (c *RedisSummaryCache) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]directory.UserSummary, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]directory.UserSummary{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.key(id)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read directory cache: %w", err)
	}

	found := make(map[uuid.UUID]directory.UserSummary)
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var summary directory.UserSummary
		if err := json.Unmarshal([]byte(raw), &summary); err != nil {
			// Stale or corrupt entry, treat as a miss
			continue
		}
		found[ids[i]] = summary
	}
	return found, nil
}

// SetMany stores the given summaries with the cache TTL in one pipeline
func (c *RedisSummaryCache) SetMany(ctx context.Context, summaries []directory.UserSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for _, s := range summaries {
		payload, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to encode directory cache entry: %w", err)
		}
		pipe.Set(ctx, c.key(s.ID), payload, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write directory cache: %w", err)
	}
	return nil
}
