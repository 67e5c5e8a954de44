package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teamportal/identity-service/internal/core/domain"
)

const (
	statsKey = "admin:user_stats"
	statsTTL = 30 * time.Second
)

// StatsCache keeps the admin role-distribution snapshot in Redis for a
// short window so repeated dashboard loads do not re-tally the store.
type StatsCache struct {
	client *redis.Client
}

// NewStatsCache creates a StatsCache wrapping the given Redis client.
func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{client: client}
}

// GetStats returns the cached distribution, or (nil, nil) on a miss.
func (c *StatsCache) GetStats(ctx context.Context) (*domain.UserStats, error) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stats cache get: %w", err)
	}

	var stats domain.UserStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("stats cache decode: %w", err)
	}
	return &stats, nil
}

// SetStats stores the distribution, expiring after statsTTL.
func (c *StatsCache) SetStats(ctx context.Context, stats domain.UserStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}
	return c.client.Set(ctx, statsKey, raw, statsTTL).Err()
}
