package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/sales-crm/internal/domain/activity"
)

const (
	keyPrefix     = "activity:stats:"
	generationKey = keyPrefix + "gen"
)

// StatsRedisCache keys every entry by a generation counter. Invalidate bumps
// the counter, so an entry computed against an older generation is never
// read again, even when it is written after the bump.
type StatsRedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStatsRedisCache(url string, ttl time.Duration) (*StatsRedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &StatsRedisCache{rdb: redis.NewClient(opts), ttl: ttl}, nil
}

// statsKey addresses the stats of userID, or of everyone when empty.
func statsKey(gen int64, userID string) string {
	if userID == "" {
		return fmt.Sprintf("%s%d:*all*", keyPrefix, gen)
	}
	return fmt.Sprintf("%s%d:u:%s", keyPrefix, gen, userID)
}

func (c *StatsRedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *StatsRedisCache) Get(ctx context.Context, gen int64, userID string) (*activity.Stats, bool, error) {
	val, err := c.rdb.Get(ctx, statsKey(gen, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var st activity.Stats
	if err := json.Unmarshal(val, &st); err != nil {
		return nil, false, err
	}
	return &st, true, nil
}

func (c *StatsRedisCache) Set(ctx context.Context, gen int64, userID string, st activity.Stats) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, statsKey(gen, userID), b, c.ttl).Err()
}

// Invalidate retires every cached entry. Old generations expire with the TTL.
func (c *StatsRedisCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, generationKey).Err()
}

func (c *StatsRedisCache) Close() error {
	return c.rdb.Close()
}
