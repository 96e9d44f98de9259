package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"visaflow/internal/process/models"
	id "visaflow/pkg/domain"
	"visaflow/pkg/platform/sentinel"
)

const (
	defaultKeyPrefix = "visaflow:process:"
	defaultCacheTTL  = 30 * 24 * time.Hour
)

// RedisCache is the local cache of raw process records. Entries expire after
// the TTL; an expired entry simply falls back to the remote record.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache wraps an existing client. A non-positive ttl uses the default.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{client: client, prefix: defaultKeyPrefix, ttl: ttl}
}

func (c *RedisCache) key(userID id.UserID) string {
	return c.prefix + userID.String()
}

func (c *RedisCache) Load(ctx context.Context, userID id.UserID) (models.RawRecord, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.RawRecord{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.RawRecord{}, fmt.Errorf("load cached record: %w", errors.Join(sentinel.ErrUnavailable, err))
	}

	var rec models.RawRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.RawRecord{}, fmt.Errorf("decode cached record: %w", errors.Join(sentinel.ErrCorrupt, err))
	}
	return rec, nil
}

func (c *RedisCache) Save(ctx context.Context, userID id.UserID, rec models.RawRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := c.client.Set(ctx, c.key(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("save cached record: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, userID id.UserID) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("delete cached record: %w", err)
	}
	return nil
}
