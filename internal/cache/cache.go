package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autoparts/content/internal/domain"

	"github.com/redis/go-redis/v9"
)

// absentMarker is cached for keys that have no stored value, so repeated
// lookups for entities without an override do not reach the database.
const absentMarker = "\x00absent"

// OverrideCache caches raw stored overrides and settings. Get returns
// found=false on a miss; a hit with present=false means the database had no
// value when it was cached.
type OverrideCache interface {
	GetTranslation(ctx context.Context, key string, lang domain.Language) (raw string, present bool, found bool, err error)
	SetTranslation(ctx context.Context, key string, lang domain.Language, raw string, present bool) error
	InvalidateTranslation(ctx context.Context, key string, lang domain.Language) error

	GetSetting(ctx context.Context, key string) (value []byte, present bool, found bool, err error)
	SetSetting(ctx context.Context, key string, value []byte, present bool) error
	InvalidateSetting(ctx context.Context, key string) error
}

type redisOverrideCache struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

func NewRedisOverrideCache(redisClient *redis.Client, ttl time.Duration) OverrideCache {
	return &redisOverrideCache{
		redisClient: redisClient,
		keyPrefix:   "content:",
		ttl:         ttl,
	}
}

func (c *redisOverrideCache) translationKey(key string, lang domain.Language) string {
	return c.keyPrefix + "translation:" + lang.String() + ":" + key
}

func (c *redisOverrideCache) settingKey(key string) string {
	return c.keyPrefix + "setting:" + key
}

func (c *redisOverrideCache) get(ctx context.Context, key string) (string, bool, bool, error) {
	val, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, false, nil // Not cached yet
		}
		return "", false, false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	if val == absentMarker {
		return "", false, true, nil
	}
	return val, true, true, nil
}

func (c *redisOverrideCache) set(ctx context.Context, key, value string, present bool) error {
	if !present {
		value = absentMarker
	}
	if err := c.redisClient.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

func (c *redisOverrideCache) del(ctx context.Context, key string) error {
	if err := c.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	return nil
}

func (c *redisOverrideCache) GetTranslation(ctx context.Context, key string, lang domain.Language) (string, bool, bool, error) {
	return c.get(ctx, c.translationKey(key, lang))
}

func (c *redisOverrideCache) SetTranslation(ctx context.Context, key string, lang domain.Language, raw string, present bool) error {
	return c.set(ctx, c.translationKey(key, lang), raw, present)
}

func (c *redisOverrideCache) InvalidateTranslation(ctx context.Context, key string, lang domain.Language) error {
	return c.del(ctx, c.translationKey(key, lang))
}

func (c *redisOverrideCache) GetSetting(ctx context.Context, key string) ([]byte, bool, bool, error) {
	val, present, found, err := c.get(ctx, c.settingKey(key))
	if err != nil || !present {
		return nil, present, found, err
	}
	return []byte(val), true, true, nil
}

func (c *redisOverrideCache) SetSetting(ctx context.Context, key string, value []byte, present bool) error {
	return c.set(ctx, c.settingKey(key), string(value), present)
}

func (c *redisOverrideCache) InvalidateSetting(ctx context.Context, key string) error {
	return c.del(ctx, c.settingKey(key))
}

// noopOverrideCache is used when caching is disabled.
type noopOverrideCache struct{}

func NewNoopOverrideCache() OverrideCache {
	return noopOverrideCache{}
}

func (noopOverrideCache) GetTranslation(context.Context, string, domain.Language) (string, bool, bool, error) {
	return "", false, false, nil
}

func (noopOverrideCache) SetTranslation(context.Context, string, domain.Language, string, bool) error {
	return nil
}

func (noopOverrideCache) InvalidateTranslation(context.Context, string, domain.Language) error {
	return nil
}

func (noopOverrideCache) GetSetting(context.Context, string) ([]byte, bool, bool, error) {
	return nil, false, false, nil
}

func (noopOverrideCache) SetSetting(context.Context, string, []byte, bool) error {
	return nil
}

func (noopOverrideCache) InvalidateSetting(context.Context, string) error {
	return nil
}
