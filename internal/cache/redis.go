package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/piwi3910/LoadPlanner/internal/model"
)

// Redis keeps plans as JSON values in Redis under "loadplan:<fingerprint>".
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis connects to the server at url (redis://host:port/db).
func NewRedis(url string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Redis{rdb: redis.NewClient(opt), ttl: ttl}, nil
}

// NewRedisClient wraps an existing client.
func NewRedisClient(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

func (c *Redis) key(fingerprint string) string { return "loadplan:" + fingerprint }

// Get returns the plan stored under key.
func (c *Redis) Get(ctx context.Context, key string) (model.LoadPlan, bool, error) {
	data, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.LoadPlan{}, false, nil
	}
	if err != nil {
		return model.LoadPlan{}, false, fmt.Errorf("redis get: %w", err)
	}
	var plan model.LoadPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return model.LoadPlan{}, false, fmt.Errorf("decode cached plan: %w", err)
	}
	return plan, true, nil
}

// Put stores plan under key with the cache TTL.
func (c *Redis) Put(ctx context.Context, key string, plan model.LoadPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (c *Redis) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close releases the client.
func (c *Redis) Close() error {
	return c.rdb.Close()
}
