package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"avicola/internal/dto"

	"github.com/redis/go-redis/v9"
)

const alertasKey = "cache:alertas"

type RedisAlertasCache struct {
	client *redis.Client
}

func NewRedisAlertasCache(client *redis.Client) *RedisAlertasCache {
	return &RedisAlertasCache{client: client}
}

func (c *RedisAlertasCache) Get(ctx context.Context) (*dto.AlertasResponse, bool, error) {
	val, err := c.client.Get(ctx, alertasKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var resp dto.AlertasResponse
	if err := json.Unmarshal(val, &resp); err != nil {
		return nil, false, err
	}
	return &resp, true, nil
}

func (c *RedisAlertasCache) Set(ctx context.Context, value *dto.AlertasResponse, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, alertasKey, payload, ttl).Err()
}

func (c *RedisAlertasCache) Invalidar(ctx context.Context) error {
	return c.client.Del(ctx, alertasKey).Err()
}
