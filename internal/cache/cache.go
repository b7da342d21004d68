// Package cache holds the alerts snapshot cache. The Redis implementation is
// used when REDIS_URL is reachable; otherwise the no-op one keeps every read a miss.
package cache

import (
	"context"
	"time"

	"avicola/internal/dto"
)

type AlertasCache interface {
	Get(ctx context.Context) (*dto.AlertasResponse, bool, error)
	Set(ctx context.Context, value *dto.AlertasResponse, ttl time.Duration) error
	Invalidar(ctx context.Context) error
}

type NoopAlertasCache struct{}

func (NoopAlertasCache) Get(_ context.Context) (*dto.AlertasResponse, bool, error) {
	return nil, false, nil
}

func (NoopAlertasCache) Set(_ context.Context, _ *dto.AlertasResponse, _ time.Duration) error {
	return nil
}

func (NoopAlertasCache) Invalidar(_ context.Context) error { return nil }
