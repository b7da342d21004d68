//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"avicola/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisAlertasCache(t *testing.T) {
	ctx := context.Background()
	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisAlertasCache(client)

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "cache vacía")

	snap := &dto.AlertasResponse{
		StockBajo:       []dto.ProductoAlerta{{Codigo: "POLLO-01", Stock: 3, StockMinimo: 10}},
		DiasVencimiento: 30,
		GeneradoEn:      time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, c.Set(ctx, snap, time.Minute))

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "POLLO-01", got.StockBajo[0].Codigo)
	assert.True(t, snap.GeneradoEn.Equal(got.GeneradoEn))

	require.NoError(t, c.Invalidar(ctx))
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
