package worker

// Background goroutine that moves due jobs from retry:{queue} back onto the
// queue. While the SMTP circuit breaker is open the tick is skipped so queued
// mail does not burn its attempts against a downed server.

import (
	"context"
	"strconv"
	"time"

	"avicola/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 50
)

type RetryCronConfig struct {
	RDB    *redis.Client
	Queues []string
	// CB is optional; nil means always promote.
	CB *infra.CircuitBreaker
}

// StartRetryCron ticks every 30s until ctx is cancelled.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Strs("queues", cfg.Queues).Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
					log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
					continue
				}
				for _, q := range cfg.Queues {
					if _, err := PromoteDueRetries(ctx, cfg.RDB, q, time.Now()); err != nil {
						log.Error().Err(err).Str("queue", q).Msg("retry_cron: promote failed")
					}
				}
			}
		}
	}()
}

// PromoteDueRetries pushes every job scored at or before now back onto queue
// and returns how many were moved. ZREM guards against two instances moving
// the same member.
func PromoteDueRetries(ctx context.Context, rdb *redis.Client, queue string, now time.Time) (int, error) {
	key := RetryPrefix + queue
	due, err := rdb.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: retryBatchSize,
	}).Result()
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, member := range due {
		removed, err := rdb.ZRem(ctx, key, member).Result()
		if err != nil {
			return moved, err
		}
		if removed == 0 {
			continue
		}
		if err := rdb.LPush(ctx, queue, member).Err(); err != nil {
			return moved, err
		}
		moved++
	}
	if moved > 0 {
		log.Info().Str("queue", queue).Int("count", moved).Msg("retry_cron: jobs requeued")
	}
	return moved, nil
}
