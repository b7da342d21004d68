package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DLQPrefix namespaces dead letters: a job that exhausts its attempts on queue q
// is pushed to dlq:q and stays there until someone inspects it.
const DLQPrefix = "dlq:"

// DLQEntry is the failed job plus why and when it was given up.
type DLQEntry struct {
	Job
	Queue    string    `json:"queue"`
	Motivo   string    `json:"motivo"`
	FailedAt time.Time `json:"failed_at"`
}

// enviarADLQ never fails the caller; a lost dead letter is logged at Error.
func enviarADLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, motivo string) {
	data, err := json.Marshal(DLQEntry{Job: job, Queue: queue, Motivo: motivo, FailedAt: time.Now().UTC()})
	if err == nil {
		err = rdb.LPush(ctx, DLQPrefix+queue, data).Err()
	}
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Str("type", job.Type).Msg("dlq: job perdido")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("type", job.Type).
		Int("attempts", job.Attempts).
		Str("motivo", motivo).
		Msg("dlq: job descartado")
}

func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// ListDLQ returns up to limit entries, newest first. Unreadable entries are skipped.
func ListDLQ(ctx context.Context, rdb *redis.Client, queue string, limit int64) ([]DLQEntry, error) {
	raws, err := rdb.LRange(ctx, DLQPrefix+queue, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]DLQEntry, 0, len(raws))
	for _, raw := range raws {
		var e DLQEntry
		if json.Unmarshal([]byte(raw), &e) == nil {
			out = append(out, e)
		}
	}
	return out, nil
}
