package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"avicola/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"
	// RetryPrefix + queue is a sorted set of jobs waiting for their next attempt,
	// scored by the unix time they become due.
	RetryPrefix = "retry:"

	TipoEmail = "email"

	MaxEmailAttempts = 5
)

// Job is the envelope pushed to every queue.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
	Enqueued time.Time       `json:"enqueued_at"`
}

// Handler processes one job payload. A returned error schedules a retry.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists; the pool pops them with BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes an email job. It satisfies service.EmailQueue.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, msg dto.EmailMensaje) error {
	return d.enqueue(ctx, QueueEmail, TipoEmail, msg)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data, Enqueued: time.Now().UTC()})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// ── Pool ──────────────────────────────────────────────────────────────────────

// Pool runs N goroutines blocked on BRPOP over the registered queues.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler // by queue
	maxTries map[string]int
	wg       sync.WaitGroup
}

func NewPool(rdb *redis.Client) *Pool {
	return &Pool{rdb: rdb, handlers: map[string]Handler{}, maxTries: map[string]int{}}
}

// Register binds a queue to its handler and maximum number of attempts.
func (p *Pool) Register(queue string, h Handler, maxAttempts int) {
	p.handlers[queue] = h
	p.maxTries[queue] = maxAttempts
}

func (p *Pool) queues() []string {
	qs := make([]string, 0, len(p.handlers))
	for q := range p.handlers {
		qs = append(qs, q)
	}
	return qs
}

// Start launches numWorkers goroutines. They return when ctx is cancelled.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.run(ctx, id)
		}(i)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", p.queues()).Msg("worker pool started")
}

// Wait blocks until every worker has returned.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	queues := p.queues()
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		default:
		}
		// waits up to 5s then loops to check ctx
		result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
		if err != nil {
			if err != redis.Nil && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("worker: BRPOP falló")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.processJob(ctx, result[0], result[1])
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("worker: job ilegible")
		enviarADLQ(ctx, p.rdb, queue, Job{Type: "desconocido", Payload: json.RawMessage(fmt.Sprintf("%q", raw))}, "unmarshal: "+err.Error())
		return
	}
	h, ok := p.handlers[queue]
	if !ok {
		log.Error().Str("queue", queue).Msg("worker: cola sin handler")
		return
	}

	job.Attempts++
	err := h.Process(ctx, job.Payload)
	if err == nil {
		return
	}
	if job.Attempts >= p.maxTries[queue] {
		enviarADLQ(ctx, p.rdb, queue, job, err.Error())
		return
	}
	if err := scheduleRetry(ctx, p.rdb, queue, job, time.Now()); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("worker: no se pudo reprogramar el job")
		enviarADLQ(ctx, p.rdb, queue, job, "retry: "+err.Error())
		return
	}
	log.Warn().Err(err).Str("queue", queue).Int("attempt", job.Attempts).Msg("worker: job fallido, reintento programado")
}

// RetryBackoff is 30s doubled per attempt, capped at 30 minutes.
func RetryBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := 30 * time.Second
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= 30*time.Minute {
			return 30 * time.Minute
		}
	}
	return d
}

func scheduleRetry(ctx context.Context, rdb *redis.Client, queue string, job Job, now time.Time) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	due := now.Add(RetryBackoff(job.Attempts))
	return rdb.ZAdd(ctx, RetryPrefix+queue, redis.Z{Score: float64(due.Unix()), Member: data}).Err()
}
