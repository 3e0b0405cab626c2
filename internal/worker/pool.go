package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEstadoCuenta = "jobs:estado_cuenta"
	QueueEmail        = "jobs:email"

	JobEstadoCuenta = "estado_cuenta"
	JobEmail        = "email"

	// MaxAttempts is how many times a job is tried before it lands in the DLQ.
	MaxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts,omitempty"`
}

// ErrPermanente marks a job failure that retrying cannot fix (bad payload,
// missing titular). Such jobs go straight to the DLQ.
var ErrPermanente = errors.New("error permanente")

// Handler processes the payload of one job type.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Pusher is the subset of *redis.Client used to enqueue jobs.
type Pusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb Pusher
}

func NewDispatcher(rdb Pusher) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEstadoCuenta pushes a statement-by-email job to Redis.
func (d *Dispatcher) EnqueueEstadoCuenta(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueEstadoCuenta, JobEstadoCuenta, payload)
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return d.push(ctx, queue, Job{Type: jobType, Payload: data})
}

func (d *Dispatcher) push(ctx context.Context, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := d.rdb.LPush(ctx, queue, encoded).Err(); err != nil {
		return err
	}
	jobsEncolados.WithLabelValues(job.Type).Inc()
	return nil
}

// Pool consumes both queues and routes each job to its Handler by type.
type Pool struct {
	rdb        *redis.Client
	dispatcher *Dispatcher
	handlers   map[string]Handler
}

func NewPool(rdb *redis.Client, dispatcher *Dispatcher) *Pool {
	return &Pool{rdb: rdb, dispatcher: dispatcher, handlers: map[string]Handler{}}
}

// Register binds a Handler to a job type.
func (p *Pool) Register(jobType string, h Handler) {
	p.handlers[jobType] = h
}

// Start launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP; zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	queues := []string{QueueEstadoCuenta, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop; waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

// processJob runs one job. Transient failures are re-enqueued until
// MaxAttempts; permanent ones and exhausted jobs are moved to the DLQ.
func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.dispatcher.rdb, queue, "desconocido", json.RawMessage(`null`), err.Error(), 0)
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		log.Error().Str("type", job.Type).Str("queue", queue).Msg("no handler for job type")
		SendToDLQ(ctx, p.dispatcher.rdb, queue, job.Type, job.Payload, "tipo de job sin handler", job.Attempts)
		return
	}

	start := time.Now()
	err := h.Process(ctx, job.Payload)
	jobDuracion.WithLabelValues(job.Type).Observe(time.Since(start).Seconds())
	if err == nil {
		jobsProcesados.WithLabelValues(job.Type, "ok").Inc()
		return
	}

	job.Attempts++
	if errors.Is(err, ErrPermanente) || job.Attempts >= MaxAttempts {
		jobsProcesados.WithLabelValues(job.Type, "dlq").Inc()
		SendToDLQ(ctx, p.dispatcher.rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}

	jobsProcesados.WithLabelValues(job.Type, "retry").Inc()
	log.Warn().Err(err).Str("type", job.Type).Int("attempt", job.Attempts).Msg("job failed, re-enqueueing")
	if perr := p.dispatcher.push(ctx, queue, job); perr != nil {
		log.Error().Err(perr).Str("queue", queue).Msg("failed to re-enqueue job")
	}
}
