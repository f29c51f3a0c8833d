// Package broker replays best-effort side effects that failed during a
// request. Jobs are envelopes kept in a Redis list.
package broker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"connected/pkg/envelope"
)

const (
	DefaultQueueKey    = "social:sidefx:retry"
	DefaultMaxAttempts = 5
)

type HandlerFunc func(ctx context.Context, job envelope.Envelope) error

type Queue struct {
	rdb         *redis.Client
	key         string
	maxAttempts int
	pollTimeout time.Duration
	log         *zap.Logger

	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// New connects to redisURL and verifies the connection.
func New(ctx context.Context, redisURL string, log *zap.Logger) (*Queue, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return NewWithClient(rdb, log), nil
}

func NewWithClient(rdb *redis.Client, log *zap.Logger) *Queue {
	return &Queue{
		rdb:         rdb,
		key:         DefaultQueueKey,
		maxAttempts: DefaultMaxAttempts,
		pollTimeout: 2 * time.Second,
		log:         log,
		handlers:    make(map[string]HandlerFunc),
	}
}

// On registers the replay handler for action.
func (q *Queue) On(action string, fn HandlerFunc) {
	q.mu.Lock()
	q.handlers[action] = fn
	q.mu.Unlock()
}

// Enqueue wraps data in a new job envelope and pushes it.
func (q *Queue) Enqueue(ctx context.Context, action string, data any) error {
	job, err := envelope.NewJob(action, data)
	if err != nil {
		return err
	}
	return q.push(ctx, job)
}

func (q *Queue) push(ctx context.Context, job envelope.Envelope) error {
	raw, err := job.Marshal()
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, q.key, raw).Err()
}

func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.key).Result()
}

// Run pops jobs until ctx is cancelled.
func (q *Queue) Run(ctx context.Context) {
	q.log.Info("side effect worker started", zap.String("queue", q.key))
	for {
		if ctx.Err() != nil {
			q.log.Info("side effect worker stopped")
			return
		}
		if _, err := q.ProcessOne(ctx); err != nil && ctx.Err() == nil {
			q.log.Error("side effect worker", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
}

// ProcessOne waits up to the poll timeout for a job and replays it. It
// reports whether a job was taken off the queue.
func (q *Queue) ProcessOne(ctx context.Context) (bool, error) {
	res, err := q.rdb.BRPop(ctx, q.pollTimeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	job, err := envelope.Unmarshal([]byte(res[1]))
	if err != nil {
		q.log.Error("drop malformed job", zap.Error(err))
		return true, nil
	}

	q.mu.RLock()
	fn, ok := q.handlers[job.Action]
	q.mu.RUnlock()
	if !ok {
		q.log.Warn("drop job without handler", zap.String("action", job.Action), zap.String("id", job.ID))
		return true, nil
	}

	herr := fn(ctx, job)
	if herr == nil {
		q.log.Info("side effect replayed", zap.String("action", job.Action), zap.String("id", job.ID), zap.Int("attempt", job.Attempt+1))
		return true, nil
	}

	next := job.Retry(herr)
	if next.Attempt >= q.maxAttempts {
		q.log.Error("side effect abandoned",
			zap.String("action", job.Action),
			zap.String("id", job.ID),
			zap.Int("attempts", next.Attempt),
			zap.Error(herr),
		)
		return true, nil
	}
	return true, q.push(context.WithoutCancel(ctx), next)
}

func (q *Queue) Close() error {
	return q.rdb.Close()
}
