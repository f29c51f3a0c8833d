package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"connected/pkg/apperr"
	"connected/pkg/repository"
)

// dbErr maps a repository error into the service taxonomy. A missing row
// becomes NotFound with msg; anything else is an opaque storage failure.
func dbErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	return apperr.Storage("storage failure", err)
}

// Retry actions replayed by the side-effect worker.
const (
	ActionRecordTopic        = "trending.record"
	ActionCreateNotification = "notification.create"
)

// RetryQueue receives side effects that failed after the primary write
// succeeded. Implemented by broker.Queue.
type RetryQueue interface {
	Enqueue(ctx context.Context, action string, data any) error
}

type sideEffects struct {
	log   *zap.Logger
	retry RetryQueue
}

// failed logs a best-effort side effect that could not be applied and hands
// it to the retry queue when one is configured. It never returns an error.
func (s sideEffects) failed(ctx context.Context, action string, data any, err error) {
	s.log.Warn("side effect failed", zap.String("action", action), zap.Error(err))
	if s.retry == nil {
		return
	}
	if qerr := s.retry.Enqueue(context.WithoutCancel(ctx), action, data); qerr != nil {
		s.log.Error("enqueue side effect retry", zap.String("action", action), zap.Error(qerr))
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
