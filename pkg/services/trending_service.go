package services

import (
	"context"

	"go.uber.org/zap"

	"connected/pkg/envelope"
	"connected/pkg/models"
	"connected/pkg/repository"
)

const trendingLimit = 10

type TrendingService interface {
	// RecordHashtags bumps the counter of every hashtag found in content.
	// Best effort: failures are logged and queued for retry, never returned.
	RecordHashtags(ctx context.Context, content string)
	GetTrending(ctx context.Context) ([]models.TrendingTopic, error)
	ReplayRecord(ctx context.Context, job envelope.Envelope) error
}

type topicJob struct {
	Topic string `json:"topic"`
}

type trendingService struct {
	repo repository.TrendingRepository
	log  *zap.Logger
	fx   sideEffects
}

func NewTrendingService(repo repository.TrendingRepository, retry RetryQueue, log *zap.Logger) TrendingService {
	return &trendingService{
		repo: repo,
		log:  log,
		fx:   sideEffects{log: log, retry: retry},
	}
}

func (s *trendingService) RecordHashtags(ctx context.Context, content string) {
	for _, tag := range ExtractHashtags(content) {
		if _, err := s.repo.Increment(ctx, tag); err != nil {
			s.fx.failed(ctx, ActionRecordTopic, topicJob{Topic: tag}, err)
		}
	}
}

func (s *trendingService) GetTrending(ctx context.Context) ([]models.TrendingTopic, error) {
	topics, err := s.repo.Top(ctx, trendingLimit)
	if err != nil {
		return nil, dbErr(err, "")
	}
	return topics, nil
}

func (s *trendingService) ReplayRecord(ctx context.Context, job envelope.Envelope) error {
	data, err := envelope.ParseData[topicJob](job)
	if err != nil {
		return err
	}
	t, err := s.repo.Increment(ctx, data.Topic)
	if err != nil {
		return err
	}
	s.log.Info("trending topic replayed", zap.String("topic", t.Topic), zap.Int("post_count", t.PostCount))
	return nil
}
