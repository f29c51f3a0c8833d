package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"connected/pkg/apperr"
	"connected/pkg/envelope"
	"connected/pkg/models"
	"connected/pkg/repository"
)

type NotificationService interface {
	// Emit records a notification for n.UserID caused by n.SourceUserID.
	// Self-interaction is skipped. Best effort: storage failures are logged
	// and queued for retry, never returned.
	Emit(ctx context.Context, n models.Notification)
	ListForUser(ctx context.Context, userID int) ([]models.NotificationWithUsers, error)
	MarkRead(ctx context.Context, id, userID int) (models.Notification, error)
	ReplayCreate(ctx context.Context, job envelope.Envelope) error
}

type notificationService struct {
	repo  repository.NotificationRepository
	users repository.UserRepository
	posts repository.PostRepository
	log   *zap.Logger
	fx    sideEffects
}

func NewNotificationService(store *repository.Store, retry RetryQueue, log *zap.Logger) NotificationService {
	return &notificationService{
		repo:  store.Notifications,
		users: store.Users,
		posts: store.Posts,
		log:   log,
		fx:    sideEffects{log: log, retry: retry},
	}
}

func (s *notificationService) Emit(ctx context.Context, n models.Notification) {
	if n.UserID == n.SourceUserID {
		return
	}
	created, err := s.repo.Create(ctx, n)
	if err != nil {
		s.fx.failed(ctx, ActionCreateNotification, n, err)
		return
	}
	s.log.Debug("notification emitted",
		zap.Int("id", created.ID),
		zap.String("type", string(created.Type)),
		zap.Int("recipient", created.UserID),
	)
}

func (s *notificationService) ListForUser(ctx context.Context, userID int) ([]models.NotificationWithUsers, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, dbErr(err, "")
	}

	users := make(map[int]models.User)
	out := make([]models.NotificationWithUsers, 0, len(list))
	for _, n := range list {
		src, ok := users[n.SourceUserID]
		if !ok {
			src, err = s.users.GetByID(ctx, n.SourceUserID)
			if err != nil {
				return nil, dbErr(err, "user not found")
			}
			users[n.SourceUserID] = src
		}

		item := models.NotificationWithUsers{Notification: n, SourceUser: src}
		if n.PostID != nil {
			p, err := s.posts.GetByID(ctx, *n.PostID)
			switch {
			case err == nil:
				item.Post = &p
			case !errors.Is(err, repository.ErrNotFound):
				return nil, dbErr(err, "")
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID int) (models.Notification, error) {
	if id <= 0 {
		return models.Notification{}, apperr.NotFound("notification not found")
	}
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.Notification{}, dbErr(err, "notification not found")
	}
	if n.UserID != userID {
		return models.Notification{}, apperr.Forbidden("notification belongs to another user")
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return models.Notification{}, dbErr(err, "notification not found")
	}
	n.Read = true
	return n, nil
}

func (s *notificationService) ReplayCreate(ctx context.Context, job envelope.Envelope) error {
	n, err := envelope.ParseData[models.Notification](job)
	if err != nil {
		return err
	}
	_, err = s.repo.Create(ctx, n)
	return err
}
