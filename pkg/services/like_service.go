package services

import (
	"context"

	"connected/pkg/apperr"
	"connected/pkg/models"
	"connected/pkg/repository"
)

type LikeService interface {
	// Like is idempotent; a repeated like neither counts twice nor notifies
	// twice. Both operations return the post composed for the actor.
	Like(ctx context.Context, userID, postID int) (models.PostWithUser, error)
	Unlike(ctx context.Context, userID, postID int) (models.PostWithUser, error)
}

type likeService struct {
	likes  repository.LikeRepository
	posts  repository.PostRepository
	feed   PostService
	notify NotificationService
}

func NewLikeService(store *repository.Store, feed PostService, notify NotificationService) LikeService {
	return &likeService{
		likes:  store.Likes,
		posts:  store.Posts,
		feed:   feed,
		notify: notify,
	}
}

func (s *likeService) target(ctx context.Context, userID, postID int) (models.Post, error) {
	if userID <= 0 {
		return models.Post{}, apperr.Unauthorized("authentication required")
	}
	if postID <= 0 {
		return models.Post{}, apperr.NotFound("post not found")
	}
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return models.Post{}, dbErr(err, "post not found")
	}
	return p, nil
}

func (s *likeService) Like(ctx context.Context, userID, postID int) (models.PostWithUser, error) {
	post, err := s.target(ctx, userID, postID)
	if err != nil {
		return models.PostWithUser{}, err
	}

	_, created, err := s.likes.Create(ctx, postID, userID)
	if err != nil {
		return models.PostWithUser{}, dbErr(err, "post not found")
	}
	if created {
		s.notify.Emit(ctx, models.Notification{
			UserID:       post.UserID,
			SourceUserID: userID,
			Type:         models.NotificationLike,
			PostID:       &post.ID,
		})
	}

	return s.feed.ComposePost(ctx, postID, userID)
}

func (s *likeService) Unlike(ctx context.Context, userID, postID int) (models.PostWithUser, error) {
	if _, err := s.target(ctx, userID, postID); err != nil {
		return models.PostWithUser{}, err
	}
	if _, err := s.likes.Delete(ctx, postID, userID); err != nil {
		return models.PostWithUser{}, dbErr(err, "")
	}
	return s.feed.ComposePost(ctx, postID, userID)
}
