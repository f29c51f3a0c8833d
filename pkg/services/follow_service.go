package services

import (
	"context"

	"connected/pkg/apperr"
	"connected/pkg/models"
	"connected/pkg/repository"
)

type FollowService interface {
	Follow(ctx context.Context, followerID, followingID int) error
	Unfollow(ctx context.Context, followerID, followingID int) error
	Stats(ctx context.Context, userID int) (models.FollowStats, error)
}

type followService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
	notify  NotificationService
}

func NewFollowService(store *repository.Store, notify NotificationService) FollowService {
	return &followService{follows: store.Follows, users: store.Users, notify: notify}
}

func (s *followService) Follow(ctx context.Context, followerID, followingID int) error {
	if followerID <= 0 {
		return apperr.Unauthorized("authentication required")
	}
	if followerID == followingID {
		return apperr.Validation("cannot follow yourself")
	}
	if followingID <= 0 {
		return apperr.NotFound("user not found")
	}
	if _, err := s.users.GetByID(ctx, followingID); err != nil {
		return dbErr(err, "user not found")
	}

	created, err := s.follows.Create(ctx, followerID, followingID)
	if err != nil {
		return dbErr(err, "")
	}
	if created {
		s.notify.Emit(ctx, models.Notification{
			UserID:       followingID,
			SourceUserID: followerID,
			Type:         models.NotificationFollow,
		})
	}
	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, followingID int) error {
	if followerID <= 0 {
		return apperr.Unauthorized("authentication required")
	}
	if _, err := s.follows.Delete(ctx, followerID, followingID); err != nil {
		return dbErr(err, "")
	}
	return nil
}

func (s *followService) Stats(ctx context.Context, userID int) (models.FollowStats, error) {
	if userID <= 0 {
		return models.FollowStats{}, apperr.NotFound("user not found")
	}
	followers, err := s.follows.CountFollowers(ctx, userID)
	if err != nil {
		return models.FollowStats{}, dbErr(err, "")
	}
	following, err := s.follows.CountFollowing(ctx, userID)
	if err != nil {
		return models.FollowStats{}, dbErr(err, "")
	}
	return models.FollowStats{Followers: followers, Following: following}, nil
}
